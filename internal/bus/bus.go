// Package bus implements the named-channel message bridge: sendMessage
// (synchronous) and sendMessageAsync (promise-returning) globals
// exposed to every script, backed by host callbacks registered through
// on_message/remove_callback/remove_channel/clear_message_system.
//
// The shape is adapted from a speedboat-era comm package design
// (comm.Message / comm.Processor): a directed envelope fanned out to a
// list of registered handlers, except here the envelope is the in-
// process (channel, args) pair rather than a wire-encoded frame, since
// the host and the interpreter share a process.
package bus

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/kodjodevf/js-interpreter-sub006/internal/jserror"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

// Handler is one registered host callback for a channel. It receives the
// channel name and the variadic argument list sendMessage/
// sendMessageAsync were called with, and returns a result value or an
// error that is reified into a script-visible throw.
type Handler func(channel string, args []value.Value) (value.Value, error)

// AsyncHandler is the asynchronous counterpart: it returns a future,
// modeled here as a function the caller invokes with a completion
// callback, since a handler may return a host future. Synchronous
// Handlers may also be registered for async sends; Bus.SendAsync
// adapts them by calling back immediately.
type AsyncHandler func(channel string, args []value.Value, done func(value.Value, error))

type registration struct {
	sync Handler
	async AsyncHandler
}

// Bus is one interpreter instance's message bus, keyed by interpreter-id
// so that host callback registrations do not cross instances — ID
// identifies this bus for diagnostics and for a host that maintains its
// own registry of buses per embedded interpreter.
type Bus struct {
	ID uuid.UUID
	channels map[string][]*registration
}

// New creates a bus with a fresh process-unique identity.
func New() *Bus {
	return &Bus{ID: uuid.New(), channels: make(map[string][]*registration)}
}

// OnMessage registers a synchronous handler for channel, in registration
// order (the host's on_message call).
func (b *Bus) OnMessage(channel string, h Handler) {
	b.channels[channel] = append(b.channels[channel], &registration{sync: h})
}

// OnMessageAsync registers an asynchronous handler for channel.
func (b *Bus) OnMessageAsync(channel string, h AsyncHandler) {
	b.channels[channel] = append(b.channels[channel], &registration{async: h})
}

// Token identifies one registration, as returned by OnMessageToken or
// OnMessageAsyncToken; Go handlers are not comparable, so RemoveCallback
// takes a Token and removes the registration it points at.
type Token struct {
	channel string
	reg *registration
}

// OnMessageToken is OnMessage but returns a removal Token, the shape
// register_global-backed host code uses to later call RemoveCallback.
func (b *Bus) OnMessageToken(channel string, h Handler) Token {
	r := &registration{sync: h}
	b.channels[channel] = append(b.channels[channel], r)
	return Token{channel: channel, reg: r}
}

func (b *Bus) OnMessageAsyncToken(channel string, h AsyncHandler) Token {
	r := &registration{async: h}
	b.channels[channel] = append(b.channels[channel], r)
	return Token{channel: channel, reg: r}
}

// RemoveCallback removes the single registration identified by tok (the
// host's remove_callback call).
func (b *Bus) RemoveCallback(tok Token) {
	regs := b.channels[tok.channel]
	for i, r := range regs {
		if r == tok.reg {
			b.channels[tok.channel] = append(regs[:i], regs[i+1:]...)
			return
		}
	}
}

// RemoveChannel drops every handler registered for channel (the host's
// remove_channel call).
func (b *Bus) RemoveChannel(channel string) {
	delete(b.channels, channel)
}

// Clear drops every channel's registrations (the host's
// clear_message_system call).
func (b *Bus) Clear() {
	b.channels = make(map[string][]*registration)
}

// Send invokes every registered handler for channel in registration
// order with args, returning the LAST handler's result. A handler that
// panics is reified via jserror.FromHostPanic rather than crashing the
// evaluator.
func (b *Bus) Send(channel string, args []value.Value) (result value.Value, err error) {
	regs := b.channels[channel]
	if len(regs) == 0 {
		return value.Undefined, nil
	}
	result = value.Undefined
	for _, r := range regs {
		v, callErr := b.invokeSync(channel, r, args)
		if callErr != nil {
			return value.Undefined, callErr
		}
		result = v
	}
	return result, nil
}

func (b *Bus) invokeSync(channel string, r *registration, args []value.Value) (v value.Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = jserror.FromHostPanic(rec)
		}
	}()
	if r.sync != nil {
		return r.sync(channel, args)
	}
	if r.async != nil {
		// A synchronous send against an async-registered handler blocks
		// for its immediate (non-deferred) branch only; true asynchrony
		// requires SendAsync.
		var result value.Value
		var callErr error
		done := false
		r.async(channel, args, func(rv value.Value, e error) {
			result, callErr, done = rv, e, true
		})
		if !done {
			return value.Undefined, fmt.Errorf("async handler on channel %q did not complete synchronously", channel)
		}
		return result, callErr
	}
	return value.Undefined, nil
}

// SendAsync invokes every registered handler for channel and settles via
// the supplied settle callback once every handler has completed — the
// last handler's result/rejection settles the Promise, mirroring Send's
// last-handler's-result rule; internal/vm's Promise wiring supplies
// settle as resolve/reject from a newly-created Promise capability, and
// schedule as eventloop.Queue.Enqueue so the continuation runs as a
// microtask, and the returned promise settles when the underlying
// future settles.
func (b *Bus) SendAsync(channel string, args []value.Value, schedule func(func), settle func(value.Value, error)) {
	regs := b.channels[channel]
	if len(regs) == 0 {
		schedule(func() { settle(value.Undefined, nil) })
		return
	}
	pending := len(regs)
	lastIdx := len(regs) - 1
	vals := make([]value.Value, len(regs))
	errs := make([]error, len(regs))
	for i, r := range regs {
		i, r := i, r
		if r.sync != nil {
			v, err := b.invokeSync(channel, r, args)
			pending--
			vals[i], errs[i] = v, err
			if pending == 0 {
				schedule(func() { settle(vals[lastIdx], errs[lastIdx]) })
			}
			continue
		}
		r.async(channel, args, func(v value.Value, err error) {
			schedule(func() {
				pending--
				vals[i], errs[i] = v, err
				if pending == 0 {
					settle(vals[lastIdx], errs[lastIdx])
				}
			})
		})
	}
}
