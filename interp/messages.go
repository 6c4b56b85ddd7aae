package interp

import (
	"github.com/kodjodevf/js-interpreter-sub006/internal/bus"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

// MessageHandler is a host callback registered against a channel via
// on_message(channel, fn), invoked for both sendMessage and
// sendMessageAsync script calls on that channel.
type MessageHandler func(channel string, args []Value) (Value, error)

// CallbackToken identifies one on_message registration, the handle
// remove_callback needs to remove a single handler without dropping the
// whole channel.
type CallbackToken struct{ tok bus.Token }

// OnMessage registers a host handler for channel, returning a token
// usable with RemoveCallback.
func (in *Interpreter) OnMessage(channel string, h MessageHandler) CallbackToken {
	tok := in.vm.Bus.OnMessageToken(channel, func(ch string, args []value.Value) (value.Value, error) {
		hostArgs := make([]Value, len(args))
		for i, a := range args {
			hostArgs[i] = a
		}
		result, err := h(ch, hostArgs)
		if err != nil {
			return nil, err
		}
		if result == nil {
			return value.Undefined, nil
		}
		return asInternalValue(result), nil
	})
	return CallbackToken{tok: tok}
}

// RemoveCallback unregisters a single handler previously returned by
// OnMessage.
func (in *Interpreter) RemoveCallback(tok CallbackToken) {
	in.vm.Bus.RemoveCallback(tok.tok)
}

// RemoveChannel drops every handler registered on channel.
func (in *Interpreter) RemoveChannel(channel string) {
	in.vm.Bus.RemoveChannel(channel)
}

// ClearMessageSystem drops every channel's registrations.
func (in *Interpreter) ClearMessageSystem() {
	in.vm.Bus.Clear()
}
