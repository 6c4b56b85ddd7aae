package bus_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodjodevf/js-interpreter-sub006/internal/bus"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

func TestSendWithNoHandlersReturnsUndefined(t *testing.T) {
	b := bus.New()
	v, err := b.Send("unused", nil)
	require.NoError(t, err)
	assert.Equal(t, value.Undefined, v)
}

func TestSendReturnsLastHandlerResult(t *testing.T) {
	b := bus.New()
	b.OnMessage("ch", func(channel string, args []value.Value) (value.Value, error) {
		return value.String("first"), nil
	})
	b.OnMessage("ch", func(channel string, args []value.Value) (value.Value, error) {
		return value.String("second"), nil
	})

	v, err := b.Send("ch", nil)
	require.NoError(t, err)
	assert.Equal(t, value.String("second"), v)
}

func TestSendPropagatesHandlerError(t *testing.T) {
	b := bus.New()
	want := errors.New("handler failed")
	b.OnMessage("ch", func(channel string, args []value.Value) (value.Value, error) {
		return nil, want
	})

	_, err := b.Send("ch", nil)
	assert.Equal(t, want, err)
}

func TestSendRecoversHandlerPanicAsJSError(t *testing.T) {
	b := bus.New()
	b.OnMessage("ch", func(channel string, args []value.Value) (value.Value, error) {
		panic("boom")
	})

	_, err := b.Send("ch", nil)
	require.Error(t, err, "a panicking handler must not crash the caller")
	assert.Contains(t, err.Error(), "boom")
}

func TestRemoveCallbackByToken(t *testing.T) {
	b := bus.New()
	tok := b.OnMessageToken("ch", func(channel string, args []value.Value) (value.Value, error) {
		return value.String("should not run"), nil
	})
	b.RemoveCallback(tok)

	v, err := b.Send("ch", nil)
	require.NoError(t, err)
	assert.Equal(t, value.Undefined, v, "removed handler must not fire")
}

func TestRemoveChannelDropsAllHandlers(t *testing.T) {
	b := bus.New()
	b.OnMessage("ch", func(channel string, args []value.Value) (value.Value, error) {
		return value.String("x"), nil
	})
	b.RemoveChannel("ch")

	v, _ := b.Send("ch", nil)
	assert.Equal(t, value.Undefined, v)
}

func TestClearDropsEveryChannel(t *testing.T) {
	b := bus.New()
	b.OnMessage("a", func(channel string, args []value.Value) (value.Value, error) { return value.Number(1), nil })
	b.OnMessage("b", func(channel string, args []value.Value) (value.Value, error) { return value.Number(2), nil })
	b.Clear()

	va, _ := b.Send("a", nil)
	vb, _ := b.Send("b", nil)
	assert.Equal(t, value.Undefined, va)
	assert.Equal(t, value.Undefined, vb)
}

func TestSendAsyncSettlesAfterAllHandlersComplete(t *testing.T) {
	b := bus.New()
	b.OnMessageAsync("ch", func(channel string, args []value.Value, done func(value.Value, error)) {
		done(value.String("async-result"), nil)
	})

	var scheduled []func()
	schedule := func(f func()) { scheduled = append(scheduled, f) }

	var settledValue value.Value
	var settledErr error
	settle := func(v value.Value, err error) { settledValue, settledErr = v, err }

	b.SendAsync("ch", nil, schedule, settle)
	require.Len(t, scheduled, 1, "settlement must be deferred onto the scheduler, not run inline")

	scheduled[0]()
	require.NoError(t, settledErr)
	assert.Equal(t, value.String("async-result"), settledValue)
}

func TestSendAsyncWithNoHandlersSchedulesUndefinedSettlement(t *testing.T) {
	b := bus.New()
	var ran bool
	schedule := func(f func()) { ran = true; f() }

	var settledValue value.Value
	settle := func(v value.Value, err error) { settledValue = v }

	b.SendAsync("empty", nil, schedule, settle)
	assert.True(t, ran)
	assert.Equal(t, value.Undefined, settledValue)
}

func TestBusIDIsUniquePerInstance(t *testing.T) {
	a, b := bus.New(), bus.New()
	assert.NotEqual(t, a.ID, b.ID)
}
