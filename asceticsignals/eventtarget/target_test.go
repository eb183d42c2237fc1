package eventtarget

import (
	"bytes"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/cancellation"
)

const channel = "changed"

func recorder(calls *[]int, n int) Listener[int] {
	return ListenerFunc(func(e *Event[int]) error {
		*calls = append(*calls, n)
		return nil
	})
}

func TestTarget_DispatchInRegistrationOrder(t *testing.T) {
	target := NewTarget[int]()
	var calls []int
	target.AddListener(channel, recorder(&calls, 1), ListenerOptions{})
	target.AddListener(channel, recorder(&calls, 2), ListenerOptions{})
	notCanceled, err := target.Dispatch(NewEvent(channel, 0, false))
	require.NoError(t, err)
	assert.True(t, notCanceled)
	assert.Equal(t, []int{1, 2}, calls)
}

func TestTarget_DispatchDeliversDetail(t *testing.T) {
	target := NewTarget[int]()
	var got int
	target.AddListener(channel, ListenerFunc(func(e *Event[int]) error {
		got = e.Detail
		return nil
	}), ListenerOptions{})
	_, err := target.Dispatch(NewEvent(channel, 42, false))
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestTarget_ChannelsAreIsolated(t *testing.T) {
	target := NewTarget[int]()
	var calls []int
	target.AddListener("a", recorder(&calls, 1), ListenerOptions{})
	target.AddListener("b", recorder(&calls, 2), ListenerOptions{})
	_, err := target.Dispatch(NewEvent("b", 0, false))
	require.NoError(t, err)
	assert.Equal(t, []int{2}, calls)
}

func TestTarget_DispatchWithoutListeners(t *testing.T) {
	target := NewTarget[int]()
	notCanceled, err := target.Dispatch(NewEvent(channel, 1, false))
	assert.NoError(t, err)
	assert.True(t, notCanceled)
}

func TestTarget_AddDuplicateIsNoop(t *testing.T) {
	target := NewTarget[int]()
	var calls []int
	l := recorder(&calls, 1)
	assert.True(t, target.AddListener(channel, l, ListenerOptions{}))
	assert.False(t, target.AddListener(channel, l, ListenerOptions{}))
	assert.Equal(t, 1, target.Len(channel))
	_, _ = target.Dispatch(NewEvent(channel, 0, false))
	assert.Equal(t, []int{1}, calls)
}

func TestTarget_RemoveListener(t *testing.T) {
	target := NewTarget[int]()
	var calls []int
	l := recorder(&calls, 1)
	target.AddListener(channel, l, ListenerOptions{})
	assert.True(t, target.RemoveListener(channel, l, RemoveOptions{}))
	assert.Equal(t, 0, target.Len(channel))
	_, _ = target.Dispatch(NewEvent(channel, 0, false))
	assert.Empty(t, calls)
}

func TestTarget_RemoveUnknownIsSilent(t *testing.T) {
	target := NewTarget[int]()
	var calls []int
	assert.False(t, target.RemoveListener(channel, recorder(&calls, 1), RemoveOptions{}))
	assert.False(t, target.RemoveListener(channel, nil, RemoveOptions{}))
}

func TestTarget_OnceDeliversSingleTime(t *testing.T) {
	target := NewTarget[int]()
	var calls []int
	target.AddListener(channel, recorder(&calls, 1), ListenerOptions{Once: true})
	_, _ = target.Dispatch(NewEvent(channel, 0, false))
	_, _ = target.Dispatch(NewEvent(channel, 0, false))
	assert.Equal(t, []int{1}, calls)
	assert.Equal(t, 0, target.Len(channel))
}

func TestTarget_OnceListenerCanBeAddedAgain(t *testing.T) {
	target := NewTarget[int]()
	var calls []int
	l := recorder(&calls, 1)
	target.AddListener(channel, l, ListenerOptions{Once: true})
	_, _ = target.Dispatch(NewEvent(channel, 0, false))
	target.AddListener(channel, l, ListenerOptions{Once: true})
	_, _ = target.Dispatch(NewEvent(channel, 0, false))
	assert.Equal(t, []int{1, 1}, calls)
}

func TestTarget_CancelRemovesListener(t *testing.T) {
	target := NewTarget[int]()
	var calls []int
	source := cancellation.NewSource()
	target.AddListener(channel, recorder(&calls, 1), ListenerOptions{Cancel: source.Handle()})
	source.Trigger()
	assert.Equal(t, 0, target.Len(channel))
	_, _ = target.Dispatch(NewEvent(channel, 0, false))
	assert.Empty(t, calls)
}

func TestTarget_AlreadyTriggeredCancelIsNoop(t *testing.T) {
	target := NewTarget[int]()
	var calls []int
	source := cancellation.NewSource()
	source.Trigger()
	assert.False(t, target.AddListener(channel, recorder(&calls, 1), ListenerOptions{Cancel: source}))
	_, _ = target.Dispatch(NewEvent(channel, 0, false))
	assert.Empty(t, calls)
}

func TestTarget_CancelDuringDispatchSkipsPendingListener(t *testing.T) {
	target := NewTarget[int]()
	var calls []int
	source := cancellation.NewSource()
	target.AddListener(channel, ListenerFunc(func(e *Event[int]) error {
		calls = append(calls, 1)
		source.Trigger()
		return nil
	}), ListenerOptions{})
	target.AddListener(channel, recorder(&calls, 2), ListenerOptions{Cancel: source})
	_, _ = target.Dispatch(NewEvent(channel, 0, false))
	assert.Equal(t, []int{1}, calls)
}

// lateHandle reports itself triggered before delivering the trigger callback,
// like a context whose AfterFunc goroutine has not run yet.
type lateHandle struct {
	triggered atomic.Bool
	fire      func()
}

func (h *lateHandle) Triggered() bool {
	return h.triggered.Load()
}

func (h *lateHandle) OnTrigger(fn func()) func() bool {
	h.fire = fn
	return func() bool { return false }
}

func TestTarget_AddReplacesTriggeredRegistration(t *testing.T) {
	target := NewTarget[int]()
	var calls []int
	l := recorder(&calls, 1)
	handle := &lateHandle{}
	require.True(t, target.AddListener(channel, l, ListenerOptions{Cancel: handle}))
	handle.triggered.Store(true)

	assert.True(t, target.AddListener(channel, l, ListenerOptions{}))
	handle.fire()

	assert.Equal(t, 1, target.Len(channel))
	_, _ = target.Dispatch(NewEvent(channel, 0, false))
	assert.Equal(t, []int{1}, calls)
}

func TestTarget_RemoveStopsCancelWatch(t *testing.T) {
	target := NewTarget[int]()
	var calls []int
	source := cancellation.NewSource()
	l := recorder(&calls, 1)
	target.AddListener(channel, l, ListenerOptions{Cancel: source})
	target.RemoveListener(channel, l, RemoveOptions{})
	target.AddListener(channel, l, ListenerOptions{})
	source.Trigger()
	assert.Equal(t, 1, target.Len(channel))
}

func TestTarget_RemoveDuringDispatchSkipsPendingListener(t *testing.T) {
	target := NewTarget[int]()
	var calls []int
	second := recorder(&calls, 2)
	target.AddListener(channel, ListenerFunc(func(e *Event[int]) error {
		calls = append(calls, 1)
		target.RemoveListener(channel, second, RemoveOptions{})
		return nil
	}), ListenerOptions{})
	target.AddListener(channel, second, ListenerOptions{})
	_, _ = target.Dispatch(NewEvent(channel, 0, false))
	assert.Equal(t, []int{1}, calls)
}

func TestTarget_AddDuringDispatchIsNotInvoked(t *testing.T) {
	target := NewTarget[int]()
	var calls []int
	late := recorder(&calls, 2)
	target.AddListener(channel, ListenerFunc(func(e *Event[int]) error {
		calls = append(calls, 1)
		target.AddListener(channel, late, ListenerOptions{})
		return nil
	}), ListenerOptions{})
	_, _ = target.Dispatch(NewEvent(channel, 0, false))
	assert.Equal(t, []int{1}, calls)
	_, _ = target.Dispatch(NewEvent(channel, 0, false))
	assert.Equal(t, []int{1, 1, 2}, calls)
}

func TestTarget_ListenerErrorStopsDispatch(t *testing.T) {
	target := NewTarget[int]()
	var calls []int
	expectedErr := errors.New("fail")
	target.AddListener(channel, ListenerFunc(func(e *Event[int]) error {
		return expectedErr
	}), ListenerOptions{})
	target.AddListener(channel, recorder(&calls, 2), ListenerOptions{})
	_, err := target.Dispatch(NewEvent(channel, 0, false))
	assert.ErrorIs(t, err, expectedErr)
	assert.Contains(t, err.Error(), channel)
	assert.Empty(t, calls)
}

func TestTarget_PreventDefault(t *testing.T) {
	target := NewTarget[int]()
	target.AddListener(channel, ListenerFunc(func(e *Event[int]) error {
		e.PreventDefault()
		return nil
	}), ListenerOptions{})

	notCanceled, err := target.Dispatch(NewEvent(channel, 0, true))
	require.NoError(t, err)
	assert.False(t, notCanceled)

	notCanceled, err = target.Dispatch(NewEvent(channel, 0, false))
	require.NoError(t, err)
	assert.True(t, notCanceled)
}

func TestTarget_PassiveListenerCannotPreventDefault(t *testing.T) {
	target := NewTarget[int]()
	target.AddListener(channel, ListenerFunc(func(e *Event[int]) error {
		e.PreventDefault()
		return nil
	}), ListenerOptions{Passive: true})
	notCanceled, err := target.Dispatch(NewEvent(channel, 0, true))
	require.NoError(t, err)
	assert.True(t, notCanceled)
}

func TestTarget_RemoveAll(t *testing.T) {
	target := NewTarget[int]()
	var calls []int
	source := cancellation.NewSource()
	target.AddListener(channel, recorder(&calls, 1), ListenerOptions{Cancel: source})
	target.AddListener(channel, recorder(&calls, 2), ListenerOptions{})
	assert.Equal(t, 2, target.RemoveAll(channel))
	source.Trigger()
	_, _ = target.Dispatch(NewEvent(channel, 0, false))
	assert.Empty(t, calls)
	assert.Equal(t, 0, target.RemoveAll(channel))
}

func TestTarget_NilListenerPanics(t *testing.T) {
	target := NewTarget[int]()
	assert.Panics(t, func() { target.AddListener(channel, nil, ListenerOptions{}) })
}

func TestTarget_WithLoggerTracesLifecycle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	target := NewTarget[int](WithLogger(logger))
	var calls []int
	l := recorder(&calls, 1)
	target.AddListener(channel, l, ListenerOptions{})
	_, _ = target.Dispatch(NewEvent(channel, 0, false))
	target.RemoveListener(channel, l, RemoveOptions{})
	out := buf.String()
	assert.Contains(t, out, "listener added")
	assert.Contains(t, out, "dispatch")
	assert.Contains(t, out, "listener removed")
	assert.Contains(t, out, "channel="+channel)
}
