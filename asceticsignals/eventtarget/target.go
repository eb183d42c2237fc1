// Package eventtarget is a synchronous broadcast facility with named
// channels. Listeners registered on a channel are invoked in registration
// order on the goroutine that dispatches.
package eventtarget

import (
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/cancellation"
)

type registration[T any] struct {
	id         ulid.ULID
	name       string
	listener   Listener[T]
	once       bool
	passive    bool
	cancel     cancellation.Handle
	stopCancel func() bool
	removed    atomic.Bool
}

// Target holds the listeners of every channel.
// Listeners are compared with ==, so their dynamic type must be comparable.
type Target[T any] struct {
	mu       sync.Mutex
	channels map[string][]*registration[T]
	*Options
}

func NewTarget[T any](opts ...Option) *Target[T] {
	options := defaultOptions()
	options.Apply(opts...)
	return &Target[T]{
		channels: make(map[string][]*registration[T]),
		Options:  options,
	}
}

// AddListener registers l on the named channel and reports whether it was
// added. Adding a listener already present on the channel is a no-op; the
// options of the first registration stay in force. A present registration
// whose cancellation has triggered is replaced.
func (t *Target[T]) AddListener(name string, l Listener[T], opts ListenerOptions) bool {
	if l == nil {
		panic("eventtarget: nil listener")
	}
	if opts.Cancel != nil && opts.Cancel.Triggered() {
		t.logger.Debug("listener not added, cancellation already triggered", slog.String("channel", name))
		return false
	}

	t.mu.Lock()
	for {
		existing := t.find(name, l)
		if existing == nil {
			break
		}
		// A triggered registration may still await its asynchronous removal.
		if existing.cancel == nil || !existing.cancel.Triggered() {
			t.mu.Unlock()
			return false
		}
		t.mu.Unlock()
		t.remove(existing)
		t.mu.Lock()
	}
	reg := &registration[T]{
		id:       ulid.Make(),
		name:     name,
		listener: l,
		once:     opts.Once,
		passive:  opts.Passive,
		cancel:   opts.Cancel,
	}
	t.channels[name] = append(t.channels[name], reg)
	t.mu.Unlock()

	t.logger.Debug("listener added",
		slog.String("channel", name),
		slog.String("listener_id", reg.id.String()),
		slog.Bool("once", reg.once),
	)

	if reg.cancel != nil {
		stop := reg.cancel.OnTrigger(func() {
			if t.remove(reg) {
				t.logger.Debug("listener cancelled",
					slog.String("channel", name),
					slog.String("listener_id", reg.id.String()),
				)
			}
		})
		t.mu.Lock()
		if reg.removed.Load() {
			t.mu.Unlock()
			stop()
			return true
		}
		reg.stopCancel = stop
		t.mu.Unlock()
	}
	return true
}

// RemoveListener unregisters l from the named channel and reports whether it
// was registered. Removing an unknown listener is not an error.
func (t *Target[T]) RemoveListener(name string, l Listener[T], _ RemoveOptions) bool {
	if l == nil {
		return false
	}
	t.mu.Lock()
	reg := t.find(name, l)
	t.mu.Unlock()
	if reg == nil || !t.remove(reg) {
		return false
	}
	t.logger.Debug("listener removed",
		slog.String("channel", name),
		slog.String("listener_id", reg.id.String()),
	)
	return true
}

// RemoveAll unregisters every listener of the named channel and returns how
// many there were.
func (t *Target[T]) RemoveAll(name string) int {
	t.mu.Lock()
	regs := t.channels[name]
	delete(t.channels, name)
	stops := make([]func() bool, 0, len(regs))
	for _, reg := range regs {
		reg.removed.Store(true)
		if reg.stopCancel != nil {
			stops = append(stops, reg.stopCancel)
			reg.stopCancel = nil
		}
	}
	t.mu.Unlock()

	for _, stop := range stops {
		stop()
	}
	t.logger.Debug("listeners cleared", slog.String("channel", name), slog.Int("count", len(regs)))
	return len(regs)
}

// Len returns the number of listeners registered on the named channel.
func (t *Target[T]) Len(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.channels[name])
}

// Dispatch invokes the listeners of the channel named by event.Type with
// event, and returns false if a listener prevented default.
//
// The listener set is snapshotted first: listeners added during the dispatch
// are not invoked, listeners removed or cancelled before being reached are
// skipped. The first listener error stops the dispatch and is returned.
func (t *Target[T]) Dispatch(event *Event[T]) (bool, error) {
	if event == nil {
		panic("eventtarget: nil event")
	}

	t.mu.Lock()
	snapshot := slices.Clone(t.channels[event.Type])
	t.mu.Unlock()

	t.logger.Debug("dispatch", slog.String("channel", event.Type), slog.Int("listeners", len(snapshot)))

	for _, reg := range snapshot {
		if reg.cancel != nil && reg.cancel.Triggered() {
			t.remove(reg)
			continue
		}
		if reg.once {
			// claims the single delivery
			if !t.remove(reg) {
				continue
			}
		} else if reg.removed.Load() {
			continue
		}

		event.inPassive = reg.passive
		err := reg.listener.HandleEvent(event)
		event.inPassive = false
		if err != nil {
			t.logger.Debug("dispatch stopped",
				slog.String("channel", event.Type),
				slog.String("listener_id", reg.id.String()),
			)
			return !event.defaultPrevented, errors.WithMessagef(err, "eventtarget: listener %s on channel %q", reg.id, event.Type)
		}
	}
	return !event.defaultPrevented, nil
}

// find must be called with t.mu held.
func (t *Target[T]) find(name string, l Listener[T]) *registration[T] {
	for _, reg := range t.channels[name] {
		if reg.listener == l {
			return reg
		}
	}
	return nil
}

func (t *Target[T]) remove(reg *registration[T]) bool {
	t.mu.Lock()
	if !reg.removed.CompareAndSwap(false, true) {
		t.mu.Unlock()
		return false
	}
	regs := t.channels[reg.name]
	if i := slices.Index(regs, reg); i >= 0 {
		regs = slices.Delete(regs, i, i+1)
	}
	if len(regs) == 0 {
		delete(t.channels, reg.name)
	} else {
		t.channels[reg.name] = regs
	}
	stop := reg.stopCancel
	reg.stopCancel = nil
	t.mu.Unlock()

	if stop != nil {
		stop()
	}
	return true
}
