package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const defaultBlockTimeout = 100 * time.Millisecond

// Config controls dispatcher buffering behavior.
type Config struct {
	Enabled      bool
	BufferSize   int
	DropIfFull   bool
	// BlockTimeout bounds how long Emit waits on a full buffer when
	// DropIfFull is false. The event is dropped and counted once it fires.
	// Zero means 100ms.
	BlockTimeout time.Duration
}

// Dispatcher asynchronously forwards events to a sink.
type Dispatcher struct {
	cfg       Config
	sink      Sink
	ch        chan Event
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = defaultBlockTimeout
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &Dispatcher{
		cfg:  cfg,
		sink: sink,
		ch:   make(chan Event, cfg.BufferSize),
		done: make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.ch:
			SafeEmit(context.Background(), d.sink, event)
		case <-d.done:
			for {
				select {
				case event := <-d.ch:
					SafeEmit(context.Background(), d.sink, event)
				default:
					return
				}
			}
		}
	}
}

// Emit queues event for delivery. It never reports failure to the caller and
// never waits longer than BlockTimeout.
func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.cfg.DropIfFull {
		select {
		case d.ch <- event:
		case <-d.done:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.ch <- event:
		return
	default:
	}

	timer := time.NewTimer(d.cfg.BlockTimeout)
	defer timer.Stop()

	select {
	case d.ch <- event:
	case <-d.done:
	case <-ctx.Done():
		d.dropped.Add(1)
	case <-timer.C:
		d.dropped.Add(1)
	}
}

// Close stops accepting events and drains what is already queued.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
