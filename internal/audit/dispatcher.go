package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const queueSize = 100

type Event struct {
	BranchID *uint
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Recorder accepts audit events without blocking the caller.
type Recorder interface {
	Dispatch(ev Event)
}

type writer interface {
	Log(ctx context.Context, ev Event) error
}

// Dispatcher writes events from a bounded queue on one goroutine. A full
// queue drops the event; auditing never fails a request.
type Dispatcher struct {
	writer  writer
	log     *zap.Logger
	queue   chan Event
	done    chan struct{}
	once    sync.Once
	dropped atomic.Int64
}

func NewDispatcher(w writer, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		writer: w,
		log:    log,
		queue:  make(chan Event, queueSize),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.writer.Log(ctx, ev); err != nil {
			d.log.Error("audit write failed",
				zap.String("action", ev.Action),
				zap.String("entity", ev.Entity),
				zap.Error(err),
			)
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.dropped.Add(1)
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Dropped counts events discarded because the queue was full.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
		<-d.done
	})
}

var _ Recorder = (*Dispatcher)(nil)
