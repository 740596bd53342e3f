package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrLoopRunning is returned when Run is called on a loop that is already running.
	ErrLoopRunning = errors.New("host: loop is already running")

	// ErrLoopClosed is returned when work is submitted to a closed loop.
	ErrLoopClosed = errors.New("host: loop is closed")
)

// LoopConfig configures a Loop.
type LoopConfig struct {
	// FrameInterval is how often idle callbacks are granted. Default 16ms.
	FrameInterval time.Duration

	// IdleBudget is the time each idle period reports. Default 3/4 of
	// FrameInterval.
	IdleBudget time.Duration

	// QueueSize bounds the task queue. Default 256.
	QueueSize int

	// Clock measures idle deadlines. Default SystemClock.
	Clock Clock

	// Logger receives recovered task panics. Default slog.Default().
	Logger *slog.Logger
}

func (c LoopConfig) withDefaults() LoopConfig {
	if c.FrameInterval <= 0 {
		c.FrameInterval = 16 * time.Millisecond
	}
	if c.IdleBudget <= 0 {
		c.IdleBudget = c.FrameInterval * 3 / 4
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.Clock == nil {
		c.Clock = SystemClock
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Loop is a single goroutine event loop implementing IdleHost.
//
// Every task and idle callback runs on the goroutine that called Run, so
// code reached from them (the loom runtime, component updaters, backend
// calls) is confined to one logical thread. Other goroutines hand work to
// it with Submit or Do.
type Loop struct {
	cfg   LoopConfig
	tasks chan func()

	idleMu sync.Mutex
	idle   []func(Deadline)

	running atomic.Bool
	closed  atomic.Bool
	quit    chan struct{}
	once    sync.Once
}

// NewLoop creates a loop; call Run to start it.
func NewLoop(cfg LoopConfig) *Loop {
	cfg = cfg.withDefaults()
	return &Loop{
		cfg:   cfg,
		tasks: make(chan func(), cfg.QueueSize),
		quit:  make(chan struct{}),
	}
}

// RequestIdleCallback implements IdleHost. Safe from any goroutine.
func (l *Loop) RequestIdleCallback(cb func(Deadline)) {
	l.idleMu.Lock()
	l.idle = append(l.idle, cb)
	l.idleMu.Unlock()
}

// Submit queues fn to run on the loop goroutine. It blocks while the queue
// is full.
func (l *Loop) Submit(fn func()) error {
	if l.closed.Load() {
		return ErrLoopClosed
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.quit:
		return ErrLoopClosed
	}
}

// Do runs fn on the loop goroutine and waits for its result.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	if err := l.Submit(func() { done <- fn() }); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.quit:
		return ErrLoopClosed
	}
}

// Run processes tasks and idle periods until ctx is done or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	ticker := time.NewTicker(l.cfg.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.quit:
			return nil
		case fn := <-l.tasks:
			l.runTask(fn)
		case <-ticker.C:
			l.frame()
		}
	}
}

// Close stops the loop. Pending tasks are dropped.
func (l *Loop) Close() {
	l.once.Do(func() {
		l.closed.Store(true)
		close(l.quit)
	})
}

// frame drains queued tasks, then grants one idle period.
func (l *Loop) frame() {
	for {
		select {
		case fn := <-l.tasks:
			l.runTask(fn)
			continue
		default:
		}
		break
	}

	l.idleMu.Lock()
	cbs := l.idle
	l.idle = nil
	l.idleMu.Unlock()
	if len(cbs) == 0 {
		return
	}

	deadline := Until(l.cfg.Clock, l.cfg.Clock.Now().Add(l.cfg.IdleBudget))
	for _, cb := range cbs {
		l.runTask(func() { cb(deadline) })
	}
}

// runTask runs fn, logging and swallowing a panic so the loop survives.
func (l *Loop) runTask(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.cfg.Logger.Error("host: task panicked",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}
