package threadpool

import (
	"context"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abin-z/go-threadpool/core"
)

// MaxWorkers is the upper bound on the worker count accepted by New and
// Reboot. Counts outside [1, MaxWorkers] fail with ErrInvalidWorkerCount,
// including huge values produced by unsigned wraparound at the call site.
const MaxWorkers = 4096

// defaultWorkerFallback is used when the CPU count cannot be determined.
const defaultWorkerFallback = 4

// ShutdownMode selects how Shutdown treats tasks still in the queue.
type ShutdownMode int

const (
	// WaitForAllTasks stops accepting submissions but runs every queued and
	// in-flight task to completion before joining the workers.
	WaitForAllTasks ShutdownMode = iota

	// DiscardPendingTasks stops accepting submissions and drops every
	// not-yet-started task (their futures fail with ErrTaskDiscarded).
	// Tasks already executing still run to completion.
	DiscardPendingTasks
)

// Lifecycle states. Transitions are serialized by the lifecycle mutex and
// never skip a state: Running -> ShuttingDown -> Stopped on shutdown,
// Stopped -> Running on reboot.
const (
	stateRunning int32 = iota
	stateShuttingDown
	stateStopped
)

// Config holds optional pool collaborators. All fields may be nil; defaults
// are applied by NewWithConfig.
type Config struct {
	// Name identifies the pool in logs and metrics. Defaults to "pool".
	Name string

	// Logger receives lifecycle events. Defaults to core.NewDefaultLogger().
	Logger core.Logger

	// PanicHandler is called when a fire-and-forget task panics.
	// Defaults to core.DefaultPanicHandler.
	PanicHandler core.PanicHandler

	// Metrics records execution metrics. Defaults to core.NilMetrics.
	Metrics core.Metrics
}

// DefaultConfig returns a config with default collaborators.
func DefaultConfig() *Config {
	return &Config{
		Name:         "pool",
		Logger:       core.NewDefaultLogger(),
		PanicHandler: &core.DefaultPanicHandler{},
		Metrics:      &core.NilMetrics{},
	}
}

// Pool is a fixed-size worker pool executing deferred computations
// concurrently. It is created running; Shutdown (or Close) stops it and
// Reboot replaces the worker set. Every Pool instance is independent.
type Pool struct {
	name       string
	dispatcher *core.Dispatcher

	workerCount int32 // current worker set size, 0 once stopped
	state       int32 // stateRunning / stateShuttingDown / stateStopped

	// lifecycleMu serializes Shutdown and Reboot against each other.
	// It is never held while a task executes.
	lifecycleMu sync.Mutex

	wg     sync.WaitGroup
	cancel context.CancelFunc

	logger       core.Logger
	panicHandler core.PanicHandler
	metrics      core.Metrics
}

// New creates a pool with the given number of workers and default
// collaborators. The workers start immediately.
func New(workers int) (*Pool, error) {
	return NewWithConfig(workers, nil)
}

// NewDefault creates a pool sized by the number of CPUs, falling back to 4
// when that cannot be determined.
func NewDefault() *Pool {
	n := runtime.NumCPU()
	if n <= 0 {
		n = defaultWorkerFallback
	}
	pool, err := New(n)
	if err != nil {
		// Unreachable for any sane NumCPU; guard against a bound overshoot.
		pool, _ = New(MaxWorkers)
	}
	return pool
}

// NewWithConfig creates a pool with custom collaborators. Nil config or nil
// fields fall back to defaults.
func NewWithConfig(workers int, cfg *Config) (*Pool, error) {
	if err := validateWorkerCount(workers); err != nil {
		return nil, err
	}

	defaults := DefaultConfig()
	if cfg == nil {
		cfg = defaults
	}

	p := &Pool{
		name:         cfg.Name,
		dispatcher:   core.NewDispatcher(workers),
		logger:       cfg.Logger,
		panicHandler: cfg.PanicHandler,
		metrics:      cfg.Metrics,
	}
	if p.name == "" {
		p.name = defaults.Name
	}
	if p.logger == nil {
		p.logger = defaults.Logger
	}
	if p.panicHandler == nil {
		p.panicHandler = defaults.PanicHandler
	}
	if p.metrics == nil {
		p.metrics = defaults.Metrics
	}

	p.lifecycleMu.Lock()
	p.startLocked(workers)
	p.lifecycleMu.Unlock()

	return p, nil
}

func validateWorkerCount(workers int) error {
	if workers <= 0 || workers > MaxWorkers {
		return core.ErrInvalidWorkerCount
	}
	return nil
}

// startLocked transitions Stopped -> Running and spawns a fresh worker set.
// Caller holds lifecycleMu; no worker from a previous generation may remain.
func (p *Pool) startLocked(workers int) {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	p.dispatcher.Reopen()
	atomic.StoreInt32(&p.workerCount, int32(workers))
	atomic.StoreInt32(&p.state, stateRunning)

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.workerLoop(i, ctx)
	}

	p.logger.Info("thread pool started",
		core.F("pool", p.name), core.F("workers", workers))
}

// workerLoop is the main loop for each worker: wait for work or the stop
// signal, execute, repeat. Workers pop before waiting, so a graceful
// shutdown drains the queue before the loop exits.
func (p *Pool) workerLoop(id int, ctx context.Context) {
	defer p.wg.Done()
	stopCh := ctx.Done()

	for {
		item, ok := p.dispatcher.GetWork(stopCh)
		if !ok {
			// Stop requested and queue empty
			return
		}
		p.runTask(ctx, id, item)
	}
}

// runTask executes one task and keeps the worker alive across panics.
// Future-wrapped tasks capture their own panic into the future; only
// fire-and-forget panics reach the handler here.
func (p *Pool) runTask(ctx context.Context, workerID int, item core.TaskItem) {
	started := time.Now()
	defer func() {
		p.dispatcher.FinishWork()
		p.metrics.RecordTaskDuration(p.name, time.Since(started))
		if r := recover(); r != nil {
			stack := debug.Stack()
			p.metrics.RecordTaskPanic(p.name, r)
			p.panicHandler.HandlePanic(ctx, p.name, workerID, r, stack)
		}
	}()
	item.Run(ctx)
}

// post is the shared submission path for Post and Submit.
func (p *Pool) post(item core.TaskItem) error {
	if atomic.LoadInt32(&p.state) != stateRunning {
		p.metrics.RecordTaskRejected(p.name, "not running")
		return core.ErrNotRunning
	}
	// The dispatcher re-checks under the queue lock: a shutdown racing with
	// this submission either enqueues the task before the intake closes or
	// fails it here, never strands it.
	if !p.dispatcher.Post(item) {
		p.metrics.RecordTaskRejected(p.name, "not running")
		return core.ErrNotRunning
	}
	return nil
}

// Shutdown stops the pool. Both modes stop intake first, then join every
// worker; in-flight tasks always finish. Repeated calls after the pool is
// stopped are no-ops.
func (p *Pool) Shutdown(mode ShutdownMode) {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()
	p.shutdownLocked(mode)
}

func (p *Pool) shutdownLocked(mode ShutdownMode) {
	if atomic.LoadInt32(&p.state) == stateStopped {
		return
	}
	atomic.StoreInt32(&p.state, stateShuttingDown)

	// 1. Close the intake: submissions fail from here on.
	p.dispatcher.CloseIntake()

	// 2. Immediate mode drops everything still queued.
	if mode == DiscardPendingTasks {
		if n := p.dispatcher.DiscardPending(); n > 0 {
			p.metrics.RecordTasksDiscarded(p.name, n)
			p.logger.Info("pending tasks discarded",
				core.F("pool", p.name), core.F("count", n))
		}
	}

	// 3. Wake every worker; each drains the queue and exits when it is empty.
	p.cancel()
	p.wg.Wait()

	atomic.StoreInt32(&p.workerCount, 0)
	atomic.StoreInt32(&p.state, stateStopped)

	p.logger.Info("thread pool stopped", core.F("pool", p.name))
}

// Close gracefully shuts the pool down. It satisfies io.Closer so a pool can
// be tied to a scope with defer, the way the original resource is released
// when it leaves scope.
func (p *Pool) Close() error {
	p.Shutdown(WaitForAllTasks)
	return nil
}

// Reboot gracefully shuts the pool down (a no-op when already stopped),
// then starts a fresh worker set of the given size. It fails with
// ErrInvalidWorkerCount on a bad count, leaving the pool stopped.
// Concurrent Shutdown and Reboot calls are serialized.
func (p *Pool) Reboot(workers int) error {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()

	p.shutdownLocked(WaitForAllTasks)

	if err := validateWorkerCount(workers); err != nil {
		return err
	}

	p.startLocked(workers)
	return nil
}

// WaitAll blocks until no task is queued and no worker is executing.
// It returns immediately when the pool is already idle, including when no
// task was ever submitted or the pool has been shut down. It is a
// point-in-time barrier: submissions may race in after it returns.
func (p *Pool) WaitAll() {
	p.dispatcher.WaitIdle()
}

// Status returns a snapshot whose fields are mutually coherent:
// BusyWorkers + IdleWorkers == TotalWorkers always holds within the value.
func (p *Pool) Status() Status {
	pending, busy := p.dispatcher.Snapshot()
	total := int(atomic.LoadInt32(&p.workerCount))
	if busy > total {
		busy = total
	}
	return Status{
		Name:         p.name,
		TotalWorkers: total,
		BusyWorkers:  busy,
		IdleWorkers:  total - busy,
		PendingTasks: pending,
		Running:      atomic.LoadInt32(&p.state) == stateRunning,
	}
}

// Name returns the pool name used in logs and metrics.
func (p *Pool) Name() string {
	return p.name
}

// TotalWorkers returns the current worker set size, 0 once stopped.
func (p *Pool) TotalWorkers() int {
	return int(atomic.LoadInt32(&p.workerCount))
}

// BusyWorkers returns the number of workers currently executing a task.
func (p *Pool) BusyWorkers() int {
	busy := p.dispatcher.BusyCount()
	if total := p.TotalWorkers(); busy > total {
		busy = total
	}
	return busy
}

// IdleWorkers returns the number of workers waiting for work.
func (p *Pool) IdleWorkers() int {
	idle := p.TotalWorkers() - p.BusyWorkers()
	if idle < 0 {
		idle = 0
	}
	return idle
}

// PendingTasks returns the number of tasks waiting in the queue.
func (p *Pool) PendingTasks() int {
	return p.dispatcher.PendingCount()
}

// IsRunning reports whether the pool accepts submissions.
func (p *Pool) IsRunning() bool {
	return atomic.LoadInt32(&p.state) == stateRunning
}
