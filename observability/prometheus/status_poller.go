package prometheus

import (
	"context"
	"sync"
	"time"

	"github.com/abin-z/go-threadpool/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// StatusProvider provides current pool status snapshots.
type StatusProvider interface {
	Status() core.PoolStatus
}

// StatusPoller periodically exports pool Status() snapshots into Prometheus gauges.
type StatusPoller struct {
	interval time.Duration

	poolsMu sync.RWMutex
	pools   map[string]StatusProvider

	poolWorkers *prom.GaugeVec
	poolBusy    *prom.GaugeVec
	poolIdle    *prom.GaugeVec
	poolPending *prom.GaugeVec
	poolRunning *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewStatusPoller creates a status poller and registers its collectors.
func NewStatusPoller(reg prom.Registerer, interval time.Duration) (*StatusPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	poolWorkers := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_workers",
		Help:      "Worker count per pool.",
	}, []string{"pool"})
	poolBusy := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_busy",
		Help:      "Workers currently executing a task per pool.",
	}, []string{"pool"})
	poolIdle := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_idle",
		Help:      "Workers waiting for work per pool.",
	}, []string{"pool"})
	poolPending := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_pending",
		Help:      "Tasks waiting in the queue per pool.",
	}, []string{"pool"})
	poolRunning := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_running",
		Help:      "Pool running state (1=running, 0=stopped).",
	}, []string{"pool"})

	var err error
	if poolWorkers, err = registerCollector(reg, poolWorkers); err != nil {
		return nil, err
	}
	if poolBusy, err = registerCollector(reg, poolBusy); err != nil {
		return nil, err
	}
	if poolIdle, err = registerCollector(reg, poolIdle); err != nil {
		return nil, err
	}
	if poolPending, err = registerCollector(reg, poolPending); err != nil {
		return nil, err
	}
	if poolRunning, err = registerCollector(reg, poolRunning); err != nil {
		return nil, err
	}

	return &StatusPoller{
		interval:    interval,
		pools:       make(map[string]StatusProvider),
		poolWorkers: poolWorkers,
		poolBusy:    poolBusy,
		poolIdle:    poolIdle,
		poolPending: poolPending,
		poolRunning: poolRunning,
	}, nil
}

// AddPool adds or replaces a pool status provider by name.
func (p *StatusPoller) AddPool(name string, provider StatusProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "pool")
	p.poolsMu.Lock()
	p.pools[name] = provider
	p.poolsMu.Unlock()
}

// RemovePool stops exporting the named pool.
func (p *StatusPoller) RemovePool(name string) {
	if p == nil {
		return
	}
	name = normalizeLabel(name, "pool")
	p.poolsMu.Lock()
	delete(p.pools, name)
	p.poolsMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *StatusPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *StatusPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *StatusPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *StatusPoller) collectOnce() {
	p.poolsMu.RLock()
	defer p.poolsMu.RUnlock()

	for name, provider := range p.pools {
		status := provider.Status()
		p.poolWorkers.WithLabelValues(name).Set(float64(status.TotalWorkers))
		p.poolBusy.WithLabelValues(name).Set(float64(status.BusyWorkers))
		p.poolIdle.WithLabelValues(name).Set(float64(status.IdleWorkers))
		p.poolPending.WithLabelValues(name).Set(float64(status.PendingTasks))
		if status.Running {
			p.poolRunning.WithLabelValues(name).Set(1)
		} else {
			p.poolRunning.WithLabelValues(name).Set(0)
		}
	}
}
