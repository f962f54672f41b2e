package core

// PoolStatus is an immutable point-in-time snapshot of a pool's state.
// The numeric fields are mutually coherent at the instant of the snapshot:
// BusyWorkers + IdleWorkers == TotalWorkers always holds within one value,
// even though the individual pool accessors may observe values from slightly
// different instants when read separately.
type PoolStatus struct {
	Name         string
	TotalWorkers int
	BusyWorkers  int
	IdleWorkers  int
	PendingTasks int
	Running      bool
}
