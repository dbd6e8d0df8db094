package fakeinv

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"
)

// Scheduler is the single tick loop that owns all fake inventory state.
// Every open, close and transition runs on its goroutine, so the inventory
// code itself needs no locking. Work from other goroutines is posted with
// Exec (current tick) or Defer (next tick).
type Scheduler struct {
	manager *Manager

	queue *taskQueue

	// Execution state
	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	// Tick tracking
	tickRate   time.Duration
	tickNumber atomic.Uint64
}

// newScheduler creates a new scheduler.
func newScheduler(manager *Manager, tickRate time.Duration) *Scheduler {
	if tickRate <= 0 {
		tickRate = 50 * time.Millisecond // 20 TPS
	}
	return &Scheduler{
		manager:  manager,
		queue:    newTaskQueue(),
		tickRate: tickRate,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the scheduler's tick loop.
func (s *Scheduler) Start() {
	if s.running.Swap(true) {
		return // Already running
	}
	go s.tickLoop()
}

// Stop shuts the scheduler down. Queued tasks are dropped.
func (s *Scheduler) Stop() {
	if !s.running.Swap(false) {
		return // Not running
	}

	close(s.stopCh)
	<-s.doneCh
	s.queue.Clear()
}

// Running reports whether the tick loop is accepting work.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// Tick returns the current tick number.
func (s *Scheduler) Tick() uint64 {
	return s.tickNumber.Load()
}

// Pending returns the number of queued tasks.
func (s *Scheduler) Pending() int {
	return s.queue.Len()
}

// tickLoop is the main scheduler loop.
func (s *Scheduler) tickLoop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return

		case <-ticker.C:
			s.tick()

		case <-s.queue.Notify():
			// Run work posted for the current tick
			s.processTasks(s.tickNumber.Load())
		}
	}
}

// tick advances the tick counter and runs every task due on the new tick.
func (s *Scheduler) tick() {
	s.processTasks(s.tickNumber.Add(1))
}

// schedule queues a task delay ticks after the current one.
// A delay of 0 runs the task on the current tick, as soon as the loop wakes.
func (s *Scheduler) schedule(viewer string, task Runnable, stage Stage, delay uint64) bool {
	if task == nil || !s.running.Load() {
		return false
	}
	s.queue.Push(&scheduledTask{
		dueTick: s.tickNumber.Load() + delay,
		stage:   stage,
		viewer:  viewer,
		task:    task,
	})
	return true
}

// processTasks runs all tasks due on or before tick in stage order.
// Tasks scheduled while processing are never due on the same tick unless
// they were posted with a delay of 0, in which case the next wake-up runs them.
func (s *Scheduler) processTasks(tick uint64) {
	for _, task := range s.queue.PopDue(tick) {
		s.execute(task)
	}
}

// execute runs a single task with panic recovery.
func (s *Scheduler) execute(task *scheduledTask) {
	defer func() {
		if r := recover(); r != nil {
			s.handleTaskPanic(task, r)
		}
	}()
	task.task.Run()
}

func (s *Scheduler) handleTaskPanic(task *scheduledTask, recovered any) {
	err := fmt.Errorf("fakeinv: panic in %s task: %v", task.stage, recovered)
	s.manager.log.Error(err.Error(),
		"viewer", task.viewer,
		"tick", task.dueTick,
		"stack", string(debug.Stack()))
}
