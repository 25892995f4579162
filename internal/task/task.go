package task

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/arloliu/go-sharksem/logger"
)

// TaskFunc performs one iteration of a task running in a goroutine managed by the Manager.
// It should return true to continue running the task, or false to stop the goroutine.
type TaskFunc func() bool

// CancelFunc is called when a goroutine managed by the Manager exits or is canceled.
// It can be used to release resources associated with the goroutine, e.g. close a connection.
type CancelFunc func()

// Manager manages the lifecycle of goroutines (tasks).
//
// The Manager uses a context.Context to signal the goroutines to stop and a sync.WaitGroup
// to wait for them. A task blocked in I/O only notices the cancellation when the I/O returns,
// so the owner must also close the resources the task is blocked on.
//
// Example Usage:
//
//	mgr := task.NewManager(ctx, logger)
//
//	_ = mgr.Start("acceptLoop", func() bool {
//	    // ... accept one connection ...
//	    return true // Return true to continue running, false to stop
//	}, nil)
//
//	mgr.Stop()
//	listener.Close()
//	mgr.Wait()
type Manager struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger logger.Logger
	count  atomic.Int32
}

// NewManager creates a new Manager with the given parent context and logger.
func NewManager(ctx context.Context, l logger.Logger) *Manager {
	mgr := &Manager{logger: l}
	mgr.ctx, mgr.cancel = context.WithCancel(ctx)

	return mgr
}

// Context returns the context canceled by Stop.
func (mgr *Manager) Context() context.Context {
	return mgr.ctx
}

// Start starts a new goroutine with the given name running taskFunc in a loop until it returns
// false or the Manager is stopped. cancelFunc, if not nil, is called when the goroutine exits.
func (mgr *Manager) Start(name string, taskFunc TaskFunc, cancelFunc CancelFunc) error {
	if mgr.ctx.Err() != nil {
		return fmt.Errorf("task manager already stopped, cannot start %s", name)
	}

	mgr.logger.Debug("start task", "name", name)

	mgr.wg.Add(1)
	mgr.count.Add(1)

	go func() {
		defer mgr.wg.Done()
		defer func() {
			mgr.count.Add(-1)
			mgr.logger.Debug("task terminated", "name", name, "taskCount", mgr.TaskCount())
		}()

		if cancelFunc != nil {
			defer cancelFunc()
		}

		mgr.runTaskLoop(name, taskFunc)
	}()

	return nil
}

// Stop signals all running goroutines.
func (mgr *Manager) Stop() {
	mgr.cancel()
}

// Wait waits for all goroutines to terminate.
//
// Tasks may start other tasks; Start fails once the Manager is stopped.
func (mgr *Manager) Wait() {
	mgr.wg.Wait()
}

// TaskCount returns the number of currently running goroutines.
func (mgr *Manager) TaskCount() int {
	return int(mgr.count.Load())
}

// runTaskLoop runs a task function in a loop with context cancellation and panic protection.
func (mgr *Manager) runTaskLoop(name string, taskFunc TaskFunc) {
	defer func() {
		if r := recover(); r != nil {
			mgr.logger.Error("panic in task loop", "name", name, "panic", r)
		}
	}()

	for {
		select {
		case <-mgr.ctx.Done():
			return
		default:
			if !taskFunc() {
				return
			}
		}
	}
}
