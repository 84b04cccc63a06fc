// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package halt

import (
	"container/list"
	"sync"

	"github.com/gogama/apiclient/request"
	"github.com/rs/zerolog"
)

// A Service is a halting gate plus the queue of tasks waiting on it.
//
// The zero value is an open gate with an empty queue, ready to use. A
// Service must not be copied after first use. All methods are safe for
// concurrent use by multiple goroutines.
//
// Gate transitions and queue mutations are serialized by a mutex.
// Tasks are never run while the mutex is held, so a task may freely
// call back into the Service.
type Service struct {
	// Logger receives gate transitions at debug level. If nil,
	// nothing is logged.
	Logger *zerolog.Logger

	mu     sync.Mutex
	halted bool
	queue  list.List
}

type task struct {
	execution    func()
	cancellation func()
	taken        bool
}

var nop = zerolog.Nop()

// ShouldProceed reports whether the gate is open, meaning a request
// like r may be dispatched right away.
func (s *Service) ShouldProceed(r *request.Request) bool {
	s.mu.Lock()
	open := !s.halted
	s.mu.Unlock()
	if !open && r != nil {
		s.log().Debug().Str("method", r.Method).Str("path", r.Path).Msg("request held at closed gate")
	}
	return open
}

// Add enqueues a task made of an execution and a cancellation.
//
// If the gate is open when Add is called, execution runs immediately in
// the caller's goroutine and the task is never queued. Otherwise the
// task waits for Resume or CancelRequests, which run exactly one of its
// two functions.
//
// The returned remove function takes the task back out of the queue.
// It reports true only if the task was still queued, in which case
// neither function will ever be run by the Service.
func (s *Service) Add(execution, cancellation func()) (remove func() bool) {
	if execution == nil {
		panic("apiclient/halt: nil execution")
	}
	if cancellation == nil {
		panic("apiclient/halt: nil cancellation")
	}

	s.mu.Lock()
	if !s.halted {
		s.mu.Unlock()
		execution()
		return func() bool { return false }
	}
	t := &task{execution: execution, cancellation: cancellation}
	e := s.queue.PushBack(t)
	n := s.queue.Len()
	s.mu.Unlock()

	s.log().Debug().Int("queued", n).Msg("task queued")

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if t.taken {
			return false
		}
		t.taken = true
		s.queue.Remove(e)
		return true
	}
}

// Halt closes the gate. It reports false, and does nothing, if the gate
// was already closed.
func (s *Service) Halt() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.halted {
		return false
	}
	s.halted = true
	s.log().Debug().Msg("gate closed")
	return true
}

// Resume opens the gate and drains the queue. If success is true each
// queued execution is run in enqueue order, otherwise each queued
// cancellation is run in enqueue order. Tasks run in the caller's
// goroutine before Resume returns.
func (s *Service) Resume(success bool) {
	s.mu.Lock()
	s.halted = false
	tasks := s.drain()
	s.mu.Unlock()

	s.log().Debug().Bool("success", success).Int("tasks", len(tasks)).Msg("gate opened")

	for _, t := range tasks {
		if success {
			t.execution()
		} else {
			t.cancellation()
		}
	}
}

// CancelRequests drains the queue, running the cancellation of every
// queued task in enqueue order. The gate is left as it is.
func (s *Service) CancelRequests() {
	s.mu.Lock()
	tasks := s.drain()
	s.mu.Unlock()

	if len(tasks) > 0 {
		s.log().Debug().Int("tasks", len(tasks)).Msg("queued tasks cancelled")
	}

	for _, t := range tasks {
		t.cancellation()
	}
}

// Halted reports whether the gate is closed.
func (s *Service) Halted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.halted
}

// Len returns the number of queued tasks.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

func (s *Service) drain() []*task {
	tasks := make([]*task, 0, s.queue.Len())
	for e := s.queue.Front(); e != nil; e = e.Next() {
		t := e.Value.(*task)
		t.taken = true
		tasks = append(tasks, t)
	}
	s.queue.Init()
	return tasks
}

func (s *Service) log() *zerolog.Logger {
	if s.Logger == nil {
		return &nop
	}
	return s.Logger
}
