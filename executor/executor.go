/*
 * Copyright 2025 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package executor provides a pooled-goroutine implementation of
// iocore.Executor. kio's core never requires it — a caller that never
// installs an Executor just gets its waiter resumed inline on the
// completion engine's reaper — but most real services want completions
// fanned out onto a worker pool instead of serializing all resumption on
// one goroutine, and this package is the reference implementation of that.
package executor

import (
	"log"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/kls-project/kio/iocore"
)

// Option configures a Pool.
type Option struct {
	// MaxIdleWorkers is the max number of workers kept around waiting for
	// the next resumption once the queue drains.
	MaxIdleWorkers int

	// WorkerMaxAge bounds a worker's lifetime: a worker older than this
	// exits after finishing the resumption it is running. A worker blocked
	// waiting on an empty queue does not exit, however old it is.
	WorkerMaxAge time.Duration

	// QueueSize is the depth of the pending-resumption channel; once full,
	// Enqueue falls back to spawning a bare goroutine rather than blocking
	// the reaper.
	QueueSize int
}

// DefaultOption returns sensible defaults for a service-sized pool.
func DefaultOption() *Option {
	return &Option{
		MaxIdleWorkers: 1000,
		WorkerMaxAge:   time.Minute,
		QueueSize:      1000,
	}
}

// Pool is a fixed-shape worker pool implementing iocore.Executor. Calling
// Enqueue from the completion engine's reaper hands the resumption thunk
// to a pool worker so the reaper never runs client code itself.
type Pool struct {
	name string

	workers int32
	maxIdle int32
	maxAge  int64 // milliseconds

	panicHandler func(r any)

	tasks     chan iocore.ResumeFunc
	unixMilli int64
}

// New creates a Pool. A nil Option uses DefaultOption.
func New(name string, o *Option) *Pool {
	if o == nil {
		o = DefaultOption()
	}
	return &Pool{
		name:    name,
		tasks:   make(chan iocore.ResumeFunc, o.QueueSize),
		maxAge:  o.WorkerMaxAge.Milliseconds(),
		maxIdle: int32(o.MaxIdleWorkers),
	}
}

// SetPanicHandler installs a recover handler for panics escaping resumed
// continuations. Without one, a panic is logged via the standard logger
// and swallowed so one bad continuation can't take down the pool.
func (p *Pool) SetPanicHandler(f func(r any)) {
	p.panicHandler = f
}

// Enqueue implements iocore.Executor.
func (p *Pool) Enqueue(fn iocore.ResumeFunc) {
	select {
	case p.tasks <- fn:
	default:
		go p.run(fn)
		return
	}
	if len(p.tasks) == 0 {
		return
	}
	go p.spawnWorker()
}

func (p *Pool) CurrentWorkers() int {
	return int(atomic.LoadInt32(&p.workers))
}

func (p *Pool) run(fn iocore.ResumeFunc) {
	defer func() {
		if r := recover(); r != nil {
			if p.panicHandler != nil {
				p.panicHandler(r)
			} else {
				log.Printf("kio executor %s: panic in resumed continuation: %v\n%s", p.name, r, debug.Stack())
			}
		}
	}()
	fn()
}

func (p *Pool) spawnWorker() {
	id := atomic.AddInt32(&p.workers, 1)
	defer atomic.AddInt32(&p.workers, -1)

	if id > p.maxIdle {
		for {
			select {
			case fn := <-p.tasks:
				p.run(fn)
			default:
				return
			}
		}
	}

	createdAt := time.Now().UnixMilli()
	for fn := range p.tasks {
		p.run(fn)
		if time.Now().UnixMilli()-createdAt > p.maxAge {
			return
		}
	}
}

var _ iocore.Executor = (*Pool)(nil)
