/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	applog "mirrorcanvas/internal/log"
)

// Repainter runs a paint callback only after something asked for it.
// Requests that arrive before the pending paint ran are coalesced into it.
type Repainter struct {
	paint  func()
	dirty  chan struct{}
	frames atomic.Int64
	log    *slog.Logger
}

func NewRepainter(paint func()) *Repainter {
	return &Repainter{
		paint: paint,
		dirty: make(chan struct{}, 1),
		log:   applog.WithComponent("render"),
	}
}

// Request marks the canvas dirty. It never blocks.
func (r *Repainter) Request() {
	select {
	case r.dirty <- struct{}{}:
	default:
	}
}

// Pending reports whether a paint is scheduled.
func (r *Repainter) Pending() bool { return len(r.dirty) > 0 }

// Flush paints synchronously if a request is pending.
func (r *Repainter) Flush() bool {
	select {
	case <-r.dirty:
		r.run()
		return true
	default:
		return false
	}
}

// Run paints once per pending request until ctx is done.
func (r *Repainter) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.dirty:
			r.run()
		}
	}
}

// Frames returns the number of paints performed.
func (r *Repainter) Frames() int64 { return r.frames.Load() }

func (r *Repainter) run() {
	start := time.Now()
	if r.paint != nil {
		r.paint()
	}
	n := r.frames.Add(1)
	r.log.Debug("frame painted", slog.Int64("frame", n), slog.Duration("took", time.Since(start)))
}
