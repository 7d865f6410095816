// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"time"

	"github.com/platolabs/plato/pkg/logging"
	"github.com/platolabs/plato/services/tutor/datatypes"
	"github.com/platolabs/plato/services/tutor/observability"
)

// KeepAliveInterval is how often keep-alive packets are written while
// a long-running generation is in flight. Azure front ends cut idle
// connections at 230 seconds; two minutes stays safely below that.
const KeepAliveInterval = 120 * time.Second

// keepAlive sends periodic packets on a JSON stream until stopped.
type keepAlive struct {
	done chan struct{}
	once chan struct{} // closed exactly once guard
}

// startKeepAlive writes the initial processing packet, then sends a
// keep-alive every KeepAliveInterval until Stop is called. The write
// goroutine shares the StreamWriter's lock with the caller, so the
// final response can never interleave with a packet.
func startKeepAlive(w *StreamWriter, interval time.Duration, logger *logging.Logger, metrics *observability.TutorMetrics, endpoint observability.Endpoint) *keepAlive {
	ka := &keepAlive{done: make(chan struct{}), once: make(chan struct{}, 1)}
	ka.once <- struct{}{}

	_ = w.WriteKeepAlive(datatypes.KeepAlivePayload{
		KeepAlive: true,
		Status:    "processing",
		Message:   "Starting generation...",
	})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ka.done:
				return
			case <-ticker.C:
				if err := w.WriteKeepAlive(datatypes.KeepAlivePayload{KeepAlive: true}); err != nil {
					logger.Warn("keep-alive write failed", "error", err)
					return
				}
				if metrics != nil {
					metrics.RecordKeepAlive(endpoint)
				}
			}
		}
	}()
	return ka
}

// Stop terminates the keep-alive goroutine. Safe to call more than
// once.
func (ka *keepAlive) Stop() {
	select {
	case <-ka.once:
		close(ka.done)
	default:
	}
}
