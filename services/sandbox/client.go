// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package sandbox runs learner code against a remote execution
// sandbox over WebSocket.
//
// The sandbox protocol is message-oriented JSON. The client sends one
// execute request and then consumes events until the run completes:
//
//	-> {"type":"execute","language":"python","code":"...","stdin":"..."}
//	<- {"type":"stdout","data":"..."}      zero or more
//	<- {"type":"stderr","data":"..."}      zero or more
//	<- {"type":"exit","code":0}            terminal, normal runs
//	<- {"type":"complete"}                 terminal
//	<- {"type":"error","data":"..."}       terminal, sandbox-side failure
//
// The sandbox does not reliably follow exit with complete, so the run
// settles on whichever terminal frame arrives first.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultTimeout bounds a whole run, dial included. Tutoring snippets
// finish in seconds; anything longer is a runaway loop.
const DefaultTimeout = 30 * time.Second

// ErrRunFailed is returned when the sandbox reports an error event.
var ErrRunFailed = errors.New("sandbox: run failed")

// Request describes one code execution.
type Request struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Stdin    string `json:"stdin,omitempty"`
}

// Result is the collected outcome of a run.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// event is one protocol message from the sandbox.
type event struct {
	Type string `json:"type"`
	Data string `json:"data,omitempty"`
	Code int    `json:"code,omitempty"`
}

// executeMsg is the request frame.
type executeMsg struct {
	Type     string `json:"type"`
	Language string `json:"language"`
	Code     string `json:"code"`
	Stdin    string `json:"stdin,omitempty"`
}

// Client executes code against a sandbox endpoint. Each Run dials a
// fresh connection; the sandbox treats connections as run-scoped.
type Client struct {
	url     string
	timeout time.Duration
	dialer  *websocket.Dialer
}

// NewClient builds a client for the given ws:// or wss:// endpoint.
func NewClient(url string) *Client {
	return &Client{
		url:     url,
		timeout: DefaultTimeout,
		dialer:  websocket.DefaultDialer,
	}
}

// WithTimeout returns a copy of the client with a different run bound.
func (c *Client) WithTimeout(d time.Duration) *Client {
	copied := *c
	copied.timeout = d
	return &copied
}

// Run executes the request and blocks until the sandbox reports
// completion, the timeout elapses, or ctx is cancelled. Stdout and
// stderr are accumulated in arrival order within each stream.
func (c *Client) Run(ctx context.Context, req Request) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("sandbox: dial %s: %w", c.url, err)
	}
	defer conn.Close()

	// Unblock blocked reads when the context ends.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	if err := conn.WriteJSON(executeMsg{
		Type:     "execute",
		Language: req.Language,
		Code:     req.Code,
		Stdin:    req.Stdin,
	}); err != nil {
		return Result{}, fmt.Errorf("sandbox: send execute: %w", err)
	}

	var stdout, stderr strings.Builder
	result := Result{}

	for {
		var ev event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return Result{}, fmt.Errorf("sandbox: run aborted: %w", ctx.Err())
			}
			return Result{}, fmt.Errorf("sandbox: read event: %w", err)
		}

		switch ev.Type {
		case "stdout":
			stdout.WriteString(ev.Data)
		case "stderr":
			stderr.WriteString(ev.Data)
		case "exit":
			result.ExitCode = ev.Code
			result.Stdout = stdout.String()
			result.Stderr = stderr.String()
			return result, nil
		case "complete":
			result.Stdout = stdout.String()
			result.Stderr = stderr.String()
			return result, nil
		case "error":
			return Result{
				Stdout: stdout.String(),
				Stderr: stderr.String(),
			}, fmt.Errorf("%w: %s", ErrRunFailed, ev.Data)
		default:
			// Unknown event types are forward-compatible noise.
		}
	}
}
