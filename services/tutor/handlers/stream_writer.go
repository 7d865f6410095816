// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platolabs/plato/services/tutor/datatypes"
)

// ErrorSentinel is appended to a chat stream when generation fails
// mid-flight. Clients treat it as a terminal marker, not content.
const ErrorSentinel = "\nError generating response from AI service."

// StreamWriter relays incremental output over a chunked HTTP response.
//
// # Description
//
// Wraps the Gin response writer with flush-per-chunk semantics so each
// model delta reaches the client immediately. Two wire shapes share
// this writer:
//
//   - Chat streams: raw text chunks, terminated by a single trailing
//     newline on success or by ErrorSentinel on failure.
//   - Course generation: newline-delimited JSON packets (keep-alives
//     while the model works, then one final response envelope).
//
// # Thread Safety
//
// Safe for concurrent use; the keep-alive goroutine and the relay
// goroutine write through the same mutex.
//
// # Limitations
//
//   - Once any byte is written, HTTP status and headers are fixed.
//     Failures after first write must go through WriteErrorSentinel
//     or WriteJSON, never c.JSON.
type StreamWriter struct {
	mu      sync.Mutex
	writer  gin.ResponseWriter
	flusher http.Flusher
	closed  bool
}

// NewChatStream prepares the response for SSE-style text relay and
// returns the writer. Headers are sent on the first chunk.
func NewChatStream(c *gin.Context) *StreamWriter {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	return newStreamWriter(c)
}

// NewJSONStream prepares the response for chunked JSON delivery with
// keep-alive packets, as used by course generation.
func NewJSONStream(c *gin.Context) *StreamWriter {
	c.Writer.Header().Set("Content-Type", "application/json")
	c.Writer.Header().Set("Connection", "keep-alive")
	// Prevents buffering by nginx and similar proxies.
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	return newStreamWriter(c)
}

func newStreamWriter(c *gin.Context) *StreamWriter {
	flusher, _ := c.Writer.(http.Flusher)
	return &StreamWriter{writer: c.Writer, flusher: flusher}
}

// WriteChunk relays one text chunk and flushes.
func (w *StreamWriter) WriteChunk(chunk string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	if _, err := w.writer.WriteString(chunk); err != nil {
		return err
	}
	w.flushLocked()
	return nil
}

// WriteErrorSentinel emits the error marker and ends the stream.
func (w *StreamWriter) WriteErrorSentinel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.writer.WriteString(ErrorSentinel)
	w.flushLocked()
	w.closed = true
}

// Finish emits the trailing newline that marks a successful chat
// stream and ends the stream.
func (w *StreamWriter) Finish() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.writer.WriteString("\n")
	w.flushLocked()
	w.closed = true
}

// WriteKeepAlive emits one keep-alive JSON packet followed by a blank
// line, matching what streaming JSON clients skip while parsing.
func (w *StreamWriter) WriteKeepAlive(payload datatypes.KeepAlivePayload) error {
	if payload.Timestamp == 0 {
		payload.Timestamp = time.Now().UnixMilli()
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	if _, err := w.writer.Write(append(encoded, '\n', '\n')); err != nil {
		return err
	}
	w.flushLocked()
	return nil
}

// WriteJSON emits the final response envelope of a JSON stream and
// ends it.
func (w *StreamWriter) WriteJSON(v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	if _, err := w.writer.Write(encoded); err != nil {
		return err
	}
	w.flushLocked()
	w.closed = true
	return nil
}

// Closed reports whether the stream has been terminated.
func (w *StreamWriter) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *StreamWriter) flushLocked() {
	if w.flusher != nil {
		w.flusher.Flush()
	}
}
