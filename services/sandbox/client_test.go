// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sandbox

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSandboxServer runs a fake sandbox that checks the execute frame
// and replies with the scripted events.
func newSandboxServer(t *testing.T, script func(t *testing.T, conn *websocket.Conn, req executeMsg)) *Client {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		var req executeMsg
		require.NoError(t, conn.ReadJSON(&req))
		require.Equal(t, "execute", req.Type)
		script(t, conn, req)
	}))
	t.Cleanup(srv.Close)
	return NewClient("ws" + strings.TrimPrefix(srv.URL, "http"))
}

func TestRunCollectsOutput(t *testing.T) {
	client := newSandboxServer(t, func(t *testing.T, conn *websocket.Conn, req executeMsg) {
		assert.Equal(t, "python", req.Language)
		assert.Equal(t, "print('hi')", req.Code)
		require.NoError(t, conn.WriteJSON(event{Type: "stdout", Data: "hi"}))
		require.NoError(t, conn.WriteJSON(event{Type: "stdout", Data: "\n"}))
		require.NoError(t, conn.WriteJSON(event{Type: "stderr", Data: "warn"}))
		require.NoError(t, conn.WriteJSON(event{Type: "exit", Code: 0}))
	})

	result, err := client.Run(context.Background(), Request{Language: "python", Code: "print('hi')"})
	require.NoError(t, err)
	assert.Equal(t, "hi\n", result.Stdout)
	assert.Equal(t, "warn", result.Stderr)
	assert.Zero(t, result.ExitCode)
}

func TestRunNonZeroExit(t *testing.T) {
	client := newSandboxServer(t, func(t *testing.T, conn *websocket.Conn, _ executeMsg) {
		require.NoError(t, conn.WriteJSON(event{Type: "stderr", Data: "boom"}))
		require.NoError(t, conn.WriteJSON(event{Type: "exit", Code: 2}))
	})

	result, err := client.Run(context.Background(), Request{Language: "python", Code: "exit(2)"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.ExitCode)
	assert.Equal(t, "boom", result.Stderr)
}

func TestRunSettlesOnExitWithoutComplete(t *testing.T) {
	client := newSandboxServer(t, func(t *testing.T, conn *websocket.Conn, _ executeMsg) {
		require.NoError(t, conn.WriteJSON(event{Type: "stdout", Data: "hi"}))
		require.NoError(t, conn.WriteJSON(event{Type: "exit", Code: 0}))
		// Hold the connection open; the run must not wait for more frames.
		time.Sleep(500 * time.Millisecond)
	}).WithTimeout(250 * time.Millisecond)

	start := time.Now()
	result, err := client.Run(context.Background(), Request{Language: "python", Code: "print('hi')"})
	require.NoError(t, err)
	assert.Equal(t, "hi", result.Stdout)
	assert.Zero(t, result.ExitCode)
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}

func TestRunSandboxError(t *testing.T) {
	client := newSandboxServer(t, func(t *testing.T, conn *websocket.Conn, _ executeMsg) {
		require.NoError(t, conn.WriteJSON(event{Type: "error", Data: "language not supported"}))
	})

	_, err := client.Run(context.Background(), Request{Language: "cobol", Code: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunFailed)
	assert.Contains(t, err.Error(), "language not supported")
}

func TestRunIgnoresUnknownEvents(t *testing.T) {
	client := newSandboxServer(t, func(t *testing.T, conn *websocket.Conn, _ executeMsg) {
		require.NoError(t, conn.WriteJSON(event{Type: "heartbeat"}))
		require.NoError(t, conn.WriteJSON(event{Type: "stdout", Data: "ok"}))
		require.NoError(t, conn.WriteJSON(event{Type: "complete"}))
	})

	result, err := client.Run(context.Background(), Request{Language: "python", Code: "x"})
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Stdout)
}

func TestRunTimeout(t *testing.T) {
	client := newSandboxServer(t, func(t *testing.T, conn *websocket.Conn, _ executeMsg) {
		// Never reply; the client's deadline must fire.
		time.Sleep(500 * time.Millisecond)
	}).WithTimeout(50 * time.Millisecond)

	_, err := client.Run(context.Background(), Request{Language: "python", Code: "while True: pass"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunContextCancelled(t *testing.T) {
	client := newSandboxServer(t, func(t *testing.T, conn *websocket.Conn, _ executeMsg) {
		time.Sleep(500 * time.Millisecond)
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Run(ctx, Request{Language: "python", Code: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
