// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// APIResponse is the JSON envelope returned by every non-streaming
// endpoint: {success, data, message}.
//
// Not-found conditions use the success envelope with empty data; only the
// DSA problem-set history lookup returns an explicit error envelope, a
// distinction clients rely on to trigger sheet generation.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

// SuccessResponse builds a success envelope.
func SuccessResponse(data any, message string) APIResponse {
	return APIResponse{Success: true, Data: data, Message: message}
}

// ErrorResponse builds a failure envelope.
func ErrorResponse(message string) APIResponse {
	return APIResponse{Success: false, Message: message}
}

// KeepAlivePayload is the out-of-band heartbeat object written to a
// chunked response while a long-running generation is in flight. Clients
// distinguish the real payload from heartbeats by the absence of the
// keepAlive field.
type KeepAlivePayload struct {
	KeepAlive bool   `json:"keepAlive"`
	Status    string `json:"status,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}
