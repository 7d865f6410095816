// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDKey is the Gin context key for the request correlation id.
const requestIDKey = "plato.request_id"

// RequestIDHeader is the header the id travels in, both directions.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request a correlation id, honoring one the
// caller already sent. The id is echoed on the response so clients can
// quote it when reporting a failed request.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the correlation id set by RequestID. Empty when
// the route is not behind the middleware.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
