// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package middleware holds Gin middleware for the tutor service.
package middleware

import (
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/platolabs/plato/services/tutor/datatypes"
)

// userIDKey is the Gin context key the auth middleware sets.
const userIDKey = "plato.user_id"

// TokenValidator resolves a bearer token to a user id. Implementations
// return ok=false for unknown or expired tokens.
type TokenValidator interface {
	Validate(token string) (userID string, ok bool)
}

// RequireAuth rejects requests without a valid bearer token and stores
// the resolved user id in the request context.
//
// Accepted forms: "Authorization: Bearer <token>" or a bare token in
// the Authorization header.
func RequireAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				datatypes.ErrorResponse("Missing authorization token"))
			return
		}
		userID, ok := validator.Validate(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				datatypes.ErrorResponse("Invalid authorization token"))
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// GetUserID returns the authenticated user id set by RequireAuth.
// Empty when the route is not behind the middleware.
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// =============================================================================
// Static Token Validator
// =============================================================================

// StaticValidator validates tokens against a fixed token->user map.
// Suitable for single-tenant deployments and tests; production
// deployments put an identity-aware proxy in front.
type StaticValidator struct {
	mu     sync.RWMutex
	tokens map[string]string
}

var _ TokenValidator = (*StaticValidator)(nil)

// NewStaticValidator builds a validator from a token->userID map.
func NewStaticValidator(tokens map[string]string) *StaticValidator {
	copied := make(map[string]string, len(tokens))
	for tok, uid := range tokens {
		copied[tok] = uid
	}
	return &StaticValidator{tokens: copied}
}

// StaticValidatorFromEnv reads PLATO_API_TOKENS, a comma-separated
// list of token:userID pairs, e.g. "s3cret:alice,t0ken:bob".
// An empty or malformed variable yields a validator that rejects
// everything.
func StaticValidatorFromEnv() *StaticValidator {
	tokens := make(map[string]string)
	for _, pair := range strings.Split(os.Getenv("PLATO_API_TOKENS"), ",") {
		tok, uid, found := strings.Cut(strings.TrimSpace(pair), ":")
		if !found || tok == "" || uid == "" {
			continue
		}
		tokens[tok] = uid
	}
	return NewStaticValidator(tokens)
}

// Validate implements TokenValidator.
func (v *StaticValidator) Validate(token string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	uid, ok := v.tokens[token]
	return uid, ok
}

// Add registers one token at runtime. Used by tests and local tooling.
func (v *StaticValidator) Add(token, userID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tokens[token] = userID
}
