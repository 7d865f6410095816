// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(validator TokenValidator) (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var seenUser string
	router := gin.New()
	router.GET("/protected", RequireAuth(validator), func(c *gin.Context) {
		seenUser = GetUserID(c)
		c.Status(http.StatusOK)
	})
	return router, &seenUser
}

func doGet(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuthBearerToken(t *testing.T) {
	router, seenUser := newAuthRouter(NewStaticValidator(map[string]string{"s3cret": "alice"}))

	rec := doGet(router, "Bearer s3cret")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", *seenUser)
}

func TestRequireAuthBareToken(t *testing.T) {
	router, seenUser := newAuthRouter(NewStaticValidator(map[string]string{"s3cret": "alice"}))

	rec := doGet(router, "s3cret")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", *seenUser)
}

func TestRequireAuthMissingToken(t *testing.T) {
	router, _ := newAuthRouter(NewStaticValidator(nil))

	rec := doGet(router, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing authorization token")
}

func TestRequireAuthInvalidToken(t *testing.T) {
	router, _ := newAuthRouter(NewStaticValidator(map[string]string{"s3cret": "alice"}))

	rec := doGet(router, "Bearer wrong")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid authorization token")
}

func TestGetUserIDWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Empty(t, GetUserID(c))
}

func TestStaticValidatorAdd(t *testing.T) {
	v := NewStaticValidator(nil)
	_, ok := v.Validate("tok")
	require.False(t, ok)

	v.Add("tok", "bob")

	uid, ok := v.Validate("tok")
	require.True(t, ok)
	assert.Equal(t, "bob", uid)
}

func TestRequestIDGenerated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	var seen string
	router.GET("/", RequestID(), func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDHonorsCallerID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", RequestID(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "caller-supplied")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "caller-supplied", rec.Header().Get(RequestIDHeader))
}

func TestStaticValidatorFromEnv(t *testing.T) {
	t.Setenv("PLATO_API_TOKENS", "s3cret:alice, t0ken:bob,malformed,:nouser,notoken:")

	v := StaticValidatorFromEnv()

	uid, ok := v.Validate("s3cret")
	require.True(t, ok)
	assert.Equal(t, "alice", uid)

	uid, ok = v.Validate("t0ken")
	require.True(t, ok)
	assert.Equal(t, "bob", uid)

	_, ok = v.Validate("malformed")
	assert.False(t, ok)
}
