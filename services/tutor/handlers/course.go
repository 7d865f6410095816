// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platolabs/plato/pkg/logging"
	"github.com/platolabs/plato/services/tutor/datatypes"
	"github.com/platolabs/plato/services/tutor/middleware"
	"github.com/platolabs/plato/services/tutor/observability"
	"github.com/platolabs/plato/services/tutor/syllabus"
)

// CourseHandler serves the course surface: language selection, topic
// replacement, and AI-personalized course generation.
type CourseHandler struct {
	svc     *syllabus.Service
	logger  *logging.Logger
	metrics *observability.TutorMetrics

	// keepAliveInterval is overridable in tests.
	keepAliveInterval time.Duration
}

// NewCourseHandler wires the syllabus service. metrics may be nil in
// tests.
func NewCourseHandler(svc *syllabus.Service, logger *logging.Logger, metrics *observability.TutorMetrics) *CourseHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CourseHandler{
		svc:               svc,
		logger:            logger,
		metrics:           metrics,
		keepAliveInterval: KeepAliveInterval,
	}
}

// SelectLanguage copies the built-in syllabus for a language into the
// user's profile and returns the user's full syllabus set.
//
// POST /api/language/select
func (h *CourseHandler) SelectLanguage(c *gin.Context) {
	var req datatypes.SelectLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, datatypes.ErrorResponse("Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, datatypes.ErrorResponse("Invalid request body"))
		return
	}
	userID := middleware.GetUserID(c)

	topics, err := h.svc.SelectLanguage(c.Request.Context(), userID, req.Language)
	if err != nil {
		if errors.Is(err, syllabus.ErrLanguageNotFound) {
			c.JSON(http.StatusNotFound, datatypes.ErrorResponse("Language not found"))
			return
		}
		h.logger.Error("language select failed", "error", err, "language", req.Language)
		c.JSON(http.StatusInternalServerError, datatypes.ErrorResponse("Error getting topics"))
		return
	}
	c.JSON(http.StatusOK, datatypes.SuccessResponse(topics, "Topics found"))
}

// UpdateTopics replaces the user's complete syllabus set with the one
// in the request body.
//
// POST /api/language/update-topics
func (h *CourseHandler) UpdateTopics(c *gin.Context) {
	var req datatypes.UpdateTopicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, datatypes.ErrorResponse("Invalid topics format"))
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, datatypes.ErrorResponse("Each topic must have language and topics array"))
		return
	}
	userID := middleware.GetUserID(c)

	topics, err := h.svc.UpdateTopics(c.Request.Context(), userID, req.Topics)
	if err != nil {
		h.logger.Error("topics update failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, datatypes.ErrorResponse("Error saving topics"))
		return
	}
	c.JSON(http.StatusOK, datatypes.SuccessResponse(topics, "Topics saved successfully"))
}

// GenerateCourse builds a personalized syllabus through the LLM and
// streams keep-alive packets while the model works.
//
// # Description
//
// Course generation can run for minutes, so the handler switches to a
// chunked JSON response immediately: one "processing" packet up
// front, a keep-alive every two minutes, then the final envelope with
// the user's full syllabus set. After the first packet the HTTP
// status is fixed at 200; failures are reported inside the final
// envelope.
//
// POST /api/language/generate-course
func (h *CourseHandler) GenerateCourse(c *gin.Context) {
	var req datatypes.GenerateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, datatypes.ErrorResponse("Missing required fields: expertise, goal, or language"))
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, datatypes.ErrorResponse("Missing required fields: expertise, goal, or language"))
		return
	}
	userID := middleware.GetUserID(c)

	h.logger.Info("generating personalized course",
		"request_id", middleware.GetRequestID(c),
		"user_id", userID,
		"language", req.Language,
		"goal", req.Goal)

	sw := NewJSONStream(c)
	if h.metrics != nil {
		h.metrics.StreamStarted(observability.EndpointCourseGenerate)
		defer h.metrics.StreamEnded(observability.EndpointCourseGenerate)
	}
	started := time.Now()

	ka := startKeepAlive(sw, h.keepAliveInterval, h.logger, h.metrics, observability.EndpointCourseGenerate)
	defer ka.Stop()

	topics, err := h.svc.GenerateCourse(c.Request.Context(), userID, req)
	ka.Stop()

	if err != nil {
		h.logger.Error("course generation failed", "error", err, "language", req.Language)
		if h.metrics != nil {
			h.metrics.RecordError(observability.EndpointCourseGenerate, observability.ErrorCodeLLMError)
			h.metrics.RecordRequest(observability.EndpointCourseGenerate, false)
			h.metrics.RecordStreamDuration(observability.EndpointCourseGenerate, time.Since(started).Seconds(), false)
		}
		_ = sw.WriteJSON(datatypes.ErrorResponse("Failed to generate course syllabus"))
		return
	}

	if h.metrics != nil {
		h.metrics.RecordRequest(observability.EndpointCourseGenerate, true)
		h.metrics.RecordStreamDuration(observability.EndpointCourseGenerate, time.Since(started).Seconds(), true)
	}
	_ = sw.WriteJSON(datatypes.SuccessResponse(topics, "Personalized course generated successfully"))
}
