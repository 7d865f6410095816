// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers implements the HTTP surface of the tutor service.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platolabs/plato/pkg/logging"
	"github.com/platolabs/plato/services/llm"
	"github.com/platolabs/plato/services/tutor/conversation"
	"github.com/platolabs/plato/services/tutor/datatypes"
	"github.com/platolabs/plato/services/tutor/middleware"
	"github.com/platolabs/plato/services/tutor/observability"
	"github.com/platolabs/plato/services/tutor/prompt"
	"github.com/platolabs/plato/services/tutor/syllabus"
)

// ChatHandler serves conversation history and the streaming chat
// endpoint.
//
// # Description
//
// History reads resolve in a fixed precedence: in-memory cache, then
// the durable store, then prewritten default content, then empty.
// Sends replay the resolved history to the model, relay the response
// chunk by chunk, and persist the completed exchange to both tiers.
//
// # Thread Safety
//
// Safe for concurrent requests; the cache serializes internally and
// each request owns its stream writer.
type ChatHandler struct {
	cache   *conversation.Cache
	store   conversation.Store
	llm     llm.LLMClient
	logger  *logging.Logger
	metrics *observability.TutorMetrics
}

// NewChatHandler wires the conversation tiers and the chat LLM client.
// metrics may be nil in tests.
func NewChatHandler(cache *conversation.Cache, store conversation.Store, client llm.LLMClient, logger *logging.Logger, metrics *observability.TutorMetrics) *ChatHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{
		cache:   cache,
		store:   store,
		llm:     client,
		logger:  logger,
		metrics: metrics,
	}
}

// =============================================================================
// GET /api/chat/past
// =============================================================================

// PastConversations returns the stored history for a subtopic.
//
// # Description
//
// Resolution order:
//
//  1. Cache hit: return cached exchanges.
//  2. Store hit: warm the cache, return stored exchanges.
//  3. DSA problemset ids: return an error envelope; the client opens
//     these conversations through the send endpoint instead.
//  4. Prewritten default content: persist it as a bootstrap exchange,
//     warm the cache, return it.
//  5. Otherwise: success with an empty list. The client then calls
//     send, which generates the initial content.
//
// All outcomes are HTTP 200; the envelope's success flag carries the
// distinction. Only transport or storage failures produce 500.
func (h *ChatHandler) PastConversations(c *gin.Context) {
	var q datatypes.PastConversationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, datatypes.ErrorResponse("Invalid query parameters"))
		return
	}
	if err := q.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, datatypes.ErrorResponse("Invalid query parameters"))
		return
	}
	userID := middleware.GetUserID(c)

	if cached, ok := h.cache.Get(userID, q.SubtopicID); ok && len(cached) > 0 {
		h.recordLookup("cache")
		c.JSON(http.StatusOK, datatypes.SuccessResponse(cached, "Past conversations"))
		return
	}

	stored, err := h.store.Find(c.Request.Context(), userID, q.SubtopicID)
	if err != nil {
		h.logger.Error("history lookup failed", "error", err, "subtopic_id", q.SubtopicID)
		h.recordError(observability.EndpointPastConversations, observability.ErrorCodeStorage)
		c.JSON(http.StatusInternalServerError, datatypes.ErrorResponse("Error fetching past conversations"))
		return
	}
	if len(stored) > 0 {
		h.cache.Put(userID, q.SubtopicID, stored)
		h.recordLookup("store")
		c.JSON(http.StatusOK, datatypes.SuccessResponse(stored, "Past conversations"))
		return
	}

	if datatypes.IsDSAProblemSet(q.SubtopicID) {
		h.recordLookup("none")
		c.JSON(http.StatusOK, datatypes.ErrorResponse("No conversations found for this subtopic ID"))
		return
	}

	if content, ok := syllabus.DefaultContent(q.Language, q.SubtopicID); ok {
		ex := datatypes.Exchange{
			UserID:     userID,
			SubtopicID: q.SubtopicID,
			AIResponse: content,
			Timestamp:  time.Now().UTC(),
		}
		if err := h.store.Insert(c.Request.Context(), ex); err != nil {
			h.logger.Error("persisting default content failed", "error", err, "subtopic_id", q.SubtopicID)
			h.recordError(observability.EndpointPastConversations, observability.ErrorCodeStorage)
			c.JSON(http.StatusInternalServerError, datatypes.ErrorResponse("Error fetching past conversations"))
			return
		}
		exchanges := []datatypes.Exchange{ex}
		h.cache.Put(userID, q.SubtopicID, exchanges)
		h.recordLookup("default")
		c.JSON(http.StatusOK, datatypes.SuccessResponse(exchanges, "Past conversations"))
		return
	}

	h.recordLookup("none")
	c.JSON(http.StatusOK, datatypes.SuccessResponse([]datatypes.Exchange{}, "No past conversations found"))
}

// =============================================================================
// POST /api/chat/send
// =============================================================================

// SendChat relays one chat turn from the model to the client.
//
// # Description
//
// The flow per request:
//
//  1. Resolve history (cache, then store).
//  2. Build the turn prompt. Empty history on a regular subtopic
//     produces the initial theory or challenge prompt plus the tutor
//     system message; DSA problemsets always go through the mentor
//     protocol; everything else gets the continuation wrapper.
//  3. Stream the completion chunk by chunk over an SSE-style
//     response, buffering the full text server-side.
//  4. On success, write the trailing newline, persist the exchange
//     (attached code stripped; first turns store an empty user
//     message), and update the cache.
//
// Failures before the first byte return a JSON error envelope.
// Failures mid-stream append the error sentinel and end the stream;
// nothing is persisted for a failed turn.
func (h *ChatHandler) SendChat(c *gin.Context) {
	var req datatypes.SendChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, datatypes.ErrorResponse("Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		h.recordError(observability.EndpointChatStream, observability.ErrorCodeValidation)
		c.JSON(http.StatusBadRequest, datatypes.ErrorResponse("Invalid request body"))
		return
	}
	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	history, err := h.loadHistory(ctx, userID, req.SubtopicID)
	if err != nil {
		h.logger.Error("history lookup failed", "error", err, "subtopic_id", req.SubtopicID)
		h.recordError(observability.EndpointChatStream, observability.ErrorCodeStorage)
		c.JSON(http.StatusInternalServerError, datatypes.ErrorResponse("Failed to send message"))
		return
	}
	firstTurn := len(history) == 0

	turnPrompt, withSystem, err := h.buildTurnPrompt(req, len(history))
	if err != nil {
		h.recordError(observability.EndpointChatStream, observability.ErrorCodeValidation)
		c.JSON(http.StatusBadRequest, datatypes.ErrorResponse(err.Error()))
		return
	}
	messages := prompt.Messages(history, turnPrompt, withSystem)
	params := prompt.Params(firstTurn)

	h.logger.Info("chat turn",
		"request_id", middleware.GetRequestID(c),
		"user_id", userID,
		"subtopic_id", req.SubtopicID,
		"first_turn", firstTurn,
		"history_len", len(history))

	sw := NewChatStream(c)
	if h.metrics != nil {
		h.metrics.StreamStarted(observability.EndpointChatStream)
		defer h.metrics.StreamEnded(observability.EndpointChatStream)
	}

	var full strings.Builder
	started := time.Now()
	firstChunkSeen := false

	streamErr := h.llm.ChatStream(ctx, messages, params, func(ev llm.StreamEvent) error {
		if ev.Err != nil || ev.Done {
			return nil
		}
		if err := ctx.Err(); err != nil {
			if h.metrics != nil {
				h.metrics.RecordClientDisconnect(observability.EndpointChatStream)
			}
			return err
		}
		if !firstChunkSeen {
			firstChunkSeen = true
			if h.metrics != nil {
				h.metrics.RecordTimeToFirstToken(observability.EndpointChatStream, time.Since(started).Seconds())
			}
		}
		full.WriteString(ev.Delta)
		return sw.WriteChunk(ev.Delta)
	})

	if streamErr != nil {
		h.logger.Error("chat stream failed", "error", streamErr, "subtopic_id", req.SubtopicID)
		sw.WriteErrorSentinel()
		if h.metrics != nil {
			h.metrics.RecordError(observability.EndpointChatStream, observability.ErrorCodeLLMError)
			h.metrics.RecordRequest(observability.EndpointChatStream, false)
			h.metrics.RecordStreamDuration(observability.EndpointChatStream, time.Since(started).Seconds(), false)
		}
		return
	}
	sw.Finish()

	aiResponse := full.String()
	storedMessage := ""
	if !firstTurn {
		storedMessage = prompt.ExtractStoredMessage(req.Message)
	}
	ex := datatypes.Exchange{
		UserID:      userID,
		SubtopicID:  req.SubtopicID,
		UserMessage: storedMessage,
		AIResponse:  aiResponse,
		Timestamp:   time.Now().UTC(),
	}
	// The stream already ended; a persistence failure is logged, not
	// surfaced, so a flaky disk never eats a delivered response.
	if err := h.store.Insert(context.WithoutCancel(ctx), ex); err != nil {
		h.logger.Error("persisting exchange failed", "error", err, "subtopic_id", req.SubtopicID)
		h.recordError(observability.EndpointChatStream, observability.ErrorCodeStorage)
	}
	if firstTurn {
		h.cache.Put(userID, req.SubtopicID, []datatypes.Exchange{ex})
	} else {
		h.cache.Append(userID, req.SubtopicID, ex)
	}

	if h.metrics != nil {
		h.metrics.RecordRequest(observability.EndpointChatStream, true)
		h.metrics.RecordStreamDuration(observability.EndpointChatStream, time.Since(started).Seconds(), true)
	}
}

// =============================================================================
// Internals
// =============================================================================

// loadHistory resolves replayable history: cache, then store, warming
// the cache on a store hit.
func (h *ChatHandler) loadHistory(ctx context.Context, userID, subtopicID string) ([]datatypes.Exchange, error) {
	if cached, ok := h.cache.Get(userID, subtopicID); ok && len(cached) > 0 {
		return cached, nil
	}
	stored, err := h.store.Find(ctx, userID, subtopicID)
	if err != nil {
		return nil, err
	}
	if len(stored) > 0 {
		h.cache.Put(userID, subtopicID, stored)
	}
	return stored, nil
}

// buildTurnPrompt chooses the prompt family for this turn and reports
// whether the tutor system message should lead the message list.
func (h *ChatHandler) buildTurnPrompt(req datatypes.SendChatRequest, historyLen int) (string, bool, error) {
	if datatypes.IsDSAProblemSet(req.SubtopicID) {
		return prompt.Build(req.SubtopicID, req.Message, historyLen), false, nil
	}
	if historyLen == 0 {
		id, err := datatypes.ParseSubtopicID(req.SubtopicID)
		if err != nil {
			return "", false, err
		}
		return prompt.BuildInitial(id, req.Description, req.Language), true, nil
	}
	return prompt.Build(req.SubtopicID, req.Message, historyLen), false, nil
}

func (h *ChatHandler) recordLookup(source string) {
	if h.metrics != nil {
		h.metrics.RecordConversationLookup(source)
	}
}

func (h *ChatHandler) recordError(endpoint observability.Endpoint, code observability.ErrorCode) {
	if h.metrics != nil {
		h.metrics.RecordError(endpoint, code)
	}
}
