// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/platolabs/plato/services/tutor/datatypes"
)

// apiClient talks to the tutor service over HTTP.
//
// Chat sends stream raw text chunks; course generation streams
// newline-delimited JSON with keep-alive packets. Everything else is
// plain request/response with the shared success envelope.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL, token string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		// No overall timeout: chat and course responses stream for
		// minutes. Cancellation runs through the request context.
		http: &http.Client{},
	}
}

func (c *apiClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// PastConversations fetches stored history for a subtopic.
func (c *apiClient) PastConversations(ctx context.Context, q datatypes.PastConversationsQuery) ([]datatypes.Exchange, error) {
	params := url.Values{}
	params.Set("subtopicId", q.SubtopicID)
	params.Set("backendlanguage", q.Language)
	if q.Description != "" {
		params.Set("description", q.Description)
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/api/chat/past?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool                 `json:"success"`
		Data    []datatypes.Exchange `json:"data"`
		Message string               `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode history response: %w", err)
	}
	if !envelope.Success {
		// The problemset error envelope means "nothing stored"; the
		// caller starts the conversation through SendChat.
		return nil, nil
	}
	return envelope.Data, nil
}

// SendChat streams one chat turn, invoking onChunk for each chunk as
// it arrives, and returns the full accumulated text.
func (c *apiClient) SendChat(ctx context.Context, body datatypes.SendChatRequest, onChunk func(string)) (string, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/chat/send", bytes.NewReader(encoded))
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.decodeError(resp)
	}

	var full strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			chunk := string(buf[:n])
			full.WriteString(chunk)
			if onChunk != nil {
				onChunk(chunk)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return full.String(), fmt.Errorf("stream interrupted: %w", err)
		}
	}

	text := full.String()
	if strings.HasSuffix(text, errorSentinel) {
		return strings.TrimSuffix(text, errorSentinel), errors.New("the AI service failed to generate a response")
	}
	return strings.TrimSpace(text), nil
}

// errorSentinel mirrors the server's mid-stream failure marker.
const errorSentinel = "\nError generating response from AI service."

// SelectLanguage adopts the server's built-in syllabus for a language.
func (c *apiClient) SelectLanguage(ctx context.Context, language string) ([]datatypes.Syllabus, error) {
	return c.postForSyllabi(ctx, "/api/language/select", datatypes.SelectLanguageRequest{Language: language})
}

// UpdateTopics replaces the server-side syllabus set.
func (c *apiClient) UpdateTopics(ctx context.Context, topics []datatypes.Syllabus) ([]datatypes.Syllabus, error) {
	return c.postForSyllabi(ctx, "/api/language/update-topics", datatypes.UpdateTopicsRequest{Topics: topics})
}

func (c *apiClient) postForSyllabi(ctx context.Context, path string, body any) ([]datatypes.Syllabus, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp)
	}
	var envelope struct {
		Success bool                 `json:"success"`
		Data    []datatypes.Syllabus `json:"data"`
		Message string               `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !envelope.Success {
		return nil, errors.New(envelope.Message)
	}
	return envelope.Data, nil
}

// GenerateCourse requests a personalized course and waits through the
// keep-alive stream for the final envelope. onKeepAlive (optional) is
// called per keep-alive packet so the UI can show progress.
func (c *apiClient) GenerateCourse(ctx context.Context, body datatypes.GenerateCourseRequest, onKeepAlive func(datatypes.KeepAlivePayload)) ([]datatypes.Syllabus, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/language/generate-course", bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var ka datatypes.KeepAlivePayload
		if err := json.Unmarshal([]byte(line), &ka); err == nil && ka.KeepAlive {
			if onKeepAlive != nil {
				onKeepAlive(ka)
			}
			continue
		}

		var envelope struct {
			Success bool                 `json:"success"`
			Data    []datatypes.Syllabus `json:"data"`
			Message string               `json:"message"`
		}
		if err := json.Unmarshal([]byte(line), &envelope); err != nil {
			return nil, fmt.Errorf("decode final response: %w", err)
		}
		if !envelope.Success {
			return nil, errors.New(envelope.Message)
		}
		return envelope.Data, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("stream interrupted: %w", err)
	}
	return nil, errors.New("stream ended without a final response")
}

func (c *apiClient) decodeError(resp *http.Response) error {
	var envelope datatypes.APIResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&envelope); err == nil && envelope.Message != "" {
		return fmt.Errorf("%s (HTTP %d)", envelope.Message, resp.StatusCode)
	}
	return fmt.Errorf("request failed with HTTP %d", resp.StatusCode)
}

// waitServer pings /healthz until the server answers or the timeout
// elapses. Used before interactive sessions for a clearer error than
// a mid-chat connection refusal.
func (c *apiClient) waitServer(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
		if err != nil {
			return err
		}
		resp, err := c.http.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("tutor service at %s is not responding", c.baseURL)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}
