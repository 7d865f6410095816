// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package routes wires the tutor service's HTTP endpoints.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/platolabs/plato/services/tutor/handlers"
	"github.com/platolabs/plato/services/tutor/middleware"
)

// Dependencies carries everything route registration needs.
type Dependencies struct {
	Chat      *handlers.ChatHandler
	Course    *handlers.CourseHandler
	Validator middleware.TokenValidator
}

// Register attaches all routes to the engine.
//
// Layout:
//
//	GET  /healthz                        liveness (open)
//	GET  /metrics                        Prometheus scrape (open)
//	GET  /api/chat/past                  conversation history (auth)
//	POST /api/chat/send                  streaming chat turn (auth)
//	POST /api/language/select            adopt built-in syllabus (auth)
//	POST /api/language/update-topics     replace syllabus set (auth)
//	POST /api/language/generate-course   personalized course (auth)
func Register(r *gin.Engine, deps Dependencies) {
	r.Use(middleware.RequestID())
	r.Use(otelgin.Middleware("plato-tutor"))

	r.GET("/healthz", handlers.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.RequireAuth(deps.Validator))
	{
		chat := api.Group("/chat")
		chat.GET("/past", deps.Chat.PastConversations)
		chat.POST("/send", deps.Chat.SendChat)

		language := api.Group("/language")
		language.POST("/select", deps.Course.SelectLanguage)
		language.POST("/update-topics", deps.Course.UpdateTopics)
		language.POST("/generate-course", deps.Course.GenerateCourse)
	}
}
