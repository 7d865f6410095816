// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/platolabs/plato/pkg/logging"
	"github.com/platolabs/plato/services/llm"
	"github.com/platolabs/plato/services/tutor/conversation"
	"github.com/platolabs/plato/services/tutor/handlers"
	"github.com/platolabs/plato/services/tutor/middleware"
	"github.com/platolabs/plato/services/tutor/observability"
	"github.com/platolabs/plato/services/tutor/routes"
	"github.com/platolabs/plato/services/tutor/syllabus"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "plato-otel-collector:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("plato-tutor")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func main() {
	// .env is optional; container deployments inject real env vars.
	_ = godotenv.Load()

	port := os.Getenv("TUTOR_PORT")
	if port == "" {
		port = "12310"
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(os.Getenv("LOG_LEVEL")),
		Service: "tutor",
		JSON:    true,
	})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	// --- Init the tracer ---
	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	metrics := observability.InitMetrics()

	dataDir := os.Getenv("PLATO_DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		log.Fatalf("failed to create data dir %s: %v", dataDir, err)
	}

	convStore, err := conversation.OpenSQLite(dataDir + "/conversations.db")
	if err != nil {
		log.Fatalf("failed to open conversation store: %v", err)
	}
	defer convStore.Close()

	syllabusStore, err := syllabus.OpenStore(dataDir + "/syllabi.db")
	if err != nil {
		log.Fatalf("failed to open syllabus store: %v", err)
	}
	defer syllabusStore.Close()

	logger.Info("configuring LLM clients")
	chatCfg, err := llm.ChatConfigFromEnv()
	if err != nil {
		log.Fatalf("chat LLM config: %v", err)
	}
	courseCfg, err := llm.CourseConfigFromEnv()
	if err != nil {
		log.Fatalf("course LLM config: %v", err)
	}
	chatClient := llm.NewAzureOpenAIClient(chatCfg)
	courseClient := llm.NewAzureOpenAIClient(courseCfg)

	cache := conversation.NewCache(conversation.DefaultMaxConversations, conversation.DefaultMaxExchanges)
	courseSvc := syllabus.NewService(syllabusStore, courseClient, logger)

	router := gin.Default()
	routes.Register(router, routes.Dependencies{
		Chat:      handlers.NewChatHandler(cache, convStore, chatClient, logger, metrics),
		Course:    handlers.NewCourseHandler(courseSvc, logger, metrics),
		Validator: middleware.StaticValidatorFromEnv(),
	})

	logger.Info("starting tutor server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
