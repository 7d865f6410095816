// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package syllabus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/platolabs/plato/pkg/logging"
	"github.com/platolabs/plato/services/llm"
	"github.com/platolabs/plato/services/tutor/datatypes"
)

// ErrLanguageNotFound is returned when no reference syllabus exists
// for the requested language.
var ErrLanguageNotFound = errors.New("syllabus: language not found")

// Service implements the course surface: selecting a built-in
// syllabus, replacing a user's topic set, and generating a
// personalized course through the LLM.
type Service struct {
	store  *Store
	llm    llm.LLMClient
	logger *logging.Logger
}

// NewService wires the syllabus store and the course-generation LLM
// client together.
func NewService(store *Store, client llm.LLMClient, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, llm: client, logger: logger}
}

// SelectLanguage copies the reference syllabus for the language into
// the user's profile and returns the user's full syllabus set.
func (s *Service) SelectLanguage(ctx context.Context, userID, language string) ([]datatypes.Syllabus, error) {
	ref, ok := Reference(language)
	if !ok {
		return nil, ErrLanguageNotFound
	}
	if err := s.store.Upsert(ctx, userID, ref); err != nil {
		return nil, err
	}
	s.logger.Info("language selected", "user_id", userID, "language", language)
	return s.store.ListByUser(ctx, userID)
}

// UpdateTopics replaces the user's complete syllabus set.
func (s *Service) UpdateTopics(ctx context.Context, userID string, syllabi []datatypes.Syllabus) ([]datatypes.Syllabus, error) {
	if err := s.store.ReplaceAll(ctx, userID, syllabi); err != nil {
		return nil, err
	}
	return s.store.ListByUser(ctx, userID)
}

// GenerateCourse builds a personalized syllabus from the user's
// expertise levels and goal, persists it, and returns the user's full
// syllabus set.
//
// When the goal is DSA and the language is C++, the DSA reference
// syllabus drives generation and the resulting course is filed under
// the DSA language, matching how practice sheets address it.
func (s *Service) GenerateCourse(ctx context.Context, userID string, req datatypes.GenerateCourseRequest) ([]datatypes.Syllabus, error) {
	referenceLang := req.Language
	if strings.EqualFold(req.Goal, "dsa") && req.Language == "C++" {
		referenceLang = datatypes.DSALanguage
	}

	ref, hasRef := Reference(referenceLang)
	if !hasRef {
		s.logger.Warn("no reference syllabus, generating without one", "language", referenceLang)
	}

	coursePrompt, err := buildCoursePrompt(referenceLang, req.Goal, req.Expertise, ref, hasRef)
	if err != nil {
		return nil, err
	}

	content, err := s.llm.Chat(ctx, []datatypes.Message{
		{Role: datatypes.RoleSystem, Content: courseSystemPrompt},
		{Role: datatypes.RoleUser, Content: coursePrompt},
	}, llm.GenerationParams{
		MaxTokens:       llm.IntPtr(100000),
		JSONMode:        true,
		ReasoningEffort: "low",
	})
	if err != nil {
		return nil, fmt.Errorf("syllabus: generate course: %w", err)
	}

	var generated datatypes.Syllabus
	dec := json.NewDecoder(strings.NewReader(content))
	if err := dec.Decode(&generated); err != nil {
		s.logger.Error("model returned invalid syllabus JSON", "error", err)
		return nil, fmt.Errorf("syllabus: parse generated course: %w", err)
	}
	if generated.Language == "" {
		generated.Language = referenceLang
	}
	if len(generated.Topics) == 0 {
		return nil, errors.New("syllabus: generated course has no topics")
	}
	generated.StampSubtopicIDs()

	if err := s.store.SaveCourseOption(ctx, userID, req.Language, req.Goal, req.Expertise); err != nil {
		return nil, err
	}
	if err := s.store.Upsert(ctx, userID, generated); err != nil {
		return nil, err
	}

	s.logger.Info("personalized course generated",
		"user_id", userID,
		"language", generated.Language,
		"topics", len(generated.Topics))
	return s.store.ListByUser(ctx, userID)
}

// =============================================================================
// Course Prompt Assembly
// =============================================================================

const courseSystemPrompt = `You are a **programming education expert** responsible for **modifying a reference syllabus** into a **personalized syllabus** based on the user’s expertise levels. **Strictly follow the step-by-step instructions** in user prompt generating the syllabus.`

// buildCoursePrompt renders the full personalization prompt: the goal
// line, the skeleton syllabus derived from expertise levels, and the
// restructuring instructions.
func buildCoursePrompt(referenceLang, goal string, expertise map[string]string, ref datatypes.Syllabus, hasRef bool) (string, error) {
	var goalLine string
	if strings.EqualFold(goal, "dsa") {
		goalLine = "generate a learning path for learning DSA in C++."
	} else {
		goalLine = fmt.Sprintf("generate a learning path for learning %s language.", referenceLang)
	}

	demo := buildDemoSyllabus(expertise, ref, hasRef)
	demoJSON, err := json.MarshalIndent(demo, "", "  ")
	if err != nil {
		return "", fmt.Errorf("syllabus: encode demo structure: %w", err)
	}

	return fmt.Sprintf(courseInstructionsTemplate, goalLine, string(demoJSON), referenceLang), nil
}

// buildDemoSyllabus shapes the expertise levels into the skeleton the
// model fills in: expert topics collapse into one recap topic, while
// familiar and beginner topics keep the reference structure.
func buildDemoSyllabus(expertise map[string]string, ref datatypes.Syllabus, hasRef bool) datatypes.Syllabus {
	if !hasRef {
		return datatypes.Syllabus{Language: "Unknown", Topics: []datatypes.Topic{}}
	}

	var expertNames, familiarNames, beginnerNames []string
	for name, level := range expertise {
		switch strings.ToLower(level) {
		case "expert":
			expertNames = append(expertNames, name)
		case "familiar":
			familiarNames = append(familiarNames, name)
		default:
			beginnerNames = append(beginnerNames, name)
		}
	}
	// Map iteration order is random; keep the skeleton deterministic.
	sort.Strings(expertNames)
	sort.Strings(familiarNames)
	sort.Strings(beginnerNames)

	out := datatypes.Syllabus{Language: ref.Language, Topics: []datatypes.Topic{}}
	topicID := 1

	if len(expertNames) > 0 {
		recap := datatypes.Topic{
			ID:    topicID,
			Name:  "Recap of: " + strings.Join(expertNames, ", "),
			Level: "Expert",
		}
		subID := 1
		for _, name := range expertNames {
			refTopic := findTopic(ref, name)
			if refTopic == nil {
				continue
			}
			for _, sub := range refTopic.Subtopics {
				recap.Subtopics = append(recap.Subtopics, datatypes.Subtopic{
					ID:         subID,
					Name:       sub.Name,
					SubtopicID: datatypes.SubtopicIDFor(ref.Language, 0, subID-1),
					Challenges: []datatypes.Challenge{},
				})
				subID++
			}
		}
		out.Topics = append(out.Topics, recap)
		topicID++
	}

	appendLevel := func(names []string, level string) {
		for _, name := range names {
			refTopic := findTopic(ref, name)
			if refTopic == nil {
				continue
			}
			topic := datatypes.Topic{
				ID:    topicID,
				Name:  refTopic.Name,
				Level: level,
			}
			for si, sub := range refTopic.Subtopics {
				topic.Subtopics = append(topic.Subtopics, datatypes.Subtopic{
					ID:         si + 1,
					Name:       sub.Name,
					SubtopicID: datatypes.SubtopicIDFor(ref.Language, topicID-1, si),
					Challenges: []datatypes.Challenge{},
				})
			}
			out.Topics = append(out.Topics, topic)
			topicID++
		}
	}
	appendLevel(familiarNames, "Familiar")
	appendLevel(beginnerNames, "Beginner")

	return out
}

// findTopic matches an expertise topic name against the reference
// syllabus, tolerating partial matches in either direction.
func findTopic(ref datatypes.Syllabus, name string) *datatypes.Topic {
	lower := strings.ToLower(name)
	for i := range ref.Topics {
		refName := strings.ToLower(ref.Topics[i].Name)
		if strings.Contains(refName, lower) || strings.Contains(lower, refName) {
			return &ref.Topics[i]
		}
	}
	return nil
}
