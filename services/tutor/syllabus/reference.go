// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package syllabus owns course content: the embedded reference
// syllabi, per-user syllabus persistence, and AI-personalized course
// generation.
package syllabus

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/platolabs/plato/services/tutor/datatypes"
)

//go:embed reference/*.yaml
var referenceFS embed.FS

var (
	refOnce     sync.Once
	refSyllabi  map[string]datatypes.Syllabus
	refDefaults map[string]map[string]string
	refErr      error
)

// loadReference parses the embedded course data exactly once. The
// files ship inside the binary, so a parse failure is a build defect
// and surfaces on first use.
func loadReference() error {
	refOnce.Do(func() {
		refSyllabi = make(map[string]datatypes.Syllabus)
		refDefaults = make(map[string]map[string]string)

		entries, err := fs.ReadDir(referenceFS, "reference")
		if err != nil {
			refErr = fmt.Errorf("syllabus: read embedded reference: %w", err)
			return
		}
		for _, entry := range entries {
			raw, err := referenceFS.ReadFile("reference/" + entry.Name())
			if err != nil {
				refErr = fmt.Errorf("syllabus: read %s: %w", entry.Name(), err)
				return
			}
			if strings.HasPrefix(entry.Name(), "defaults") {
				if err := yaml.Unmarshal(raw, &refDefaults); err != nil {
					refErr = fmt.Errorf("syllabus: parse %s: %w", entry.Name(), err)
					return
				}
				continue
			}
			var syl datatypes.Syllabus
			if err := yaml.Unmarshal(raw, &syl); err != nil {
				refErr = fmt.Errorf("syllabus: parse %s: %w", entry.Name(), err)
				return
			}
			syl.StampSubtopicIDs()
			refSyllabi[syl.Language] = syl
		}
	})
	return refErr
}

// Reference returns the built-in syllabus for a language and whether
// one exists. The returned value is a deep-enough copy for callers to
// stamp and persist without touching the embedded original.
func Reference(language string) (datatypes.Syllabus, bool) {
	if err := loadReference(); err != nil {
		return datatypes.Syllabus{}, false
	}
	syl, ok := refSyllabi[language]
	if !ok {
		return datatypes.Syllabus{}, false
	}
	return copySyllabus(syl), true
}

// ReferenceLanguages lists the languages that ship a built-in syllabus.
func ReferenceLanguages() []string {
	if err := loadReference(); err != nil {
		return nil
	}
	out := make([]string, 0, len(refSyllabi))
	for lang := range refSyllabi {
		out = append(out, lang)
	}
	return out
}

// DefaultContent returns the prewritten lesson for a subtopic, if one
// ships with the binary. Served instead of generating on first visit.
func DefaultContent(language, subtopicID string) (string, bool) {
	if err := loadReference(); err != nil {
		return "", false
	}
	byID, ok := refDefaults[language]
	if !ok {
		return "", false
	}
	content, ok := byID[subtopicID]
	return content, ok
}

func copySyllabus(in datatypes.Syllabus) datatypes.Syllabus {
	out := in
	out.Topics = make([]datatypes.Topic, len(in.Topics))
	for ti, topic := range in.Topics {
		ct := topic
		ct.Subtopics = make([]datatypes.Subtopic, len(topic.Subtopics))
		for si, sub := range topic.Subtopics {
			cs := sub
			cs.Challenges = append([]datatypes.Challenge(nil), sub.Challenges...)
			ct.Subtopics[si] = cs
		}
		out.Topics[ti] = ct
	}
	return out
}
