// Package intent turns a student's free-text description into a structured
// record of attraction categories and country traits, and builds the weighted
// Cypher scoring fragments consumed by the secondary search stage.
package intent

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/textnorm"
)

//go:embed keywords.yaml
var keywordsYAML []byte

// Traits are the binary country-level preference signals inferred from text.
type Traits struct {
	LowCost         bool
	HighNightlife   bool
	YoungPopulation bool
}

// Record is the structured result of analyzing one free-text description.
// Categories holds detected attraction-category tags as a set.
type Record struct {
	Categories map[string]bool
	Traits     Traits
}

// CategoryList returns the detected categories sorted alphabetically.
// Detection order carries no meaning, so a stable order is used everywhere
// the categories are rendered or spliced into a query.
func (r Record) CategoryList() []string {
	out := make([]string, 0, len(r.Categories))
	for c := range r.Categories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

type keywordFile struct {
	Categorias map[string]map[string][]string `yaml:"categorias"`
	Pais       map[string][]string            `yaml:"pais"`
}

// categoryKeywords maps category tag -> normalized keyword variants.
var categoryKeywords map[string][]string

// traitKeywords maps trait key (barato, fiesta_alta, joven) -> normalized variants.
var traitKeywords map[string][]string

func init() {
	var kf keywordFile
	if err := yaml.Unmarshal(keywordsYAML, &kf); err != nil {
		panic(fmt.Sprintf("intent: parse embedded keywords: %v", err))
	}

	categoryKeywords = make(map[string][]string)
	for _, group := range kf.Categorias {
		for tag, kws := range group {
			for _, kw := range kws {
				categoryKeywords[tag] = append(categoryKeywords[tag], textnorm.Normalize(kw))
			}
		}
	}

	traitKeywords = make(map[string][]string)
	for key, kws := range kf.Pais {
		for _, kw := range kws {
			traitKeywords[key] = append(traitKeywords[key], textnorm.Normalize(kw))
		}
	}
}

// KnownCategory reports whether tag belongs to the category taxonomy.
func KnownCategory(tag string) bool {
	_, ok := categoryKeywords[tag]
	return ok
}

// Extract detects attraction categories and country traits in the given
// description. Matching is substring containment after accent folding, so
// accented and unaccented spellings behave identically. An empty or
// unmatchable description yields an empty record; there are no error cases.
func Extract(description string) Record {
	text := textnorm.Normalize(description)

	rec := Record{Categories: make(map[string]bool)}
	for tag, kws := range categoryKeywords {
		if containsAny(text, kws) {
			rec.Categories[tag] = true
		}
	}

	rec.Traits.LowCost = containsAny(text, traitKeywords["barato"])
	rec.Traits.HighNightlife = containsAny(text, traitKeywords["fiesta_alta"])
	rec.Traits.YoungPopulation = containsAny(text, traitKeywords["joven"])

	return rec
}

func containsAny(text string, kws []string) bool {
	for _, kw := range kws {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
