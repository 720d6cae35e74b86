// Package certs parses free-text language-certificate claims into structured
// (language, level) pairs and provides the CEFR level ordering.
package certs

import (
	"regexp"
	"strings"

	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/textnorm"
)

// Claim is a single asserted language certificate.
type Claim struct {
	Language string `json:"idioma"`
	Level    string `json:"nivel"`
}

// levelRanks orders CEFR levels for comparison.
var levelRanks = map[string]int{
	"A1": 1, "A2": 2, "B1": 3, "B2": 4, "C1": 5, "C2": 6,
}

// LevelRank returns the ordinal of a CEFR level, or 0 for unknown input.
func LevelRank(level string) int {
	return levelRanks[strings.ToUpper(level)]
}

// languages maps recognized language spellings (Spanish and English names)
// to the canonical tag used in the graph.
var languages = map[string]string{
	"ingles": "ingles", "inglés": "ingles", "english": "ingles",
	"frances": "frances", "francés": "frances", "french": "frances",
	"aleman": "aleman", "alemán": "aleman", "german": "aleman",
	"italiano": "italiano", "italian": "italiano",
	"portugues": "portugues", "português": "portugues", "portuguese": "portugues",
}

var claimPattern = regexp.MustCompile(`(?i)([ABC][12])\s*(?:de\s+)?(\p{L}+)`)

// Extract parses certificate claims from the user's text. none is true when
// the user stated they hold no certificates. ok is false when the text
// matched neither a claim nor the "no certificates" form; the caller must
// reprompt without mutating state.
func Extract(text string) (claims []Claim, none bool, ok bool) {
	lower := strings.ToLower(text)

	if strings.Contains(lower, "no") && (strings.Contains(lower, "tengo") || strings.Contains(lower, "certificado")) {
		return nil, true, true
	}
	if strings.TrimSpace(lower) == "no" {
		return nil, true, true
	}

	for _, m := range claimPattern.FindAllStringSubmatch(text, -1) {
		lang, known := languages[strings.ToLower(m[2])]
		if !known {
			continue
		}
		claims = append(claims, Claim{
			Language: lang,
			Level:    strings.ToUpper(m[1]),
		})
	}

	if len(claims) == 0 {
		return nil, false, false
	}
	return claims, false, true
}

// SatisfiesRequirement reports whether any claim meets a requirement string
// of the form scanned by requirementPattern ("B2 ingles ...", possibly
// listing several level/language pairs).
func SatisfiesRequirement(claims []Claim, requirement string) bool {
	pairs := ScanRequirement(requirement)
	for _, c := range claims {
		lang := textnorm.Normalize(c.Language)
		rank := LevelRank(c.Level)
		for _, p := range pairs {
			if p.Language == lang && rank >= LevelRank(p.Level) {
				return true
			}
		}
	}
	return false
}

var requirementPattern = regexp.MustCompile(`([abc][12])\s+([a-z]+)`)

// ScanRequirement tokenizes an offer's requirement string into the
// (level, language) pairs it mentions.
func ScanRequirement(requirement string) []Claim {
	req := strings.ToLower(strings.TrimSpace(requirement))
	matches := requirementPattern.FindAllStringSubmatch(req, -1)
	pairs := make([]Claim, 0, len(matches))
	for _, m := range matches {
		pairs = append(pairs, Claim{Language: m[2], Level: strings.ToUpper(m[1])})
	}
	return pairs
}
