// Package career maps free-text study-program names onto the canonical
// career list used by the destination graph.
package career

import (
	"strings"

	"github.com/agext/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/textnorm"
)

// similarityCutoff is the minimum fuzzy-match score accepted.
const similarityCutoff = 0.7

// canonical holds the career names exactly as stored on Carrera nodes.
var canonical = []string{
	"derecho", "ciencia de los alimentos", "veterinaria", "biología",
	"biotecnología", "ciencias ambientales", "ingles", "geografia",
	"historia", "historia del arte", "lengua y literatura", "ade",
	"comercio internacional", "economía", "finanzas", "marketing",
	"turismo", "rrll y rrhh", "ingenieria aeroespacial",
	"ingenieria de datos", "ingenieria electrica", "ingenieria industrial",
	"ingenieria informatica", "ingenieria mecanica", "topografia",
	"ingenieria de la energia", "ingenieria minera", "ingenieria agraria",
	"ingenieria forestal", "educacion infantil", "educacion primaria",
	"educacion social", "enfermeria", "fisioterapia", "podologia",
	"trabajo social", "ciencias del deporte",
}

// aliases maps common synonyms and abbreviations (normalized) to canonical names.
var aliases = map[string]string{
	"informatica":                "ingenieria informatica",
	"ingenieria informatica":     "ingenieria informatica",
	"ing informatica":            "ingenieria informatica",
	"industrial":                 "ingenieria industrial",
	"mecanica":                   "ingenieria mecanica",
	"electrica":                  "ingenieria electrica",
	"aeroespacial":               "ingenieria aeroespacial",
	"datos":                      "ingenieria de datos",
	"minera":                     "ingenieria minera",
	"agraria":                    "ingenieria agraria",
	"forestal":                   "ingenieria forestal",
	"energia":                    "ingenieria de la energia",
	"administracion de empresas": "ade",
	"empresariales":              "ade",
	"economia":                   "economía",
	"comercio":                   "comercio internacional",
	"infantil":                   "educacion infantil",
	"primaria":                   "educacion primaria",
	"magisterio":                 "educacion primaria",
	"pedagogia":                  "educacion social",
	"biologia":                   "biología",
	"bio":                        "biología",
	"biotecnologia":              "biotecnología",
	"ambientales":                "ciencias ambientales",
	"medio ambiente":             "ciencias ambientales",
	"alimentos":                  "ciencia de los alimentos",
	"enfermeria":                 "enfermeria",
	"fisio":                      "fisioterapia",
	"podo":                       "podologia",
	"geografia":                  "geografia",
	"geo":                        "geografia",
	"filologia":                  "lengua y literatura",
	"lengua":                     "lengua y literatura",
	"arte":                       "historia del arte",
	"relaciones laborales":       "rrll y rrhh",
	"recursos humanos":           "rrll y rrhh",
	"rrhh":                       "rrll y rrhh",
	"trabajo social":             "trabajo social",
	"ts":                         "trabajo social",
	"deporte":                    "ciencias del deporte",
	"deportes":                   "ciencias del deporte",
	"cafyd":                      "ciencias del deporte",
	"educacion fisica":           "ciencias del deporte",
}

var titleCaser = cases.Title(language.Spanish)

// Resolve maps the user's free text to a canonical career. Resolution order is
// exact match, alias lookup, substring containment in either direction, then
// fuzzy matching with a 0.7 similarity cutoff. ok is false when nothing
// resolves; the caller must reprompt without mutating state.
func Resolve(text string) (canonicalName, display string, ok bool) {
	clean := strings.ToLower(strings.TrimSpace(text))
	norm := textnorm.Normalize(clean)
	if norm == "" {
		return "", "", false
	}

	for _, c := range canonical {
		if clean == c || norm == textnorm.Normalize(c) {
			return c, titleCaser.String(c), true
		}
	}

	if c, found := aliases[norm]; found {
		return c, titleCaser.String(c), true
	}

	for _, c := range canonical {
		cn := textnorm.Normalize(c)
		if strings.Contains(cn, norm) || strings.Contains(norm, cn) {
			return c, titleCaser.String(c), true
		}
	}

	best := ""
	bestScore := 0.0
	params := levenshtein.NewParams()
	for _, c := range canonical {
		score := levenshtein.Similarity(norm, textnorm.Normalize(c), params)
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore >= similarityCutoff {
		return best, titleCaser.String(best), true
	}

	return "", "", false
}
