package intent

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Spanish)

// displayNames maps every extractor tag to its user-facing label. The table
// is kept in strict parity with the extraction dictionaries.
var displayNames = map[string]string{
	"aventura":        "🏔️ Aventura",
	"gastronomia":     "🍽️ Gastronomía",
	"relax":           "🧘 Relax",
	"compras":         "🛍️ Compras",
	"parque_tematico": "🎢 Parques temáticos",
	"salud":           "💆 Salud y bienestar",
	"historia":        "🏛️ Historia",
	"religion":        "⛪ Religión",
	"cultura":         "🎭 Cultura",
	"arte":            "🎨 Arte",
	"patrimonio":      "🏺 Patrimonio",
	"arquitectura":    "🏗️ Arquitectura",
	"playa":           "🏖️ Playa",
	"isla":            "🏝️ Isla",
	"montaña":         "⛰️ Montaña",
	"naturaleza":      "🌳 Naturaleza",
	"lago":            "🌊 Lagos y ríos",
	"rural":           "🌾 Rural",
	"castillo":        "🏰 Castillos",
	"palacio":         "👑 Palacios",
	"museo":           "🖼️ Museos",
	"iglesia":         "⛪ Iglesias",
	"cueva":           "🕳️ Cuevas",
}

// FormatCategories renders detected category tags for user-facing text and
// for the recommendation prompt.
func FormatCategories(cats []string) string {
	if len(cats) == 0 {
		return "Ninguna categoría específica detectada"
	}
	labels := make([]string, 0, len(cats))
	for _, c := range cats {
		if name, ok := displayNames[c]; ok {
			labels = append(labels, name)
			continue
		}
		labels = append(labels, titleCaser.String(c))
	}
	return strings.Join(labels, ", ")
}
