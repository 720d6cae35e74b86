// Package search implements the two graph query stages of the recommendation
// pipeline: the questionnaire-driven primary search and the free-text-driven
// secondary scoring pass.
package search

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/certs"
	"github.com/rmartg14/SIBI-2025-RMARTG14/pkg/graph"
)

// ErrInvalidBundle marks a preference bundle that could not be decoded.
var ErrInvalidBundle = eris.New("search: invalid preference bundle")

// Certificates carries either the explicit "no certificates" marker or a
// list of claims. On the wire it is the string "NO" or a JSON array, matching
// the bundle format exchanged with the dialogue controller.
type Certificates struct {
	None   bool
	Claims []certs.Claim
}

// MarshalJSON encodes the "NO" marker or the claim list.
func (c Certificates) MarshalJSON() ([]byte, error) {
	if c.None {
		return json.Marshal("NO")
	}
	return json.Marshal(c.Claims)
}

// UnmarshalJSON accepts the string "NO", a claim array, or null.
func (c *Certificates) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = Certificates{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "NO" {
			*c = Certificates{None: true}
			return nil
		}
		return eris.Errorf("certificates: unexpected string %q", s)
	}
	var claims []certs.Claim
	if err := json.Unmarshal(data, &claims); err != nil {
		return eris.Wrap(err, "certificates: decode claims")
	}
	*c = Certificates{Claims: claims}
	return nil
}

// PreferenceBundle is the JSON document the dialogue controller hands to the
// primary search stage.
type PreferenceBundle struct {
	Carrera          string       `json:"carrera"`
	Certificados     Certificates `json:"certificados"`
	TamanoCiudad     string       `json:"tamano_ciudad"`
	RegionEuropa     string       `json:"region_europa"`
	PreferenciaClima string       `json:"preferencia_clima"`
}

// Destination is one row of the primary search result: a
// university/city/country aggregate with its composite base score.
type Destination struct {
	Universidad            string
	Pais                   string
	Localizacion           string
	TemperaturaMedia       float64
	Ciudad                 string
	Poblacion              int64
	PlazasDisponibles      int64
	DuracionMeses          int64
	CertificadoObligatorio string
	NivelRequerido         string
	PuntuacionCompuesta    float64
}

// Attraction is a tourist attraction collected for a candidate country.
type Attraction struct {
	Nombre      string
	Rating      float64
	Categorias  []string
	Descripcion string
	Visitantes  int64
}

// EnrichedCandidate is a Destination augmented by the secondary stage with
// country facts, its top attractions and the trait/attraction score.
type EnrichedCandidate struct {
	Universidad           string
	Pais                  string
	Localizacion          string
	Ciudad                string
	Poblacion             int64
	CosteVida             string
	AmbienteFiesta        string
	ComidasTipicas        string
	Temperatura           float64
	EdadMedia             float64
	Atractivos            []Attraction
	PuntuacionBase        float64
	PuntosCaracteristicas float64
	PuntuacionTotal       float64
}

// shortlistSize is the number of re-ranked candidates surfaced to the composer.
const shortlistSize = 5

// Searcher runs both stages against the graph service.
type Searcher struct {
	graph graph.Service
}

// NewSearcher creates a Searcher over the given graph service.
func NewSearcher(g graph.Service) *Searcher {
	return &Searcher{graph: g}
}

// --- row decoding helpers; the driver returns int64/float64/string scalars ---

func rowString(row map[string]any, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	return ""
}

func rowFloat(row map[string]any, key string) float64 {
	switch v := row[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func rowInt(row map[string]any, key string) int64 {
	switch v := row[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

func rowStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if direct, ok := v.([]string); ok {
			return direct
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
