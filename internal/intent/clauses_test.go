package intent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildScoringClausesTermCount(t *testing.T) {
	rec := Record{Categories: map[string]bool{"playa": true, "castillo": true, "museo": true}}
	cl := BuildScoringClauses(rec)

	assert.Equal(t, 3, strings.Count(cl.AttractionExpr, "THEN 100 ELSE 0 END"))
	assert.Equal(t, []string{"castillo", "museo", "playa"}, cl.Categories)
	assert.Equal(t, "0", cl.CountryExpr)
}

func TestBuildScoringClausesEmpty(t *testing.T) {
	cl := BuildScoringClauses(Record{Categories: map[string]bool{}})
	assert.Equal(t, "0", cl.AttractionExpr)
	assert.Equal(t, "0", cl.CountryExpr)
	assert.Empty(t, cl.Categories)
}

func TestBuildScoringClausesTraits(t *testing.T) {
	rec := Record{
		Categories: map[string]bool{},
		Traits:     Traits{LowCost: true, HighNightlife: true, YoungPopulation: true},
	}
	cl := BuildScoringClauses(rec)

	assert.Equal(t, 3, strings.Count(cl.CountryExpr, "THEN 100 ELSE 0 END"))
	assert.Contains(t, cl.CountryExpr, "p.coste_vida IN ['Bajo', 'Muy Bajo']")
	assert.Contains(t, cl.CountryExpr, "p.ambiente_fiesta IN ['Alto', 'Muy Alto']")
	assert.Contains(t, cl.CountryExpr, "p.edad_media < 40")
}

func TestBuildScoringClausesSkipsUnknownTags(t *testing.T) {
	rec := Record{Categories: map[string]bool{"playa": true, "'; DETACH DELETE n //": true}}
	cl := BuildScoringClauses(rec)

	assert.Equal(t, []string{"playa"}, cl.Categories)
	assert.NotContains(t, cl.AttractionExpr, "DETACH")
}

func TestEscapeLiteral(t *testing.T) {
	assert.Equal(t, `a\'b`, escapeLiteral(`a'b`))
	assert.Equal(t, `a\\b`, escapeLiteral(`a\b`))
}
