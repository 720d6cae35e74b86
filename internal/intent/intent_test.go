package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCategories(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "beaches and castles",
			text: "quiero playas y castillos",
			want: []string{"castillo", "playa"},
		},
		{
			name: "accented input matches unaccented keywords",
			text: "me encanta la gastronomía y la montaña",
			want: []string{"gastronomia", "montaña"},
		},
		{
			name: "unaccented input matches accented keywords",
			text: "mejor religión e historia",
			want: []string{"historia", "religion"},
		},
		{
			name: "museum keyword hits both arte and museo",
			text: "un museo interesante",
			want: []string{"arte", "museo"},
		},
		{
			name: "no matches",
			text: "me gusta el fútbol",
			want: []string{},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Extract(tt.text)
			assert.Equal(t, tt.want, rec.CategoryList())
		})
	}
}

func TestExtractTraits(t *testing.T) {
	rec := Extract("algo económico con mucha vida nocturna y gente joven")
	assert.True(t, rec.Traits.LowCost)
	assert.True(t, rec.Traits.HighNightlife)
	assert.True(t, rec.Traits.YoungPopulation)

	rec = Extract("un lugar tranquilo con naturaleza")
	assert.False(t, rec.Traits.LowCost)
	assert.False(t, rec.Traits.HighNightlife)
	assert.False(t, rec.Traits.YoungPopulation)
}

// Adding a keyword for one category may add that category but never removes
// previously detected ones.
func TestExtractMonotonic(t *testing.T) {
	base := "busco historia y cultura"
	baseRec := Extract(base)
	require.True(t, baseRec.Categories["historia"])
	require.True(t, baseRec.Categories["cultura"])

	extended := Extract(base + " y también playa")
	for cat := range baseRec.Categories {
		assert.True(t, extended.Categories[cat], "category %s lost after extending text", cat)
	}
	assert.True(t, extended.Categories["playa"])
}

func TestTaxonomySize(t *testing.T) {
	// 6 experience + 6 cultural + 6 geography + 5 construction tags.
	assert.Len(t, categoryKeywords, 23)
	assert.Len(t, traitKeywords, 3)
}

func TestFormatCategories(t *testing.T) {
	assert.Equal(t, "Ninguna categoría específica detectada", FormatCategories(nil))

	got := FormatCategories([]string{"playa", "castillo"})
	assert.Contains(t, got, "Playa")
	assert.Contains(t, got, "Castillos")
}

// Every display-table entry must correspond to an extractor tag and vice
// versa, so no category can ever render without a dictionary behind it.
func TestDisplayNameParity(t *testing.T) {
	for tag := range displayNames {
		assert.True(t, KnownCategory(tag), "display entry %q has no extraction dictionary", tag)
	}
	for tag := range categoryKeywords {
		_, ok := displayNames[tag]
		assert.True(t, ok, "extractor tag %q has no display name", tag)
	}
}
