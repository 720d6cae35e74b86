package search

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/certs"
	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/intent"
)

// fakeGraph records the queries it receives and replays canned rows.
type fakeGraph struct {
	rows    []map[string]any
	err     error
	queries []string
	params  []map[string]any
}

func (f *fakeGraph) Run(_ context.Context, cypher string, params map[string]any) ([]map[string]any, error) {
	f.queries = append(f.queries, cypher)
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func bundleJSON(t *testing.T, b PreferenceBundle) string {
	t.Helper()
	data, err := json.Marshal(b)
	require.NoError(t, err)
	return string(data)
}

func TestPrimaryInvalidBundle(t *testing.T) {
	s := NewSearcher(&fakeGraph{})

	_, err := s.Primary(context.Background(), "{not json")
	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid preference bundle")

	_, err = s.Primary(context.Background(), `{"carrera": ""}`)
	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid preference bundle")
}

func TestPrimaryCompositeScoreClauses(t *testing.T) {
	g := &fakeGraph{}
	s := NewSearcher(g)

	_, err := s.Primary(context.Background(), bundleJSON(t, PreferenceBundle{
		Carrera:          "turismo",
		Certificados:     Certificates{None: true},
		TamanoCiudad:     "grande",
		RegionEuropa:     "sur de europa",
		PreferenciaClima: "calor",
	}))
	require.NoError(t, err)
	require.Len(t, g.queries, 1)

	q := g.queries[0]
	assert.Contains(t, q, "toInteger(o.numero_de_plazas) > 0")
	assert.Contains(t, q, "o.cert_obligatorio = 'NO'")
	assert.Contains(t, q, "(toFloat(686 - u.ranking_uni)*0.1) + (u.exchange_score * 0.2)")
	assert.Contains(t, q, "CASE WHEN l.poblacion >= 156000 THEN 70 ELSE 0 END")
	assert.Contains(t, q, "CASE WHEN p.localizacion = $region_europa THEN 70 ELSE 0 END")
	assert.Contains(t, q, "CASE WHEN p.temp_media_anual >= 11.4 THEN 50 ELSE 0 END")
	assert.Contains(t, q, "ORDER BY PuntuacionCompuesta DESC")

	assert.Equal(t, "turismo", g.params[0]["carrera_input"])
	assert.Equal(t, "sur de europa", g.params[0]["region_europa"])
}

func TestPrimaryUnsetPreferencesYieldZeroClauses(t *testing.T) {
	g := &fakeGraph{}
	s := NewSearcher(g)

	_, err := s.Primary(context.Background(), bundleJSON(t, PreferenceBundle{
		Carrera:      "derecho",
		Certificados: Certificates{None: true},
	}))
	require.NoError(t, err)

	q := g.queries[0]
	assert.Contains(t, q, "+ (0) + (0) + (0)")
	assert.NotContains(t, q, "$region_europa")
}

func TestPrimaryCertificateFilterIsPermissive(t *testing.T) {
	g := &fakeGraph{}
	s := NewSearcher(g)

	_, err := s.Primary(context.Background(), bundleJSON(t, PreferenceBundle{
		Carrera: "derecho",
		Certificados: Certificates{Claims: []certs.Claim{
			{Language: "ingles", Level: "B2"},
		}},
	}))
	require.NoError(t, err)

	q := g.queries[0]
	assert.Contains(t, q, "o.cert_obligatorio = 'NO' OR (o.cert_obligatorio = 'SI' AND toLower(o.nivel_requerido) CONTAINS 'ingles')")
}

func TestPrimaryDecodesRows(t *testing.T) {
	g := &fakeGraph{rows: []map[string]any{{
		"Universidad":             "Universita di Bologna",
		"Pais":                    "Italia",
		"Localizacion_Pais":       "sur de europa",
		"Temperatura_Media":       15.0,
		"Ciudad":                  "Bolonia",
		"Poblacion":               int64(390000),
		"Plazas_Disponibles":      int64(3),
		"Duracion_Meses":          int64(9),
		"Certificado_Obligatorio": "NO",
		"Nivel_Requerido":         "",
		"PuntuacionCompuesta":     250.0,
	}}}
	s := NewSearcher(g)

	dests, err := s.Primary(context.Background(), bundleJSON(t, PreferenceBundle{
		Carrera:      "derecho",
		Certificados: Certificates{None: true},
	}))
	require.NoError(t, err)
	require.Len(t, dests, 1)

	d := dests[0]
	assert.Equal(t, "Universita di Bologna", d.Universidad)
	assert.Equal(t, int64(390000), d.Poblacion)
	assert.Equal(t, 15.0, d.TemperaturaMedia)
	assert.Equal(t, 250.0, d.PuntuacionCompuesta)
}

func TestPrimaryPostFilterComparesLevels(t *testing.T) {
	rows := []map[string]any{
		{
			"Universidad":             "Uni Sin Requisito",
			"Certificado_Obligatorio": "NO",
			"Nivel_Requerido":         "",
			"PuntuacionCompuesta":     100.0,
		},
		{
			"Universidad":             "Uni B1 Ingles",
			"Certificado_Obligatorio": "SI",
			"Nivel_Requerido":         "B1 ingles",
			"PuntuacionCompuesta":     90.0,
		},
		{
			"Universidad":             "Uni C1 Ingles",
			"Certificado_Obligatorio": "SI",
			"Nivel_Requerido":         "C1 ingles",
			"PuntuacionCompuesta":     80.0,
		},
		{
			"Universidad":             "Uni B1 Aleman",
			"Certificado_Obligatorio": "SI",
			"Nivel_Requerido":         "B1 aleman",
			"PuntuacionCompuesta":     70.0,
		},
	}
	s := NewSearcher(&fakeGraph{rows: rows})

	dests, err := s.Primary(context.Background(), bundleJSON(t, PreferenceBundle{
		Carrera: "derecho",
		Certificados: Certificates{Claims: []certs.Claim{
			{Language: "ingles", Level: "B2"},
		}},
	}))
	require.NoError(t, err)

	names := make([]string, 0, len(dests))
	for _, d := range dests {
		names = append(names, d.Universidad)
	}
	assert.Equal(t, []string{"Uni Sin Requisito", "Uni B1 Ingles"}, names)
}

func TestPrimaryEmptyResult(t *testing.T) {
	s := NewSearcher(&fakeGraph{})

	dests, err := s.Primary(context.Background(), bundleJSON(t, PreferenceBundle{
		Carrera:      "derecho",
		Certificados: Certificates{None: true},
	}))
	require.NoError(t, err)
	assert.Empty(t, dests)
}

func TestCertificatesJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Certificates{None: true})
	require.NoError(t, err)
	assert.JSONEq(t, `"NO"`, string(data))

	var c Certificates
	require.NoError(t, json.Unmarshal([]byte(`"NO"`), &c))
	assert.True(t, c.None)

	require.NoError(t, json.Unmarshal([]byte(`[{"idioma":"ingles","nivel":"B2"}]`), &c))
	assert.False(t, c.None)
	assert.Equal(t, []certs.Claim{{Language: "ingles", Level: "B2"}}, c.Claims)

	assert.Error(t, json.Unmarshal([]byte(`"YES"`), &c))

	// A nil claim list marshals to null and must decode back to the zero value.
	data, err = json.Marshal(Certificates{})
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(data))
	require.NoError(t, json.Unmarshal(data, &c))
	assert.False(t, c.None)
	assert.Empty(t, c.Claims)
}

func secondaryRow(uni string, puntos float64, attractions []map[string]any) map[string]any {
	items := make([]any, 0, len(attractions))
	for _, a := range attractions {
		items = append(items, any(a))
	}
	return map[string]any{
		"Universidad":           uni,
		"Pais":                  "Italia",
		"Localizacion":          "sur de europa",
		"Ciudad":                "Bolonia",
		"Poblacion":             int64(390000),
		"Coste_Vida":            "Medio",
		"Ambiente_Fiesta":       "Alto",
		"Comidas_Tipicas":       "pasta",
		"Temperatura":           15.0,
		"Edad_Media":            44.0,
		"PuntosCaracteristicas": puntos,
		"Atractivos_Destacados": items,
	}
}

func TestSecondaryBonusPerOccurrence(t *testing.T) {
	attractions := []map[string]any{
		{"nombre": "Museo A", "rating": 4.8, "categorias": []any{"Museo", "Arte"}, "descripcion": "d", "visitantes": int64(1000)},
		{"nombre": "Museo B", "rating": 4.5, "categorias": []any{"Museo"}, "descripcion": "d", "visitantes": int64(500)},
		{"nombre": "Galeria C", "rating": 4.2, "categorias": []any{"museo historico"}, "descripcion": "d", "visitantes": int64(200)},
	}
	g := &fakeGraph{rows: []map[string]any{secondaryRow("Uni X", 100, attractions)}}
	s := NewSearcher(g)

	primary := []Destination{{Universidad: "Uni X", PuntuacionCompuesta: 200}}
	rec := intent.Record{Categories: map[string]bool{"museo": true}}

	out, err := s.Secondary(context.Background(), primary, rec)
	require.NoError(t, err)
	require.Len(t, out, 1)

	// Three occurrences of "museo" among the attraction categories: +30.
	assert.Equal(t, 130.0, out[0].PuntosCaracteristicas)
	assert.Equal(t, 200.0, out[0].PuntuacionBase)
	assert.Equal(t, 330.0, out[0].PuntuacionTotal)
}

func TestSecondaryRestrictsToCandidateUniverse(t *testing.T) {
	g := &fakeGraph{}
	s := NewSearcher(g)

	primary := []Destination{
		{Universidad: "Uni A", PuntuacionCompuesta: 10},
		{Universidad: "Uni B", PuntuacionCompuesta: 20},
	}
	_, err := s.Secondary(context.Background(), primary, intent.Record{Categories: map[string]bool{}})
	require.NoError(t, err)
	require.Len(t, g.params, 1)

	assert.Contains(t, g.queries[0], "WHERE u.nombre IN $universidades")
	assert.Equal(t, []string{"Uni A", "Uni B"}, g.params[0]["universidades"])
}

func TestSecondaryDropsUnmatchedRows(t *testing.T) {
	g := &fakeGraph{rows: []map[string]any{
		secondaryRow("Uni Conocida", 50, nil),
		secondaryRow("Uni Fantasma", 500, nil),
	}}
	s := NewSearcher(g)

	primary := []Destination{{Universidad: "Uni Conocida", PuntuacionCompuesta: 100}}
	out, err := s.Secondary(context.Background(), primary, intent.Record{Categories: map[string]bool{}})
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, "Uni Conocida", out[0].Universidad)
}

func TestSecondaryTopFiveStable(t *testing.T) {
	rows := []map[string]any{
		secondaryRow("Uni 1", 10, nil),
		secondaryRow("Uni 2", 10, nil),
		secondaryRow("Uni 3", 500, nil),
		secondaryRow("Uni 4", 10, nil),
		secondaryRow("Uni 5", 10, nil),
		secondaryRow("Uni 6", 10, nil),
	}
	g := &fakeGraph{rows: rows}
	s := NewSearcher(g)

	primary := make([]Destination, 0, 6)
	for _, u := range []string{"Uni 1", "Uni 2", "Uni 3", "Uni 4", "Uni 5", "Uni 6"} {
		primary = append(primary, Destination{Universidad: u, PuntuacionCompuesta: 100})
	}

	out, err := s.Secondary(context.Background(), primary, intent.Record{Categories: map[string]bool{}})
	require.NoError(t, err)
	require.Len(t, out, 5)

	assert.Equal(t, "Uni 3", out[0].Universidad)
	// Ties keep query order.
	assert.Equal(t, "Uni 1", out[1].Universidad)
	assert.Equal(t, "Uni 2", out[2].Universidad)
	assert.Equal(t, "Uni 4", out[3].Universidad)
	assert.Equal(t, "Uni 5", out[4].Universidad)
}

func TestSecondaryEmptyPrimary(t *testing.T) {
	g := &fakeGraph{}
	s := NewSearcher(g)

	out, err := s.Secondary(context.Background(), nil, intent.Record{})
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Empty(t, g.queries, "no query should run without candidates")
}
