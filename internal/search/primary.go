package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/certs"
	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/textnorm"
)

// Scoring constants of the composite base score.
const (
	rankingCeiling    = 686
	rankingWeight     = 0.1
	exchangeWeight    = 0.2
	cityPoints        = 70
	regionPoints      = 70
	climatePoints     = 50
	populationCutoff  = 156000
	temperatureCutoff = 11.4
)

// escapeLiteral protects quoted literals spliced into scoring fragments.
// Every spliced value comes from a closed vocabulary already.
func escapeLiteral(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `'`, `\'`)
}

// Primary runs the questionnaire-driven graph search. The preference bundle
// travels as JSON; a malformed document yields an ErrInvalidBundle error
// rather than a panic. An empty result is returned as an empty slice — the
// terminal apology is the dialogue controller's responsibility.
func (s *Searcher) Primary(ctx context.Context, bundleJSON string) ([]Destination, error) {
	var bundle PreferenceBundle
	if err := json.Unmarshal([]byte(bundleJSON), &bundle); err != nil {
		return nil, eris.Wrap(ErrInvalidBundle, err.Error())
	}

	carrera := strings.ToLower(bundle.Carrera)
	if carrera == "" {
		return nil, eris.Wrap(ErrInvalidBundle, "falta carrera")
	}

	// Language-certificate eligibility. Deliberately permissive: level is not
	// compared here, the post-filter below tightens it.
	var idiomaFilter string
	switch {
	case bundle.Certificados.None:
		idiomaFilter = "o.cert_obligatorio = 'NO'"
	case len(bundle.Certificados.Claims) > 0:
		opciones := []string{"o.cert_obligatorio = 'NO'"}
		for _, claim := range bundle.Certificados.Claims {
			idioma := textnorm.Normalize(claim.Language)
			if idioma == "" {
				continue
			}
			opciones = append(opciones, fmt.Sprintf(
				"(o.cert_obligatorio = 'SI' AND toLower(o.nivel_requerido) CONTAINS '%s')",
				escapeLiteral(idioma),
			))
		}
		idiomaFilter = "(" + strings.Join(opciones, " OR ") + ")"
	default:
		idiomaFilter = "1=1"
	}

	var puntosCiudad string
	switch bundle.TamanoCiudad {
	case "grande":
		puntosCiudad = fmt.Sprintf("CASE WHEN l.poblacion >= %d THEN %d ELSE 0 END", populationCutoff, cityPoints)
	case "pequena":
		puntosCiudad = fmt.Sprintf("CASE WHEN l.poblacion < %d THEN %d ELSE 0 END", populationCutoff, cityPoints)
	default:
		puntosCiudad = "0"
	}

	params := map[string]any{"carrera_input": carrera}

	puntosRegion := "0"
	if bundle.RegionEuropa != "" {
		puntosRegion = fmt.Sprintf("CASE WHEN p.localizacion = $region_europa THEN %d ELSE 0 END", regionPoints)
		params["region_europa"] = bundle.RegionEuropa
	}

	var puntosClima string
	switch bundle.PreferenciaClima {
	case "frio":
		puntosClima = fmt.Sprintf("CASE WHEN p.temp_media_anual < %v THEN %d ELSE 0 END", temperatureCutoff, climatePoints)
	case "calor":
		puntosClima = fmt.Sprintf("CASE WHEN p.temp_media_anual >= %v THEN %d ELSE 0 END", temperatureCutoff, climatePoints)
	default:
		puntosClima = "0"
	}

	query := fmt.Sprintf(`
MATCH (c:Carrera {nombre: $carrera_input})-[o:OFERTA]->(u:Universidad)
MATCH (u)-[:SITUADA_EN]->(l:Ciudad)-[:UBICADA_EN]->(p:Pais)
WHERE toInteger(o.numero_de_plazas) > 0
  AND (%s)
WITH u, o, p, l,
    ((toFloat(%d - u.ranking_uni)*%v) + (u.exchange_score * %v)
     + (%s) + (%s) + (%s)) AS PuntuacionCompuesta
RETURN DISTINCT u.nombre AS Universidad,
       p.nombre AS Pais,
       p.localizacion AS Localizacion_Pais,
       p.temp_media_anual AS Temperatura_Media,
       l.nombre AS Ciudad,
       l.poblacion AS Poblacion,
       o.numero_de_plazas AS Plazas_Disponibles,
       o.duracion_de_estancia AS Duracion_Meses,
       o.cert_obligatorio AS Certificado_Obligatorio,
       o.nivel_requerido AS Nivel_Requerido,
       PuntuacionCompuesta
ORDER BY PuntuacionCompuesta DESC`,
		idiomaFilter, rankingCeiling, rankingWeight, exchangeWeight,
		puntosCiudad, puntosRegion, puntosClima)

	rows, err := s.graph.Run(ctx, query, params)
	if err != nil {
		return nil, eris.Wrap(err, "search: primary query")
	}

	destinations := make([]Destination, 0, len(rows))
	for _, row := range rows {
		destinations = append(destinations, Destination{
			Universidad:            rowString(row, "Universidad"),
			Pais:                   rowString(row, "Pais"),
			Localizacion:           rowString(row, "Localizacion_Pais"),
			TemperaturaMedia:       rowFloat(row, "Temperatura_Media"),
			Ciudad:                 rowString(row, "Ciudad"),
			Poblacion:              rowInt(row, "Poblacion"),
			PlazasDisponibles:      rowInt(row, "Plazas_Disponibles"),
			DuracionMeses:          rowInt(row, "Duracion_Meses"),
			CertificadoObligatorio: rowString(row, "Certificado_Obligatorio"),
			NivelRequerido:         rowString(row, "Nivel_Requerido"),
			PuntuacionCompuesta:    rowFloat(row, "PuntuacionCompuesta"),
		})
	}

	if len(bundle.Certificados.Claims) > 0 {
		destinations = filterByLevel(destinations, bundle.Certificados.Claims)
	}

	zap.L().Info("primary search finished",
		zap.String("carrera", carrera),
		zap.Int("destinations", len(destinations)),
	)

	return destinations, nil
}

// filterByLevel re-examines each row against the claimed certificates,
// comparing proficiency levels that the query's permissive filter ignored.
func filterByLevel(destinations []Destination, claims []certs.Claim) []Destination {
	kept := destinations[:0]
	for _, d := range destinations {
		if d.CertificadoObligatorio == "NO" {
			kept = append(kept, d)
			continue
		}
		if certs.SatisfiesRequirement(claims, d.NivelRequerido) {
			kept = append(kept, d)
		}
	}
	return kept
}
