package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/intent"
)

// attractionBonus is added per occurrence of a requested category among a
// candidate's collected top attractions.
const attractionBonus = 10

// Secondary scores the primary candidates against the free-text intent. The
// query is restricted to exactly the primary universities (a closed
// universe), adds trait and attraction points, applies the per-occurrence
// category bonus, merges the result back onto the base scores and returns the
// top candidates. Rows whose university name has no primary counterpart are
// silently dropped.
func (s *Searcher) Secondary(ctx context.Context, primary []Destination, rec intent.Record) ([]EnrichedCandidate, error) {
	if len(primary) == 0 {
		return nil, nil
	}

	clauses := intent.BuildScoringClauses(rec)

	universidades := make([]string, 0, len(primary))
	baseScores := make(map[string]float64, len(primary))
	for _, d := range primary {
		universidades = append(universidades, d.Universidad)
		if _, seen := baseScores[d.Universidad]; !seen {
			baseScores[d.Universidad] = d.PuntuacionCompuesta
		}
	}

	query := fmt.Sprintf(`
MATCH (u:Universidad)-[:SITUADA_EN]->(l:Ciudad)-[:UBICADA_EN]->(p:Pais)
WHERE u.nombre IN $universidades
WITH u, l, p,
     (%s) AS PuntosPais
WITH u, l, p, PuntosPais,
     (%s) AS PuntosAtractivos
WITH u, l, p,
     PuntosAtractivos + PuntosPais AS PuntosCaracteristicas
OPTIONAL MATCH (p)-[:TIENE_ATRACTIVO]->(a:Atractivo)
WITH u, l, p, PuntosCaracteristicas, a
ORDER BY a.rating DESC
WITH u, l, p, PuntosCaracteristicas,
     collect(a)[0..10] AS atractivos_top
RETURN u.nombre AS Universidad,
       p.nombre AS Pais,
       p.localizacion AS Localizacion,
       l.nombre AS Ciudad,
       l.poblacion AS Poblacion,
       p.coste_vida AS Coste_Vida,
       p.ambiente_fiesta AS Ambiente_Fiesta,
       p.comidas_tipicas AS Comidas_Tipicas,
       p.temp_media_anual AS Temperatura,
       p.edad_media AS Edad_Media,
       PuntosCaracteristicas,
       [a IN atractivos_top | {
           nombre: a.nombre,
           rating: a.rating,
           categorias: a.categorias,
           descripcion: a.descripcion,
           visitantes: a.visitantes_anuales
       }] AS Atractivos_Destacados`,
		clauses.CountryExpr, clauses.AttractionExpr)

	rows, err := s.graph.Run(ctx, query, map[string]any{"universidades": universidades})
	if err != nil {
		return nil, eris.Wrap(err, "search: secondary query")
	}

	candidates := make([]EnrichedCandidate, 0, len(rows))
	for _, row := range rows {
		c := EnrichedCandidate{
			Universidad:           rowString(row, "Universidad"),
			Pais:                  rowString(row, "Pais"),
			Localizacion:          rowString(row, "Localizacion"),
			Ciudad:                rowString(row, "Ciudad"),
			Poblacion:             rowInt(row, "Poblacion"),
			CosteVida:             rowString(row, "Coste_Vida"),
			AmbienteFiesta:        rowString(row, "Ambiente_Fiesta"),
			ComidasTipicas:        rowString(row, "Comidas_Tipicas"),
			Temperatura:           rowFloat(row, "Temperatura"),
			EdadMedia:             rowFloat(row, "Edad_Media"),
			Atractivos:            decodeAttractions(row["Atractivos_Destacados"]),
			PuntosCaracteristicas: rowFloat(row, "PuntosCaracteristicas"),
		}
		candidates = append(candidates, c)
	}

	applyAttractionBonus(candidates, clauses.Categories)

	merged := make([]EnrichedCandidate, 0, len(candidates))
	for _, c := range candidates {
		base, found := baseScores[c.Universidad]
		if !found {
			zap.L().Warn("secondary row without primary counterpart",
				zap.String("universidad", c.Universidad),
			)
			continue
		}
		c.PuntuacionBase = base
		c.PuntuacionTotal = base + c.PuntosCaracteristicas
		merged = append(merged, c)
	}

	// Stable: ties keep secondary-query order.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PuntuacionTotal > merged[j].PuntuacionTotal
	})

	if len(merged) > shortlistSize {
		merged = merged[:shortlistSize]
	}

	zap.L().Info("secondary search finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("shortlist", len(merged)),
	)

	return merged, nil
}

// applyAttractionBonus counts occurrences of each requested category among
// the collected attractions' category lists and adds attractionBonus points
// per occurrence.
func applyAttractionBonus(candidates []EnrichedCandidate, categories []string) {
	if len(categories) == 0 {
		return
	}
	for i := range candidates {
		bonus := 0
		for _, cat := range categories {
			for _, atr := range candidates[i].Atractivos {
				for _, c := range atr.Categorias {
					if strings.Contains(strings.ToLower(c), cat) {
						bonus++
					}
				}
			}
		}
		candidates[i].PuntosCaracteristicas += float64(bonus * attractionBonus)
	}
}

func decodeAttractions(v any) []Attraction {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Attraction, 0, len(items))
	for _, it := range items {
		row, ok := it.(map[string]any)
		if !ok {
			continue
		}
		// OPTIONAL MATCH with no attractions yields a single null entry.
		if row["nombre"] == nil {
			continue
		}
		out = append(out, Attraction{
			Nombre:      rowString(row, "nombre"),
			Rating:      rowFloat(row, "rating"),
			Categorias:  rowStringSlice(row["categorias"]),
			Descripcion: rowString(row, "descripcion"),
			Visitantes:  rowInt(row, "visitantes"),
		})
	}
	return out
}
