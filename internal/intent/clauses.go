package intent

import "strings"

// Clauses holds the two weighted Cypher scoring sub-expressions built from a
// Record plus the category tags they were built from. Each satisfied term is
// worth exactly 100 points; an expression with no terms is the constant "0".
type Clauses struct {
	AttractionExpr string
	CountryExpr    string
	Categories     []string
}

// escapeLiteral makes a taxonomy tag safe for splicing into a quoted Cypher
// string literal. Tags come from a closed vocabulary, so this is belt only.
func escapeLiteral(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `'`, `\'`)
}

// BuildScoringClauses turns a Record into the per-country scoring fragments
// used by the secondary search query. Category tags not present in the
// taxonomy are skipped rather than spliced.
func BuildScoringClauses(rec Record) Clauses {
	cats := rec.CategoryList()

	attractionTerms := make([]string, 0, len(cats))
	kept := make([]string, 0, len(cats))
	for _, cat := range cats {
		if !KnownCategory(cat) {
			continue
		}
		kept = append(kept, cat)
		attractionTerms = append(attractionTerms,
			"CASE WHEN EXISTS { MATCH (p)-[:TIENE_ATRACTIVO]->(a:Atractivo) "+
				"WHERE any(c IN a.categorias WHERE toLower(c) CONTAINS '"+escapeLiteral(cat)+"') } "+
				"THEN 100 ELSE 0 END")
	}

	var countryTerms []string
	if rec.Traits.LowCost {
		countryTerms = append(countryTerms, "CASE WHEN p.coste_vida IN ['Bajo', 'Muy Bajo'] THEN 100 ELSE 0 END")
	}
	if rec.Traits.HighNightlife {
		countryTerms = append(countryTerms, "CASE WHEN p.ambiente_fiesta IN ['Alto', 'Muy Alto'] THEN 100 ELSE 0 END")
	}
	if rec.Traits.YoungPopulation {
		countryTerms = append(countryTerms, "CASE WHEN p.edad_media < 40 THEN 100 ELSE 0 END")
	}

	return Clauses{
		AttractionExpr: joinOrZero(attractionTerms),
		CountryExpr:    joinOrZero(countryTerms),
		Categories:     kept,
	}
}

func joinOrZero(terms []string) string {
	if len(terms) == 0 {
		return "0"
	}
	return strings.Join(terms, " + ")
}
