// Package recommend builds the final recommendation prompt from the re-ranked
// shortlist and asks the completion service for the closing answer.
package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/intent"
	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/search"
	"github.com/rmartg14/SIBI-2025-RMARTG14/pkg/anthropic"
)

// Preferences summarizes the questionnaire answers for the prompt.
type Preferences struct {
	Idioma       string
	Clima        string
	Region       string
	TamanoCiudad string
}

// descriptionLimit caps attraction descriptions embedded in the prompt.
const descriptionLimit = 180

// maxPromptAttractions is how many attractions are shown per candidate.
const maxPromptAttractions = 5

// Compose sanitizes the student's description, renders the recommendation
// prompt over the shortlist and returns the completion service's text
// unmodified. Completion failures propagate to the caller.
func Compose(ctx context.Context, llm anthropic.Completer, shortlist []search.EnrichedCandidate,
	rec intent.Record, description string, prefs *Preferences) (string, error) {

	prompt := BuildPrompt(shortlist, rec, description, prefs)

	zap.L().Debug("requesting recommendation",
		zap.Int("candidates", len(shortlist)),
		zap.Int("prompt_chars", len(prompt)),
	)

	text, err := llm.Complete(ctx, prompt)
	if err != nil {
		return "", eris.Wrap(err, "recommend: complete")
	}
	return text, nil
}

// BuildPrompt renders the full recommendation prompt.
func BuildPrompt(shortlist []search.EnrichedCandidate, rec intent.Record, description string, prefs *Preferences) string {
	var b strings.Builder

	b.WriteString("Eres un asistente experto en recomendaciones Erasmus que ayuda a estudiantes españoles a elegir su mejor destino.\n")

	if prefs != nil {
		b.WriteString("\n**PREFERENCIAS INICIALES DEL ESTUDIANTE (del cuestionario previo):**\n")
		if prefs.Idioma != "" {
			fmt.Fprintf(&b, "- Nivel de idioma: %s\n", prefs.Idioma)
		}
		if prefs.Clima != "" {
			fmt.Fprintf(&b, "- Clima preferido: %s\n", prefs.Clima)
		}
		if prefs.Region != "" {
			fmt.Fprintf(&b, "- Región preferida: %s\n", prefs.Region)
		}
		if prefs.TamanoCiudad != "" {
			fmt.Fprintf(&b, "- Tamaño de ciudad: %s\n", prefs.TamanoCiudad)
		}
	}

	fmt.Fprintf(&b, "\n**LO QUE EL ESTUDIANTE BUSCA (descripción libre final):**\n%q\n", Sanitize(description))

	categorias := intent.FormatCategories(rec.CategoryList())
	if len(rec.Categories) == 0 {
		categorias = "No especificados"
	}
	b.WriteString("\n**CARACTERÍSTICAS DETECTADAS EN LA DESCRIPCIÓN:**\n")
	fmt.Fprintf(&b, "- Atractivos deseados: %s\n", categorias)
	fmt.Fprintf(&b, "- Coste bajo: %s\n", siNo(rec.Traits.LowCost))
	fmt.Fprintf(&b, "- Ambiente festivo: %s\n", siNo(rec.Traits.HighNightlife))
	fmt.Fprintf(&b, "- Ambiente joven: %s\n", siNo(rec.Traits.YoungPopulation))

	b.WriteString("\n**TOP 5 DESTINOS CANDIDATOS:**\n")
	for i, dest := range shortlist {
		b.WriteString("\n" + strings.Repeat("=", 70) + "\n")
		fmt.Fprintf(&b, "**OPCIÓN %d: %s**\n", i+1, dest.Universidad)
		fmt.Fprintf(&b, "📍 %s (%s hab.), %s (%s)\n\n", dest.Ciudad, FormatThousands(dest.Poblacion), dest.Pais, dest.Localizacion)

		b.WriteString("**📊 PUNTUACIONES (solo orientativas):**\n")
		fmt.Fprintf(&b, "- Base (preferencias iniciales): %.0f pts\n", dest.PuntuacionBase)
		fmt.Fprintf(&b, "- Características descritas: +%.0f pts\n", dest.PuntosCaracteristicas)
		fmt.Fprintf(&b, "- Total: %.0f pts\n\n", dest.PuntuacionTotal)

		b.WriteString("**🌍 CARACTERÍSTICAS DEL PAÍS:**\n")
		fmt.Fprintf(&b, "- Temperatura media: %.1f°C\n", dest.Temperatura)
		fmt.Fprintf(&b, "- Coste de vida: %s\n", valueOrNA(dest.CosteVida))
		fmt.Fprintf(&b, "- Ambiente festivo: %s\n", valueOrNA(dest.AmbienteFiesta))
		fmt.Fprintf(&b, "- Edad media población: %.0f años\n", dest.EdadMedia)
		fmt.Fprintf(&b, "- Gastronomía típica: %s\n", valueOrNA(dest.ComidasTipicas))

		if len(dest.Atractivos) > 0 {
			b.WriteString("\n**🏛️ ATRACTIVOS TURÍSTICOS DESTACADOS:**\n")
			for j, atr := range dest.Atractivos {
				if j == maxPromptAttractions {
					break
				}
				fmt.Fprintf(&b, "\n%d. **%s** ⭐ %.1f/5\n", j+1, atr.Nombre, atr.Rating)
				fmt.Fprintf(&b, "   Categorías: %s\n", strings.Join(firstN(atr.Categorias, 4), ", "))
				if atr.Visitantes > 0 {
					fmt.Fprintf(&b, "   %s visitantes/año\n", FormatThousands(atr.Visitantes))
				}
				fmt.Fprintf(&b, "   %s\n", truncate(atr.Descripcion, descriptionLimit))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(policyInstructions)
	b.WriteString(outputTemplate)

	return b.String()
}

const policyInstructions = `
**INSTRUCCIONES IMPORTANTES:**

1. La puntuación total solo es una guía orientativa, NO el criterio definitivo.
2. Analiza profundamente qué destino cumple mejor:
    - Las preferencias iniciales del cuestionario
    - Lo que describió en su búsqueda libre
    - La calidad y relevancia de los atractivos turísticos
    - La experiencia Erasmus típica en ese país
3. Explica tu razonamiento conectando TODAS las piezas: preferencias iniciales, descripción libre y características del destino.
4. **Sé completamente honesto. Si el destino NO cumple completamente con alguna preferencia importante del usuario (clima, región, idioma, tamaño de ciudad, etc.), DEBES indicarlo claramente antes de justificar la elección. Prohibido omitir o suavizar estos incumplimientos.**
5. **Nunca inventes ni exageres características. Si un criterio objetivo no se cumple según los datos, dilo claramente y nunca afirmes que sí cumple.**
6. **Antes de justificar la recomendación, realiza un apartado explícito ("Desventajas a considerar") donde enumeres uno a uno los requisitos del usuario que NO se cumplen. Solo tras ese apartado, explica por qué se recomienda igualmente.**
7. **No adaptes ni cambies los valores numéricos. Utiliza los datos tal cual: si la temperatura, población o región no coinciden plenamente con lo solicitado, decláralo sin camuflarlo en la argumentación.**
8. Guía para criterios objetivos (aplícalos siempre tal cual):
    - Clima frío: solo si la temperatura media anual es menor o igual a 13°C.
    - Ciudad pequeña: solo si la población es menor o igual a 150.000 habitantes.
    - Región, idioma y requisitos: comparar lo que ha puesto el usuario con los datos exactos proporcionados.
    - Si existen diferencias relevantes, indícalas claramente.
    - Si todo se cumple, indícalo explícitamente: "El destino cumple todos los requisitos objetivos del usuario."
9. Si el usuario especificó que NO desea algún país, ciudad o destino concreto, jamás recomiendes ese destino, aunque se ajuste a otras preferencias.

**Revisa todos estos puntos antes de generar tu recomendación final. Es obligatorio reflejar los criterios no cumplidos antes de justificar la elección.**
`

const outputTemplate = `
🎓 **DESTINO RECOMENDADO:**
[Universidad] en [Ciudad], [País]

🎯 **POR QUÉ ES PERFECTO PARA TI:**
[Conecta explícitamente con las preferencias iniciales del cuestionario y con la descripción libre. Si alguna característica no se cumple, detállalo también.]

🏛️ **ATRACTIVOS IMPERDIBLES DEL PAÍS:**
[Lista 3-4 atractivos turísticos específicos del país, explicando brevemente por qué son relevantes.]

🌍 **SOBRE EL PAÍS Y LA CIUDAD:**
- **Localización:** [región y contexto geográfico y cultural]
- **Clima:** [temperatura media anual y qué significa para la experiencia]
- **Tamaño ciudad:** [habitantes y ambiente urbano o tranquilo]
- **Cultura y estilo de vida:** [ambiente típico del país, costumbres, mentalidad]

💰 **COSTE DE VIDA:**
[Nivel según los datos y qué significa en la práctica para un estudiante Erasmus español.]

🎉 **VIDA ESTUDIANTIL Y AMBIENTE:**
[Ambiente festivo, edad media, comunidad Erasmus y gastronomía según los datos.]

💡 **CONSEJO FINAL:**
[Un consejo personalizado basado en todo lo anterior.]
`

func siNo(v bool) string {
	if v {
		return "Sí"
	}
	return "No"
}

func valueOrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// FormatThousands renders 1234567 as "1.234.567" (Spanish grouping).
func FormatThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ".")
	if neg {
		out = "-" + out
	}
	return out
}
