// Package assistant holds the conversation state machine that sequences the
// questionnaire, the two search stages and the final recommendation.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/career"
	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/certs"
	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/intent"
	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/recommend"
	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/search"
	"github.com/rmartg14/SIBI-2025-RMARTG14/pkg/anthropic"
	"github.com/rmartg14/SIBI-2025-RMARTG14/pkg/graph"
)

// State identifies the dialogue phase. Transitions are strictly forward
// except for validation failures, which stay in place.
type State string

const (
	StateInicio         State = "INICIO"
	StateCarrera        State = "CARRERA"
	StateCertificados   State = "CERTIFICADOS"
	StatePrefCiudad     State = "PREF_CIUDAD"
	StatePrefRegion     State = "PREF_REGION"
	StatePrefClima      State = "PREF_CLIMA"
	StateRagDescripcion State = "RAG_DESCRIPCION"
	StateFinalizado     State = "FINALIZADO"
)

// validRegions maps the accepted region tokens to the country labels stored
// in the graph.
var validRegions = map[string]string{
	"norte": "norte de europa",
	"sur":   "sur de europa",
	"este":  "este de europa",
	"oeste": "oeste de europa",
}

// Assistant is one conversation session. It owns all its state exclusively;
// callers must confine it to one request at a time.
type Assistant struct {
	llm      anthropic.Completer
	searcher *search.Searcher

	state             State
	carreraCanonica   string
	carreraDisplay    string
	certificados      search.Certificates
	tieneCertificados bool
	tamanoCiudad      string
	regionEuropa      string
	preferenciaClima  string

	destinosFiltrados []search.Destination
	preferencias      *recommend.Preferences
}

// New creates a fresh session in the initial state. The two external-service
// handles are injected; the session never constructs its own connections.
func New(llm anthropic.Completer, g graph.Service) *Assistant {
	return &Assistant{
		llm:      llm,
		searcher: search.NewSearcher(g),
		state:    StateInicio,
	}
}

// State returns the current dialogue state.
func (a *Assistant) State() State {
	return a.state
}

// ProcessMessage advances the state machine by exactly one step and returns
// the next user-facing message. Upstream failures (graph or completion
// service) are returned as errors with the session left in its pre-call
// state, so the caller may retry the turn.
func (a *Assistant) ProcessMessage(ctx context.Context, userInput string) (string, error) {
	switch a.state {
	case StateInicio:
		a.state = StateCarrera
		return msgBienvenida, nil

	case StateCarrera:
		return a.handleCarrera(userInput), nil

	case StateCertificados:
		return a.handleCertificados(userInput), nil

	case StatePrefCiudad:
		return a.handleCiudad(userInput), nil

	case StatePrefRegion:
		return a.handleRegion(userInput), nil

	case StatePrefClima:
		return a.handleClima(ctx, userInput)

	case StateRagDescripcion:
		return a.handleDescripcion(ctx, userInput)

	default:
		return msgFinalizado, nil
	}
}

func (a *Assistant) handleCarrera(input string) string {
	canonica, display, ok := career.Resolve(input)
	if !ok {
		return msgCarreraNoReconocida
	}
	a.carreraCanonica = canonica
	a.carreraDisplay = display
	a.state = StateCertificados
	return fmt.Sprintf(msgCarreraOK, display)
}

func (a *Assistant) handleCertificados(input string) string {
	claims, none, ok := certs.Extract(input)
	if !ok {
		return msgCertificadosNoReconocidos
	}
	if none {
		a.certificados = search.Certificates{None: true}
		a.tieneCertificados = false
		a.state = StatePrefCiudad
		return fmt.Sprintf(msgSinCertificados, a.carreraDisplay) + msgPreguntaCiudad
	}

	a.certificados = search.Certificates{Claims: claims}
	a.tieneCertificados = true
	a.state = StatePrefCiudad

	labels := make([]string, 0, len(claims))
	for _, c := range claims {
		labels = append(labels, fmt.Sprintf("%s de %s", c.Level, titleWord(c.Language)))
	}
	return fmt.Sprintf(msgConCertificados, a.carreraDisplay, strings.Join(labels, ", ")) + msgPreguntaCiudad
}

func (a *Assistant) handleCiudad(input string) string {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "grande", "grandes":
		a.tamanoCiudad = "grande"
	case "pequeña", "pequena", "pequeñas", "pequenas", "pequeño", "pequeno":
		a.tamanoCiudad = "pequena"
	default:
		return msgCiudadNoReconocida
	}
	a.state = StatePrefRegion
	return msgPreguntaRegion
}

func (a *Assistant) handleRegion(input string) string {
	region, ok := validRegions[strings.ToLower(strings.TrimSpace(input))]
	if !ok {
		return msgRegionNoReconocida
	}
	a.regionEuropa = region
	a.state = StatePrefClima
	return msgPreguntaClima
}

func (a *Assistant) handleClima(ctx context.Context, input string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "frio", "frío":
		a.preferenciaClima = "frio"
	case "calor":
		a.preferenciaClima = "calor"
	default:
		return msgClimaNoReconocido, nil
	}
	return a.realizarBusqueda(ctx)
}

// realizarBusqueda is the BUSQUEDA pass-through: it runs the primary search
// synchronously and advances either to the free-text stage or to the
// terminal state when nothing matched.
func (a *Assistant) realizarBusqueda(ctx context.Context) (string, error) {
	a.preferencias = a.buildPreferencias()

	bundle, err := json.Marshal(search.PreferenceBundle{
		Carrera:          a.carreraCanonica,
		Certificados:     a.certificados,
		TamanoCiudad:     a.tamanoCiudad,
		RegionEuropa:     a.regionEuropa,
		PreferenciaClima: a.preferenciaClima,
	})
	if err != nil {
		return "", eris.Wrap(err, "assistant: encode preference bundle")
	}

	destinos, err := a.searcher.Primary(ctx, string(bundle))
	if err != nil {
		return "", eris.Wrap(err, "assistant: primary search")
	}

	if len(destinos) == 0 {
		a.state = StateFinalizado
		return fmt.Sprintf(msgSinDestinos, a.carreraDisplay), nil
	}

	a.destinosFiltrados = destinos
	a.state = StateRagDescripcion

	return a.renderDestinos(destinos), nil
}

func (a *Assistant) renderDestinos(destinos []search.Destination) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n🎉 ¡Excelente! He encontrado %d destinos en tu carrera y que se ajustan a tus características.\n\n", len(destinos))
	mostrar := destinos
	if len(destinos) > 5 {
		mostrar = destinos[:5]
		b.WriteString("Aquí te muestro 5 ejemplos que se ajustan a lo que buscas:\n\n")
	}

	b.WriteString("🏆 TOP DESTINOS:\n")
	b.WriteString(strings.Repeat("=", 70) + "\n\n")
	for i, d := range mostrar {
		fmt.Fprintf(&b, "%d. 🎓 **%s**\n\n", i+1, d.Universidad)
		fmt.Fprintf(&b, "   📍 %s (%s hab.), %s\n\n", d.Ciudad, recommend.FormatThousands(d.Poblacion), d.Pais)
		fmt.Fprintf(&b, "   🌍 Región: %s\n\n", strings.ReplaceAll(d.Localizacion, "de europa", "de Europa"))
		fmt.Fprintf(&b, "   🌡️ Temperatura media: %.1f°C\n", d.TemperaturaMedia)
	}
	b.WriteString(strings.Repeat("=", 70) + "\n\n")
	b.WriteString(msgPideDescripcion)

	return b.String()
}

func (a *Assistant) handleDescripcion(ctx context.Context, input string) (string, error) {
	zap.L().Info("analyzing free-text description", zap.Int("chars", len(input)))

	rec := intent.Extract(input)

	candidatos, err := a.searcher.Secondary(ctx, a.destinosFiltrados, rec)
	if err != nil {
		return "", eris.Wrap(err, "assistant: secondary search")
	}

	if len(candidatos) == 0 {
		a.state = StateFinalizado
		return msgSinCandidatos, nil
	}

	recomendacion, err := recommend.Compose(ctx, a.llm, candidatos, rec, input, a.preferencias)
	if err != nil {
		return "", eris.Wrap(err, "assistant: compose recommendation")
	}

	a.state = StateFinalizado
	return fmt.Sprintf("\n%s\n\n%s\n\n%s", recomendacion, strings.Repeat("=", 70), msgDespedida), nil
}

func (a *Assistant) buildPreferencias() *recommend.Preferences {
	p := &recommend.Preferences{
		Idioma:       "Sin certificados",
		Clima:        "No especificado",
		Region:       "No especificada",
		TamanoCiudad: "No especificado",
	}
	if a.tieneCertificados {
		labels := make([]string, 0, len(a.certificados.Claims))
		for _, c := range a.certificados.Claims {
			labels = append(labels, fmt.Sprintf("%s de %s", c.Level, titleWord(c.Language)))
		}
		p.Idioma = strings.Join(labels, ", ")
	}
	if a.preferenciaClima != "" {
		p.Clima = titleWord(a.preferenciaClima)
	}
	if a.regionEuropa != "" {
		p.Region = strings.ReplaceAll(a.regionEuropa, "de europa", "de Europa")
	}
	switch a.tamanoCiudad {
	case "grande":
		p.TamanoCiudad = "Grande (>150k hab.)"
	case "pequena":
		p.TamanoCiudad = "Pequeña (<150k hab.)"
	}
	return p
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
