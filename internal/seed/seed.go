// Package seed loads the destination workbook into the graph. The workbook
// carries three sheets: Universidades, Ofertas y Atractivos.
package seed

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/rmartg14/SIBI-2025-RMARTG14/pkg/graph"
)

// University is one row of the Universidades sheet. Each row carries the
// university together with its city and country, so the three node kinds
// can be merged from a single pass.
type University struct {
	Nombre        string
	Ranking       int64
	ExchangeScore float64

	Ciudad         string
	Poblacion      int64
	Pais           string
	Localizacion   string
	TempMediaAnual float64
	CosteVida      string
	AmbienteFiesta string
	ComidasTipicas string
	EdadMedia      float64
}

// Offer is one row of the Ofertas sheet, an edge between a career and a
// university.
type Offer struct {
	Carrera         string
	Universidad     string
	NumeroDePlazas  int64
	DuracionDeMeses int64
	CertObligatorio string
	NivelRequerido  string
}

// Attraction is one row of the Atractivos sheet, attached to a country.
type Attraction struct {
	Pais              string
	Nombre            string
	Rating            float64
	Categorias        []string
	Descripcion       string
	VisitantesAnuales int64
}

// Workbook is the parsed seed file.
type Workbook struct {
	Universities []University
	Offers       []Offer
	Attractions  []Attraction
}

// LoadWorkbook parses the seed XLSX. Sheet order does not matter; sheets are
// located by name. The first row of each sheet is a header and is skipped.
func LoadWorkbook(path string) (*Workbook, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "seed: open workbook")
	}

	wb := &Workbook{}

	uniRows, err := sheetRows(f, "Universidades")
	if err != nil {
		return nil, err
	}
	for i, row := range uniRows {
		u, err := parseUniversity(row)
		if err != nil {
			return nil, eris.Wrapf(err, "seed: Universidades row %d", i+2)
		}
		wb.Universities = append(wb.Universities, u)
	}

	offerRows, err := sheetRows(f, "Ofertas")
	if err != nil {
		return nil, err
	}
	for i, row := range offerRows {
		o, err := parseOffer(row)
		if err != nil {
			return nil, eris.Wrapf(err, "seed: Ofertas row %d", i+2)
		}
		wb.Offers = append(wb.Offers, o)
	}

	attrRows, err := sheetRows(f, "Atractivos")
	if err != nil {
		return nil, err
	}
	for i, row := range attrRows {
		a, err := parseAttraction(row)
		if err != nil {
			return nil, eris.Wrapf(err, "seed: Atractivos row %d", i+2)
		}
		wb.Attractions = append(wb.Attractions, a)
	}

	return wb, nil
}

func sheetRows(f *xlsx.File, name string) ([][]string, error) {
	sheet, ok := f.Sheet[name]
	if !ok {
		return nil, eris.Errorf("seed: sheet %q not found", name)
	}

	var rows [][]string
	for i, row := range sheet.Rows {
		if i == 0 {
			continue
		}
		cells := make([]string, len(row.Cells))
		empty := true
		for j, cell := range row.Cells {
			cells[j] = strings.TrimSpace(cell.String())
			if cells[j] != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func parseUniversity(row []string) (University, error) {
	if len(row) < 12 {
		return University{}, eris.Errorf("expected 12 columns, got %d", len(row))
	}
	ranking, err := parseInt(row[1])
	if err != nil {
		return University{}, eris.Wrap(err, "ranking")
	}
	exchange, err := parseFloat(row[2])
	if err != nil {
		return University{}, eris.Wrap(err, "exchange_score")
	}
	poblacion, err := parseInt(row[4])
	if err != nil {
		return University{}, eris.Wrap(err, "poblacion")
	}
	temp, err := parseFloat(row[7])
	if err != nil {
		return University{}, eris.Wrap(err, "temp_media_anual")
	}
	edad, err := parseFloat(row[11])
	if err != nil {
		return University{}, eris.Wrap(err, "edad_media")
	}
	return University{
		Nombre:         row[0],
		Ranking:        ranking,
		ExchangeScore:  exchange,
		Ciudad:         row[3],
		Poblacion:      poblacion,
		Pais:           row[5],
		Localizacion:   strings.ToLower(row[6]),
		TempMediaAnual: temp,
		CosteVida:      row[8],
		AmbienteFiesta: row[9],
		ComidasTipicas: row[10],
		EdadMedia:      edad,
	}, nil
}

func parseOffer(row []string) (Offer, error) {
	if len(row) < 6 {
		return Offer{}, eris.Errorf("expected 6 columns, got %d", len(row))
	}
	plazas, err := parseInt(row[2])
	if err != nil {
		return Offer{}, eris.Wrap(err, "numero_de_plazas")
	}
	duracion, err := parseInt(row[3])
	if err != nil {
		return Offer{}, eris.Wrap(err, "duracion_de_estancia")
	}
	cert := strings.ToUpper(row[4])
	if cert != "SI" && cert != "NO" {
		return Offer{}, eris.Errorf("cert_obligatorio must be SI or NO, got %q", row[4])
	}
	return Offer{
		Carrera:         strings.ToLower(row[0]),
		Universidad:     row[1],
		NumeroDePlazas:  plazas,
		DuracionDeMeses: duracion,
		CertObligatorio: cert,
		NivelRequerido:  row[5],
	}, nil
}

func parseAttraction(row []string) (Attraction, error) {
	if len(row) < 6 {
		return Attraction{}, eris.Errorf("expected 6 columns, got %d", len(row))
	}
	rating, err := parseFloat(row[2])
	if err != nil {
		return Attraction{}, eris.Wrap(err, "rating")
	}
	visitantes, err := parseInt(row[5])
	if err != nil {
		return Attraction{}, eris.Wrap(err, "visitantes_anuales")
	}
	var categorias []string
	for _, c := range strings.Split(row[3], ";") {
		c = strings.TrimSpace(c)
		if c != "" {
			categorias = append(categorias, c)
		}
	}
	return Attraction{
		Pais:              row[0],
		Nombre:            row[1],
		Rating:            rating,
		Categorias:        categorias,
		Descripcion:       row[4],
		VisitantesAnuales: visitantes,
	}, nil
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", 1), 64)
}

// Loader merges a parsed workbook into the graph.
type Loader struct {
	graph graph.Service
}

func NewLoader(g graph.Service) *Loader {
	return &Loader{graph: g}
}

// Run merges every workbook entity. MERGE keeps the command idempotent, so
// re-seeding an already loaded graph only refreshes properties.
func (l *Loader) Run(ctx context.Context, wb *Workbook) error {
	for _, u := range wb.Universities {
		if _, err := l.graph.Run(ctx, `
MERGE (p:Pais {nombre: $pais})
SET p.localizacion = $localizacion,
    p.temp_media_anual = $temp_media_anual,
    p.coste_vida = $coste_vida,
    p.ambiente_fiesta = $ambiente_fiesta,
    p.comidas_tipicas = $comidas_tipicas,
    p.edad_media = $edad_media
MERGE (l:Ciudad {nombre: $ciudad})
SET l.poblacion = $poblacion
MERGE (u:Universidad {nombre: $universidad})
SET u.ranking_uni = $ranking,
    u.exchange_score = $exchange_score
MERGE (u)-[:SITUADA_EN]->(l)
MERGE (l)-[:UBICADA_EN]->(p)`,
			map[string]any{
				"pais":             u.Pais,
				"localizacion":     u.Localizacion,
				"temp_media_anual": u.TempMediaAnual,
				"coste_vida":       u.CosteVida,
				"ambiente_fiesta":  u.AmbienteFiesta,
				"comidas_tipicas":  u.ComidasTipicas,
				"edad_media":       u.EdadMedia,
				"ciudad":           u.Ciudad,
				"poblacion":        u.Poblacion,
				"universidad":      u.Nombre,
				"ranking":          u.Ranking,
				"exchange_score":   u.ExchangeScore,
			},
		); err != nil {
			return eris.Wrapf(err, "seed: merge university %s", u.Nombre)
		}
	}

	for _, o := range wb.Offers {
		if _, err := l.graph.Run(ctx, `
MERGE (c:Carrera {nombre: $carrera})
WITH c
MATCH (u:Universidad {nombre: $universidad})
MERGE (c)-[o:OFERTA]->(u)
SET o.numero_de_plazas = $numero_de_plazas,
    o.duracion_de_estancia = $duracion_de_estancia,
    o.cert_obligatorio = $cert_obligatorio,
    o.nivel_requerido = $nivel_requerido`,
			map[string]any{
				"carrera":              o.Carrera,
				"universidad":          o.Universidad,
				"numero_de_plazas":     o.NumeroDePlazas,
				"duracion_de_estancia": o.DuracionDeMeses,
				"cert_obligatorio":     o.CertObligatorio,
				"nivel_requerido":      o.NivelRequerido,
			},
		); err != nil {
			return eris.Wrapf(err, "seed: merge offer %s -> %s", o.Carrera, o.Universidad)
		}
	}

	for _, a := range wb.Attractions {
		if _, err := l.graph.Run(ctx, `
MATCH (p:Pais {nombre: $pais})
MERGE (a:Atractivo {nombre: $nombre})
SET a.rating = $rating,
    a.categorias = $categorias,
    a.descripcion = $descripcion,
    a.visitantes_anuales = $visitantes_anuales
MERGE (p)-[:TIENE_ATRACTIVO]->(a)`,
			map[string]any{
				"pais":               a.Pais,
				"nombre":             a.Nombre,
				"rating":             a.Rating,
				"categorias":         a.Categorias,
				"descripcion":        a.Descripcion,
				"visitantes_anuales": a.VisitantesAnuales,
			},
		); err != nil {
			return eris.Wrapf(err, "seed: merge attraction %s", a.Nombre)
		}
	}

	zap.L().Info("seed finished",
		zap.Int("universities", len(wb.Universities)),
		zap.Int("offers", len(wb.Offers)),
		zap.Int("attractions", len(wb.Attractions)),
	)
	return nil
}
