package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"slices"
	"time"

	"FearIndex/internal/exporter"
	"FearIndex/internal/model"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"f2":    func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"f4":    func(v float64) string { return fmt.Sprintf("%.4f", v) },
	"nf":    formatNull,
	"delta": formatDelta,
	"date":  func(t time.Time) string { return t.Format(model.DateLayout) },
}).ParseFS(templateFS, "templates/index.html"))

// Query keys. Toggle checkboxes are only honoured when the form was
// submitted, otherwise every toggle defaults to on.
const (
	keyStart   = "start"
	keyEnd     = "end"
	keyMA      = "ma"
	keyBands   = "bb"
	keyShowA   = "a"
	keyShowB   = "b"
	keyApplied = "apply"
)

func (s *Server) parseQuery(r *http.Request) (model.Params, model.Toggles, error) {
	q := r.URL.Query()
	params := model.DefaultParams(s.now(), s.defaultYears)
	toggles := model.DefaultToggles()

	if q.Get(keyApplied) != "" {
		toggles = model.Toggles{
			MovingAverage: q.Get(keyMA) != "",
			Bands:         q.Get(keyBands) != "",
			ShowA:         q.Get(keyShowA) != "",
			ShowB:         q.Get(keyShowB) != "",
		}
	}
	if v := q.Get(keyStart); v != "" {
		t, err := model.ParseDate(v)
		if err != nil {
			return params, toggles, err
		}
		params.Start = t
	}
	if v := q.Get(keyEnd); v != "" {
		t, err := model.ParseDate(v)
		if err != nil {
			return params, toggles, err
		}
		params.End = t
	}
	return params, toggles, params.Validate(s.now())
}

type widget struct {
	Label  string
	Change model.Change
}

type page struct {
	Start   string
	End     string
	Today   string
	Toggles model.Toggles
	// Query is the current request query, reused by chart and export links.
	Query template.URL
	Error string

	DS        *model.Dataset
	Widgets   []widget
	BandClass string
	Rows      []model.Row
	Filename  string
}

func newPage(params model.Params, toggles model.Toggles, now time.Time, q url.Values) *page {
	q.Set(keyStart, params.Start.Format(model.DateLayout))
	q.Set(keyEnd, params.End.Format(model.DateLayout))
	return &page{
		Start:   params.Start.Format(model.DateLayout),
		End:     params.End.Format(model.DateLayout),
		Today:   model.Date(now).Format(model.DateLayout),
		Toggles: toggles,
		Query:   template.URL(q.Encode()),
	}
}

func (p *page) setDataset(ds *model.Dataset) {
	if ds == nil {
		return
	}
	p.DS = ds
	p.Widgets = []widget{
		{Label: ds.LabelA, Change: ds.Latest.A},
		{Label: ds.LabelB, Change: ds.Latest.B},
		{Label: "Ratio", Change: ds.Latest.Ratio},
	}
	p.BandClass = bandClass(ds.BandState)
	p.Filename = exporter.Filename(ds)

	// newest first
	p.Rows = slices.Clone(ds.Rows)
	slices.Reverse(p.Rows)
}

func bandClass(state model.BandState) string {
	switch state {
	case model.BandAbove:
		return "band-above"
	case model.BandBelow:
		return "band-below"
	case model.BandWithin:
		return "band-within"
	default:
		return "band-unavailable"
	}
}

func formatNull(v model.NullFloat) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%.4f", v.Float64)
}

func formatDelta(c model.Change) string {
	switch {
	case !c.Delta.Valid:
		return ""
	case !c.DeltaPct.Valid:
		return fmt.Sprintf("%+.2f", c.Delta.Float64)
	}
	return fmt.Sprintf("%+.2f (%+.2f%%)", c.Delta.Float64, c.DeltaPct.Float64)
}
