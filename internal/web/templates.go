package web

import (
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"log"

	"github.com/datateller/datateller/internal/insight"
	"github.com/datateller/datateller/internal/session"
	"github.com/datateller/datateller/internal/viz"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"pct": func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
	"num": func(f float64) string { return fmt.Sprintf("%.2f", f) },
}

var pages = template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))

func render(w io.Writer, name string, data any) {
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("template %s: %v", name, err)
	}
}

type uploadData struct {
	Error string
}

func renderUpload(w io.Writer, errMsg string) {
	render(w, "upload.html", uploadData{Error: errMsg})
}

type columnRow struct {
	Name       string
	Type       string
	Missing    int
	MissingPct float64
}

type overviewData struct {
	Name       string
	Rows       int
	Cols       int
	Missing    int
	Duplicates int
	Columns    []columnRow
	Preview    [][]string
	Headers    []string
}

func renderOverview(w io.Writer, sess *session.Session) {
	res := sess.Profile
	data := overviewData{
		Name:       sess.Name,
		Rows:       res.Rows,
		Cols:       res.Cols,
		Missing:    res.TotalMissing(),
		Duplicates: res.Duplicates,
		Headers:    sess.Dataset.Names(),
	}
	for _, name := range res.ColumnOrder {
		data.Columns = append(data.Columns, columnRow{
			Name:       name,
			Type:       res.Types[name].String(),
			Missing:    res.Missing[name],
			MissingPct: res.MissingPct[name],
		})
	}
	limit := 10
	if res.Rows < limit {
		limit = res.Rows
	}
	for r := 0; r < limit; r++ {
		row := make([]string, 0, res.Cols)
		for _, c := range sess.Dataset.Columns {
			row = append(row, c.Values[r])
		}
		data.Preview = append(data.Preview, row)
	}
	render(w, "overview.html", data)
}

type insightGroup struct {
	Category string
	Items    []string
}

type insightsData struct {
	Name   string
	Groups []insightGroup
}

func renderInsights(w io.Writer, sess *session.Session) {
	data := insightsData{Name: sess.Name}
	for _, cat := range []insight.Category{
		insight.Overview, insight.Quality, insight.Numeric,
		insight.Categorical, insight.Correlation, insight.Duplicates,
	} {
		group := insightGroup{Category: cat.String()}
		for _, in := range insight.ByCategory(sess.Insights, cat) {
			group.Items = append(group.Items, in.Text)
		}
		if len(group.Items) > 0 {
			data.Groups = append(data.Groups, group)
		}
	}
	render(w, "insights.html", data)
}

type chartView struct {
	Title string
	Src   template.URL
}

type chartsData struct {
	Name   string
	Charts []chartView
}

func renderCharts(w io.Writer, sess *session.Session) {
	data := chartsData{Name: sess.Name}
	for _, c := range sess.Charts {
		data.Charts = append(data.Charts, chartView{
			Title: c.Spec.Title,
			Src:   pngDataURL(c),
		})
	}
	render(w, "charts.html", data)
}

func pngDataURL(c viz.Chart) template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(c.PNG))
}

type reportData struct {
	Name     string
	Sections []string
}

func renderReportPage(w io.Writer, sess *session.Session) {
	data := reportData{
		Name: sess.Name,
		Sections: []string{
			"Executive Summary",
			"Dataset Overview",
			"Numeric Analysis",
			"Categorical Analysis",
			"Correlation Findings",
			"Recommendations & Conclusions",
			"Data Quality Assessment",
		},
	}
	render(w, "report.html", data)
}
