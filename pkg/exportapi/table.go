package exportapi

import (
	"bytes"

	"github.com/jedib0t/go-pretty/v6/table"

	"rf2dash/pkg/model"
	"rf2dash/pkg/session"
)

const tableTimeLayout = "2006-01-02 15:04:05"

// RenderTable formats the export history as a text table.
func RenderTable(records []model.ExportRecord) string {
	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"Date", "Pilote", "Circuit", "Véhicule", "Session", "Points", "Fichier"})
	for _, r := range records {
		t.AppendRow(table.Row{
			r.CreatedAt.Local().Format(tableTimeLayout),
			r.Driver,
			r.Track,
			r.Vehicle,
			session.Label(r.Session),
			r.Points,
			r.Filename,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "Total", len(records), ""})
	t.Render()
	return b.String()
}
