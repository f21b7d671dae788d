package history

import (
	"database/sql"
	"time"

	"rf2dash/pkg/model"
)

const exportFields = "id, filename, driver, track, vehicle, session, points, created_at"

// createdAtLayout has a fixed width so that text order is time order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

func buildCreateExportsTable() string {
	return `CREATE TABLE IF NOT EXISTS exports (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		driver TEXT NOT NULL,
		track TEXT NOT NULL,
		vehicle TEXT NOT NULL,
		session INTEGER,
		points INTEGER NOT NULL,
		created_at TEXT NOT NULL);`
}

func buildInsertExportCommand(r model.ExportRecord) (string, []any) {
	return `INSERT INTO exports (` + exportFields + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		[]any{r.ID, r.Filename, r.Driver, r.Track, r.Vehicle, r.Session, r.Points, r.CreatedAt.UTC().Format(createdAtLayout)}
}

func buildSelectExportsCommand(limit int) (string, []any, func(*sql.Rows) ([]model.ExportRecord, error)) {
	return `SELECT ` + exportFields + ` FROM exports ORDER BY created_at DESC LIMIT ?`, []any{limit}, processSelectExportsRows
}

func buildSelectExportCommand(id string) (string, []any, func(*sql.Rows) ([]model.ExportRecord, error)) {
	return `SELECT ` + exportFields + ` FROM exports WHERE id = ?`, []any{id}, processSelectExportsRows
}

func processSelectExportsRows(rows *sql.Rows) ([]model.ExportRecord, error) {
	defer rows.Close()

	records := make([]model.ExportRecord, 0)
	for rows.Next() {
		var r model.ExportRecord
		var createdAt string
		err := rows.Scan(&r.ID, &r.Filename, &r.Driver, &r.Track, &r.Vehicle, &r.Session, &r.Points, &createdAt)
		if err != nil {
			return records, err
		}
		r.CreatedAt, err = time.Parse(createdAtLayout, createdAt)
		if err != nil {
			return records, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
