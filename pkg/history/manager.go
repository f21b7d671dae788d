package history

import (
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"rf2dash/pkg/model"
)

const (
	DbName = "./rf2dash.db"

	DefaultLimit = 50
)

var ErrNotFound = errors.New("export not found")

// Manager records every CSV export in a sqlite database.
type Manager struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

func NewManager(path string) (*Manager, error) {
	if path == "" {
		path = DbName
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open database %s", path)
	}

	_, err = db.Exec(buildCreateExportsTable())
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init database")
	}
	log.WithField("path", path).Debug("export history ready")

	return &Manager{
		db:  db,
		now: time.Now,
	}, nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.db.Close()
}

// Record stores a new export and returns it with its id and creation time.
func (m *Manager) Record(r model.ExportRecord) (model.ExportRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r.ID = uuid.NewString()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = m.now()
	}
	stmt, args := buildInsertExportCommand(r)
	if _, err := m.db.Exec(stmt, args...); err != nil {
		return r, errors.Wrap(err, "insert export")
	}
	return r, nil
}

// List returns the most recent exports first.
func (m *Manager) List(limit int) ([]model.ExportRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 {
		limit = DefaultLimit
	}
	stmt, args, read := buildSelectExportsCommand(limit)
	rows, err := m.db.Query(stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list exports")
	}
	return read(rows)
}

func (m *Manager) Get(id string) (model.ExportRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stmt, args, read := buildSelectExportCommand(id)
	rows, err := m.db.Query(stmt, args...)
	if err != nil {
		return model.ExportRecord{}, errors.Wrap(err, "get export")
	}
	records, err := read(rows)
	if err != nil {
		return model.ExportRecord{}, err
	}
	if len(records) == 0 {
		return model.ExportRecord{}, errors.Wrapf(ErrNotFound, "id %s", id)
	}
	return records[0], nil
}
