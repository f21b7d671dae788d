package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rf2dash/pkg/history"
	"rf2dash/pkg/model"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"dashboard", "exportapi", "mockserver", "exports"}, names)
}

func TestExportsCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	run := func() string {
		root := newRootCmd()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs([]string{"exports", "--db", db})
		require.NoError(t, root.Execute())
		return out.String()
	}

	assert.Equal(t, "Aucun export\n", run())

	h, err := history.NewManager(db)
	require.NoError(t, err)
	_, err = h.Record(model.ExportRecord{Filename: "telemetry_a.csv", Driver: "Alex", Track: "Spa", Vehicle: "Oreca", Session: 5, Points: 12})
	require.NoError(t, err)
	require.NoError(t, h.Close())

	out := run()
	assert.Contains(t, out, "telemetry_a.csv")
	assert.Contains(t, out, "Q1")
}
