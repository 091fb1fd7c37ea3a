package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sweepgraph/backend/internal/graph"
	apperrors "sweepgraph/backend/pkg/errors"
)

func TestImportCmd_RequiresExactlyOneFile(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"import"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	assert.Error(t, root.Execute())

	root = newRootCmd()
	root.SetArgs([]string{"import", "a.json", "b.json"})
	assert.Error(t, root.Execute())
}

func TestImportCmd_MissingFile(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"import", filepath.Join(t.TempDir(), "absent.json")})

	err := root.Execute()

	var notFound *apperrors.ErrImportFileNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestImportCmd_HasNoFlags(t *testing.T) {
	cmd := newImportCmd(&app{})
	assert.False(t, cmd.HasAvailableLocalFlags())
}

func TestRenderRecords(t *testing.T) {
	a := graph.NewRecord()
	a.Set("labels", "Person")
	a.Set("name", "Ada")
	b := graph.NewRecord()
	b.Set("labels", "Document")
	b.Set("title", "Notes")

	var buf bytes.Buffer
	require.NoError(t, renderRecords(&buf, []*graph.Record{a, b}))

	out := buf.String()
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "Notes")
	assert.Contains(t, out, "Document")
}

func TestRenderStats(t *testing.T) {
	var buf bytes.Buffer
	err := renderStats(&buf, &graph.Stats{
		NodeCount:            12,
		RelationshipCount:    7,
		TopLabels:            []graph.TypeCount{{Name: "Person", Count: 9}},
		TopRelationshipTypes: []graph.TypeCount{{Name: "KNOWS", Count: 7}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Nodes: 12")
	assert.Contains(t, out, "Relationships: 7")
	assert.Contains(t, out, "Person")
	assert.Contains(t, out, "KNOWS")
}
