package database

import (
	"testing"
	"testing/fstest"

	"floor-backend/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesOrderAndFilter(t *testing.T) {
	fsys := fstest.MapFS{
		"010_sessions.sql":    {Data: []byte("select 1")},
		"002_notify.sql":      {Data: []byte("select 1")},
		"001_documents.sql":   {Data: []byte("select 1")},
		"999_reset_all.sql":   {Data: []byte("drop table documents")},
		"README.md":           {Data: []byte("notes")},
		"archive/003_old.sql": {Data: []byte("select 1")},
	}

	files, err := Files(fsys, ".")
	require.NoError(t, err)
	assert.Equal(t, []string{"001_documents.sql", "002_notify.sql", "010_sessions.sql"}, files)
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := Files(migrations.FS, ".")
	require.NoError(t, err)
	assert.Equal(t, []string{"001_documents.sql", "002_document_notify.sql"}, files)
}
