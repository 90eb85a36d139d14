package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"floor-backend/internal/config"
	"floor-backend/internal/importer"
	"floor-backend/internal/store"
	"floor-backend/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testContext(t *testing.T) (*Context, store.Store) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Store.Backend = config.BackendMemory
	cfg.JWT.Secret = "test-secret"
	cfg.Dashboard.Timezone = "UTC"
	cfg.Dashboard.MaxSessionHours = 24

	st := memstore.New(zap.NewNop())
	ctx := NewContext(context.Background(), cfg, zap.NewNop())
	ctx.Open = func(context.Context, *config.Config, *zap.Logger) (store.Store, error) {
		return st, nil
	}
	return ctx, st
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportLines(t *testing.T) {
	ctx, st := testContext(t)
	path := writeFile(t, "lines.csv", "Name,Code,Location\nCutting,L1,Hall A\nSewing,L2,Hall B\n")

	cmd := &ImportCmd{Target: "lines", File: path}
	require.NoError(t, cmd.Run(ctx))

	docs, err := st.Find(context.Background(), store.Query{Collection: store.Lines})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestImportRejectsWholeFile(t *testing.T) {
	ctx, st := testContext(t)
	path := writeFile(t, "lines.csv", "Name,Code\nCutting,L1\n,L2\n")

	err := (&ImportCmd{Target: "lines", File: path}).Run(ctx)
	var ierr *importer.Error
	require.ErrorAs(t, err, &ierr)

	docs, err := st.Find(context.Background(), store.Query{Collection: store.Lines})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDescribeImportError(t *testing.T) {
	ierr := &importer.Error{}
	ierr.Add(3, "name", "is required")

	var buf bytes.Buffer
	err := describeImportError(&buf, ierr)
	assert.Same(t, ierr, err)
	assert.Equal(t, "  line 3: name is required\n", buf.String())
}

func TestUserAdd(t *testing.T) {
	ctx, st := testContext(t)

	cmd := &UserAddCmd{Email: "sup@floor.test", Name: "Sup", Role: "supervisor", Password: "password123", Passcode: "4321"}
	require.NoError(t, cmd.Run(ctx))

	docs, err := st.Find(context.Background(), store.Query{Collection: store.Users})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "sup@floor.test", docs[0].Fields["email"])

	dup := &UserAddCmd{Email: "sup@floor.test", Name: "Again", Role: "qc", Password: "password123"}
	assert.Error(t, dup.Run(ctx))
}

func TestReportWritesPDF(t *testing.T) {
	ctx, _ := testContext(t)
	out := filepath.Join(t.TempDir(), "report.pdf")

	require.NoError(t, (&ReportCmd{Period: "week", Out: out}).Run(ctx))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestReportUnknownPeriod(t *testing.T) {
	ctx, _ := testContext(t)
	err := (&ReportCmd{Period: "decade", Out: filepath.Join(t.TempDir(), "r.pdf")}).Run(ctx)
	assert.Error(t, err)
}

func TestMigrateNeedsPostgres(t *testing.T) {
	ctx, _ := testContext(t)
	assert.ErrorContains(t, (&MigrateCmd{}).Run(ctx), "postgres")
}
