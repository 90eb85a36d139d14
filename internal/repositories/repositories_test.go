package repositories

import (
	"context"
	"testing"
	"time"

	"floor-backend/internal/models"
	"floor-backend/internal/store"
	"floor-backend/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryKeepsHashes(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(memstore.New(nil))

	u := &models.User{Name: "QC", Email: "qc@example.com", Role: models.RoleQC, PasswordHash: "pw", PasscodeHash: "pc", Active: true}
	require.NoError(t, repo.Create(ctx, u))
	require.NotEmpty(t, u.ID)

	got, err := repo.GetByEmail(ctx, "qc@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "pw", got.PasswordHash)
	assert.Equal(t, "pc", got.PasscodeHash)
	assert.True(t, got.HasPasscode)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	n, err := repo.CountByRole(ctx, models.RoleQC)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDowntimeRepositoryNormalizesAndFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewDowntimeRepository(memstore.New(nil))
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	resolved := created.Add(45 * time.Minute)

	rec := &models.DowntimeRecord{
		Type:             models.DowntimeMachine,
		ProductionLineID: "L1",
		Status:           models.StatusResolved,
		CreatedAt:        created,
		ResolvedAt:       &resolved,
	}
	require.NoError(t, repo.Create(ctx, rec))
	require.NoError(t, repo.Create(ctx, &models.DowntimeRecord{
		Type: models.DowntimeSupply, ProductionLineID: "L2", Reason: "Fabric", Status: models.StatusOpen, CreatedAt: created,
	}))

	list, err := repo.List(ctx, models.DowntimeFilter{
		ProductionLineID: "L1",
		From:             created.Add(-time.Hour),
		To:               created.Add(time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, list, 1)

	got := list[0]
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, models.UnknownReason, got.Reason)
	require.NotNil(t, got.StartTime)
	assert.True(t, got.StartTime.Equal(created))
	require.NotNil(t, got.EndTime)
	assert.True(t, got.EndTime.Equal(resolved))

	list, err = repo.List(ctx, models.DowntimeFilter{Status: models.StatusOpen})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Fabric", list[0].Reason)
}

func TestDowntimeRepositoryChangeoverRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewDowntimeRepository(memstore.New(nil))
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	setup := created.Add(20 * time.Minute)

	rec := &models.DowntimeRecord{
		Type:             models.DowntimeStyleChangeover,
		ProductionLineID: "L1",
		Status:           models.StatusOpen,
		CreatedAt:        created,
		Changeover:       &models.Changeover{FromStyle: "Polo", ToStyle: "Tee", MachineSetupComplete: &setup},
	}
	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Changeover)
	assert.Equal(t, "Tee", got.Changeover.ToStyle)
	require.NotNil(t, got.Changeover.MachineSetupComplete)
	assert.True(t, got.Changeover.MachineSetupComplete.Equal(setup))
	assert.Nil(t, got.Changeover.PeopleAllocated)
	assert.Equal(t, models.StepPeopleAllocated, got.Changeover.NextStep())
}

func TestLineRepositoryCreateMany(t *testing.T) {
	ctx := context.Background()
	repo := NewLineRepository(memstore.New(nil))

	lines := []*models.ProductionLine{{Name: "B", Code: "L-B"}, {Name: "A", Code: "L-A"}}
	require.NoError(t, repo.CreateMany(ctx, lines))
	assert.NotEmpty(t, lines[0].ID)
	assert.NotEqual(t, lines[0].ID, lines[1].ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Name)

	exists, err := repo.CodeExists(ctx, "L-B")
	require.NoError(t, err)
	assert.True(t, exists)
}
