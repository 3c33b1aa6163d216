package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-registry/internal/domain/pets"
)

func openRepo(t *testing.T) *PetsRepo {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "data", "pets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewPetsRepo(db)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func pet(id, code string) pets.Pet {
	return pets.Pet{
		ID:        id,
		Code:      code,
		Name:      "Max",
		BirthDate: time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC),
		Gender:    pets.GenderMale,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestPetsRepo_InsertManyUnordered(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	w := 30.2
	mother := "M01"
	first := pet("1", "A01")
	first.Weight = &w
	first.Mother = &mother

	rep, err := repo.InsertMany(ctx, []pets.Pet{first, pet("2", "B01")})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Inserted)
	assert.Empty(t, rep.Failures)

	bad := pet("4", "D01")
	bad.Gender = "Unknown"

	rep, err = repo.InsertMany(ctx, []pets.Pet{pet("3", "A01"), bad, pet("5", "E01")})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Inserted)
	require.Len(t, rep.Failures, 2)
	assert.Equal(t, 0, rep.Failures[0].Index)
	assert.True(t, errors.Is(rep.Failures[0].Err, pets.ErrDuplicateCode))
	assert.Equal(t, "D01", rep.Failures[1].Code)

	for code, want := range map[string]bool{"A01": true, "B01": true, "D01": false, "E01": true, "": false} {
		got, err := repo.ExistsByCode(ctx, code)
		require.NoError(t, err)
		assert.Equal(t, want, got, code)
	}
}

func TestPetsRepo_EmptyBatch(t *testing.T) {
	repo := openRepo(t)

	rep, err := repo.InsertMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, rep.Inserted)
}
