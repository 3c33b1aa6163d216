package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-registry/internal/domain/pets"
)

func TestPetRepo_InsertManyUnordered(t *testing.T) {
	ctx := context.Background()
	r := NewPetRepo()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rep, err := r.InsertMany(ctx, []pets.Pet{
		{Code: "A1", CreatedAt: t0},
		{Code: "a1", CreatedAt: t0},
		{Code: "B2", CreatedAt: t0.Add(time.Second)},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if rep.Inserted != 2 {
		t.Fatalf("expected 2 inserted, got %d", rep.Inserted)
	}
	if len(rep.Failures) != 1 || rep.Failures[0].Index != 1 || !errors.Is(rep.Failures[0].Err, pets.ErrDuplicateCode) {
		t.Fatalf("unexpected failures: %+v", rep.Failures)
	}

	ok, _ := r.ExistsByCode(ctx, " b2 ")
	if !ok {
		t.Fatalf("expected B2 to exist")
	}
	ok, _ = r.ExistsByCode(ctx, "C3")
	if ok {
		t.Fatalf("C3 should not exist")
	}

	all, _ := r.List(ctx)
	if len(all) != 2 || all[0].Code != "A1" || all[1].Code != "B2" {
		t.Fatalf("unexpected list: %+v", all)
	}
}
