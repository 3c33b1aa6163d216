package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"pet-registry/internal/domain/pets"
)

type PetRepo struct {
	mu     sync.RWMutex
	byCode map[string]pets.Pet
}

func NewPetRepo() *PetRepo {
	return &PetRepo{
		byCode: make(map[string]pets.Pet),
	}
}

func (r *PetRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return ok, nil
}

// InsertMany no ordenado: un code repetido falla solo ese documento.
func (r *PetRepo) InsertMany(ctx context.Context, docs []pets.Pet) (pets.BulkReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rep pets.BulkReport
	for i, p := range docs {
		key := strings.ToUpper(strings.TrimSpace(p.Code))
		if _, exists := r.byCode[key]; exists {
			rep.Fail(i, p.Code, pets.ErrDuplicateCode)
			continue
		}
		r.byCode[key] = p
		rep.Inserted++
	}
	return rep, nil
}

// List devuelve todo ordenado por created_at asc (solo para consistencia en dev).
func (r *PetRepo) List(ctx context.Context) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0, len(r.byCode))
	for _, p := range r.byCode {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Code < out[j].Code
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
