package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pet-registry/internal/domain/pets"
)

const (
	PetsCollection = "pets"

	duplicateKeyCode = 11000
)

// petDoc es la forma persistida en la colección.
type petDoc struct {
	ID          string    `bson:"_id"`
	Code        string    `bson:"code"`
	Name        string    `bson:"name"`
	BirthDate   time.Time `bson:"birthDate"`
	Gender      string    `bson:"gender"`
	Color       string    `bson:"color"`
	Nationality string    `bson:"nationality"`
	Certificate string    `bson:"certificate"`
	Note        string    `bson:"note"`
	Weight      *float64  `bson:"weight"`
	Image       string    `bson:"image"`
	Father      *string   `bson:"father"`
	Mother      *string   `bson:"mother"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func toDoc(p pets.Pet) petDoc {
	return petDoc{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		BirthDate:   p.BirthDate.UTC(),
		Gender:      string(p.Gender),
		Color:       p.Color,
		Nationality: p.Nationality,
		Certificate: p.Certificate,
		Note:        p.Note,
		Weight:      p.Weight,
		Image:       p.Image,
		Father:      p.Father,
		Mother:      p.Mother,
		CreatedAt:   p.CreatedAt.UTC(),
	}
}

type PetsRepo struct {
	coll *mongo.Collection
}

func NewPetsRepo(db *mongo.Database) *PetsRepo {
	return &PetsRepo{coll: db.Collection(PetsCollection)}
}

// EnsureIndexes crea el índice único sobre code.
func (r *PetsRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("code_unique"),
	})
	return err
}

func (r *PetsRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"code": code}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// InsertMany hace un insertMany no ordenado. Los write errors por documento
// vuelven en el BulkReport; el resto de errores afecta al batch completo.
func (r *PetsRepo) InsertMany(ctx context.Context, docs []pets.Pet) (pets.BulkReport, error) {
	var rep pets.BulkReport
	if len(docs) == 0 {
		return rep, nil
	}

	payload := make([]any, 0, len(docs))
	for _, p := range docs {
		payload = append(payload, toDoc(p))
	}

	_, err := r.coll.InsertMany(ctx, payload, options.InsertMany().SetOrdered(false))
	if err == nil {
		rep.Inserted = len(docs)
		return rep, nil
	}

	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) || bwe.WriteConcernError != nil || len(bwe.WriteErrors) == 0 {
		return pets.BulkReport{}, err
	}

	return reportFromWriteErrors(docs, bwe.WriteErrors), nil
}

func reportFromWriteErrors(docs []pets.Pet, wes []mongo.BulkWriteError) pets.BulkReport {
	var rep pets.BulkReport
	failed := make(map[int]bool, len(wes))
	for _, we := range wes {
		if we.Index < 0 || we.Index >= len(docs) || failed[we.Index] {
			continue
		}
		failed[we.Index] = true

		var cause error
		if we.Code == duplicateKeyCode {
			cause = pets.ErrDuplicateCode
		} else {
			cause = fmt.Errorf("write error %d: %s", we.Code, we.Message)
		}
		rep.Fail(we.Index, docs[we.Index].Code, cause)
	}
	rep.Inserted = len(docs) - len(failed)
	return rep
}
