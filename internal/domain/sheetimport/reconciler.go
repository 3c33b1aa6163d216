package sheetimport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"pet-registry/internal/domain/pets"
)

// Headers de la planilla.
const (
	ColCode        = "Code"
	ColName        = "Name"
	ColBirthDate   = "Birth Date"
	ColGender      = "Gender"
	ColColor       = "Color"
	ColWeight      = "Weight"
	ColNationality = "Nationality"
	ColCertificate = "Certificate"
	ColImage       = "Image"
	ColNote        = "Note"
	ColFather      = "Father"
	ColMother      = "Mother"
)

const DefaultImageConcurrency = 4

// SourceRow: header -> valor crudo de la celda (string, float64 o nil).
type SourceRow map[string]any

// RowsFromGrid usa la primera fila como headers y mapea el resto.
// Filas cortas completan con nil.
func RowsFromGrid(grid [][]any) ([]SourceRow, error) {
	if len(grid) == 0 {
		return nil, ErrNoHeader
	}

	headers := make([]string, len(grid[0]))
	hasHeader := false
	for i, h := range grid[0] {
		headers[i] = strings.TrimSpace(CellString(h))
		if headers[i] != "" {
			hasHeader = true
		}
	}
	if !hasHeader {
		return nil, ErrNoHeader
	}

	rows := make([]SourceRow, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		row := make(SourceRow, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			var v any
			if i < len(cells) {
				v = cells[i]
			}
			row[h] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// NormalizeGender: "đực"/"male" => Male, "cái"/"female" => Female (case-insensitive).
// Cualquier otro valor pasa tal cual; el schema lo rechaza al escribir.
func NormalizeGender(raw any) pets.Gender {
	s := strings.TrimSpace(CellString(raw))
	switch strings.ToLower(norm.NFC.String(s)) {
	case "đực", "male":
		return pets.GenderMale
	case "cái", "female":
		return pets.GenderFemale
	}
	return pets.Gender(s)
}

// genderIndex (pasada 1): code -> gender según la planilla, para validar
// padres que aparecen después en el orden de filas.
func genderIndex(rows []SourceRow) map[string]pets.Gender {
	idx := make(map[string]pets.Gender, len(rows))
	for _, row := range rows {
		code := NormalizeIdentifier(row[ColCode])
		if code == "" {
			continue
		}
		if g := NormalizeGender(row[ColGender]); g != "" {
			idx[code] = g
		}
	}
	return idx
}

type Reconciler struct {
	repo        pets.Repository
	publisher   *Publisher
	concurrency int
	log         runLog

	now   func() time.Time
	newID func() string
}

func NewReconciler(repo pets.Repository, pub *Publisher, concurrency int, rl runLog) *Reconciler {
	if concurrency <= 0 {
		concurrency = DefaultImageConcurrency
	}
	return &Reconciler{
		repo:        repo,
		publisher:   pub,
		concurrency: concurrency,
		log:         rl,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// candidate es una fila que pasó existencia y fecha; le falta la imagen.
type candidate struct {
	row      int
	pet      pets.Pet
	imageRef string
	uploaded bool
	notes    []string
}

// Reconcile corre las dos pasadas y devuelve los documentos a insertar, en orden de planilla.
// Actualiza sum (contadores + errores por fila en orden de planilla) aun cuando
// devuelve un error fatal, para que el caller reporte el parcial.
func (r *Reconciler) Reconcile(ctx context.Context, rows []SourceRow, sum *Summary, cat *catalog) ([]pets.Pet, error) {
	index := genderIndex(rows)

	notes := make([][]string, len(rows))
	defer func() {
		for _, n := range notes {
			for _, msg := range n {
				sum.addError(msg)
			}
		}
	}()

	var (
		cands  []*candidate
		staged = make(map[string]bool)
	)
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c, err := r.checkRow(ctx, i, row, index, staged, sum, &notes[i])
		if err != nil {
			return nil, err
		}
		if c != nil {
			staged[c.pet.Code] = true
			cands = append(cands, c)
		}
	}

	err := r.resolveImages(ctx, cands, cat)
	for _, c := range cands {
		if c.uploaded {
			sum.UploadedImages++
		}
		notes[c.row] = append(notes[c.row], c.notes...)
	}
	if err != nil {
		return nil, err
	}

	out := make([]pets.Pet, 0, len(cands))
	for _, c := range cands {
		r.log.success(fmt.Sprintf("Prepared pet: %s - %s", c.pet.Code, c.pet.Name), map[string]any{"code": c.pet.Code})
		out = append(out, c.pet)
	}
	return out, nil
}

// checkRow aplica los pasos 1-6. Devuelve nil si la fila terminó en un skip.
func (r *Reconciler) checkRow(
	ctx context.Context,
	i int,
	row SourceRow,
	index map[string]pets.Gender,
	staged map[string]bool,
	sum *Summary,
	notes *[]string,
) (*candidate, error) {
	fail := func(msg string, fields map[string]any) {
		*notes = append(*notes, msg)
		r.log.error(msg, fields)
	}

	code := NormalizeIdentifier(row[ColCode])
	fields := map[string]any{"row": i + 2, "code": code}
	if code == "" {
		sum.SkippedNoCode++
		fail("Missing Code: "+rowJSON(row), fields)
		return nil, nil
	}

	// Ya staged en esta misma corrida: nunca insertar el mismo code dos veces.
	if staged[code] {
		sum.SkippedExists++
		r.log.info(fmt.Sprintf("Duplicate code in sheet, already staged: %s", code), fields)
		return nil, nil
	}

	exists, err := r.repo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exists %s: %v", ErrStore, code, err)
	}
	if exists {
		sum.SkippedExists++
		return nil, nil
	}

	birth, ok := ParseFlexibleDate(row[ColBirthDate])
	if !ok {
		sum.SkippedBadDate++
		fail(fmt.Sprintf("Invalid birth date (%s) - %s", CellString(row[ColBirthDate]), code), fields)
		return nil, nil
	}

	father := NormalizeIdentifier(row[ColFather])
	mother := NormalizeIdentifier(row[ColMother])
	if father == code {
		father = ""
		r.log.warn(fmt.Sprintf("Father equals the pet itself (%s), set to null", code), fields)
	}
	if mother == code {
		mother = ""
		r.log.warn(fmt.Sprintf("Mother equals the pet itself (%s), set to null", code), fields)
	}

	if g, ok := index[father]; father != "" && ok && g != pets.GenderMale {
		fail(fmt.Sprintf("Father (%s) is not Male in sheet (pet %s)", father, code), fields)
	}
	if g, ok := index[mother]; mother != "" && ok && g != pets.GenderFemale {
		fail(fmt.Sprintf("Mother (%s) is not Female in sheet (pet %s)", mother, code), fields)
	}

	name := strings.TrimSpace(CellString(row[ColName]))
	if name == "" {
		name = code
	}

	p := pets.Pet{
		ID:          r.newID(),
		Code:        code,
		Name:        name,
		BirthDate:   birth,
		Gender:      NormalizeGender(row[ColGender]),
		Color:       strings.TrimSpace(CellString(row[ColColor])),
		Nationality: strings.TrimSpace(CellString(row[ColNationality])),
		Certificate: strings.TrimSpace(CellString(row[ColCertificate])),
		Note:        strings.TrimSpace(CellString(row[ColNote])),
		Father:      optional(father),
		Mother:      optional(mother),
		CreatedAt:   r.now().UTC(),
	}

	if w, present := parseWeight(row[ColWeight]); w != nil {
		p.Weight = w
	} else if present {
		r.log.warn(fmt.Sprintf("Invalid weight (%s) ignored - %s", CellString(row[ColWeight]), code), fields)
	}

	return &candidate{
		row:      i,
		pet:      p,
		imageRef: strings.TrimSpace(CellString(row[ColImage])),
	}, nil
}

// resolveImages es el paso 7. Corre en paralelo (acotado) porque cada fila ya pasó
// su chequeo de existencia. Solo un error de listado corta la corrida.
func (r *Reconciler) resolveImages(ctx context.Context, cands []*candidate, cat *catalog) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, c := range cands {
		c := c
		g.Go(func() error {
			code := c.pet.Code
			fields := map[string]any{"row": c.row + 2, "code": code}

			url, err := r.publisher.EnsurePublished(gctx, c.imageRef, code, cat)
			switch {
			case err != nil && (errors.Is(err, ErrListing) || errors.Is(err, ErrConfig)):
				return err
			case err != nil:
				msg := fmt.Sprintf("Image upload failed (%s): %v", code, err)
				c.notes = append(c.notes, msg)
				r.log.error(msg, fields)
			case url == "":
				msg := fmt.Sprintf("No image found for code %s in Drive folder (folderId=%s).", code, cat.rootID)
				c.notes = append(c.notes, msg)
				r.log.error(msg, fields)
			default:
				c.pet.Image = url
				c.uploaded = true
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// parseWeight: nil si vacío o inválido; present indica que la celda tenía algo.
func parseWeight(v any) (w *float64, present bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return nil, false
	case float64:
		f = x
	case int:
		f = float64(x)
	default:
		s := strings.TrimSpace(CellString(v))
		if s == "" {
			return nil, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, true
		}
		f = n
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil, true
	}
	return &f, true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func rowJSON(row SourceRow) string {
	b, err := json.Marshal(row)
	if err != nil {
		return fmt.Sprint(map[string]any(row))
	}
	return string(b)
}
