package pets

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// Gender define el sexo registrado en el pedigree.
// @Enum Male, Female
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Pet es el registro persistido. Code es la identidad natural (única, upper-case).
// Father/Mother referencian el Code de otro registro.
type Pet struct {
	ID   string
	Code string
	Name string

	BirthDate time.Time
	Gender    Gender

	Color       string
	Nationality string
	Certificate string
	Note        string

	Weight *float64 // kg, opcional
	Image  string   // URL del CDN, opcional

	Father *string
	Mother *string

	CreatedAt time.Time
}

// Validate replica las reglas del schema: code/name/birthDate/gender obligatorios,
// weight no negativo y sin auto-referencia de padres.
func (p Pet) Validate() error {
	switch {
	case strings.TrimSpace(p.Code) == "":
		return fmt.Errorf("%w: code required", ErrInvalidInput)
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name required", ErrInvalidInput)
	case p.BirthDate.IsZero():
		return fmt.Errorf("%w: birthDate required", ErrInvalidInput)
	case !p.Gender.Valid():
		return fmt.Errorf("%w: gender %q not in [Male, Female]", ErrInvalidInput, p.Gender)
	case p.Weight != nil && *p.Weight < 0:
		return fmt.Errorf("%w: weight must be >= 0", ErrInvalidInput)
	case p.Father != nil && *p.Father == p.Code:
		return fmt.Errorf("%w: father references itself", ErrInvalidInput)
	case p.Mother != nil && *p.Mother == p.Code:
		return fmt.Errorf("%w: mother references itself", ErrInvalidInput)
	}
	return nil
}
