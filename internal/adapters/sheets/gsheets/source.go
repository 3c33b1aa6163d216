package gsheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var (
	ErrSheetsNotConfigured = errors.New("sheets source not configured")
	ErrSheetsUpstream      = errors.New("sheets upstream error")
)

const (
	DefaultRange  = "Sheet1!A1:Z"
	DefaultRender = "FORMATTED_VALUE"
)

type Config struct {
	SpreadsheetID   string
	Range           string
	Render          string // FORMATTED_VALUE | UNFORMATTED_VALUE | FORMULA
	CredentialsFile string
	APIKey          string // alternativa a service account para hojas públicas
}

// Source lee un rango de una planilla vía Sheets v4.
type Source struct {
	svc    *sheets.Service
	id     string
	rng    string
	render string
}

func NewSource(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Source, error) {
	id := strings.TrimSpace(cfg.SpreadsheetID)
	if id == "" {
		return nil, ErrSheetsNotConfigured
	}

	var all []option.ClientOption
	switch {
	case cfg.APIKey != "":
		all = append(all, option.WithAPIKey(cfg.APIKey))
	case cfg.CredentialsFile != "":
		all = append(all,
			option.WithCredentialsFile(cfg.CredentialsFile),
			option.WithScopes(sheets.SpreadsheetsReadonlyScope),
		)
	case len(opts) == 0:
		return nil, ErrSheetsNotConfigured
	}
	all = append(all, opts...)

	svc, err := sheets.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSheetsUpstream, err)
	}

	rng := strings.TrimSpace(cfg.Range)
	if rng == "" {
		rng = DefaultRange
	}
	render := strings.TrimSpace(cfg.Render)
	if render == "" {
		render = DefaultRender
	}

	return &Source{svc: svc, id: id, rng: rng, render: render}, nil
}

// Read devuelve la grilla tal cual; filas finales vacías no vienen del API.
func (s *Source) Read(ctx context.Context) ([][]any, error) {
	res, err := s.svc.Spreadsheets.Values.Get(s.id, s.rng).
		ValueRenderOption(s.render).
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSheetsUpstream, err)
	}

	out := make([][]any, len(res.Values))
	for i, row := range res.Values {
		out[i] = append([]any(nil), row...)
	}
	return out, nil
}
