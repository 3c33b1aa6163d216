package sheetimport

import "errors"

var (
	ErrBusy     = errors.New("sync already in progress")
	ErrNoHeader = errors.New("sheet header row not found")
	ErrConfig   = errors.New("configuration error")
	ErrListing  = errors.New("drive listing failed")
	ErrSource   = errors.New("sheet read failed")
	ErrStore    = errors.New("datastore error")
	ErrAsset    = errors.New("image publish failed")
)

// Summary es el resultado de una corrida. Se arma incrementalmente y se emite una vez.
type Summary struct {
	Inserted       int      `json:"inserted"`
	SkippedExists  int      `json:"skippedExists"`
	SkippedNoCode  int      `json:"skippedNoCode"`
	SkippedBadDate int      `json:"skippedBadDate"`
	UploadedImages int      `json:"uploadedImages"`
	Errors         []string `json:"errors"`
}

func newSummary() Summary {
	return Summary{Errors: []string{}}
}

func (s *Summary) addError(msg string) {
	s.Errors = append(s.Errors, msg)
}
