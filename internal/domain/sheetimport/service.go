package sheetimport

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"pet-registry/internal/domain/pets"
	"pet-registry/internal/platform/logger"
	"pet-registry/internal/ports/filestore"
	"pet-registry/internal/ports/imagehost"
	"pet-registry/internal/ports/notify"
	"pet-registry/internal/ports/sheet"
)

// Deps: clientes construidos una vez al arrancar y compartidos por todas las corridas.
type Deps struct {
	Source   sheet.Source
	Files    filestore.Provider
	Host     imagehost.Host
	Repo     pets.Repository
	Notifier notify.Notifier // nil => sin notificaciones
	Journal  Journal         // nil => sin log a archivo
	Log      logger.Logger

	SheetID          string
	RootFolderID     string
	Recursive        bool
	CDNFolder        string
	ImageConcurrency int

	// Preflight valida la configuración externa antes de procesar filas (opcional).
	Preflight func() error
}

type Service struct {
	running atomic.Bool

	source   sheet.Source
	files    filestore.Provider
	host     imagehost.Host
	repo     pets.Repository
	notifier notify.Notifier
	rl       runLog

	sheetID      string
	rootFolderID string
	recursive    bool
	cdnFolder    string
	concurrency  int
	preflight    func() error

	now      func() time.Time
	newID    func() string
	newRunID func() string
}

func NewService(d Deps) *Service {
	return &Service{
		source:       d.Source,
		files:        d.Files,
		host:         d.Host,
		repo:         d.Repo,
		notifier:     d.Notifier,
		rl:           newRunLog(d.Log, d.Journal),
		sheetID:      strings.TrimSpace(d.SheetID),
		rootFolderID: strings.TrimSpace(d.RootFolderID),
		recursive:    d.Recursive,
		cdnFolder:    d.CDNFolder,
		concurrency:  d.ImageConcurrency,
		preflight:    d.Preflight,
		now:          time.Now,
		newID:        uuid.NewString,
		newRunID:     uuid.NewString,
	}
}

// Running indica si hay una corrida en curso.
func (s *Service) Running() bool {
	return s.running.Load()
}

// TryRun ejecuta Run salvo que ya haya una corrida en curso: en ese caso devuelve
// ErrBusy de inmediato, sin esperar. El flag se libera en cualquier salida.
func (s *Service) TryRun(ctx context.Context) (Summary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return newSummary(), ErrBusy
	}
	defer s.running.Store(false)

	return s.Run(ctx)
}

// Run ejecuta una corrida completa. Ante un error fatal devuelve igual el
// Summary parcial acumulado hasta ese punto.
func (s *Service) Run(ctx context.Context) (sum Summary, err error) {
	sum = newSummary()
	runID := s.newRunID()
	rl := s.rl.with(map[string]any{"run_id": runID})
	rep := NewReporter(s.notifier, s.sheetID, rl)
	started := s.now()

	defer func() {
		fields := map[string]any{
			"duration_ms":      s.now().Sub(started).Milliseconds(),
			"inserted":         sum.Inserted,
			"skipped_exists":   sum.SkippedExists,
			"skipped_no_code":  sum.SkippedNoCode,
			"skipped_bad_date": sum.SkippedBadDate,
			"uploaded_images":  sum.UploadedImages,
			"errors":           len(sum.Errors),
		}
		if err != nil {
			fields["error"] = err
			rl.error(fmt.Sprintf("Global error: %v", err), fields)
			rep.Fatal(ctx, err)
			return
		}
		rl.info("Import completed", fields)
	}()

	if err = s.validate(); err != nil {
		return sum, err
	}

	rl.info(fmt.Sprintf("Starting import from sheet %s", s.sheetID), nil)
	rep.Start(ctx)

	grid, err := s.source.Read(ctx)
	if err != nil {
		return sum, fmt.Errorf("%w: %v", ErrSource, err)
	}
	rows, err := RowsFromGrid(grid)
	if err != nil {
		return sum, err
	}
	rl.info(fmt.Sprintf("Read %d rows from sheet", len(rows)), map[string]any{"rows": len(rows)})

	scanner := NewScanner(s.files, s.recursive, rl)
	pub := NewPublisher(s.host, s.files, scanner, s.cdnFolder, rl)
	rec := NewReconciler(s.repo, pub, s.concurrency, rl)
	rec.now = s.now
	rec.newID = s.newID

	staged, err := rec.Reconcile(ctx, rows, &sum, newCatalog(scanner, s.rootFolderID))
	if err != nil {
		return sum, err
	}

	attempted, report, err := NewWriter(s.repo, rl).Commit(ctx, staged)
	for _, f := range report.Failures {
		sum.addError(fmt.Sprintf("Insert failed (%s): %v", f.Code, f.Err))
	}
	if err != nil {
		return sum, err
	}
	sum.Inserted = attempted

	rep.Summarize(ctx, sum)
	return sum, nil
}

// validate corre antes de tocar cualquier fila: toda falla acá es de configuración.
func (s *Service) validate() error {
	if s.preflight != nil {
		if err := s.preflight(); err != nil {
			return err
		}
	}

	var missing []string
	if s.sheetID == "" {
		missing = append(missing, "sheet id")
	}
	if s.rootFolderID == "" {
		missing = append(missing, "drive root folder")
	}
	if s.source == nil {
		missing = append(missing, "sheet source")
	}
	if s.files == nil {
		missing = append(missing, "file store")
	}
	if s.host == nil {
		missing = append(missing, "image host")
	}
	if s.repo == nil {
		missing = append(missing, "pets repository")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrConfig, strings.Join(missing, ", "))
	}
	return nil
}
