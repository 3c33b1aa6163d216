package app

import (
	"context"
	"errors"
	"fmt"

	"pet-registry/internal/adapters/filestore/gdrive"
	"pet-registry/internal/adapters/imagehost/cloudinaryhost"
	"pet-registry/internal/adapters/imagehost/objectstore"
	"pet-registry/internal/adapters/notify/telegram"
	"pet-registry/internal/adapters/sheets/csvfile"
	"pet-registry/internal/adapters/sheets/gsheets"
	"pet-registry/internal/adapters/storage/memory"
	"pet-registry/internal/adapters/storage/mongodb"
	"pet-registry/internal/adapters/storage/postgres"
	"pet-registry/internal/adapters/storage/sqlite"
	"pet-registry/internal/domain/pets"
	"pet-registry/internal/domain/sheetimport"
	"pet-registry/internal/platform/config"
	"pet-registry/internal/platform/httpclient"
	"pet-registry/internal/platform/journal"
	"pet-registry/internal/platform/logger"
	"pet-registry/internal/ports/filestore"
	"pet-registry/internal/ports/imagehost"
	"pet-registry/internal/ports/notify"
	"pet-registry/internal/ports/sheet"
)

// Options ajusta el armado para el CLI.
type Options struct {
	// CSVPath reemplaza Google Sheets por un export local.
	CSVPath string
}

// App agrupa el servicio de sync ya cableado y lo que hay que cerrar al salir.
type App struct {
	Config  config.Config
	Log     logger.Logger
	Service *sheetimport.Service

	closers []func(context.Context) error
}

// Build arma todas las dependencias. Con config inválida no falla: el servicio
// queda armado y cada corrida devuelve ErrConfig antes de tocar filas.
func Build(ctx context.Context, cfg config.Config, log logger.Logger, opts Options) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	if opts.CSVPath != "" && cfg.Sheet.ID == "" {
		cfg.Sheet.ID = "csv:" + opts.CSVPath
	}

	a := &App{Config: cfg, Log: log}
	deps := sheetimport.Deps{
		Journal:          journal.New(cfg.LogDir, log),
		Log:              log,
		SheetID:          cfg.Sheet.ID,
		RootFolderID:     cfg.Drive.FolderID,
		Recursive:        cfg.Drive.Recursive,
		CDNFolder:        cfg.CDN.Folder,
		ImageConcurrency: cfg.ImageConcurrency,
	}

	if err := cfg.Validate(); err != nil {
		log.Warn("sync disabled: invalid configuration", map[string]any{"error": err})
		deps.Preflight = func() error {
			return fmt.Errorf("%w: %v", sheetimport.ErrConfig, err)
		}
		a.Service = sheetimport.NewService(deps)
		return a, nil
	}

	hc := httpclient.New(cfg.HTTPTimeout)
	hc.UserAgent = cfg.AppName

	repo, closeRepo, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeRepo)

	src, err := NewSource(ctx, cfg, opts.CSVPath)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	files, err := NewFileStore(ctx, cfg)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	host, err := NewImageHost(cfg, hc)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	deps.Repo = repo
	deps.Source = src
	deps.Files = files
	deps.Host = host
	deps.Notifier = NewNotifier(cfg, hc)

	a.Service = sheetimport.NewService(deps)
	log.Info("sync service ready", map[string]any{
		"store":     cfg.Store.Driver,
		"cdn":       cfg.CDN.Provider,
		"recursive": cfg.Drive.Recursive,
	})
	return a, nil
}

// Close libera conexiones en orden inverso.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// OpenStore abre el repositorio según STORE_DRIVER y asegura schema/índices.
func OpenStore(ctx context.Context, sc config.StoreConfig) (pets.Repository, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch sc.Driver {
	case config.StorePostgres:
		pool, err := postgres.Open(ctx, sc.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		repo := postgres.NewPetsRepo(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres schema: %w", err)
		}
		return repo, func(context.Context) error { pool.Close(); return nil }, nil

	case config.StoreMongo:
		client, err := mongodb.Connect(ctx, sc.MongoURI)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		repo := mongodb.NewPetsRepo(client.Database(sc.MongoDB))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return repo, client.Disconnect, nil

	case config.StoreSQLite:
		db, err := sqlite.Open(sc.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		repo := sqlite.NewPetsRepo(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("sqlite schema: %w", err)
		}
		return repo, func(context.Context) error { return db.Close() }, nil

	case config.StoreMemory:
		return memory.NewPetRepo(), noop, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown STORE_DRIVER %q", config.ErrConfig, sc.Driver)
}

func NewSource(ctx context.Context, cfg config.Config, csvPath string) (sheet.Source, error) {
	if csvPath != "" {
		return csvfile.NewSource(csvPath), nil
	}
	return gsheets.NewSource(ctx, gsheets.Config{
		SpreadsheetID:   cfg.Sheet.ID,
		Range:           cfg.Sheet.Range,
		Render:          cfg.Sheet.Render,
		CredentialsFile: cfg.Drive.CredentialsFile,
		APIKey:          cfg.Sheet.APIKey,
	})
}

func NewFileStore(ctx context.Context, cfg config.Config) (filestore.Provider, error) {
	return gdrive.NewClient(ctx, gdrive.Config{
		CredentialsFile: cfg.Drive.CredentialsFile,
		PageSize:        cfg.Drive.PageSize,
		RPS:             cfg.Drive.RPS,
		Timeout:         cfg.HTTPTimeout,
	})
}

func NewImageHost(cfg config.Config, hc *httpclient.Client) (imagehost.Host, error) {
	switch cfg.CDN.Provider {
	case config.CDNCloudinary:
		return cloudinaryhost.NewHost(cloudinaryhost.Config{
			CloudName: cfg.CDN.CloudName,
			APIKey:    cfg.CDN.APIKey,
			APISecret: cfg.CDN.APISecret,
			Timeout:   cfg.HTTPTimeout,
		})
	case config.CDNS3:
		return objectstore.NewHost(objectstore.Config{
			Endpoint:      cfg.CDN.S3Endpoint,
			AccessKey:     cfg.CDN.S3AccessKey,
			SecretKey:     cfg.CDN.S3SecretKey,
			Bucket:        cfg.CDN.S3Bucket,
			Region:        cfg.CDN.S3Region,
			PublicBaseURL: cfg.CDN.S3PublicBaseURL,
			Timeout:       cfg.HTTPTimeout,
		}, hc)
	}
	return nil, fmt.Errorf("%w: unknown CDN_PROVIDER %q", config.ErrConfig, cfg.CDN.Provider)
}

// NewNotifier devuelve Telegram si hay token y chat; si no, descarta mensajes.
func NewNotifier(cfg config.Config, hc *httpclient.Client) notify.Notifier {
	tg := telegram.NewNotifier(telegram.Config{
		Token:   cfg.TG.Token,
		ChatID:  cfg.TG.ChatID,
		Silent:  cfg.TG.Silent,
		Timeout: cfg.HTTPTimeout,
	}, hc)
	if !tg.IsConfigured() {
		return notify.Nop{}
	}
	return tg
}
