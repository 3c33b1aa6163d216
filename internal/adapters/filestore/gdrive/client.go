package gdrive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"pet-registry/internal/ports/filestore"
)

var (
	ErrDriveNotConfigured = errors.New("drive client not configured")
	ErrDriveUpstream      = errors.New("drive upstream error")
)

const (
	DefaultPageSize = 1000
	DefaultRPS      = 10

	fileFields = "id, name, mimeType, parents, shortcutDetails(targetId, targetMimeType)"
	listFields = "nextPageToken, files(id, name, mimeType, parents, shortcutDetails(targetId, targetMimeType))"
)

// Config del cliente Drive (solo lectura, service account).
type Config struct {
	CredentialsFile string
	PageSize        int64
	RPS             float64
	Timeout         time.Duration
}

// Client implementa filestore.Provider sobre Drive v3.
// Todas las llamadas pasan por un rate limiter compartido.
type Client struct {
	svc      *drive.Service
	pageSize int64
	limiter  *rate.Limiter
}

// NewClient arma el servicio. opts extra sirven para tests (endpoint/http client).
func NewClient(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.CredentialsFile) == "" && len(opts) == 0 {
		return nil, ErrDriveNotConfigured
	}

	all := make([]option.ClientOption, 0, len(opts)+2)
	if cfg.CredentialsFile != "" {
		all = append(all,
			option.WithCredentialsFile(cfg.CredentialsFile),
			option.WithScopes(drive.DriveReadonlyScope),
		)
	}
	all = append(all, opts...)

	svc, err := drive.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDriveUpstream, err)
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > DefaultPageSize {
		pageSize = DefaultPageSize
	}
	rps := cfg.RPS
	if rps <= 0 {
		rps = DefaultRPS
	}

	return &Client{
		svc:      svc,
		pageSize: pageSize,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

func (c *Client) ListChildren(ctx context.Context, folderID string) ([]filestore.File, error) {
	q := fmt.Sprintf("'%s' in parents and trashed = false", escapeQuery(folderID))

	var (
		out   []filestore.File
		token string
	)
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := c.svc.Files.List().
			Q(q).
			Fields(listFields).
			PageSize(c.pageSize).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Corpora("allDrives").
			Context(ctx)
		if token != "" {
			call = call.PageToken(token)
		}

		res, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("%w: list %s: %v", ErrDriveUpstream, folderID, err)
		}
		for _, f := range res.Files {
			out = append(out, toFile(f))
		}

		token = res.NextPageToken
		if token == "" {
			return out, nil
		}
	}
}

func (c *Client) GetFile(ctx context.Context, id string) (filestore.File, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return filestore.File{}, err
	}

	f, err := c.svc.Files.Get(id).
		Fields(fileFields).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return filestore.File{}, fmt.Errorf("%w: get %s: %v", ErrDriveUpstream, id, err)
	}
	return toFile(f), nil
}

// Download devuelve el contenido binario (alt=media).
func (c *Client) Download(ctx context.Context, id string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.svc.Files.Get(id).
		SupportsAllDrives(true).
		Context(ctx).
		Download()
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %v", ErrDriveUpstream, id, err)
	}
	return resp.Body, nil
}

func toFile(f *drive.File) filestore.File {
	out := filestore.File{
		ID:       f.Id,
		Name:     f.Name,
		MimeType: f.MimeType,
		Parents:  f.Parents,
	}
	if f.ShortcutDetails != nil {
		out.ShortcutTargetID = f.ShortcutDetails.TargetId
	}
	return out
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
