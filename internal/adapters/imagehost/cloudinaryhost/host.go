package cloudinaryhost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"pet-registry/internal/ports/imagehost"
)

var (
	ErrCloudinaryNotConfigured = errors.New("cloudinary not configured")
	ErrCloudinaryUpstream      = errors.New("cloudinary upstream error")
)

var ownDomain = regexp.MustCompile(`(?i)res\.cloudinary\.com`)

type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Timeout   time.Duration
}

// uploadFunc es el subset del SDK que usamos; file es io.Reader o URL remota.
type uploadFunc func(ctx context.Context, file any, p uploader.UploadParams) (*uploader.UploadResult, error)

// Host implementa imagehost.Host sobre el upload API de Cloudinary.
type Host struct {
	upload  uploadFunc
	timeout time.Duration
}

func NewHost(cfg Config) (*Host, error) {
	if strings.TrimSpace(cfg.CloudName) == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, ErrCloudinaryNotConfigured
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCloudinaryNotConfigured, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Host{upload: cld.Upload.Upload, timeout: timeout}, nil
}

func (h *Host) Hosts(url string) bool {
	return ownDomain.MatchString(url)
}

func (h *Host) UploadStream(ctx context.Context, r io.Reader, p imagehost.UploadParams) (imagehost.Result, error) {
	return h.do(ctx, r, p)
}

// UploadURL deja que Cloudinary descargue la URL remota.
func (h *Host) UploadURL(ctx context.Context, url string, p imagehost.UploadParams) (imagehost.Result, error) {
	return h.do(ctx, url, p)
}

func (h *Host) do(ctx context.Context, file any, p imagehost.UploadParams) (imagehost.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	res, err := h.upload(ctx, file, toParams(p))
	if err != nil {
		return imagehost.Result{}, fmt.Errorf("%w: %v", ErrCloudinaryUpstream, err)
	}
	if res == nil {
		return imagehost.Result{}, fmt.Errorf("%w: empty response", ErrCloudinaryUpstream)
	}
	if res.Error.Message != "" {
		return imagehost.Result{}, fmt.Errorf("%w: %s", ErrCloudinaryUpstream, res.Error.Message)
	}
	if res.SecureURL == "" {
		return imagehost.Result{}, fmt.Errorf("%w: missing secure_url", ErrCloudinaryUpstream)
	}

	return imagehost.Result{SecureURL: res.SecureURL, PublicID: res.PublicID}, nil
}

func toParams(p imagehost.UploadParams) uploader.UploadParams {
	return uploader.UploadParams{
		Folder:       p.Folder,
		PublicID:     p.PublicID,
		Overwrite:    api.Bool(p.Overwrite),
		Format:       p.Format,
		ResourceType: "image",
	}
}
