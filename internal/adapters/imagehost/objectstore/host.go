package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"pet-registry/internal/platform/httpclient"
	"pet-registry/internal/ports/imagehost"
)

var (
	ErrStoreNotConfigured = errors.New("object store not configured")
	ErrStoreUpstream      = errors.New("object store upstream error")
)

type Config struct {
	Endpoint      string // http(s)://host:port
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	PublicBaseURL string // prefijo público de los objetos; default <endpoint>/<bucket>
	Timeout       time.Duration
}

// objectAPI es el subset de *minio.Client que usamos.
type objectAPI interface {
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

type fetcher interface {
	Fetch(ctx context.Context, rawURL string) (io.ReadCloser, string, error)
}

// Host implementa imagehost.Host sobre un bucket S3-compatible.
// El transcode a JPEG se hace local antes de subir.
type Host struct {
	objects    objectAPI
	fetch      fetcher
	bucket     string
	publicBase string
	quality    int
	maxDim     int
}

func NewHost(cfg Config, hc *httpclient.Client) (*Host, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, ErrStoreNotConfigured
	}

	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid endpoint %q", ErrStoreNotConfigured, cfg.Endpoint)
	}

	client, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: u.Scheme == "https",
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreNotConfigured, err)
	}

	if hc == nil {
		hc = httpclient.New(cfg.Timeout)
	}

	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return newHost(client, hc, cfg.Bucket, base), nil
}

func newHost(objects objectAPI, f fetcher, bucket, publicBase string) *Host {
	return &Host{
		objects:    objects,
		fetch:      f,
		bucket:     bucket,
		publicBase: publicBase,
		quality:    DefaultQuality,
		maxDim:     DefaultMaxDimension,
	}
}

func (h *Host) Hosts(rawURL string) bool {
	return h.publicBase != "" && strings.HasPrefix(rawURL, h.publicBase+"/")
}

func (h *Host) UploadStream(ctx context.Context, r io.Reader, p imagehost.UploadParams) (imagehost.Result, error) {
	key := objectKey(p)

	if !p.Overwrite {
		if _, err := h.objects.StatObject(ctx, h.bucket, key, minio.StatObjectOptions{}); err == nil {
			return h.result(key), nil
		}
	}

	data, _, err := ToJPEG(r, h.quality, h.maxDim)
	if err != nil {
		return imagehost.Result{}, err
	}

	_, err = h.objects.PutObject(ctx, h.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  "image/jpeg",
		CacheControl: "public, max-age=31536000",
	})
	if err != nil {
		return imagehost.Result{}, fmt.Errorf("%w: put %s: %v", ErrStoreUpstream, key, err)
	}

	return h.result(key), nil
}

// UploadURL baja la URL remota y la sube como stream.
func (h *Host) UploadURL(ctx context.Context, rawURL string, p imagehost.UploadParams) (imagehost.Result, error) {
	body, _, err := h.fetch.Fetch(ctx, rawURL)
	if err != nil {
		return imagehost.Result{}, err
	}
	defer body.Close()

	return h.UploadStream(ctx, body, p)
}

func (h *Host) result(key string) imagehost.Result {
	return imagehost.Result{
		SecureURL: h.publicBase + "/" + key,
		PublicID:  strings.TrimSuffix(key, ".jpg"),
	}
}

// objectKey: siempre .jpg porque el transcode es local.
func objectKey(p imagehost.UploadParams) string {
	return path.Join(strings.Trim(p.Folder, "/"), p.PublicID+".jpg")
}
