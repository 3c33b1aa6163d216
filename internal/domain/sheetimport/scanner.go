package sheetimport

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"pet-registry/internal/ports/filestore"
)

var imageMimeAllow = map[string]bool{
	"image/jpeg":          true,
	"image/jpg":           true,
	"image/png":           true,
	"image/webp":          true,
	"image/gif":           true,
	"image/heic":          true,
	"image/heif":          true,
	"image/heif-sequence": true,
	"image/heic-sequence": true,
}

var imageExtRe = regexp.MustCompile(`(?i)\.(jpe?g|png|webp|gif|heic|heif)$`)

// IsLikelyImage: MIME image/*, MIME en allow-list o, como fallback cuando el
// proveedor clasifica mal, extensión conocida en el nombre.
func IsLikelyImage(f filestore.File) bool {
	mime := strings.ToLower(f.MimeType)
	if strings.HasPrefix(mime, "image/") || imageMimeAllow[mime] {
		return true
	}
	return f.Name != "" && imageExtRe.MatchString(f.Name)
}

func isCandidate(f filestore.File) bool {
	return f.IsShortcut() || IsLikelyImage(f)
}

// Scanner recorre el árbol remoto y junta archivos de imagen.
type Scanner struct {
	provider  filestore.Provider
	recursive bool
	log       runLog
}

func NewScanner(p filestore.Provider, recursive bool, rl runLog) *Scanner {
	return &Scanner{provider: p, recursive: recursive, log: rl}
}

// ResolveShortcut devuelve el id destino si id es un shortcut; si no, id tal cual.
func (s *Scanner) ResolveShortcut(ctx context.Context, id string) (string, error) {
	f, err := s.provider.GetFile(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%w: get %s: %v", ErrListing, id, err)
	}
	if f.IsShortcut() && f.ShortcutTargetID != "" {
		return f.ShortcutTargetID, nil
	}
	return id, nil
}

// ListImagesRecursive hace BFS desde root (resolviendo el shortcut de la raíz).
// Las carpetas se encolan y nunca se devuelven. Sin límite de profundidad.
func (s *Scanner) ListImagesRecursive(ctx context.Context, rootID string) ([]filestore.File, error) {
	start, err := s.ResolveShortcut(ctx, rootID)
	if err != nil {
		return nil, err
	}

	var (
		out         []filestore.File
		queue       = []string{start}
		foldersSeen int
	)
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fid := queue[0]
		queue = queue[1:]

		children, err := s.provider.ListChildren(ctx, fid)
		if err != nil {
			return nil, fmt.Errorf("%w: list %s: %v", ErrListing, fid, err)
		}
		for _, f := range children {
			if f.IsFolder() {
				queue = append(queue, f.ID)
				foldersSeen++
				continue
			}
			if isCandidate(f) {
				out = append(out, f)
			}
		}
	}

	s.log.info(fmt.Sprintf("Drive recursive listing: scanned %d folders, collected %d files under %s.", foldersSeen, len(out), rootID),
		map[string]any{"folders": foldersSeen, "files": len(out), "root": rootID})
	return out, nil
}

// ListImagesOneLevel: mismo filtro, solo hijos directos.
func (s *Scanner) ListImagesOneLevel(ctx context.Context, rootID string) ([]filestore.File, error) {
	fid, err := s.ResolveShortcut(ctx, rootID)
	if err != nil {
		return nil, err
	}
	children, err := s.provider.ListChildren(ctx, fid)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", ErrListing, fid, err)
	}

	out := make([]filestore.File, 0, len(children))
	for _, f := range children {
		if !f.IsFolder() && isCandidate(f) {
			out = append(out, f)
		}
	}

	s.log.info(fmt.Sprintf("Drive one-level listing: collected %d files under %s.", len(out), fid),
		map[string]any{"files": len(out), "root": fid})
	return out, nil
}

// ListImages elige recursivo o un nivel según configuración.
func (s *Scanner) ListImages(ctx context.Context, rootID string) ([]filestore.File, error) {
	if s.recursive {
		return s.ListImagesRecursive(ctx, rootID)
	}
	return s.ListImagesOneLevel(ctx, rootID)
}

// catalog memoiza el listado para una corrida: se lista una sola vez
// (la primera fila que lo necesite) y el resultado, o el error, se comparte.
type catalog struct {
	once    sync.Once
	scanner *Scanner
	rootID  string

	files []filestore.File
	err   error
}

func newCatalog(s *Scanner, rootID string) *catalog {
	return &catalog{scanner: s, rootID: rootID}
}

func (c *catalog) Files(ctx context.Context) ([]filestore.File, error) {
	c.once.Do(func() {
		if strings.TrimSpace(c.rootID) == "" {
			c.err = fmt.Errorf("%w: drive root folder not set", ErrConfig)
			return
		}
		c.files, c.err = c.scanner.ListImages(ctx, c.rootID)
	})
	return c.files, c.err
}
