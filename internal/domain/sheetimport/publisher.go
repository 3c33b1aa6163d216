package sheetimport

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"pet-registry/internal/ports/filestore"
	"pet-registry/internal/ports/imagehost"
)

const (
	DefaultCDNFolder = "SMBullyCamp"
	publishFormat    = "jpg"
)

var (
	driveFilePathRe = regexp.MustCompile(`(?i)drive\.google\.com/file/d/([^/?#&]+)`)
	driveIDParamRe  = regexp.MustCompile(`(?i)[?&]id=([^&#]+)`)
	absoluteURLRe   = regexp.MustCompile(`(?i)^https?://`)
)

// DriveFileID extrae el id de un link compartido de Drive.
func DriveFileID(ref string) (string, bool) {
	if !strings.Contains(strings.ToLower(ref), "drive.google.com") {
		return "", false
	}
	if m := driveFilePathRe.FindStringSubmatch(ref); m != nil {
		return m[1], true
	}
	if m := driveIDParamRe.FindStringSubmatch(ref); m != nil {
		return m[1], true
	}
	return "", false
}

// PublicID es la clave determinística del asset: re-publicar pisa, no duplica.
func PublicID(code string) string {
	return "pets_" + code
}

// Publisher asegura que la imagen de un registro viva en el CDN.
type Publisher struct {
	host    imagehost.Host
	files   filestore.Provider
	scanner *Scanner
	folder  string
	log     runLog
}

func NewPublisher(host imagehost.Host, files filestore.Provider, scanner *Scanner, folder string, rl runLog) *Publisher {
	if strings.TrimSpace(folder) == "" {
		folder = DefaultCDNFolder
	}
	return &Publisher{host: host, files: files, scanner: scanner, folder: folder, log: rl}
}

// EnsurePublished devuelve la URL final de la imagen:
//   - URL del CDN propio => se devuelve igual.
//   - link de Drive => descarga por id y re-publica.
//   - otra URL absoluta => el CDN la trae y re-publica.
//   - vacío => busca por code en el listado de la corrida; sin match => "" sin error.
//
// Errores de descarga/subida son por fila. Errores de listado (ErrListing/ErrConfig)
// afectan a toda la corrida y el caller los trata como fatales.
func (p *Publisher) EnsurePublished(ctx context.Context, ref, code string, cat *catalog) (string, error) {
	ref = strings.TrimSpace(ref)

	if ref != "" && p.host.Hosts(ref) {
		return ref, nil
	}

	if id, ok := DriveFileID(ref); ok {
		return p.publishDriveFile(ctx, id, code)
	}

	if absoluteURLRe.MatchString(ref) {
		res, err := p.host.UploadURL(ctx, ref, p.params(code))
		if err != nil {
			return "", fmt.Errorf("%w: upload url: %v", ErrAsset, err)
		}
		return res.SecureURL, nil
	}

	files, err := cat.Files(ctx)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		p.log.error(fmt.Sprintf("Drive folder is empty or has no images (folderId=%s).", cat.rootID), nil)
		return "", nil
	}

	m, ok := FindBestMatch(code, files)
	if !ok {
		return "", nil
	}

	id := m.File.ID
	if m.File.IsShortcut() {
		if m.File.ShortcutTargetID != "" {
			id = m.File.ShortcutTargetID
		} else if id, err = p.scanner.ResolveShortcut(ctx, id); err != nil {
			return "", fmt.Errorf("%w: %v", ErrAsset, err)
		}
	}
	p.log.info(fmt.Sprintf("Match %s: %s (id=%s)", m.Tier, m.File.Name, id),
		map[string]any{"code": code, "tier": string(m.Tier), "file": m.File.Name, "file_id": id})

	return p.publishDriveFile(ctx, id, code)
}

func (p *Publisher) publishDriveFile(ctx context.Context, id, code string) (string, error) {
	rc, err := p.files.Download(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%w: drive download %s: %v", ErrAsset, id, err)
	}
	defer rc.Close()

	res, err := p.host.UploadStream(ctx, rc, p.params(code))
	if err != nil {
		return "", fmt.Errorf("%w: upload stream: %v", ErrAsset, err)
	}
	return res.SecureURL, nil
}

func (p *Publisher) params(code string) imagehost.UploadParams {
	return imagehost.UploadParams{
		Folder:    p.folder,
		PublicID:  PublicID(code),
		Overwrite: true,
		Format:    publishFormat,
	}
}
