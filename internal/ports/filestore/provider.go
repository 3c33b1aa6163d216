package filestore

import (
	"context"
	"io"
)

const (
	MimeFolder   = "application/vnd.google-apps.folder"
	MimeShortcut = "application/vnd.google-apps.shortcut"
)

// File es el descriptor remoto (solo lectura).
// Un shortcut trae ShortcutTargetID y debe resolverse antes de descargar.
type File struct {
	ID               string
	Name             string
	MimeType         string
	Parents          []string
	ShortcutTargetID string
}

func (f File) IsFolder() bool   { return f.MimeType == MimeFolder }
func (f File) IsShortcut() bool { return f.MimeType == MimeShortcut }

// Provider expone el árbol de archivos remoto.
type Provider interface {
	// ListChildren devuelve los hijos no borrados de una carpeta (un nivel, todas las páginas).
	ListChildren(ctx context.Context, folderID string) ([]File, error)
	GetFile(ctx context.Context, id string) (File, error)
	Download(ctx context.Context, id string) (io.ReadCloser, error)
}
