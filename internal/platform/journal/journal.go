package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pet-registry/internal/platform/logger"
)

const (
	MarkerSuccess = "✅"
	MarkerError   = "❌"
	MarkerWarn    = "⚠️"
	MarkerInfo    = "ℹ️"
)

// Journal escribe un archivo append-only por día UTC:
// <dir>/import-log-YYYYMMDD.log, líneas "[RFC3339 ms] <marker> <mensaje>".
// Fallos de escritura se loguean y se descartan.
type Journal struct {
	dir string
	log logger.Logger
	now func() time.Time

	mu sync.Mutex
}

func New(dir string, log logger.Logger) *Journal {
	if dir == "" {
		dir = "logs"
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Journal{dir: dir, log: log, now: time.Now}
}

// Path devuelve el archivo del día para t.
func (j *Journal) Path(t time.Time) string {
	return filepath.Join(j.dir, "import-log-"+t.UTC().Format("20060102")+".log")
}

func (j *Journal) Info(msg string)    { j.Append(MarkerInfo, msg) }
func (j *Journal) Success(msg string) { j.Append(MarkerSuccess, msg) }
func (j *Journal) Warn(msg string)    { j.Append(MarkerWarn, msg) }
func (j *Journal) Error(msg string)   { j.Append(MarkerError, msg) }

func (j *Journal) Append(marker, msg string) {
	if err := j.write(marker, msg); err != nil {
		j.log.Warn("journal write failed", map[string]any{"error": err, "dir": j.dir})
	}
}

func (j *Journal) write(marker, msg string) error {
	now := j.now().UTC()
	line := fmt.Sprintf("[%s] %s %s\n", now.Format("2006-01-02T15:04:05.000Z07:00"), marker, msg)

	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(j.Path(now), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
