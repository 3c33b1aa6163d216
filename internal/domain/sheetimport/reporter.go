package sheetimport

import (
	"context"
	"fmt"
	"strings"

	"pet-registry/internal/ports/notify"
)

// MaxMessageLen queda por debajo del límite de 4096 de Telegram para dejar lugar
// al prefijo y al bloque de código.
const MaxMessageLen = 3500

const errorsPrefix = "⚠️ Some errors:"

// ChunkText parte text en segmentos de a lo sumo max runas.
func ChunkText(text string, max int) []string {
	if text == "" {
		return nil
	}
	if max <= 0 {
		return []string{text}
	}
	runes := []rune(text)
	out := make([]string, 0, len(runes)/max+1)
	for i := 0; i < len(runes); i += max {
		end := min(i+max, len(runes))
		out = append(out, string(runes[i:end]))
	}
	return out
}

// FormatChunks arma los mensajes: prefijo, "(part N)" desde el segundo, y el
// contenido en un bloque de código.
func FormatChunks(prefix, text string) []string {
	chunks := ChunkText(text, MaxMessageLen)
	out := make([]string, len(chunks))
	for i, c := range chunks {
		head := prefix
		if i > 0 {
			head = fmt.Sprintf("%s (part %d)", prefix, i+1)
		}
		out[i] = head + "\n```\n" + c + "\n```"
	}
	return out
}

// Reporter emite el ciclo de vida de una corrida al canal de notificación.
// Un fallo al notificar se loguea como warning y nunca corta la corrida.
type Reporter struct {
	notifier notify.Notifier
	sheetID  string
	log      runLog
}

func NewReporter(n notify.Notifier, sheetID string, rl runLog) *Reporter {
	if n == nil {
		n = notify.Nop{}
	}
	return &Reporter{notifier: n, sheetID: sheetID, log: rl}
}

func (r *Reporter) Start(ctx context.Context) {
	r.send(ctx, fmt.Sprintf("🚀 Starting import from Google Sheet *%s*", r.sheetID))
}

// Summarize manda el mensaje de cierre con contadores y, si hay, la lista de errores en partes.
func (r *Reporter) Summarize(ctx context.Context, s Summary) {
	r.send(ctx, CompletionMessage(s))
	if len(s.Errors) == 0 {
		return
	}
	for _, msg := range FormatChunks(errorsPrefix, strings.Join(s.Errors, "\n")) {
		r.send(ctx, msg)
	}
}

func (r *Reporter) Fatal(ctx context.Context, err error) {
	r.send(ctx, fmt.Sprintf("❌ Import failed: %v", err))
}

func CompletionMessage(s Summary) string {
	return "✅ Import completed\n" +
		fmt.Sprintf("• Inserted: *%d*\n", s.Inserted) +
		fmt.Sprintf("• Skipped exists: *%d*\n", s.SkippedExists) +
		fmt.Sprintf("• Skipped no code: *%d*\n", s.SkippedNoCode) +
		fmt.Sprintf("• Skipped bad date: *%d*\n", s.SkippedBadDate) +
		fmt.Sprintf("• Uploaded images: *%d*", s.UploadedImages)
}

func (r *Reporter) send(ctx context.Context, text string) {
	if err := r.notifier.Send(ctx, text); err != nil {
		r.log.warn(fmt.Sprintf("Notification failed: %v", err), map[string]any{"error": err})
	}
}
