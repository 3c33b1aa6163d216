package sheetimport

import "pet-registry/internal/platform/logger"

// Journal es el log persistente de corridas (append-only, un archivo por día).
// Las implementaciones no devuelven error: escribir el journal nunca corta una corrida.
type Journal interface {
	Info(msg string)
	Success(msg string)
	Warn(msg string)
	Error(msg string)
}

type nopJournal struct{}

func (nopJournal) Info(string)    {}
func (nopJournal) Success(string) {}
func (nopJournal) Warn(string)    {}
func (nopJournal) Error(string)   {}

// runLog escribe cada evento en el logger estructurado y en el journal.
type runLog struct {
	log     logger.Logger
	journal Journal
}

func newRunLog(log logger.Logger, j Journal) runLog {
	if log == nil {
		log = logger.Nop()
	}
	if j == nil {
		j = nopJournal{}
	}
	return runLog{log: log, journal: j}
}

func (l runLog) with(fields map[string]any) runLog {
	return runLog{log: l.log.With(fields), journal: l.journal}
}

func (l runLog) info(msg string, fields map[string]any) {
	l.log.Info(msg, fields)
	l.journal.Info(msg)
}

func (l runLog) success(msg string, fields map[string]any) {
	l.log.Info(msg, fields)
	l.journal.Success(msg)
}

func (l runLog) warn(msg string, fields map[string]any) {
	l.log.Warn(msg, fields)
	l.journal.Warn(msg)
}

func (l runLog) error(msg string, fields map[string]any) {
	l.log.Error(msg, fields)
	l.journal.Error(msg)
}
