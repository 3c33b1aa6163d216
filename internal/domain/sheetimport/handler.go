package sheetimport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Runner es lo que necesita el endpoint; *Service lo implementa.
type Runner interface {
	TryRun(ctx context.Context) (Summary, error)
	Running() bool
}

func RegisterRoutes(r chi.Router, svc Runner) {
	r.Post("/pets/sync", syncHandler(svc))
	r.Get("/pets/sync/status", statusHandler(svc))
}

type syncResponse struct {
	Message string `json:"message"`
	Summary
}

// syncHandler godoc
// @Summary Sincronizar mascotas desde Google Sheet
// @Description Lee la planilla configurada, salta códigos existentes o inválidos, publica la imagen de cada fila en el CDN y hace un insert bulk no ordenado. Solo una corrida a la vez: una segunda llamada concurrente recibe 429 sin esperar. Requiere `Authorization: Bearer <ADMIN_TOKEN>` si ADMIN_TOKEN está configurado.
// @Tags sync
// @Produce json
// @Param Authorization header string false "Bearer <ADMIN_TOKEN>"
// @Success 200 {object} syncResponse
// @Failure 400 {object} syncResponse "la planilla no tiene fila de headers"
// @Failure 401 {string} string "unauthorized"
// @Failure 429 {object} syncResponse "ya hay una sincronización en curso"
// @Failure 500 {object} syncResponse "error global; incluye los contadores parciales"
// @Router /pets/sync [post]
func syncHandler(svc Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// La corrida no se corta si el cliente se desconecta.
		ctx := context.WithoutCancel(r.Context())

		sum, err := svc.TryRun(ctx)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, syncResponse{Message: "Import succeeded", Summary: sum})
		case errors.Is(err, ErrBusy):
			writeJSON(w, http.StatusTooManyRequests, syncResponse{Message: "Sync already in progress", Summary: sum})
		case errors.Is(err, ErrNoHeader):
			writeJSON(w, http.StatusBadRequest, syncResponse{Message: "Header row not found in sheet", Summary: sum})
		default:
			writeJSON(w, http.StatusInternalServerError, syncResponse{Message: "Global error: " + err.Error(), Summary: sum})
		}
	}
}

type statusResponse struct {
	Running bool `json:"running"`
}

// statusHandler godoc
// @Summary Estado de la sincronización
// @Tags sync
// @Produce json
// @Param Authorization header string false "Bearer <ADMIN_TOKEN>"
// @Success 200 {object} statusResponse
// @Router /pets/sync/status [get]
func statusHandler(svc Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, statusResponse{Running: svc.Running()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
