// Package server публикует инструменты TVM по HTTP
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cloud-ru/mcp-tvm-go/internal/config"
	"github.com/cloud-ru/mcp-tvm-go/internal/tools"
	"github.com/cloud-ru/mcp-tvm-go/internal/tracing"
	"github.com/cloud-ru/mcp-tvm-go/internal/validators"
)

// Ограничение на размер тела запроса
const maxBodyBytes = 1 << 20

// NewRouter создает маршрутизатор сервиса
func NewRouter(cfg *config.Config, registry *tools.Registry) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logger)
	r.Use(middleware.Recoverer)
	r.Use(NewCORS(cfg.CORSAllowedOrigins).Handler)

	h := &toolHandler{registry: registry}
	r.Get("/health", health)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/tools", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/{name}", h.call)
	})

	return r
}

func health(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": tracing.Version,
	})
}

type toolHandler struct {
	registry *tools.Registry
}

func (h *toolHandler) list(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, h.registry.Definitions())
}

func (h *toolHandler) call(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var params map[string]interface{}
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.UseNumber()
	if err := decoder.Decode(&params); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.registry.Call(r.Context(), name, params)
	if err != nil {
		RespondError(w, statusFor(err), errorClass(err), err.Error())
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		return http.StatusNotFound
	case errors.Is(err, validators.ErrUnsatisfiableConstraint):
		return http.StatusUnprocessableEntity
	case errors.Is(err, validators.ErrInvalidParameter):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorClass(err error) string {
	if errors.Is(err, tools.ErrUnknownTool) {
		return "unknown_tool"
	}
	return validators.Kind(err)
}
