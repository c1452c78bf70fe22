// Package handlers provides HTTP handlers for the web API.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/voxarena/voxarena/internal/core"
	"github.com/voxarena/voxarena/internal/debate"
	"github.com/voxarena/voxarena/internal/export"
	"github.com/voxarena/voxarena/internal/persona"
	"github.com/voxarena/voxarena/internal/taxonomy"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	debates   *debate.Service
	personas  *persona.Service
	taxonomy  *taxonomy.Service
	avatarDir string
}

// New creates a new Handler.
func New(debates *debate.Service, personas *persona.Service, tax *taxonomy.Service, avatarDir string) *Handler {
	return &Handler{
		debates:   debates,
		personas:  personas,
		taxonomy:  tax,
		avatarDir: avatarDir,
	}
}

// Router builds the chi router with all API routes.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/debates", func(r chi.Router) {
			r.Get("/", h.handleListDebates)
			r.Post("/", h.handleCreateDebate)
			r.Get("/{id}", h.handleGetDebate)
			r.Patch("/{id}", h.handleUpdateDebate)
			r.Delete("/{id}", h.handleDeleteDebate)
			r.Get("/{id}/export/{format}", h.handleExportDebate)
		})

		r.Route("/personas", func(r chi.Router) {
			r.Get("/", h.handleListPersonas)
			r.Post("/", h.handleCreatePersona)
			r.Get("/{id}", h.handleGetPersona)
			r.Put("/{id}", h.handleUpdatePersona)
			r.Delete("/{id}", h.handleDeletePersona)
		})

		r.Get("/taxonomy", h.handleListTaxonomy)
		r.Route("/taxonomy/terms", func(r chi.Router) {
			r.Get("/", h.handleListTaxonomy)
			r.Post("/", h.handleCreateTerm)
			r.Get("/{id}", h.handleGetTerm)
			r.Put("/{id}", h.handleUpdateTerm)
			r.Delete("/{id}", h.handleDeleteTerm)
		})
		r.Route("/taxonomy/categories", func(r chi.Router) {
			r.Get("/", h.handleListCategories)
			r.Post("/", h.handleCreateCategory)
			r.Get("/{id}", h.handleGetCategory)
			r.Put("/{id}", h.handleUpdateCategory)
			r.Delete("/{id}", h.handleDeleteCategory)
		})
	})

	if h.avatarDir != "" {
		r.Handle("/avatars/*", http.StripPrefix("/avatars/", http.FileServer(http.Dir(h.avatarDir))))
	}

	return r
}

// requestLogger logs each request with method, path, and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Debug("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
		)
	})
}

// Debate handlers

func (h *Handler) handleListDebates(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	debates, err := h.debates.List(limit, offset)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.json(w, debates)
}

func (h *Handler) handleCreateDebate(w http.ResponseWriter, r *http.Request) {
	var req debate.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	d, err := h.debates.Create(req)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(d)
}

func (h *Handler) handleGetDebate(w http.ResponseWriter, r *http.Request) {
	d, err := h.debates.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.json(w, d)
}

func (h *Handler) handleUpdateDebate(w http.ResponseWriter, r *http.Request) {
	var req debate.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	d, err := h.debates.Update(chi.URLParam(r, "id"), req)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.json(w, d)
}

func (h *Handler) handleDeleteDebate(w http.ResponseWriter, r *http.Request) {
	if err := h.debates.Delete(chi.URLParam(r, "id")); err != nil {
		h.serviceError(w, err)
		return
	}
	h.json(w, map[string]bool{"success": true})
}

func (h *Handler) handleExportDebate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	format := chi.URLParam(r, "format")

	d, err := h.debates.Get(id)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	exporter, err := export.GetExporter(export.Format(format))
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	filename := export.GenerateFilename(d, exporter.FileExtension())

	switch format {
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
	case "json":
		w.Header().Set("Content-Type", "application/json")
	default:
		w.Header().Set("Content-Type", "text/markdown")
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))

	if err := exporter.Export(d, w); err != nil {
		slog.Error("Export failed", "debate_id", id, "format", format, "error", err)
	}
}

// Persona handlers

func (h *Handler) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	personas, err := h.personas.List()
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.json(w, personas)
}

func (h *Handler) handleCreatePersona(w http.ResponseWriter, r *http.Request) {
	var in persona.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.personas.Create(in)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

func (h *Handler) handleGetPersona(w http.ResponseWriter, r *http.Request) {
	p, err := h.personas.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.json(w, p)
}

func (h *Handler) handleUpdatePersona(w http.ResponseWriter, r *http.Request) {
	var in persona.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.personas.Update(chi.URLParam(r, "id"), in)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.json(w, p)
}

func (h *Handler) handleDeletePersona(w http.ResponseWriter, r *http.Request) {
	if err := h.personas.Delete(chi.URLParam(r, "id")); err != nil {
		h.serviceError(w, err)
		return
	}
	h.json(w, map[string]bool{"success": true})
}

// Taxonomy handlers

func (h *Handler) handleListTaxonomy(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)

	result, err := h.taxonomy.ListTerms(category, page, pageSize)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.json(w, result)
}

func (h *Handler) handleCreateTerm(w http.ResponseWriter, r *http.Request) {
	var in taxonomy.TermInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	t, err := h.taxonomy.CreateTerm(in)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(t)
}

func (h *Handler) handleGetTerm(w http.ResponseWriter, r *http.Request) {
	t, err := h.taxonomy.GetTerm(chi.URLParam(r, "id"))
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.json(w, t)
}

func (h *Handler) handleUpdateTerm(w http.ResponseWriter, r *http.Request) {
	var in taxonomy.TermInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	t, err := h.taxonomy.UpdateTerm(chi.URLParam(r, "id"), in)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.json(w, t)
}

func (h *Handler) handleDeleteTerm(w http.ResponseWriter, r *http.Request) {
	if err := h.taxonomy.DeleteTerm(chi.URLParam(r, "id")); err != nil {
		h.serviceError(w, err)
		return
	}
	h.json(w, map[string]bool{"success": true})
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 10)

	result, err := h.taxonomy.ListCategories(page, pageSize)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.json(w, result)
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in taxonomy.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.taxonomy.CreateCategory(in)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(c)
}

func (h *Handler) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.taxonomy.GetCategory(chi.URLParam(r, "id"))
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.json(w, c)
}

func (h *Handler) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var in taxonomy.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.taxonomy.UpdateCategory(chi.URLParam(r, "id"), in)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.json(w, c)
}

func (h *Handler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.taxonomy.DeleteCategory(chi.URLParam(r, "id")); err != nil {
		h.serviceError(w, err)
		return
	}
	h.json(w, map[string]bool{"success": true})
}

// Helpers

func (h *Handler) json(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// serviceError maps service errors onto HTTP status codes.
func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	var validation *core.ValidationError
	var conflict *core.ConflictError

	switch {
	case errors.Is(err, core.ErrNotFound):
		h.jsonError(w, "not found", http.StatusNotFound)
	case errors.As(err, &validation):
		h.jsonError(w, validation.Message, http.StatusBadRequest)
	case errors.As(err, &conflict):
		h.jsonError(w, conflict.Message, http.StatusConflict)
	default:
		slog.Error("Request failed", "error", err)
		h.jsonError(w, "internal server error", http.StatusInternalServerError)
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}
