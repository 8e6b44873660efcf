package casestudies

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"casestudy-backend/internal/cache"
	"casestudy-backend/internal/httpx"
	"casestudy-backend/internal/middleware"
	"casestudy-backend/internal/transport"
	"casestudy-backend/internal/uploads"
	"casestudy-backend/internal/validation"
	"github.com/go-chi/chi/v5"
)

const listCacheKey = "case-studies:list"

// Mirrors the per-request file caps of the admin frontend's upload widget.
const (
	maxSectionImagesCreate = 10
	maxSectionImagesUpdate = 20
)

type Handler struct {
	service   *Service
	store     uploads.Store
	val       *validation.Validator
	cache     cache.Cache
	cacheTTL  time.Duration
	maxUpload int64
	log       *slog.Logger
}

func NewHandler(service *Service, store uploads.Store, val *validation.Validator, cacheStore cache.Cache, cacheTTL time.Duration, maxUpload int64, log *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		store:     store,
		val:       val,
		cache:     cacheStore,
		cacheTTL:  cacheTTL,
		maxUpload: maxUpload,
		log:       log,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		log.Warn("case study create: invalid multipart form", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	req := CreateRequest{
		Title:              strings.TrimSpace(r.FormValue("title")),
		Category:           strings.TrimSpace(r.FormValue("category")),
		Slug:               strings.TrimSpace(r.FormValue("slug")),
		Description:        strings.TrimSpace(r.FormValue("description")),
		ProjectDescription: strings.TrimSpace(r.FormValue("projectDescription")),
		Status:             strings.TrimSpace(r.FormValue("status")),
	}
	if req.Title == "" {
		log.Warn("case study create: missing title")
		transport.WriteError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if err := h.val.Struct(req); err != nil {
		if h.val.FieldFailed(err, "Status") {
			log.Warn("case study create: invalid status", slog.String("status", req.Status))
			transport.WriteError(w, http.StatusBadRequest, "Invalid status value")
			return
		}
		transport.WriteError(w, http.StatusBadRequest, "Validation error")
		return
	}

	// JSON sub-fields must fail before any upload or store call.
	var sections []SectionInput
	if raw := r.FormValue("bodyData"); raw != "" {
		if err := httpx.DecodeJSONField(raw, &sections); err != nil {
			log.Warn("case study create: invalid bodyData json")
			transport.WriteError(w, http.StatusBadRequest, "Invalid bodyData JSON")
			return
		}
	}
	var seo *SeoMetadata
	if raw := r.FormValue("seo"); raw != "" {
		var parsed SeoMetadata
		if err := httpx.DecodeJSONField(raw, &parsed); err != nil {
			log.Warn("case study create: invalid seo json")
			transport.WriteError(w, http.StatusBadRequest, "Invalid seo JSON")
			return
		}
		seo = &parsed
	}

	sectionFiles := httpx.FormFiles(r, "sectionImages")
	if len(sectionFiles) > maxSectionImagesCreate {
		log.Warn("case study create: too many section images", slog.Int("count", len(sectionFiles)))
		transport.WriteError(w, http.StatusBadRequest, "Too many section images")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var mainImage *string
	if fh := httpx.FormFile(r, "image"); fh != nil {
		path, err := h.store.Save(ctx, fh)
		if err != nil {
			log.Error("case study create: upload failed", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		mainImage = &path
	}
	sectionPaths := make([]string, 0, len(sectionFiles))
	for _, fh := range sectionFiles {
		path, err := h.store.Save(ctx, fh)
		if err != nil {
			log.Error("case study create: section upload failed", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		sectionPaths = append(sectionPaths, path)
	}

	item, err := h.service.Create(ctx, CreateInput{
		CreateRequest: req,
		Sections:      sections,
		Seo:           seo,
		Image:         mainImage,
		SectionImages: sectionPaths,
	})
	if err != nil {
		if errors.Is(err, ErrTitleExists) {
			log.Warn("case study create: duplicate title", slog.String("title", req.Title))
			transport.WriteError(w, http.StatusConflict, "Case study already exists")
			return
		}
		log.Error("case study create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.invalidateList(r.Context())
	log.Info("case study create: ok", slog.String("case_study_id", item.ID), slog.String("slug", item.Slug))
	transport.WriteSuccess(w, http.StatusCreated, "Case study created successfully", item)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	if cached, ok, err := h.cache.Get(r.Context(), listCacheKey); err == nil && ok {
		log.Info("case study list: cache hit")
		transport.WriteCached(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.List(ctx)
	if err != nil {
		log.Error("case study list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	envelope := transport.ListEnvelope(len(items), items)
	if payload, err := transport.EncodeJSON(envelope); err == nil {
		_ = h.cache.Set(r.Context(), listCacheKey, payload, h.cacheTTL)
	}

	log.Info("case study list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, envelope)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("case study get: not found", slog.String("case_study_id", id))
			transport.WriteError(w, http.StatusNotFound, "Case study not found")
			return
		}
		log.Error("case study get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Info("case study get: ok", slog.String("case_study_id", id))
	transport.WriteSuccess(w, http.StatusOK, "", item)
}

func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("case study get by slug: not found", slog.String("slug", slug))
			transport.WriteError(w, http.StatusNotFound, "Case study not found")
			return
		}
		log.Error("case study get by slug: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Info("case study get by slug: ok", slog.String("slug", slug))
	transport.WriteSuccess(w, http.StatusOK, "", item)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		log.Warn("case study update: invalid multipart form", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	var sections []SectionInput
	if raw := r.FormValue("bodyData"); raw != "" {
		if err := httpx.DecodeJSONField(raw, &sections); err != nil {
			log.Warn("case study update: invalid bodyData json")
			transport.WriteError(w, http.StatusBadRequest, "Invalid bodyData JSON")
			return
		}
	}

	sectionFiles := httpx.FormFiles(r, "sectionImages")
	if len(sectionFiles) > maxSectionImagesUpdate {
		log.Warn("case study update: too many section images", slog.Int("count", len(sectionFiles)))
		transport.WriteError(w, http.StatusBadRequest, "Too many section images")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var mainImage *string
	if fh := httpx.FormFile(r, "image"); fh != nil {
		path, err := h.store.Save(ctx, fh)
		if err != nil {
			log.Error("case study update: upload failed", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		mainImage = &path
	}
	sectionPaths := make([]string, 0, len(sectionFiles))
	for _, fh := range sectionFiles {
		path, err := h.store.Save(ctx, fh)
		if err != nil {
			log.Error("case study update: section upload failed", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		sectionPaths = append(sectionPaths, path)
	}

	item, err := h.service.Update(ctx, id, UpdateInput{
		Title:         strings.TrimSpace(r.FormValue("title")),
		Description:   strings.TrimSpace(r.FormValue("description")),
		Sections:      sections,
		Image:         mainImage,
		SectionImages: sectionPaths,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("case study update: not found", slog.String("case_study_id", id))
			transport.WriteError(w, http.StatusNotFound, "Case study not found")
			return
		}
		if errors.Is(err, ErrTitleExists) {
			log.Warn("case study update: duplicate title")
			transport.WriteError(w, http.StatusConflict, "Case study already exists")
			return
		}
		log.Error("case study update: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.invalidateList(r.Context())
	log.Info("case study update: ok", slog.String("case_study_id", id))
	transport.WriteSuccess(w, http.StatusOK, "Case study updated successfully", item)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("case study delete: not found", slog.String("case_study_id", id))
			transport.WriteError(w, http.StatusNotFound, "Case study not found")
			return
		}
		log.Error("case study delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.invalidateList(r.Context())
	log.Info("case study delete: ok", slog.String("case_study_id", id))
	transport.WriteSuccess(w, http.StatusOK, "Case study deleted successfully", nil)
}

func (h *Handler) invalidateList(ctx context.Context) {
	_ = h.cache.Delete(ctx, listCacheKey)
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
