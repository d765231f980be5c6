package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/vacationhub/internal/cache"
	"github.com/geocoder89/vacationhub/internal/config"
	"github.com/geocoder89/vacationhub/internal/domain/country"
	"github.com/gin-gonic/gin"
)

type CountriesStore interface {
	List(ctx context.Context) ([]country.Country, error)
	GetByID(ctx context.Context, id int64) (country.Country, error)
	Create(ctx context.Context, name string) (country.Country, error)
	Update(ctx context.Context, id int64, name string) (country.Country, error)
	Delete(ctx context.Context, id int64) error
}

const countriesListKey = "countries:list:v1"

type CountriesHandler struct {
	repo  CountriesStore
	cache cache.Store
}

// NewCountriesHandler caches the public list in store; store may be nil.
func NewCountriesHandler(repo CountriesStore, store cache.Store) *CountriesHandler {
	return &CountriesHandler{repo: repo, cache: store}
}

func (h *CountriesHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if h.cache != nil {
		body, ok, err := h.cache.Get(cctx, countriesListKey)
		if err != nil {
			slog.Default().WarnContext(cctx, "countries_cache_get_failed", "err", err)
		}
		if ok {
			ctx.Header("X-Cache", "HIT")
			RespondJSONBytesWithETag(ctx, http.StatusOK, body)
			return
		}
	}

	items, err := h.repo.List(cctx)
	if err != nil {
		RespondInternal(ctx, "Could not list countries", err)
		return
	}

	body, err := json.Marshal(gin.H{"items": items, "count": len(items)})
	if err != nil {
		RespondInternal(ctx, "Could not list countries", err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(cctx, countriesListKey, body); err != nil {
			slog.Default().WarnContext(cctx, "countries_cache_set_failed", "err", err)
		}
		ctx.Header("X-Cache", "MISS")
	}

	RespondJSONBytesWithETag(ctx, http.StatusOK, body)
}

func (h *CountriesHandler) Get(ctx *gin.Context) {
	id, ok := ParseID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	c, err := h.repo.GetByID(cctx, id)
	if err != nil {
		h.respondErr(ctx, err, "Could not fetch country")
		return
	}

	ctx.JSON(http.StatusOK, c)
}

func (h *CountriesHandler) Create(ctx *gin.Context) {
	var req country.Request
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	c, err := h.repo.Create(cctx, req.Name)
	if err != nil {
		h.respondErr(ctx, err, "Could not create country")
		return
	}

	h.invalidate(cctx)
	ctx.JSON(http.StatusCreated, c)
}

func (h *CountriesHandler) Update(ctx *gin.Context) {
	id, ok := ParseID(ctx, "id")
	if !ok {
		return
	}

	var req country.Request
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	c, err := h.repo.Update(cctx, id, req.Name)
	if err != nil {
		h.respondErr(ctx, err, "Could not update country")
		return
	}

	h.invalidate(cctx)
	ctx.JSON(http.StatusOK, c)
}

func (h *CountriesHandler) Delete(ctx *gin.Context) {
	id, ok := ParseID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.Delete(cctx, id); err != nil {
		h.respondErr(ctx, err, "Could not delete country")
		return
	}

	h.invalidate(cctx)
	ctx.Status(http.StatusNoContent)
}

func (h *CountriesHandler) invalidate(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(ctx, countriesListKey); err != nil {
		slog.Default().WarnContext(ctx, "countries_cache_invalidate_failed", "err", err)
	}
}

func (h *CountriesHandler) respondErr(ctx *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, country.ErrNotFound):
		RespondNotFound(ctx, "Country not found")
	case errors.Is(err, country.ErrNameExists):
		RespondConflict(ctx, "country_exists", "Country name already exists.")
	case errors.Is(err, country.ErrInUse):
		RespondConflict(ctx, "country_in_use", "Country is referenced by vacations.")
	default:
		RespondInternal(ctx, msg, err)
	}
}
