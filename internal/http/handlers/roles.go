package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/vacationhub/internal/config"
	"github.com/geocoder89/vacationhub/internal/domain/role"
	"github.com/gin-gonic/gin"
)

type RolesStore interface {
	List(ctx context.Context) ([]role.Role, error)
	GetByID(ctx context.Context, id int64) (role.Role, error)
	Create(ctx context.Context, name string) (role.Role, error)
	Update(ctx context.Context, id int64, name string) (role.Role, error)
	Delete(ctx context.Context, id int64) error
}

type RolesHandler struct {
	repo RolesStore
}

func NewRolesHandler(repo RolesStore) *RolesHandler {
	return &RolesHandler{repo: repo}
}

func (h *RolesHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	roles, err := h.repo.List(cctx)
	if err != nil {
		RespondInternal(ctx, "Could not list roles", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"items": roles, "count": len(roles)})
}

func (h *RolesHandler) Get(ctx *gin.Context) {
	id, ok := ParseID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	r, err := h.repo.GetByID(cctx, id)
	if err != nil {
		h.respondErr(ctx, err, "Could not fetch role")
		return
	}

	ctx.JSON(http.StatusOK, r)
}

func (h *RolesHandler) Create(ctx *gin.Context) {
	var req role.Request
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	r, err := h.repo.Create(cctx, strings.TrimSpace(req.Name))
	if err != nil {
		h.respondErr(ctx, err, "Could not create role")
		return
	}

	ctx.JSON(http.StatusCreated, r)
}

func (h *RolesHandler) Update(ctx *gin.Context) {
	id, ok := ParseID(ctx, "id")
	if !ok {
		return
	}

	// checked before the body so system roles are refused for every payload
	if role.IsSystem(id) {
		RespondForbidden(ctx, "System roles cannot be modified.")
		return
	}

	var req role.Request
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	r, err := h.repo.Update(cctx, id, strings.TrimSpace(req.Name))
	if err != nil {
		h.respondErr(ctx, err, "Could not update role")
		return
	}

	ctx.JSON(http.StatusOK, r)
}

func (h *RolesHandler) Delete(ctx *gin.Context) {
	id, ok := ParseID(ctx, "id")
	if !ok {
		return
	}

	if role.IsSystem(id) {
		RespondForbidden(ctx, "System roles cannot be deleted.")
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.Delete(cctx, id); err != nil {
		h.respondErr(ctx, err, "Could not delete role")
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *RolesHandler) respondErr(ctx *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, role.ErrNotFound):
		RespondNotFound(ctx, "Role not found")
	case errors.Is(err, role.ErrNameExists):
		RespondConflict(ctx, "role_exists", "Role name already exists.")
	case errors.Is(err, role.ErrInUse):
		RespondConflict(ctx, "role_in_use", "Role is assigned to users.")
	default:
		RespondInternal(ctx, msg, err)
	}
}
