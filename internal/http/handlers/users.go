package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/vacationhub/internal/accounts"
	"github.com/geocoder89/vacationhub/internal/config"
	"github.com/geocoder89/vacationhub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type UserAdmin interface {
	Create(ctx context.Context, p accounts.Profile, roleID *int64) (user.User, error)
	Update(ctx context.Context, id int64, p accounts.Profile, roleID *int64) (user.User, error)
	Delete(ctx context.Context, id int64) error
	Lookup(ctx context.Context, id int64) (user.User, error)
}

type UserLister interface {
	List(ctx context.Context) ([]user.User, error)
}

type UsersHandler struct {
	accounts UserAdmin
	users    UserLister
}

func NewUsersHandler(accounts UserAdmin, users UserLister) *UsersHandler {
	return &UsersHandler{accounts: accounts, users: users}
}

func (h *UsersHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	users, err := h.users.List(cctx)
	if err != nil {
		RespondInternal(ctx, "Could not list users", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"items": users, "count": len(users)})
}

func (h *UsersHandler) Get(ctx *gin.Context) {
	id, ok := ParseID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	u, err := h.accounts.Lookup(cctx, id)
	if err != nil {
		if !respondProfileError(ctx, err) {
			RespondInternal(ctx, "Could not fetch user", err)
		}
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) Create(ctx *gin.Context) {
	var req user.CreateUserRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	u, err := h.accounts.Create(cctx, accounts.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}, req.RoleID)
	if err != nil {
		if !respondProfileError(ctx, err) {
			RespondInternal(ctx, "Could not create user", err)
		}
		return
	}

	ctx.JSON(http.StatusCreated, u)
}

func (h *UsersHandler) Update(ctx *gin.Context) {
	id, ok := ParseID(ctx, "id")
	if !ok {
		return
	}

	var req user.UpdateUserRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	u, err := h.accounts.Update(cctx, id, accounts.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}, req.RoleID)
	if err != nil {
		if !respondProfileError(ctx, err) {
			RespondInternal(ctx, "Could not update user", err)
		}
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) Delete(ctx *gin.Context) {
	id, ok := ParseID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.accounts.Delete(cctx, id); err != nil {
		if !respondProfileError(ctx, err) {
			RespondInternal(ctx, "Could not delete user", err)
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}
