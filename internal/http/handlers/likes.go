package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/vacationhub/internal/config"
	"github.com/geocoder89/vacationhub/internal/domain/like"
	"github.com/geocoder89/vacationhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type LikesManager interface {
	Like(ctx context.Context, userID, vacationID int64) error
	Unlike(ctx context.Context, userID, vacationID int64) error
}

type LikesHandler struct {
	likes LikesManager
}

func NewLikesHandler(likes LikesManager) *LikesHandler {
	return &LikesHandler{likes: likes}
}

func (h *LikesHandler) Like(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, middlewares.CodeMissingToken, "Missing identity context")
		return
	}

	var req like.Request
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.likes.Like(cctx, u.ID, req.VacationID); err != nil {
		h.respondErr(ctx, err, "Could not like vacation")
		return
	}

	ctx.JSON(http.StatusCreated, like.Like{UserID: u.ID, VacationID: req.VacationID})
}

// Unlike accepts the vacation id from the path or from a JSON body.
func (h *LikesHandler) Unlike(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, middlewares.CodeMissingToken, "Missing identity context")
		return
	}

	var vacationID int64
	if raw := ctx.Param("vacationId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			RespondBadRequest(ctx, "Invalid vacationId", nil)
			return
		}
		vacationID = id
	} else {
		var req like.Request
		if !BindJSON(ctx, &req) {
			return
		}
		vacationID = req.VacationID
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.likes.Unlike(cctx, u.ID, vacationID); err != nil {
		h.respondErr(ctx, err, "Could not unlike vacation")
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *LikesHandler) respondErr(ctx *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, like.ErrAlreadyLiked):
		RespondConflict(ctx, "already_liked", "You have already liked this vacation.")
	case errors.Is(err, like.ErrNotFound):
		RespondNotFound(ctx, "Like or vacation not found")
	default:
		RespondInternal(ctx, msg, err)
	}
}
