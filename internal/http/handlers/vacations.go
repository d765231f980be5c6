package handlers

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/geocoder89/vacationhub/internal/config"
	"github.com/geocoder89/vacationhub/internal/domain/vacation"
	"github.com/geocoder89/vacationhub/internal/http/middlewares"
	"github.com/geocoder89/vacationhub/internal/storage"
	"github.com/gin-gonic/gin"
)

type VacationsStore interface {
	List(ctx context.Context) ([]vacation.Vacation, error)
	GetByID(ctx context.Context, id int64) (vacation.Vacation, error)
	Create(ctx context.Context, in vacation.Input) (vacation.Vacation, error)
	Update(ctx context.Context, id int64, in vacation.Input) (vacation.Vacation, error)
	Delete(ctx context.Context, id int64) (string, error)
}

type LikedLister interface {
	LikedVacationIDs(ctx context.Context, userID int64) ([]int64, error)
}

type ImageStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(name string) error
}

const imageField = "image"

type VacationsHandler struct {
	repo   VacationsStore
	likes  LikedLister
	images ImageStore
	now    func() time.Time
}

func NewVacationsHandler(repo VacationsStore, likes LikedLister, images ImageStore) *VacationsHandler {
	return &VacationsHandler{repo: repo, likes: likes, images: images, now: time.Now}
}

// SetClock overrides the server date used for the start-date check.
func (h *VacationsHandler) SetClock(now func() time.Time) {
	h.now = now
}

func (h *VacationsHandler) likedSet(cctx context.Context, ctx *gin.Context) (map[int64]bool, error) {
	set := make(map[int64]bool)

	u, ok := middlewares.UserFromContext(ctx)
	if !ok {
		return set, nil
	}

	ids, err := h.likes.LikedVacationIDs(cctx, u.ID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// List returns vacations by start date with likes_count and the caller's liked flag.
func (h *VacationsHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	items, err := h.repo.List(cctx)
	if err != nil {
		RespondInternal(ctx, "Could not list vacations", err)
		return
	}

	liked, err := h.likedSet(cctx, ctx)
	if err != nil {
		RespondInternal(ctx, "Could not list vacations", err)
		return
	}

	out := make([]vacation.Response, 0, len(items))
	for _, v := range items {
		out = append(out, v.ToResponse(liked[v.ID]))
	}

	ctx.JSON(http.StatusOK, gin.H{"items": out, "count": len(out)})
}

func (h *VacationsHandler) Get(ctx *gin.Context) {
	id, ok := ParseID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	v, err := h.repo.GetByID(cctx, id)
	if err != nil {
		h.respondErr(ctx, err, "Could not fetch vacation")
		return
	}

	liked, err := h.likedSet(cctx, ctx)
	if err != nil {
		RespondInternal(ctx, "Could not fetch vacation", err)
		return
	}

	ctx.JSON(http.StatusOK, v.ToResponse(liked[v.ID]))
}

// Liked lists the ids of vacations the caller has liked.
func (h *VacationsHandler) Liked(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, middlewares.CodeMissingToken, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	ids, err := h.likes.LikedVacationIDs(cctx, u.ID)
	if err != nil {
		RespondInternal(ctx, "Could not list liked vacations", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"vacation_ids": ids, "count": len(ids)})
}

func (h *VacationsHandler) Create(ctx *gin.Context) {
	in, ok := h.bindInput(ctx, true)
	if !ok {
		return
	}

	uploaded, ok := h.saveImage(ctx)
	if !ok {
		return
	}
	if uploaded != "" {
		in.PictureFileName = uploaded
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	v, err := h.repo.Create(cctx, in)
	if err != nil {
		h.discardImage(ctx, uploaded)
		h.respondErr(ctx, err, "Could not create vacation")
		return
	}

	ctx.JSON(http.StatusCreated, v.ToResponse(false))
}

func (h *VacationsHandler) Update(ctx *gin.Context) {
	id, ok := ParseID(ctx, "id")
	if !ok {
		return
	}

	in, ok := h.bindInput(ctx, false)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	current, err := h.repo.GetByID(cctx, id)
	if err != nil {
		h.respondErr(ctx, err, "Could not update vacation")
		return
	}

	uploaded, ok := h.saveImage(ctx)
	if !ok {
		return
	}

	switch {
	case uploaded != "":
		in.PictureFileName = uploaded
	case in.PictureFileName == "":
		in.PictureFileName = current.PictureFileName
	}

	v, err := h.repo.Update(cctx, id, in)
	if err != nil {
		h.discardImage(ctx, uploaded)
		h.respondErr(ctx, err, "Could not update vacation")
		return
	}

	if current.PictureFileName != "" && current.PictureFileName != v.PictureFileName {
		h.discardImage(ctx, current.PictureFileName)
	}

	liked, err := h.likedSet(cctx, ctx)
	if err != nil {
		RespondInternal(ctx, "Could not update vacation", err)
		return
	}

	ctx.JSON(http.StatusOK, v.ToResponse(liked[v.ID]))
}

func (h *VacationsHandler) Delete(ctx *gin.Context) {
	id, ok := ParseID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	picture, err := h.repo.Delete(cctx, id)
	if err != nil {
		h.respondErr(ctx, err, "Could not delete vacation")
		return
	}

	h.discardImage(ctx, picture)
	ctx.Status(http.StatusNoContent)
}

func (h *VacationsHandler) bindInput(ctx *gin.Context, creating bool) (vacation.Input, bool) {
	var req vacation.Request
	if !BindJSONOrForm(ctx, &req) {
		return vacation.Input{}, false
	}

	in, err := req.Validate(h.now(), creating)
	if err != nil {
		field := "vacation_start"
		switch {
		case errors.Is(err, vacation.ErrEndBeforeStart):
			field = "vacation_end"
		case errors.Is(err, vacation.ErrPriceOutOfRange):
			field = "price"
		}
		RespondBadRequest(ctx, err.Error(), gin.H{"fields": []FieldError{{Field: field, Rule: "range", Message: err.Error()}}})
		return vacation.Input{}, false
	}

	return in, true
}

// saveImage stores the optional multipart image and returns its generated name.
func (h *VacationsHandler) saveImage(ctx *gin.Context) (string, bool) {
	if ctx.ContentType() != "multipart/form-data" {
		return "", true
	}

	fh, err := ctx.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", true
		}
		RespondBadRequest(ctx, "Invalid image upload", nil)
		return "", false
	}

	name, err := h.images.Save(fh)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnsupportedType):
			RespondBadRequest(ctx, "Image must be a jpg, png, webp or gif file", gin.H{"fields": []FieldError{{Field: imageField, Rule: "type"}}})
		case errors.Is(err, storage.ErrTooLarge):
			RespondError(ctx, http.StatusRequestEntityTooLarge, "payload_too_large", "Image is too large", nil)
		case errors.Is(err, storage.ErrEmptyFile):
			RespondBadRequest(ctx, "Image file is empty", nil)
		default:
			RespondInternal(ctx, "Could not store image", err)
		}
		return "", false
	}

	return name, true
}

func (h *VacationsHandler) discardImage(ctx *gin.Context, name string) {
	if name == "" {
		return
	}
	if err := h.images.Remove(name); err != nil {
		slog.Default().WarnContext(ctx.Request.Context(), "image_remove_failed", "file", name, "err", err)
	}
}

func (h *VacationsHandler) respondErr(ctx *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, vacation.ErrNotFound):
		RespondNotFound(ctx, "Vacation not found")
	case errors.Is(err, vacation.ErrCountryNotFound):
		RespondNotFound(ctx, "Country not found")
	default:
		RespondInternal(ctx, msg, err)
	}
}
