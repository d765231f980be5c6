package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/vacationhub/internal/accounts"
	"github.com/geocoder89/vacationhub/internal/config"
	"github.com/geocoder89/vacationhub/internal/domain/user"
	"github.com/geocoder89/vacationhub/internal/http/middlewares"
	"github.com/geocoder89/vacationhub/internal/security"
	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	Register(ctx context.Context, p accounts.Profile) (user.User, error)
	Authenticate(ctx context.Context, email, password string) (user.User, error)
}

type TokenIssuer interface {
	Issue(userID int64) (string, time.Time, error)
}

type AuthHandler struct {
	accounts Authenticator
	tokens   TokenIssuer
}

func NewAuthHandler(accounts Authenticator, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens}
}

type authResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      user.User `json:"user"`
}

// respondProfileError maps credential-store validation and constraint errors.
// It reports whether it wrote a response.
func respondProfileError(ctx *gin.Context, err error) bool {
	switch {
	case errors.Is(err, user.ErrInvalidEmail):
		RespondBadRequest(ctx, err.Error(), gin.H{"fields": []FieldError{{Field: "email", Rule: "email", Message: "must be a valid email address"}}})
	case errors.Is(err, security.ErrPasswordTooShort):
		RespondBadRequest(ctx, err.Error(), gin.H{"fields": []FieldError{{Field: "password", Rule: "min", Param: "4", Message: "must be at least 4"}}})
	case errors.Is(err, user.ErrBlankName):
		RespondBadRequest(ctx, err.Error(), nil)
	case errors.Is(err, user.ErrEmailExists):
		RespondConflict(ctx, "email_taken", "Email is already in use.")
	case errors.Is(err, user.ErrRoleEscalation):
		RespondForbidden(ctx, "Assigning the admin role is not allowed.")
	case errors.Is(err, user.ErrRoleNotFound):
		RespondNotFound(ctx, "Role not found")
	case errors.Is(err, user.ErrNotFound):
		RespondNotFound(ctx, "User not found")
	default:
		return false
	}
	return true
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	u, err := h.accounts.Register(cctx, accounts.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		if !respondProfileError(ctx, err) {
			RespondInternal(ctx, "Could not create user", err)
		}
		return
	}

	h.respondWithToken(ctx, http.StatusCreated, u)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	u, err := h.accounts.Authenticate(cctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			RespondUnauthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}
		RespondInternal(ctx, "Could not log in", err)
		return
	}

	h.respondWithToken(ctx, http.StatusOK, u)
}

// Logout only acknowledges; tokens are stateless and the client discards its copy.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, middlewares.CodeMissingToken, "Missing identity context")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *AuthHandler) respondWithToken(ctx *gin.Context, status int, u user.User) {
	token, exp, err := h.tokens.Issue(u.ID)
	if err != nil {
		RespondInternal(ctx, "Could not generate access token", err)
		return
	}

	ctx.JSON(status, authResponse{Token: token, ExpiresAt: exp, User: u})
}
