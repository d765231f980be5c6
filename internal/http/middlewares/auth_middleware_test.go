package middlewares_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/vacationhub/internal/actorctx"
	"github.com/geocoder89/vacationhub/internal/auth"
	"github.com/geocoder89/vacationhub/internal/domain/role"
	"github.com/geocoder89/vacationhub/internal/domain/user"
	"github.com/geocoder89/vacationhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type fakeVerifier struct {
	fn func(token string) (int64, error)
}

func (f fakeVerifier) Verify(token string) (int64, error) { return f.fn(token) }

type fakeResolver struct {
	users map[int64]user.User
}

func (f fakeResolver) Lookup(_ context.Context, id int64) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func newGuardRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	verifier := fakeVerifier{fn: func(token string) (int64, error) {
		switch token {
		case "user-token":
			return 1, nil
		case "admin-token":
			return 2, nil
		case "ghost-token":
			return 99, nil
		case "expired-token":
			return 0, auth.ErrExpiredToken
		default:
			return 0, auth.ErrMalformedToken
		}
	}}
	resolver := fakeResolver{users: map[int64]user.User{
		1: {ID: 1, Email: "u@example.com", RoleID: role.UserID},
		2: {ID: 2, Email: "a@example.com", RoleID: role.AdminID},
	}}

	m := middlewares.NewAuthMiddleware(verifier, resolver, nil)

	r := gin.New()
	r.Use(middlewares.RequestID())

	r.GET("/me", m.RequireAuth(), func(c *gin.Context) {
		u, ok := middlewares.UserFromContext(c)
		fromReq, okReq := actorctx.UserFrom(c.Request.Context())
		if !ok || !okReq || u.ID != fromReq.ID {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": u.ID})
	})
	r.GET("/admin", m.RequireAuth(), m.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	return r
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error struct {
			Code      string `json:"code"`
			RequestID string `json:"requestId"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body %q: %v", rec.Body.String(), err)
	}
	if body.Error.RequestID == "" {
		t.Fatalf("error envelope is missing requestId: %s", rec.Body.String())
	}
	return body.Error.Code
}

func TestRequireAuth(t *testing.T) {
	r := newGuardRouter(t)

	cases := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"missing header", "", http.StatusUnauthorized, middlewares.CodeMissingToken},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, middlewares.CodeInvalidFormat},
		{"three parts", "Bearer a b", http.StatusUnauthorized, middlewares.CodeInvalidFormat},
		{"bearer only", "Bearer", http.StatusUnauthorized, middlewares.CodeInvalidFormat},
		{"expired", "Bearer expired-token", http.StatusUnauthorized, middlewares.CodeTokenExpired},
		{"malformed", "Bearer garbage", http.StatusUnauthorized, middlewares.CodeInvalidToken},
		{"deleted user", "Bearer ghost-token", http.StatusUnauthorized, middlewares.CodeInvalidToken},
		{"valid", "Bearer user-token", http.StatusOK, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, rec.Code, rec.Body.String())
			}
			if tc.wantCode != "" {
				if got := errorCode(t, rec); got != tc.wantCode {
					t.Fatalf("expected code %s, got %s", tc.wantCode, got)
				}
			}
		})
	}
}

func TestRequireAdminOrdering(t *testing.T) {
	r := newGuardRouter(t)

	cases := []struct {
		name       string
		header     string
		wantStatus int
	}{
		// no credential must never produce 403
		{"anonymous", "", http.StatusUnauthorized},
		{"bad token", "Bearer garbage", http.StatusUnauthorized},
		{"regular user", "Bearer user-token", http.StatusForbidden},
		{"admin", "Bearer admin-token", http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestRequireAuthStorageFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m := middlewares.NewAuthMiddleware(
		fakeVerifier{fn: func(string) (int64, error) { return 1, nil }},
		resolverFunc(func(context.Context, int64) (user.User, error) { return user.User{}, errors.New("db down") }),
		nil,
	)

	r := gin.New()
	r.GET("/me", m.RequireAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer x")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

type resolverFunc func(context.Context, int64) (user.User, error)

func (f resolverFunc) Lookup(ctx context.Context, id int64) (user.User, error) { return f(ctx, id) }
