package handlers_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/vacationhub/internal/domain/role"
	"github.com/geocoder89/vacationhub/internal/domain/user"
	"github.com/geocoder89/vacationhub/internal/http/handlers"
	"github.com/geocoder89/vacationhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			JSON   string                `json:"json"`
			Field  string                `json:"field"`
			Fields []handlers.FieldError `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()

	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v body=%s", err, w.Body.String())
	}
	return resp
}

var (
	member = user.User{ID: 7, FirstName: "Dana", LastName: "Levi", Email: "dana@example.com", RoleID: role.UserID}
	admin  = user.User{ID: 1, FirstName: "Root", LastName: "Admin", Email: "admin@example.com", RoleID: role.AdminID}
)

// newRouter returns a test engine that acts as if the auth guard resolved u.
func newRouter(u *user.User) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	if u != nil {
		resolved := *u
		r.Use(func(ctx *gin.Context) {
			ctx.Set(middlewares.CtxUser, resolved)
			ctx.Next()
		})
	}
	return r
}
