package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/geocoder89/vacationhub/internal/domain/vacation"
	"github.com/geocoder89/vacationhub/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

func vacationBindRouter() *gin.Engine {
	r := newRouter(nil)
	r.POST("/vacations", func(ctx *gin.Context) {
		var req vacation.Request
		if !handlers.BindJSONOrForm(ctx, &req) {
			return
		}
		ctx.JSON(http.StatusCreated, req)
	})
	r.GET("/vacations/:id", func(ctx *gin.Context) {
		id, ok := handlers.ParseID(ctx, "id")
		if !ok {
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"id": id})
	})
	return r
}

func TestBindJSON_ValidationErrorsUseJSONFieldNames(t *testing.T) {
	r := vacationBindRouter()

	req := httptest.NewRequest(http.MethodPost, "/vacations", bytes.NewBufferString(`{"vacation_description":"Beach"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	resp := decodeError(t, w)
	if resp.Error.Code != "invalid_request" {
		t.Fatalf("unexpected code: %s", resp.Error.Code)
	}

	wantRules := map[string]string{
		"country_id":     "required",
		"vacation_start": "required",
		"vacation_end":   "required",
		"price":          "required",
	}

	found := map[string]handlers.FieldError{}
	for _, fieldErr := range resp.Error.Details.Fields {
		found[fieldErr.Field] = fieldErr
	}

	for field, rule := range wantRules {
		fieldErr, ok := found[field]
		if !ok {
			t.Fatalf("missing field error for %q: %+v", field, resp.Error.Details.Fields)
		}
		if fieldErr.Rule != rule {
			t.Fatalf("field %q rule mismatch: got %q want %q", field, fieldErr.Rule, rule)
		}
		if fieldErr.Message == "" {
			t.Fatalf("field %q should include a non-empty message", field)
		}
	}
}

func TestBindJSON_TypeMismatchUsesJSONFieldNames(t *testing.T) {
	r := vacationBindRouter()

	body := `{"country_id":1,"vacation_description":"Beach","vacation_start":"2026-07-01","vacation_end":"2026-07-05","price":"ten"}`
	req := httptest.NewRequest(http.MethodPost, "/vacations", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	resp := decodeError(t, w)
	if resp.Error.Details.JSON != "invalid_json_type" {
		t.Fatalf("expected invalid_json_type, got %q", resp.Error.Details.JSON)
	}
	if resp.Error.Details.Field != "price" {
		t.Fatalf("expected detail field to be price, got %q", resp.Error.Details.Field)
	}
	if len(resp.Error.Details.Fields) == 0 || resp.Error.Details.Fields[0].Rule != "type" {
		t.Fatalf("expected a type rule in details.fields: %+v", resp.Error.Details.Fields)
	}
}

func TestBindJSON_SyntaxError(t *testing.T) {
	r := vacationBindRouter()

	req := httptest.NewRequest(http.MethodPost, "/vacations", bytes.NewBufferString(`{"country_id":1,}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
	if resp := decodeError(t, w); resp.Error.Details.JSON != "invalid_json_syntax" {
		t.Fatalf("expected invalid_json_syntax, body=%s", w.Body.String())
	}
}

func TestBindJSONOrForm_URLEncoded(t *testing.T) {
	r := vacationBindRouter()

	form := url.Values{
		"country_id":           {"3"},
		"vacation_description": {"Alps"},
		"vacation_start":       {"2026-12-01"},
		"vacation_end":         {"2026-12-08"},
		"price":                {"2500.5"},
	}
	req := httptest.NewRequest(http.MethodPost, "/vacations", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"price":2500.5`) {
		t.Fatalf("price not bound from form: %s", w.Body.String())
	}
}

func TestParseIDRejectsNonPositive(t *testing.T) {
	r := vacationBindRouter()

	for _, raw := range []string{"abc", "0", "-4"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vacations/"+raw, nil))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("id %q: got status %d", raw, w.Code)
		}
	}
}

func TestBindJSONOrForm_ValidationUsesFormNames(t *testing.T) {
	r := vacationBindRouter()

	form := url.Values{"vacation_description": {"Alps"}, "vacation_start": {"2026-12-01"}}
	req := httptest.NewRequest(http.MethodPost, "/vacations", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", w.Code)
	}

	found := map[string]bool{}
	for _, fe := range decodeError(t, w).Error.Details.Fields {
		found[fe.Field] = true
	}
	for _, want := range []string{"country_id", "vacation_end", "price"} {
		if !found[want] {
			t.Fatalf("missing field error for %q: %v", want, found)
		}
	}
}
