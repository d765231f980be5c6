package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

func BindJSON(ctx *gin.Context, out any) bool {
	if err := ctx.ShouldBindJSON(out); err != nil {
		RespondBadRequest(ctx, "Invalid request body", bindErrorDetails(err, out, "json"))
		return false
	}
	return true
}

// BindJSONOrForm binds a JSON body, or multipart/urlencoded form fields when
// the request carries a form.
func BindJSONOrForm(ctx *gin.Context, out any) bool {
	switch ctx.ContentType() {
	case binding.MIMEMultipartPOSTForm, binding.MIMEPOSTForm:
		if err := ctx.ShouldBindWith(out, binding.Form); err != nil {
			RespondBadRequest(ctx, "Invalid form data", bindErrorDetails(err, out, "form"))
			return false
		}
		return true
	default:
		return BindJSON(ctx, out)
	}
}

// ParseID reads a positive integer path parameter.
func ParseID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		RespondBadRequest(ctx, "Invalid "+name, gin.H{
			"fields": []FieldError{{Field: name, Rule: "min", Param: "1", Message: "must be a positive integer"}},
		})
		return 0, false
	}
	return id, true
}

// bindErrorDetails turns a binding failure into the details object of the
// error envelope. Field names follow the wire tag (json or form) of out.
func bindErrorDetails(err error, out any, tag string) gin.H {
	names := wireNames(out, tag)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   names.lookup(fe.StructField()),
				Rule:    fe.Tag(),
				Param:   fe.Param(),
				Message: validationMessage(fe.Tag(), fe.Param()),
			})
		}
		return gin.H{"fields": fields}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return gin.H{"json": "invalid_json_syntax"}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := strings.TrimSpace(typeErr.Field)
		return gin.H{
			"json":  "invalid_json_type",
			"field": field,
			"fields": []FieldError{{
				Field:   field,
				Rule:    "type",
				Message: "must be of type " + typeErr.Type.String(),
			}},
		}
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return gin.H{
			"form": "invalid_form_value",
			"fields": []FieldError{{
				Rule:    "type",
				Message: fmt.Sprintf("%q is not a valid number", numErr.Num),
			}},
		}
	}

	if errors.Is(err, io.EOF) {
		return gin.H{"json": "empty_body"}
	}

	return gin.H{"reason": err.Error()}
}

// wireNameMap maps Go field names to their wire names.
type wireNameMap map[string]string

func (m wireNameMap) lookup(field string) string {
	if name, ok := m[field]; ok {
		return name
	}
	return field
}

func wireNames(out any, tag string) wireNameMap {
	t := reflect.TypeOf(out)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	names := wireNameMap{}
	if t == nil || t.Kind() != reflect.Struct {
		return names
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name := tagName(sf, tag)
		if name == "" && tag != "json" {
			name = tagName(sf, "json")
		}
		if name != "" {
			names[sf.Name] = name
		}
	}
	return names
}

func tagName(sf reflect.StructField, tag string) string {
	name, _, _ := strings.Cut(sf.Tag.Get(tag), ",")
	if name == "-" {
		return ""
	}
	return name
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
