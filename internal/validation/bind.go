package validation

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-wardrobe-api/internal/items"
)

// BindAndValidate binds JSON body into `out` and runs validation.
// If validation fails, it writes a 400 response and returns an error for the handler to short-circuit.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		badRequest(c, "invalid_request_body", err.Error(), nil)
		return err
	}
	return validate(c, out, v, "validation_failed")
}

// BindQueryAndValidate is BindAndValidate for the query string.
func BindQueryAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindQuery(out); err != nil {
		badRequest(c, "invalid_query", err.Error(), nil)
		return err
	}
	return validate(c, out, v, "invalid_query")
}

func validate(c *gin.Context, out interface{}, v *validatorv10.Validate, code string) error {
	if err := v.Struct(out); err != nil {
		fields := validationErrorsToMap(err)
		badRequest(c, code, "request has invalid fields", fields)
		return err
	}
	return nil
}

func badRequest(c *gin.Context, code, message string, fields map[string]string) {
	body := gin.H{
		"error":     code,
		"message":   message,
		"path":      c.Request.URL.Path,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	}
	if fields != nil {
		body["fields"] = fields
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, body)
}

func validationErrorsToMap(err error) map[string]string {
	out := map[string]string{}
	ve, ok := err.(validatorv10.ValidationErrors)
	if !ok {
		out["error"] = err.Error()
		return out
	}
	for _, fe := range ve {
		out[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "category":
		names := make([]string, len(items.Categories))
		for i, c := range items.Categories {
			names[i] = string(c)
		}
		return "must be one of " + strings.Join(names, ", ")
	case "isodate":
		return "must be a date (YYYY-MM-DD) or an RFC 3339 timestamp"
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return fe.Error()
	}
}
