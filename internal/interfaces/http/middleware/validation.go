package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// SetupValidator makes validator report the JSON name of a field, or its
// form name for query bindings
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return ""
	})
}

// HandleValidationError answers 400 with one detail per failed field.
// Bodies that never reached validation get no details.
func HandleValidationError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		abortWith(c, dto.NewValidationError("Invalid request body", nil))
		return
	}

	details := make([]dto.ValidationDetail, len(fieldErrs))
	for i, fe := range fieldErrs {
		details[i] = dto.ValidationDetail{Field: fe.Field(), Message: describe(fe)}
	}
	abortWith(c, dto.NewValidationError("", details))
}

// fixedMessages covers tags whose message ignores the parameter
var fixedMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email format",
	"uuid":     "Invalid UUID format",
	"url":      "Invalid URL format",
	"numeric":  "Must be numeric",
	"alphanum": "Must be alphanumeric",
	"alpha":    "Must contain only letters",
}

// boundPrefixes covers tags that compare against their parameter
var boundPrefixes = map[string]string{
	"oneof": "Must be one of: ",
	"gt":    "Must be greater than ",
	"gte":   "Must be greater than or equal to ",
	"lt":    "Must be less than ",
	"lte":   "Must be less than or equal to ",
}

func describe(fe validator.FieldError) string {
	tag := fe.Tag()
	if msg, ok := fixedMessages[tag]; ok {
		return msg
	}
	if prefix, ok := boundPrefixes[tag]; ok {
		return prefix + fe.Param()
	}

	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch tag {
	case "min":
		return "Must be at least " + fe.Param() + unit
	case "max":
		return "Must be at most " + fe.Param() + unit
	case "len":
		return "Must be exactly " + fe.Param() + " characters"
	}
	return "Invalid value"
}
