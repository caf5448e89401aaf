package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sigortaci/acente-api/pkg/apperror"
	"github.com/sigortaci/acente-api/pkg/utils"
)

var registerOnce sync.Once

const unknownFieldPrefix = "json: unknown field "

// RegisterValidator makes gin's validator report json field names and
// makes the JSON decoder reject fields the request struct does not declare
func RegisterValidator() {
	registerOnce.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true

		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// BindJSON decodes and validates the body, turning failures into a
// Validation error with per-field details.
func BindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return translate(err)
	}
	return nil
}

func translate(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperror.FieldError{
				Field:   fieldPath(fe),
				Message: message(fe),
			})
		}
		return apperror.NewValidationError(fields)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperror.NewFieldError(typeErr.Field, "has an invalid type")
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return apperror.NewBadRequestError("Invalid request body")
	}

	// encoding/json has no typed error for DisallowUnknownFields
	if msg := err.Error(); strings.HasPrefix(msg, unknownFieldPrefix) {
		field, uerr := strconv.Unquote(strings.TrimPrefix(msg, unknownFieldPrefix))
		if uerr != nil {
			field = strings.Trim(strings.TrimPrefix(msg, unknownFieldPrefix), `"`)
		}
		return apperror.NewFieldError(field, "is not allowed")
	}

	// enum and decimal decoders report unknown values here
	return apperror.NewFieldError("body", err.Error())
}

// fieldPath drops the top-level struct name from the namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "numeric":
		return "must contain only digits"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	case "eqfield":
		return "does not match"
	default:
		return "is invalid"
	}
}

func parseDate(field, value string) (time.Time, error) {
	d, err := utils.ParseDate(value)
	if err != nil {
		return time.Time{}, apperror.NewFieldError(field, "must be a date in YYYY-MM-DD format")
	}
	return d, nil
}
