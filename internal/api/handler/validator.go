package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/sweetify/sweets-api/internal/core/domain"
)

// messages maps "<json field>.<tag>" to the client-facing reason.
var messages = map[string]string{
	"email.required":      "Invalid email address",
	"email.email":         "Invalid email address",
	"password.required":   "Password is required",
	"password.min":        "Password must be at least 6 characters",
	"password.maxbytes":   "Password must be at most 72 bytes",
	"name.required":       "Name is required",
	"name.min":            "Name is required",
	"category.required":   "Category is required",
	"category.min":        "Category is required",
	"price.required":      "Price is required",
	"price.gt":            "Price must be positive",
	"quantity.required":   "Quantity is required",
	"quantity.min":        "Quantity cannot be negative",
	"quantity.gt":         "Quantity must be positive",
	"quantity.max":        "Quantity is too large",
	"imageUrl.urlorempty": "Invalid url",
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("urlorempty", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		u, err := url.ParseRequestURI(s)
		return err == nil && u.Scheme != "" && u.Host != ""
	})
	// maxbytes bounds the encoded length; the builtin max counts runes.
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= n
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Only the first failing
// field is reported.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		return domain.NewValidationError(fe.Field(), fieldError(fe))
	}
	return err
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// bindAndValidate decodes the JSON body into req and validates it. Decode
// failures surface as validation errors so they map to 400.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return bindError(err)
	}
	return c.Validate(req)
}

func bindError(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Internal != nil {
		err = he.Internal
	}
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		field := te.Field
		if field == "" {
			return domain.NewValidationError("body", "Invalid request body")
		}
		return domain.NewValidationError(field, fmt.Sprintf("%s must be %s", field, jsonKind(te.Type)))
	}
	return domain.NewValidationError("body", "Invalid request body")
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	default:
		return "a valid " + t.Kind().String()
	}
}
