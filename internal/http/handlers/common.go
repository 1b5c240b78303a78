package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/houseofcharity/charity-be/internal/auth"
	"github.com/houseofcharity/charity-be/internal/http/respond"
	"github.com/houseofcharity/charity-be/internal/middleware"
)

// APIPrefix is prepended to every application route.
const APIPrefix = "/api"

const maxBodyBytes = 1 << 20

const msgInternal = "Internal server error"

// maxAmount is the smallest value a NUMERIC(14,2) column cannot hold.
var maxAmount = decimal.New(1, 12)

// checkAmount rounds d to cents and returns a client message naming label when
// the rounded value is not positive or does not fit the amount columns.
func checkAmount(d decimal.Decimal, label string) (decimal.Decimal, string) {
	d = d.Round(2)
	switch {
	case !d.IsPositive():
		return d, label + " must be greater than zero"
	case d.GreaterThanOrEqual(maxAmount):
		return d, label + " must be less than " + maxAmount.String()
	}
	return d, ""
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage turns the first validator failure into a client-facing sentence.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request payload"
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "alpha":
		return fmt.Sprintf("%s must contain only letters", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// decodeJSON reads a bounded JSON body into dst. An empty body leaves dst untouched
// when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// readBody decodes and validates a request body, writing a 400 on failure.
func readBody(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	if err := decodeJSON(w, r, dst, allowEmpty); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respond.Error(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func serverError(w http.ResponseWriter, log *logrus.Entry, action string, err error) {
	log.WithError(err).Error(action)
	respond.Error(w, http.StatusInternalServerError, msgInternal)
}

// authed wraps fn so it only runs for requests bearing a valid token.
func authed(tokens *auth.TokenManager, fn http.HandlerFunc) http.Handler {
	return middleware.RequireAuth(tokens, fn)
}

func strPtrTrimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
