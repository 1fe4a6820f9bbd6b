// Package validate checks decoded request bodies before they reach a store.
package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrInvalid = errors.New("invalid")
	isbnRe     = regexp.MustCompile(`^(?:\d{9}[\dX]|\d{13})$`)
	std        = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("isbn_format", func(fl validator.FieldLevel) bool {
		return isbnRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(time.Now().Year())
	})
	return v
}

// Error is a failed struct validation. Message joins the per-field
// messages in declaration order.
type Error struct {
	Fields []FieldError
}

type FieldError struct {
	Field   string
	Tag     string
	Message string
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, ". ")
}

func (e *Error) Is(target error) bool { return target == ErrInvalid }

// Struct validates s and returns an *Error describing every failing field.
func Struct(s any) error {
	err := std.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: message(fe.Field(), fe.Tag(), fe.Param()),
		})
	}
	return out
}

// Text trims s and puts it in NFC so equal titles compare equal.
func Text(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Email trims and lowercases an address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ISBN drops hyphens and spaces and uppercases a trailing x.
func ISBN(s string) string {
	s = strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(s))
	return strings.ToUpper(s)
}

// ClampPage parses and clamps page/size paging.
func ClampPage(pageRaw, sizeRaw string, def, max int) (int, int) {
	page := 1
	if v, err := strconv.Atoi(strings.TrimSpace(pageRaw)); err == nil && v >= 1 {
		page = v
	}
	size := def
	if v, err := strconv.Atoi(strings.TrimSpace(sizeRaw)); err == nil && v >= 1 {
		size = min(v, max)
	}
	return page, size
}
