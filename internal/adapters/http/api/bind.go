package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

const maxBodyBytes = 1 << 20

// validation holds the validator and its English translator.
type validation struct {
	validate   *validator.Validate
	translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *validation
)

func validatorSvc() *validation {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		// report json names, not Go field names
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})
		_ = entranslations.RegisterDefaultTranslations(v, trans)
		_ = v.RegisterTranslation("min", trans,
			func(t ut.Translator) error { return t.Add("min", "{0} must be at least {1}", true) },
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T("min", fe.Field(), fe.Param())
				return msg
			},
		)
		// localpath: relative, no "..", resolved inside the working directory
		_ = v.RegisterValidation("localpath", func(fl validator.FieldLevel) bool {
			return filepath.IsLocal(fl.Field().String())
		})
		_ = v.RegisterTranslation("localpath", trans,
			func(t ut.Translator) error {
				return t.Add("localpath", "{0} must be a relative path inside the working directory", true)
			},
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T("localpath", fe.Field())
				return msg
			},
		)
		vSvc = &validation{validate: v, translator: trans}
	})
	return vSvc
}

// fieldError is a validation failure on a single request field.
type fieldError struct {
	field string
	msg   string
}

func (e *fieldError) Error() string { return e.msg }
func (e *fieldError) Unwrap() error { return ErrBadRequest }

// decodeJSON reads a single JSON document into T and validates it. An empty
// body is accepted when allowEmpty is set and yields the zero value.
func decodeJSON[T any](r *http.Request, allowEmpty bool) (T, error) {
	var dst T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return dst, nil
		}
		return dst, fmt.Errorf("%w: invalid JSON: %w", ErrBadRequest, err)
	}
	if dec.More() {
		return dst, fmt.Errorf("%w: unexpected trailing data", ErrBadRequest)
	}
	if err := validatorSvc().validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return dst, &fieldError{field: fe.Field(), msg: fe.Translate(validatorSvc().translator)}
		}
		return dst, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return dst, nil
}
