package binder

import (
	"net/url"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/labstack/echo/v4"
	"github.com/localfs/localfs/pkg/errcodes"
	"github.com/pkg/errors"
)

// Binder is a custom struct that implements the Echo Binder interface. It
// binds query parameters to a struct, uses mold to clean up the params, and
// validator to validate them. Every route this server exposes is a GET, so
// request bodies are never read.
type Binder struct {
	queryDecoder *schema.Decoder
	conform      *mold.Transformer
	validate     *validator.Validate
}

// New initializes a new Binder instance with the appropriate validation
// functions registered.
func New() (*Binder, error) {
	queryDecoder := schema.NewDecoder()
	queryDecoder.SetAliasTag("query")
	queryDecoder.IgnoreUnknownKeys(true)
	conform := modifiers.New()
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("relpath", relativePathValidator); err != nil {
		return nil, errors.WithStack(err)
	}

	return &Binder{queryDecoder, conform, validate}, nil
}

// Bind decodes, modifies, defaults, and validates query params against the
// given struct.
func (b *Binder) Bind(i interface{}, c echo.Context) error {
	req := c.Request()

	if err := b.decodeQuery(i, c.QueryParams()); err != nil {
		return err
	}

	if err := b.conform.Struct(req.Context(), i); err != nil {
		return errors.WithStack(err)
	}

	if err := defaults.Set(i); err != nil {
		return errors.WithStack(err)
	}

	if err := b.validate.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) || len(errs) == 0 {
			return errors.WithStack(err)
		}
		if errs[0].Tag() == required {
			return errcodes.MissingParameter(errs[0].Field())
		}
		msg := formatValidationError(errs[0])
		return errcodes.ValidationError(msg)
	}
	return nil
}

// decodeQuery decodes params into i. Keys with no matching field are
// ignored; a field's key given more than once is rejected.
func (b *Binder) decodeQuery(i interface{}, params url.Values) error {
	for _, key := range queryKeys(i) {
		if len(params[key]) > 1 {
			return errcodes.RepeatedParameter(key)
		}
	}

	if err := b.queryDecoder.Decode(i, params); err != nil {
		if errs, ok := err.(schema.MultiError); ok {
			var err error
			for _, err = range errs {
				break
			}

			if err, ok := err.(schema.ConversionError); ok {
				msg := formatSchemaConversionError(err)
				return errcodes.ValidationTypeError(msg)
			}

			return errors.WithStack(err)
		}
		return errors.WithStack(err)
	}
	return nil
}

// queryKeys returns the query tag names of i's scalar fields in declaration
// order. i must be a pointer to a struct.
func queryKeys(i interface{}) []string {
	t := reflect.TypeOf(i)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	keys := make([]string, 0, t.NumField())
	for n := 0; n < t.NumField(); n++ {
		fld := t.Field(n)
		if fld.Type.Kind() == reflect.Slice {
			continue
		}
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		keys = append(keys, name)
	}
	return keys
}
