package httpx

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	"github.com/Killzin1000/quality-estetica2/internal/http/validation"
)

// FormMode distinguishes create and edit renderings of the same form.
type FormMode string

const (
	FormModeCreate FormMode = "create"
	FormModeEdit   FormMode = "edit"
)

// FormParser parses form data from an HTTP request and returns the parsed data
// along with any field-level validation errors.
type FormParser[T any] func(r *http.Request) (T, map[string]string)

// FormHandlerOpts contains all options needed to handle a form submission.
type FormHandlerOpts[T any] struct {
	W      http.ResponseWriter
	R      *http.Request
	Parser FormParser[T]
	// Submit performs the mutation and returns where to send the browser afterwards.
	Submit   func(ctx context.Context, in T) (string, error)
	Renderer ErrorRenderer
	PageMeta PageMeta
	// Data returns the values to re-render the form with when the submission fails.
	Data func(in T) map[string]any
	// OnError logs unexpected failures.
	OnError func(r *http.Request, err error)
}

// HandleForm parses, validates and submits a form, re-rendering it with errors on failure
// and redirecting on success.
func HandleForm[T any](opts FormHandlerOpts[T]) {
	if opts.Parser == nil || opts.Submit == nil || opts.Renderer == nil {
		http.Error(opts.W, "misconfigured form handler", http.StatusInternalServerError)
		return
	}

	in, fieldErrors := opts.Parser(opts.R)
	var data map[string]any
	if opts.Data != nil {
		data = opts.Data(in)
	}
	if len(fieldErrors) > 0 {
		RenderError(ErrorOpts{
			W: opts.W, R: opts.R,
			FieldErrors: fieldErrors,
			Renderer:    opts.Renderer,
			PageMeta:    opts.PageMeta,
			Data:        data,
		})
		return
	}

	next, err := opts.Submit(opts.R.Context(), in)
	if err != nil {
		status := DetermineErrorStatus(err)
		if status >= http.StatusInternalServerError && opts.OnError != nil {
			opts.OnError(opts.R, err)
		}
		RenderError(ErrorOpts{
			W: opts.W, R: opts.R,
			Err:       err,
			Renderer:  opts.Renderer,
			PageMeta:  opts.PageMeta,
			Data:      data,
			ShowToast: status >= http.StatusInternalServerError,
		})
		return
	}
	Redirect(opts.W, opts.R, next)
}

// formValues reads trimmed form values and accumulates validation errors while parsing.
type formValues struct {
	r   *http.Request
	fv  *validation.FieldValidator
	loc *time.Location
}

func newFormValues(r *http.Request, loc *time.Location) *formValues {
	if loc == nil {
		loc = time.Local
	}
	return &formValues{r: r, fv: validation.New(), loc: loc}
}

func (f *formValues) str(field string) string { return strings.TrimSpace(f.r.PostFormValue(field)) }

func (f *formValues) check(field string, vs ...validation.Validator) string {
	v := f.str(field)
	f.fv.Validate(field, v, vs...)
	return v
}

// money parses a BRL amount; an empty value is zero.
func (f *formValues) money(field, label string) model.Cents {
	v := f.check(field, validation.Money(label))
	c, err := model.ParseCents(v)
	if err != nil {
		return 0
	}
	return c
}

// intOpt parses an optional integer within [minVal, maxVal].
func (f *formValues) intOpt(field, label string, minVal, maxVal int) *int {
	v := f.check(field, validation.IntRange(label, minVal, maxVal))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

// date parses a YYYY-MM-DD value at midnight in the clinic zone.
func (f *formValues) date(field, label string) time.Time {
	v := f.check(field, validation.Date(label))
	if v == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(validation.DateLayout, v, f.loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// datetime parses a datetime-local value in the clinic zone.
func (f *formValues) datetime(field, label string) time.Time {
	v := f.str(field)
	if v == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation("2006-01-02T15:04", v, f.loc)
	if err != nil {
		f.fv.Add(field, label+" inválida.")
		return time.Time{}
	}
	return t
}

func (f *formValues) errors() map[string]string {
	if f.fv.Valid() {
		return nil
	}
	return f.fv.Errors()
}
