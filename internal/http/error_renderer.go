package httpx

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

const (
	errMsgFixBelow = "Verifique os campos destacados."
	errMsgTimeout  = "A operação demorou demais. Tente novamente."
	errMsgCanceled = "A operação foi cancelada."
)

// ErrorRenderer renders a page with the given data.
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, data any)

// ErrorOpts contains everything needed to re-render a page after a failed operation.
type ErrorOpts struct {
	W http.ResponseWriter
	R *http.Request
	// Err may be nil when only field errors are reported.
	Err         error
	FieldErrors map[string]string
	Renderer    ErrorRenderer
	PageMeta    PageMeta
	// Data is merged into the template data, e.g. to keep submitted form values.
	Data map[string]any
	// StatusCode overrides DetermineErrorStatus.
	StatusCode int
	ShowToast  bool
}

// DetermineErrorStatus maps an error to the HTTP status of the response that reports it.
// It returns 0 for a nil error.
func DetermineErrorStatus(err error) int {
	if err == nil {
		return 0
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	switch apperrors.GetCode(apperrors.MapDBError(err)) {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeForeignKey:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// RenderError re-renders a page with a user-facing error message and per-field errors.
// Application errors carrying a field are reported next to that field.
func RenderError(opts ErrorOpts) {
	if opts.Renderer == nil {
		http.Error(opts.W, "misconfigured error renderer", http.StatusInternalServerError)
		return
	}

	builder := NewTemplateData(opts.R, opts.PageMeta)
	fieldErrors := make(map[string]string, len(opts.FieldErrors)+1)
	for k, v := range opts.FieldErrors {
		fieldErrors[k] = v
	}

	generalError := processError(opts.Err, fieldErrors)
	if len(fieldErrors) > 0 {
		builder.WithFieldErrors(fieldErrors)
		if generalError == "" {
			generalError = errMsgFixBelow
		}
	}
	if generalError != "" {
		builder.WithError(generalError)
	}
	for k, v := range opts.Data {
		builder.With(k, v)
	}

	if opts.ShowToast && generalError != "" {
		triggerToast(opts.W, generalError, "error")
	}

	status := opts.StatusCode
	if status == 0 {
		status = DetermineErrorStatus(opts.Err)
	}
	if status == 0 {
		status = http.StatusUnprocessableEntity
	}
	opts.W.Header().Set("Content-Type", "text/html; charset=utf-8")
	opts.W.WriteHeader(status)
	opts.Renderer(opts.W, opts.R, builder.Build())
}

// processError returns the general message for err and records its field error, if any.
func processError(err error, fieldErrors map[string]string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errMsgTimeout
	}
	if errors.Is(err, context.Canceled) {
		return errMsgCanceled
	}

	err = apperrors.MapDBError(err)
	msg := apperrors.UserMessage(err)
	if field := apperrors.GetField(err); field != "" {
		if _, exists := fieldErrors[field]; !exists {
			fieldErrors[field] = msg
		}
		return errMsgFixBelow
	}
	return msg
}
