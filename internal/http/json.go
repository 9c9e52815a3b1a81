package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response. Internal errors never leak their message.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	code := p.Code
	if code == 0 {
		code = DetermineErrorStatus(p.Err)
	}
	errCode := p.ErrCode
	if errCode == "" {
		if c := apperrors.GetCode(p.Err); c != "" {
			errCode = string(c)
		} else {
			errCode = string(apperrors.ErrCodeInternal)
		}
	}
	WriteJSON(w, code, map[string]string{"error": errCode, "message": apperrors.UserMessage(p.Err)})
}
