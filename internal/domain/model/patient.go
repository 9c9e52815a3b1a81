package model

import (
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

const maxPatientNameLen = 200

// Patient is a clinic patient.
type Patient struct {
	ID        string    `json:"id"                  db:"id"`
	Name      string    `json:"name"                db:"name"`
	Age       *int      `json:"age,omitempty"       db:"age"`
	Phone     string    `json:"phone,omitempty"     db:"phone"`
	PhotoURL  string    `json:"photo_url,omitempty" db:"photo_url"`
	CreatedAt time.Time `json:"created_at"          db:"created_at"`
}

// PatientListOptions controls listing patients.
type PatientListOptions struct {
	Q      string // substring match on name
	Limit  int
	Offset int
}

// PatientInput is the editable part of a patient, used by create and update.
type PatientInput struct {
	Name     string `json:"name"`
	Age      *int   `json:"age,omitempty"`
	Phone    string `json:"phone,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// Validate normalises and validates the input.
func (in *PatientInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.PhotoURL = strings.TrimSpace(in.PhotoURL)
	if in.Name == "" {
		return apperrors.ValidationField("name", "Informe o nome do paciente.")
	}
	if utf8.RuneCountInString(in.Name) > maxPatientNameLen {
		return apperrors.ValidationField("name", "O nome deve ter no máximo 200 caracteres.")
	}
	if in.Age != nil && (*in.Age < 0 || *in.Age > 130) {
		return apperrors.ValidationField("age", "Idade deve estar entre 0 e 130.")
	}
	if in.PhotoURL != "" && !isHTTPURL(in.PhotoURL) {
		return apperrors.ValidationField("photo_url", "A foto deve ser uma URL http(s).")
	}
	return nil
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}
