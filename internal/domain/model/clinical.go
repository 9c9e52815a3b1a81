package model

import (
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

// PhotoType classifies a patient photo.
type PhotoType string

const (
	PhotoBefore    PhotoType = "before"
	PhotoAfter     PhotoType = "after"
	PhotoAnamnesis PhotoType = "anamnesis"
)

// Valid reports whether the photo type is supported.
func (t PhotoType) Valid() bool {
	switch t {
	case PhotoBefore, PhotoAfter, PhotoAnamnesis:
		return true
	default:
		return false
	}
}

// Label returns the Portuguese label.
func (t PhotoType) Label() string {
	switch t {
	case PhotoBefore:
		return "Antes"
	case PhotoAfter:
		return "Depois"
	case PhotoAnamnesis:
		return "Anamnese"
	default:
		return string(t)
	}
}

// PatientPhoto is a photo attached to a patient record.
type PatientPhoto struct {
	ID        string    `json:"id"         db:"id"`
	PatientID string    `json:"patient_id" db:"patient_id"`
	URL       string    `json:"url"        db:"url"`
	Type      PhotoType `json:"type"       db:"type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PhotoInput adds a photo by URL.
type PhotoInput struct {
	URL  string    `json:"url"`
	Type PhotoType `json:"type"`
}

// Validate validates the photo input.
func (in *PhotoInput) Validate() error {
	in.URL = strings.TrimSpace(in.URL)
	if !isHTTPURL(in.URL) {
		return apperrors.ValidationField("url", "Informe a URL da foto.")
	}
	if in.Type == "" {
		in.Type = PhotoBefore
	}
	if !in.Type.Valid() {
		return apperrors.ValidationField("type", "Tipo de foto inválido.")
	}
	return nil
}

// MarkerSide is the body side a marker is placed on.
type MarkerSide string

const (
	SideFront MarkerSide = "front"
	SideBack  MarkerSide = "back"
)

// BodyMarker is a point annotated on the body map, in percent of the figure size.
type BodyMarker struct {
	ID        string     `json:"id"         db:"id"`
	PatientID string     `json:"patient_id" db:"patient_id"`
	X         float64    `json:"x"          db:"x"`
	Y         float64    `json:"y"          db:"y"`
	Note      string     `json:"note"       db:"note"`
	Side      MarkerSide `json:"side"       db:"side"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// MarkerInput creates a body marker.
type MarkerInput struct {
	X    float64    `json:"x"`
	Y    float64    `json:"y"`
	Note string     `json:"note"`
	Side MarkerSide `json:"side"`
}

// Validate validates the marker input.
func (in *MarkerInput) Validate() error {
	in.Note = strings.TrimSpace(in.Note)
	if in.X < 0 || in.X > 100 || in.Y < 0 || in.Y > 100 {
		return apperrors.Validation("Posição fora do mapa corporal.")
	}
	if in.Side == "" {
		in.Side = SideFront
	}
	if in.Side != SideFront && in.Side != SideBack {
		return apperrors.ValidationField("side", "Lado inválido.")
	}
	if in.Note == "" {
		return apperrors.ValidationField("note", "Descreva a marcação.")
	}
	return nil
}

// AnamnesisRecord stores the free-form anamnesis questionnaire of a patient.
type AnamnesisRecord struct {
	ID        string          `json:"id"         db:"id"`
	PatientID string          `json:"patient_id" db:"patient_id"`
	Data      json.RawMessage `json:"data"       db:"data"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// AnamnesisSummaryItem is one labelled value extracted from an anamnesis record.
type AnamnesisSummaryItem struct {
	Label string
	Value string
}

// ClinicalNote is a dated evolution note.
type ClinicalNote struct {
	ID        string    `json:"id"         db:"id"`
	PatientID string    `json:"patient_id" db:"patient_id"`
	Content   string    `json:"content"    db:"content"`
	Date      time.Time `json:"date"       db:"date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NoteInput creates a clinical note. A zero Date means today.
type NoteInput struct {
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
}

// Validate validates the note input.
func (in *NoteInput) Validate() error {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return apperrors.ValidationField("content", "Escreva a evolução.")
	}
	return nil
}

// PatientRecord aggregates everything shown on a patient's profile page.
type PatientRecord struct {
	Patient   Patient
	Photos    []PatientPhoto
	Markers   []BodyMarker
	Anamnesis []AnamnesisRecord
	Summary   []AnamnesisSummaryItem
	Notes     []ClinicalNote
	Payments  []Payment
}
