package model

import (
	"strings"
	"time"

	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether the status is supported.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCancelled:
		return true
	default:
		return false
	}
}

// Label returns the Portuguese label.
func (s AppointmentStatus) Label() string {
	switch s {
	case AppointmentScheduled:
		return "Agendado"
	case AppointmentCompleted:
		return "Realizado"
	case AppointmentCancelled:
		return "Cancelado"
	default:
		return string(s)
	}
}

// Appointment is a scheduled procedure for a patient.
type Appointment struct {
	ID          string            `json:"id"           db:"id"`
	PatientID   string            `json:"patient_id"   db:"patient_id"`
	PatientName string            `json:"patient_name" db:"patient_name"`
	Date        time.Time         `json:"date"         db:"date"`
	Procedure   string            `json:"procedure"    db:"procedure"`
	Status      AppointmentStatus `json:"status"       db:"status"`
	CreatedAt   time.Time         `json:"created_at"   db:"created_at"`
}

// AppointmentInput creates an appointment.
type AppointmentInput struct {
	PatientID string    `json:"patient_id"`
	Date      time.Time `json:"date"`
	Procedure string    `json:"procedure"`
}

// Validate validates the appointment input.
func (in *AppointmentInput) Validate() error {
	in.PatientID = strings.TrimSpace(in.PatientID)
	in.Procedure = strings.TrimSpace(in.Procedure)
	if in.PatientID == "" {
		return apperrors.ValidationField("patient_id", "Selecione o paciente.")
	}
	if in.Date.IsZero() {
		return apperrors.ValidationField("date", "Informe data e horário.")
	}
	if in.Procedure == "" {
		return apperrors.ValidationField("procedure", "Informe o procedimento.")
	}
	return nil
}

// TimeRange is a half-open [From, To) interval.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// WeekOf returns the Monday-to-Monday range containing t, in t's location.
func WeekOf(t time.Time) TimeRange {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return TimeRange{From: start, To: start.AddDate(0, 0, 7)}
}

// DayOf returns the range of the calendar day containing t.
func DayOf(t time.Time) TimeRange {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return TimeRange{From: day, To: day.AddDate(0, 0, 1)}
}

// MonthOf returns the range of the calendar month containing t.
func MonthOf(t time.Time) TimeRange {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return TimeRange{From: start, To: start.AddDate(0, 1, 0)}
}
