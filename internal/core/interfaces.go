package core

import (
	"context"
	"time"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// Services depend on these interfaces; internal/data provides the Postgres implementations.

// ProfileRepository reads and writes authorization profiles.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*domainauth.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domainauth.Profile, error)
	// List returns every profile, newest first.
	List(ctx context.Context) ([]domainauth.Profile, error)
	// Create inserts a profile; an existing id is left untouched and returned.
	Create(ctx context.Context, p domainauth.Profile) (*domainauth.Profile, error)
	UpdateAccess(ctx context.Context, id string, upd domainauth.AccessUpdate) (*domainauth.Profile, error)
}

// PatientRepository defines patient data operations.
type PatientRepository interface {
	Create(ctx context.Context, in model.PatientInput) (*model.Patient, error)
	GetByID(ctx context.Context, id string) (*model.Patient, error)
	List(ctx context.Context, opts model.PatientListOptions) ([]model.Patient, error)
	Update(ctx context.Context, id string, in model.PatientInput) (*model.Patient, error)
	Delete(ctx context.Context, id string) error
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

// ClinicalRepository defines operations on the clinical record attached to a patient.
type ClinicalRepository interface {
	ListPhotos(ctx context.Context, patientID string) ([]model.PatientPhoto, error)
	// ListComparisonPhotos returns before/after photos of every patient, newest first.
	ListComparisonPhotos(ctx context.Context, limit int) ([]model.PatientPhoto, error)
	AddPhoto(ctx context.Context, patientID string, in model.PhotoInput) (*model.PatientPhoto, error)
	DeletePhoto(ctx context.Context, patientID, photoID string) error

	ListMarkers(ctx context.Context, patientID string) ([]model.BodyMarker, error)
	AddMarker(ctx context.Context, patientID string, in model.MarkerInput) (*model.BodyMarker, error)
	DeleteMarker(ctx context.Context, patientID, markerID string) error

	ListAnamnesis(ctx context.Context, patientID string) ([]model.AnamnesisRecord, error)
	AddAnamnesis(ctx context.Context, patientID string, data []byte) (*model.AnamnesisRecord, error)

	ListNotes(ctx context.Context, patientID string) ([]model.ClinicalNote, error)
	AddNote(ctx context.Context, patientID string, in model.NoteInput) (*model.ClinicalNote, error)
}

// ProductRepository defines inventory data operations.
type ProductRepository interface {
	Create(ctx context.Context, in model.ProductInput) (*model.Product, error)
	GetByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, id string, in model.ProductInput) (*model.Product, error)
	Delete(ctx context.Context, id string) error
	// ListExpiring returns in-stock products whose expiry lies in (from, to].
	ListExpiring(ctx context.Context, from, to time.Time) ([]model.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]model.Product, error)
}

// AppointmentRepository defines scheduling data operations.
type AppointmentRepository interface {
	Create(ctx context.Context, in model.AppointmentInput) (*model.Appointment, error)
	ListBetween(ctx context.Context, r model.TimeRange) ([]model.Appointment, error)
	CountBetween(ctx context.Context, r model.TimeRange) (int, error)
	UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error
}

// FinancialRepository defines manual ledger record operations.
type FinancialRepository interface {
	CreateRecord(ctx context.Context, in model.RecordInput) (*model.FinancialRecord, error)
	ListRecords(ctx context.Context, r model.DateRange) ([]model.FinancialRecord, error)
	DeleteRecord(ctx context.Context, id string) error
}

// StockDecrement removes sold units from a product as part of a payment.
type StockDecrement struct {
	ProductID string
	Quantity  int
}

// PaymentRepository defines patient payment operations.
type PaymentRepository interface {
	// Create inserts the payment and, when sale is set, decrements stock in the same transaction.
	Create(ctx context.Context, p model.Payment, sale *StockDecrement) (*model.Payment, error)
	ListByPatient(ctx context.Context, patientID string) ([]model.Payment, error)
	// ListWithPatients returns payments in the date range joined with the patient name.
	ListWithPatients(ctx context.Context, r model.DateRange) ([]model.Payment, error)
	SumForDate(ctx context.Context, day time.Time) (model.Cents, error)
}

// SettingsRepository stores clinic-wide key/value settings.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
