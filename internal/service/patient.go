package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Killzin1000/quality-estetica2/internal/core"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
)

const (
	defaultPatientPageSize = 50
	maxPatientPageSize     = 200
)

// PatientServiceOptions groups dependencies for PatientService.
type PatientServiceOptions struct {
	Patients core.PatientRepository
	Clinical core.ClinicalRepository
	Payments core.PaymentRepository
	// Summarizer is optional; without it the record carries no anamnesis summary.
	Summarizer *AnamnesisSummarizer
	Logger     *slog.Logger
	Now        func() time.Time
}

// PatientService handles patients and their clinical record.
type PatientService struct {
	patients   core.PatientRepository
	clinical   core.ClinicalRepository
	payments   core.PaymentRepository
	summarizer *AnamnesisSummarizer
	logger     *slog.Logger
	now        func() time.Time
}

// NewPatientService constructs a PatientService.
func NewPatientService(opts PatientServiceOptions) *PatientService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &PatientService{
		patients:   opts.Patients,
		clinical:   opts.Clinical,
		payments:   opts.Payments,
		summarizer: opts.Summarizer,
		logger:     logger.With("component", "patient_service"),
		now:        now,
	}
}

// List returns patients ordered by name, optionally filtered by a name substring.
func (s *PatientService) List(ctx context.Context, opts model.PatientListOptions) ([]model.Patient, error) {
	switch {
	case opts.Limit <= 0:
		opts.Limit = defaultPatientPageSize
	case opts.Limit > maxPatientPageSize:
		opts.Limit = maxPatientPageSize
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.patients.List(ctx, opts)
}

// Get returns one patient.
func (s *PatientService) Get(ctx context.Context, id string) (*model.Patient, error) {
	return s.patients.GetByID(ctx, id)
}

// Create validates and inserts a patient.
func (s *PatientService) Create(ctx context.Context, in model.PatientInput) (*model.Patient, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := s.patients.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "patient created", "patient_id", p.ID)
	return p, nil
}

// Update validates and replaces the editable fields of a patient.
func (s *PatientService) Update(ctx context.Context, id string, in model.PatientInput) (*model.Patient, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.patients.Update(ctx, id, in)
}

// Delete removes a patient. Patients with recorded payments cannot be deleted.
func (s *PatientService) Delete(ctx context.Context, id string) error {
	if err := s.patients.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "patient deleted", "patient_id", id)
	return nil
}

// Record loads the full patient profile page. The sections are fetched concurrently.
func (s *PatientService) Record(ctx context.Context, id string) (*model.PatientRecord, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rec := &model.PatientRecord{Patient: *p}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rec.Photos, err = s.clinical.ListPhotos(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		rec.Markers, err = s.clinical.ListMarkers(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		rec.Anamnesis, err = s.clinical.ListAnamnesis(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		rec.Notes, err = s.clinical.ListNotes(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		rec.Payments, err = s.payments.ListByPatient(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(rec.Anamnesis) > 0 {
		rec.Summary = s.summarizer.Summarize(rec.Anamnesis[0].Data)
	}
	return rec, nil
}

// AddPhoto attaches a photo to a patient.
func (s *PatientService) AddPhoto(ctx context.Context, patientID string, in model.PhotoInput) (*model.PatientPhoto, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.clinical.AddPhoto(ctx, patientID, in)
}

// DeletePhoto removes a photo of the patient.
func (s *PatientService) DeletePhoto(ctx context.Context, patientID, photoID string) error {
	return s.clinical.DeletePhoto(ctx, patientID, photoID)
}

// AddMarker places a marker on the body map.
func (s *PatientService) AddMarker(ctx context.Context, patientID string, in model.MarkerInput) (*model.BodyMarker, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.clinical.AddMarker(ctx, patientID, in)
}

// DeleteMarker removes a body marker.
func (s *PatientService) DeleteMarker(ctx context.Context, patientID, markerID string) error {
	return s.clinical.DeleteMarker(ctx, patientID, markerID)
}

// AddAnamnesis stores a new anamnesis form. raw must be a JSON object.
func (s *PatientService) AddAnamnesis(ctx context.Context, patientID string, raw []byte) (*model.AnamnesisRecord, error) {
	data, err := NormalizeAnamnesis(raw)
	if err != nil {
		return nil, err
	}
	return s.clinical.AddAnamnesis(ctx, patientID, data)
}

// AddNote records a clinical evolution note, dated today when no date is given.
func (s *PatientService) AddNote(ctx context.Context, patientID string, in model.NoteInput) (*model.ClinicalNote, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		in.Date = s.now()
	}
	return s.clinical.AddNote(ctx, patientID, in)
}
