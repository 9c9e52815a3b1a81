package service

import (
	"context"

	"github.com/Killzin1000/quality-estetica2/internal/core"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
)

const defaultGalleryLimit = 200

// ComparisonSet groups the before and after photos of one patient.
type ComparisonSet struct {
	PatientID   string
	PatientName string
	Before      []model.PatientPhoto
	After       []model.PatientPhoto
}

// Complete reports whether the set has at least one photo on each side.
func (c ComparisonSet) Complete() bool { return len(c.Before) > 0 && len(c.After) > 0 }

// SkinAnalysisService builds the before/after comparison gallery.
type SkinAnalysisService struct {
	clinical core.ClinicalRepository
	patients core.PatientRepository
	limit    int
}

// NewSkinAnalysisService constructs a SkinAnalysisService.
func NewSkinAnalysisService(clinical core.ClinicalRepository, patients core.PatientRepository) *SkinAnalysisService {
	return &SkinAnalysisService{clinical: clinical, patients: patients, limit: defaultGalleryLimit}
}

// Gallery returns comparison sets, most recently photographed patient first.
func (s *SkinAnalysisService) Gallery(ctx context.Context) ([]ComparisonSet, error) {
	photos, err := s.clinical.ListComparisonPhotos(ctx, s.limit)
	if err != nil {
		return nil, err
	}
	var (
		order []string
		sets  = make(map[string]*ComparisonSet)
	)
	for _, ph := range photos {
		set, ok := sets[ph.PatientID]
		if !ok {
			set = &ComparisonSet{PatientID: ph.PatientID}
			sets[ph.PatientID] = set
			order = append(order, ph.PatientID)
		}
		switch ph.Type {
		case model.PhotoBefore:
			set.Before = append(set.Before, ph)
		case model.PhotoAfter:
			set.After = append(set.After, ph)
		}
	}

	out := make([]ComparisonSet, 0, len(order))
	for _, id := range order {
		set := sets[id]
		p, err := s.patients.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		set.PatientName = p.Name
		out = append(out, *set)
	}
	return out, nil
}

// ForPatient returns the comparison set of one patient.
func (s *SkinAnalysisService) ForPatient(ctx context.Context, patientID string) (*ComparisonSet, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	photos, err := s.clinical.ListPhotos(ctx, patientID)
	if err != nil {
		return nil, err
	}
	set := &ComparisonSet{PatientID: p.ID, PatientName: p.Name}
	for _, ph := range photos {
		switch ph.Type {
		case model.PhotoBefore:
			set.Before = append(set.Before, ph)
		case model.PhotoAfter:
			set.After = append(set.After, ph)
		}
	}
	return set, nil
}
