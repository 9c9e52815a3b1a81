// Package mocks provides gomock implementations of the repository interfaces in internal/core.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockPatientRepository(ctrl)
//	repo.EXPECT().GetByID(gomock.Any(), "p1").Return(patient, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=profile_repository_mock.go github.com/Killzin1000/quality-estetica2/internal/core ProfileRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=patient_repository_mock.go github.com/Killzin1000/quality-estetica2/internal/core PatientRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=clinical_repository_mock.go github.com/Killzin1000/quality-estetica2/internal/core ClinicalRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=product_repository_mock.go github.com/Killzin1000/quality-estetica2/internal/core ProductRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=appointment_repository_mock.go github.com/Killzin1000/quality-estetica2/internal/core AppointmentRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=financial_repository_mock.go github.com/Killzin1000/quality-estetica2/internal/core FinancialRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=payment_repository_mock.go github.com/Killzin1000/quality-estetica2/internal/core PaymentRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=settings_repository_mock.go github.com/Killzin1000/quality-estetica2/internal/core SettingsRepository
