package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	"github.com/Killzin1000/quality-estetica2/internal/http/validation"
)

// patientForm holds the submitted values of the patient form.
type patientForm struct {
	ID    string
	Input model.PatientInput
	// Age keeps the raw text so invalid input is shown back unchanged.
	Age string
}

// Patients lists patients, optionally filtered by name.
// GET /patients?q=<name>&page=<n>.
func (h *UIHandlers) Patients(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	pg := getPageParams(r.URL.Query())
	builder := NewTemplateData(r, PageMeta{Title: "Pacientes", PageTitle: "Pacientes & Prontuário", CurrentPage: PagePatients}).
		With("Q", q)

	items, hasNext, err := paginate(r.Context(), pg, func(ctx context.Context, limit, offset int) ([]model.Patient, error) {
		return h.PatientSvc.List(ctx, model.PatientListOptions{Q: q, Limit: limit, Offset: offset})
	})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "list patients failed", "error", err)
		builder.WithError(errMsgLoadFailed)
	}
	data := builder.With("Patients", items).WithPagination("/patients", pg, hasNext).Build()
	h.renderPage(w, r, data)
}

// PatientNew renders an empty patient form.
// GET /patients/new.
func (h *UIHandlers) PatientNew(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: patientFormMeta(FormModeCreate),
		Fetch: func(_ context.Context, data map[string]any) error {
			withData(data, patientFormData(FormModeCreate, patientForm{}))
			return nil
		},
	})
}

// PatientCreate handles the new patient form.
// POST /patients/new.
func (h *UIHandlers) PatientCreate(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[patientForm]{
		W: w, R: r,
		Parser: parsePatientForm,
		Submit: func(ctx context.Context, f patientForm) (string, error) {
			p, err := h.PatientSvc.Create(ctx, f.Input)
			if err != nil {
				return "", err
			}
			return "/patients/" + p.ID, nil
		},
		Renderer: h.renderForm,
		PageMeta: patientFormMeta(FormModeCreate),
		Data:     func(f patientForm) map[string]any { return patientFormData(FormModeCreate, f) },
		OnError:  h.logMutationError,
	})
}

// PatientEdit renders the patient form filled with the stored values.
// GET /patients/{id}/edit.
func (h *UIHandlers) PatientEdit(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: patientFormMeta(FormModeEdit),
		Fetch: func(ctx context.Context, data map[string]any) error {
			p, err := h.PatientSvc.Get(ctx, r.PathValue("id"))
			if err != nil {
				return err
			}
			f := patientForm{
				ID:    p.ID,
				Input: model.PatientInput{Name: p.Name, Age: p.Age, Phone: p.Phone, PhotoURL: p.PhotoURL},
			}
			if p.Age != nil {
				f.Age = itoa(*p.Age)
			}
			withData(data, patientFormData(FormModeEdit, f))
			return nil
		},
	})
}

// PatientUpdate handles the edit form.
// POST /patients/{id}/edit.
func (h *UIHandlers) PatientUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	HandleForm(FormHandlerOpts[patientForm]{
		W: w, R: r,
		Parser: func(r *http.Request) (patientForm, map[string]string) {
			f, errs := parsePatientForm(r)
			f.ID = id
			return f, errs
		},
		Submit: func(ctx context.Context, f patientForm) (string, error) {
			if _, err := h.PatientSvc.Update(ctx, id, f.Input); err != nil {
				return "", err
			}
			return "/patients/" + id, nil
		},
		Renderer: h.renderForm,
		PageMeta: patientFormMeta(FormModeEdit),
		Data:     func(f patientForm) map[string]any { return patientFormData(FormModeEdit, f) },
		OnError:  h.logMutationError,
	})
}

// PatientDelete removes a patient. Patients with payments cannot be deleted.
// POST /patients/{id}/delete.
func (h *UIHandlers) PatientDelete(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, deleteHandlerOpts{
		Delete:       func(ctx context.Context) error { return h.PatientSvc.Delete(ctx, r.PathValue("id")) },
		RedirectPath: "/patients",
	})
}

func parsePatientForm(r *http.Request) (patientForm, map[string]string) {
	f := newFormValues(r, nil)
	out := patientForm{
		Input: model.PatientInput{
			Name:     f.check("name", validation.Required("Nome", 200)),
			Phone:    f.check("phone", validation.Optional("Telefone", 40)),
			PhotoURL: f.check("photo_url", validation.Optional("Foto", 2048)),
		},
		Age: f.str("age"),
	}
	out.Input.Age = f.intOpt("age", "Idade", 0, 130)
	return out, f.errors()
}

func patientFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Editar paciente", PageTitle: "Editar paciente", CurrentPage: PagePatientForm}
	}
	return PageMeta{Title: "Novo paciente", PageTitle: "Novo paciente", CurrentPage: PagePatientForm}
}

func patientFormData(mode FormMode, f patientForm) map[string]any {
	action := "/patients/new"
	cancel := "/patients"
	if mode == FormModeEdit {
		action = "/patients/" + f.ID + "/edit"
		cancel = "/patients/" + f.ID
	}
	return map[string]any{
		"Mode":      string(mode),
		"Form":      f,
		"Action":    action,
		"CancelURL": cancel,
	}
}
