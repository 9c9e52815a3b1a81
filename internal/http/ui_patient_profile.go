package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	"github.com/Killzin1000/quality-estetica2/internal/http/validation"
)

// Sub-forms of the patient profile page. The template shows field errors only under
// the form named by ActiveForm.
const (
	profileFormPhoto     = "photo"
	profileFormMarker    = "marker"
	profileFormAnamnesis = "anamnesis"
	profileFormNote      = "note"
	profileFormPayment   = "payment"
)

// PatientProfile renders the full patient record.
// GET /patients/{id}.
func (h *UIHandlers) PatientProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	data := map[string]any{}
	rec, err := h.loadProfile(r.Context(), id, data)
	if err != nil {
		if DetermineErrorStatus(err) == http.StatusNotFound {
			h.NotFound(w, r)
			return
		}
		h.logger().ErrorContext(r.Context(), "load patient record failed", "patient_id", id, "error", err)
		h.Page(w, r, PageSpec{
			Meta:  PageMeta{Title: "Paciente", PageTitle: "Paciente", CurrentPage: PagePatientProfile},
			Fetch: func(context.Context, map[string]any) error { return err },
		})
		return
	}
	page := withData(basePageData(r, profileMeta(rec)), data)
	h.renderPage(w, r, page)
}

// loadProfile fills data with everything the profile page shows.
func (h *UIHandlers) loadProfile(ctx context.Context, id string, data map[string]any) (*model.PatientRecord, error) {
	rec, err := h.PatientSvc.Record(ctx, id)
	if err != nil {
		return nil, err
	}
	data["Record"] = rec
	data["PhotoTypes"] = []model.PhotoType{model.PhotoBefore, model.PhotoAfter, model.PhotoAnamnesis}
	data["PaymentMethods"] = model.PaymentMethods()
	data["Today"] = h.now().In(h.loc())
	data["Values"] = map[string]string{}
	if h.StockSvc != nil {
		products, err := h.StockSvc.InStock(ctx)
		if err != nil {
			h.logger().WarnContext(ctx, "load products for sale failed", "error", err)
		}
		data["Products"] = products
	}
	return rec, nil
}

func profileMeta(rec *model.PatientRecord) PageMeta {
	return PageMeta{Title: rec.Patient.Name, PageTitle: rec.Patient.Name, CurrentPage: PagePatientProfile}
}

// profileSubmission is one sub-form post on the patient profile page.
type profileSubmission struct {
	Form        string
	FieldErrors map[string]string
	// Values are the submitted strings, shown back when the form is re-rendered.
	Values map[string]string
	Run    func(ctx context.Context, patientID string) error
}

// handleProfileForm runs s and returns to the profile, or re-renders the profile with the
// sub-form's errors.
func (h *UIHandlers) handleProfileForm(w http.ResponseWriter, r *http.Request, s profileSubmission) {
	ctx := r.Context()
	id := r.PathValue("id")

	var err error
	if len(s.FieldErrors) == 0 {
		if err = s.Run(ctx, id); err == nil {
			Redirect(w, r, "/patients/"+id+"#"+s.Form)
			return
		}
		if DetermineErrorStatus(err) >= http.StatusInternalServerError {
			h.logMutationError(r, err)
		}
	}

	data := map[string]any{}
	rec, loadErr := h.loadProfile(ctx, id, data)
	if loadErr != nil {
		if DetermineErrorStatus(loadErr) == http.StatusNotFound {
			h.NotFound(w, r)
			return
		}
		h.failMutation(w, r, loadErr)
		return
	}
	data["ActiveForm"] = s.Form
	data["Values"] = s.Values
	RenderError(ErrorOpts{
		W: w, R: r,
		Err:         err,
		FieldErrors: s.FieldErrors,
		Renderer:    h.renderForm,
		PageMeta:    profileMeta(rec),
		Data:        data,
		ShowToast:   IsHTMX(r),
	})
}

// PatientAddPhoto attaches a photo by URL.
// POST /patients/{id}/photos.
func (h *UIHandlers) PatientAddPhoto(w http.ResponseWriter, r *http.Request) {
	f := newFormValues(r, h.loc())
	in := model.PhotoInput{
		URL:  f.check("url", validation.Required("URL da foto", 2048)),
		Type: model.PhotoType(f.check("type", validation.OneOf("Tipo", []string{
			string(model.PhotoBefore), string(model.PhotoAfter), string(model.PhotoAnamnesis),
		}))),
	}
	h.handleProfileForm(w, r, profileSubmission{
		Form:        profileFormPhoto,
		FieldErrors: f.errors(),
		Values:      submitted(r, "url", "type"),
		Run: func(ctx context.Context, patientID string) error {
			_, err := h.PatientSvc.AddPhoto(ctx, patientID, in)
			return err
		},
	})
}

// PatientDeletePhoto removes one photo.
// POST /patients/{id}/photos/{photoID}/delete.
func (h *UIHandlers) PatientDeletePhoto(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.handleDelete(w, r, deleteHandlerOpts{
		Delete: func(ctx context.Context) error {
			return h.PatientSvc.DeletePhoto(ctx, id, r.PathValue("photoID"))
		},
		RedirectPath: "/patients/" + id + "#" + profileFormPhoto,
	})
}

// PatientAddMarker places a marker on the body map. x and y are percentages of the figure.
// POST /patients/{id}/markers.
func (h *UIHandlers) PatientAddMarker(w http.ResponseWriter, r *http.Request) {
	f := newFormValues(r, h.loc())
	in := model.MarkerInput{
		X:    parsePercent(f, "x"),
		Y:    parsePercent(f, "y"),
		Side: model.MarkerSide(f.str("side")),
		Note: f.check("note", validation.Required("Descrição", 500)),
	}
	h.handleProfileForm(w, r, profileSubmission{
		Form:        profileFormMarker,
		FieldErrors: f.errors(),
		Values:      submitted(r, "x", "y", "side", "note"),
		Run: func(ctx context.Context, patientID string) error {
			_, err := h.PatientSvc.AddMarker(ctx, patientID, in)
			return err
		},
	})
}

func parsePercent(f *formValues, field string) float64 {
	v := f.str(field)
	n, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	if err != nil {
		f.fv.Add(field, "Clique no mapa corporal para posicionar a marcação.")
		return 0
	}
	return n
}

// PatientDeleteMarker removes one body marker.
// POST /patients/{id}/markers/{markerID}/delete.
func (h *UIHandlers) PatientDeleteMarker(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.handleDelete(w, r, deleteHandlerOpts{
		Delete: func(ctx context.Context) error {
			return h.PatientSvc.DeleteMarker(ctx, id, r.PathValue("markerID"))
		},
		RedirectPath: "/patients/" + id + "#" + profileFormMarker,
	})
}

// PatientAddAnamnesis stores the submitted anamnesis form as a JSON object.
// Every posted field except the CSRF token becomes a key.
// POST /patients/{id}/anamnesis.
func (h *UIHandlers) PatientAddAnamnesis(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	values := map[string]string{}
	fields := map[string]any{}
	for k, vs := range r.PostForm {
		if k == DefaultCSRFCookieName || len(vs) == 0 {
			continue
		}
		values[k] = strings.TrimSpace(vs[0])
		if len(vs) == 1 {
			fields[k] = strings.TrimSpace(vs[0])
			continue
		}
		trimmed := make([]string, len(vs))
		for i, v := range vs {
			trimmed[i] = strings.TrimSpace(v)
		}
		fields[k] = trimmed
	}

	var fieldErrors map[string]string
	if !anyFilled(values) {
		fieldErrors = map[string]string{"anamnesis": "Preencha ao menos um campo da anamnese."}
	}
	h.handleProfileForm(w, r, profileSubmission{
		Form:        profileFormAnamnesis,
		FieldErrors: fieldErrors,
		Values:      values,
		Run: func(ctx context.Context, patientID string) error {
			raw, err := json.Marshal(fields)
			if err != nil {
				return err
			}
			_, err = h.PatientSvc.AddAnamnesis(ctx, patientID, raw)
			return err
		},
	})
}

func anyFilled(values map[string]string) bool {
	for _, v := range values {
		if v != "" {
			return true
		}
	}
	return false
}

// PatientAddNote records a clinical evolution note.
// POST /patients/{id}/notes.
func (h *UIHandlers) PatientAddNote(w http.ResponseWriter, r *http.Request) {
	f := newFormValues(r, h.loc())
	in := model.NoteInput{
		Content: f.check("content", validation.Required("Evolução", 10000)),
		Date:    f.date("date", "Data"),
	}
	h.handleProfileForm(w, r, profileSubmission{
		Form:        profileFormNote,
		FieldErrors: f.errors(),
		Values:      submitted(r, "content", "date"),
		Run: func(ctx context.Context, patientID string) error {
			_, err := h.PatientSvc.AddNote(ctx, patientID, in)
			return err
		},
	})
}

// PatientAddPayment records a service payment or a product sale.
// POST /patients/{id}/payments.
func (h *UIHandlers) PatientAddPayment(w http.ResponseWriter, r *http.Request) {
	in, fieldErrors := parsePaymentForm(r, h.loc())
	h.handleProfileForm(w, r, profileSubmission{
		Form:        profileFormPayment,
		FieldErrors: fieldErrors,
		Values: submitted(r, "kind", "date", "procedure", "product_id", "quantity", "amount", "discount",
			"payment_method", "split", "payment_method_2", "amount_1", "amount_2", "observation", "receipt_url"),
		Run: func(ctx context.Context, patientID string) error {
			_, err := h.PaymentSvc.Record(ctx, patientID, in)
			return err
		},
	})
}

func parsePaymentForm(r *http.Request, loc *time.Location) (model.PaymentInput, map[string]string) {
	f := newFormValues(r, loc)
	methods := make([]string, 0, 4)
	for _, m := range model.PaymentMethods() {
		methods = append(methods, string(m))
	}
	in := model.PaymentInput{
		Kind:        model.PaymentKind(f.check("kind", validation.OneOf("Tipo", []string{string(model.PaymentService), string(model.PaymentProduct)}))),
		Date:        f.date("date", "Data"),
		Procedure:   f.check("procedure", validation.Optional("Procedimento", 200)),
		ProductID:   f.str("product_id"),
		Amount:      f.money("amount", "Valor"),
		Discount:    f.money("discount", "Desconto"),
		Method:      model.PaymentMethod(f.check("payment_method", validation.OneOf("Forma de pagamento", methods))),
		Split:       f.str("split") != "",
		Observation: f.check("observation", validation.Optional("Observação", 1000)),
		ReceiptURL:  f.check("receipt_url", validation.Optional("Comprovante", 2048)),
	}
	if in.Kind == model.PaymentProduct {
		if q := f.intOpt("quantity", "Quantidade", 1, 10000); q != nil {
			in.Quantity = *q
		}
	}
	if in.Split {
		in.Method2 = model.PaymentMethod(f.check("payment_method_2", validation.OneOf("Segunda forma", methods)))
		in.Amount1 = f.money("amount_1", "Valor 1")
		in.Amount2 = f.money("amount_2", "Valor 2")
	}
	return in, f.errors()
}

// submitted returns the posted values of fields.
func submitted(r *http.Request, fields ...string) map[string]string {
	out := make(map[string]string, len(fields))
	for _, k := range fields {
		out[k] = strings.TrimSpace(r.PostFormValue(k))
	}
	return out
}
