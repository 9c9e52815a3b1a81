package httpx

import (
	"context"
	"net/http"
	"strings"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
	"github.com/Killzin1000/quality-estetica2/internal/service"
)

var errForbiddenNoProfile = apperrors.Forbidden("Acesso restrito a administradores.")

// adminUserForm carries the target profile and the submitted access.
type adminUserForm struct {
	Profile *domainauth.Profile
	Update  domainauth.AccessUpdate
	// Self is set when the admin is editing their own profile.
	Self bool
}

// AdminUsers lists every profile with per-status counters.
// GET /admin/users.
func (h *UIHandlers) AdminUsers(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Usuários", PageTitle: "Gerenciar Usuários", CurrentPage: PageAdminUsers},
		Fetch: func(ctx context.Context, data map[string]any) error {
			profiles, err := h.AdminUserSvc.List(ctx)
			if err != nil {
				return err
			}
			counts := service.CountByStatus(profiles)
			data["Users"] = profiles
			data["PendingCount"] = counts[domainauth.StatusPending]
			data["ActiveCount"] = counts[domainauth.StatusActive]
			data["BlockedCount"] = counts[domainauth.StatusBlocked]
			data["ViewerID"] = viewerID(ctx)
			return nil
		},
	})
}

// AdminUserEdit renders the access form for one profile.
// GET /admin/users/{id}.
func (h *UIHandlers) AdminUserEdit(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: adminUserMeta(),
		Fetch: func(ctx context.Context, data map[string]any) error {
			p, err := h.AdminUserSvc.Get(ctx, r.PathValue("id"))
			if err != nil {
				return err
			}
			withData(data, adminUserData(adminUserForm{
				Profile: p,
				Update:  domainauth.AccessUpdate{Role: p.Role, Status: p.Status, Permissions: p.Permissions},
				Self:    p.ID == viewerID(ctx),
			}))
			return nil
		},
	})
}

// AdminUserUpdate applies role, status and permissions to a profile.
// POST /admin/users/{id}.
func (h *UIHandlers) AdminUserUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	HandleForm(FormHandlerOpts[adminUserForm]{
		W: w, R: r,
		Parser: func(r *http.Request) (adminUserForm, map[string]string) {
			form := adminUserForm{Self: id == viewerID(r.Context())}
			if p, err := h.AdminUserSvc.Get(r.Context(), id); err == nil {
				form.Profile = p
			}
			if err := r.ParseForm(); err != nil {
				return form, map[string]string{"permissions": "Formulário inválido."}
			}
			upd, err := service.ParseAccessUpdate(
				strings.TrimSpace(r.PostFormValue("role")),
				strings.TrimSpace(r.PostFormValue("status")),
				r.PostForm["permissions"],
			)
			form.Update = upd
			if err != nil {
				return form, fieldErrorsFrom(err, "permissions")
			}
			return form, nil
		},
		Submit: func(ctx context.Context, f adminUserForm) (string, error) {
			v, _ := ViewerFromContext(ctx)
			actor := v.Profile()
			if actor == nil {
				return "", errForbiddenNoProfile
			}
			if _, err := h.AdminUserSvc.UpdateAccess(ctx, *actor, id, f.Update); err != nil {
				return "", err
			}
			return "/admin/users", nil
		},
		Renderer: h.renderForm,
		PageMeta: adminUserMeta(),
		Data: func(f adminUserForm) map[string]any {
			if f.Profile == nil {
				f.Profile = &domainauth.Profile{ID: id}
			}
			return adminUserData(f)
		},
		OnError: h.logMutationError,
	})
}

func adminUserMeta() PageMeta {
	return PageMeta{Title: "Editar acesso", PageTitle: "Editar acesso", CurrentPage: PageAdminUserForm}
}

func adminUserData(f adminUserForm) map[string]any {
	return map[string]any{
		"Form":        f,
		"Roles":       []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleCollaborator},
		"Statuses":    []domainauth.Status{domainauth.StatusActive, domainauth.StatusPending, domainauth.StatusBlocked},
		"Permissions": domainauth.AllPermissions(),
		"Action":      "/admin/users/" + f.Profile.ID,
		"CancelURL":   "/admin/users",
	}
}

func viewerID(ctx context.Context) string {
	v, _ := ViewerFromContext(ctx)
	if p := v.Profile(); p != nil {
		return p.ID
	}
	return ""
}

// fieldErrorsFrom turns an application error into a single field error. Errors without a
// field are reported under fallback.
func fieldErrorsFrom(err error, fallback string) map[string]string {
	field := apperrors.GetField(err)
	if field == "" {
		field = fallback
	}
	return map[string]string{field: apperrors.UserMessage(err)}
}
