// Package core builds the template helpers shared by every dashboard template.
package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"time"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	"github.com/Killzin1000/quality-estetica2/internal/http/uiutil"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	// Location is the clinic time zone dates are rendered in. Defaults to UTC.
	Location *time.Location
	Now      func() time.Time
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	funcs := template.FuncMap{
		"sectionTmpl": deps.ContentTemplateFor,
		"add":         func(a, b int) int { return a + b },
		"sub":         func(a, b int) int { return a - b },
		"truncate":    uiutil.TruncateWithEllipsis,
		"initials":    uiutil.Initials,
		"dict":        dict,
		"fieldError":  lookup,
		"value":       lookup,
		"list":        func(items ...string) []string { return items },

		"money":      func(c model.Cents) string { return c.String() },
		"moneyInput": func(c model.Cents) string { return c.Input() },

		"date":      func(ts any) string { return withTime(ts, func(t time.Time) string { return uiutil.FormatDate(t, loc) }) },
		"datetime":  func(ts any) string { return withTime(ts, func(t time.Time) string { return uiutil.FormatDateTime(t, loc) }) },
		"clock":     func(ts any) string { return withTime(ts, func(t time.Time) string { return uiutil.FormatTime(t, loc) }) },
		"longDate":  func(ts any) string { return withTime(ts, func(t time.Time) string { return uiutil.LongDate(t, loc) }) },
		"weekday":   func(t time.Time) string { return uiutil.Weekday(t.In(loc)) },
		"dateInput": func(ts any) string { return withTime(ts, func(t time.Time) string { return t.In(loc).Format("2006-01-02") }) },
		"datetimeInput": func(ts any) string {
			return withTime(ts, func(t time.Time) string { return t.In(loc).Format("2006-01-02T15:04") })
		},
		"relTime": func(ts any) string {
			return withTime(ts, func(t time.Time) string { return uiutil.FriendlyRelativeTime(t, now(), loc) })
		},

		"permLabel":   func(p domainauth.Permission) string { return p.Label() },
		"permissions": domainauth.AllPermissions,
		"hasPerm":     func(s domainauth.PermissionSet, p domainauth.Permission) bool { return s.Has(p) },
		"statusLabel": StatusLabel,
		"roleLabel":   RoleLabel,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own html/template set; values were escaped during ExecuteTemplate.
		return template.HTML(buf.String()), nil
	}

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// StatusLabel returns the Portuguese label of a profile status.
func StatusLabel(s domainauth.Status) string {
	switch s {
	case domainauth.StatusActive:
		return "Ativo"
	case domainauth.StatusPending:
		return "Pendente"
	case domainauth.StatusBlocked:
		return "Bloqueado"
	default:
		return string(s)
	}
}

// RoleLabel returns the Portuguese label of a role.
func RoleLabel(r domainauth.Role) string {
	switch r {
	case domainauth.RoleAdmin:
		return "Administrador"
	case domainauth.RoleCollaborator:
		return "Colaborador"
	default:
		return string(r)
	}
}

// lookup reads key from a map[string]string that may be absent from the template data.
func lookup(m any, key string) string {
	if mm, ok := m.(map[string]string); ok {
		return mm[key]
	}
	return ""
}

// dict builds a map from alternating key/value arguments, for passing several values to a partial.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

func withTime(ts any, f func(time.Time) string) string {
	var t0 time.Time
	switch v := ts.(type) {
	case time.Time:
		t0 = v
	case *time.Time:
		if v != nil {
			t0 = *v
		}
	default:
		return ""
	}
	if t0.IsZero() {
		return ""
	}
	return f(t0)
}
