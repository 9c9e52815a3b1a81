package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

// AnamnesisField labels one JMESPath expression evaluated against an anamnesis form.
type AnamnesisField struct {
	Label string
	Expr  string
}

// DefaultAnamnesisFields summarises the fields of the built-in anamnesis form.
func DefaultAnamnesisFields() []AnamnesisField {
	return []AnamnesisField{
		{Label: "Possui alergias?", Expr: "has_allergies"},
		{Label: "Quais alergias?", Expr: "allergies"},
		{Label: "Tipo de Pele", Expr: "skin_type"},
		{Label: "Uso de medicamentos?", Expr: "medications"},
	}
}

// ParseAnamnesisFields parses "Label=expression" entries as found in configuration.
func ParseAnamnesisFields(entries []string) ([]AnamnesisField, error) {
	out := make([]AnamnesisField, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		label, expr, ok := strings.Cut(e, "=")
		label, expr = strings.TrimSpace(label), strings.TrimSpace(expr)
		if !ok || label == "" || expr == "" {
			return nil, fmt.Errorf("anamnesis summary entry %q: want Label=expression", e)
		}
		out = append(out, AnamnesisField{Label: label, Expr: expr})
	}
	return out, nil
}

type compiledField struct {
	label string
	expr  jmespath.JMESPath
}

// AnamnesisSummarizer extracts labelled values from the latest anamnesis record.
type AnamnesisSummarizer struct {
	fields []compiledField
}

// NewAnamnesisSummarizer compiles fields. An empty list uses DefaultAnamnesisFields.
func NewAnamnesisSummarizer(fields []AnamnesisField) (*AnamnesisSummarizer, error) {
	if len(fields) == 0 {
		fields = DefaultAnamnesisFields()
	}
	s := &AnamnesisSummarizer{fields: make([]compiledField, 0, len(fields))}
	for _, f := range fields {
		c, err := jmespath.Compile(f.Expr)
		if err != nil {
			return nil, fmt.Errorf("compile %q for %q: %w", f.Expr, f.Label, err)
		}
		s.fields = append(s.fields, compiledField{label: f.Label, expr: c})
	}
	return s, nil
}

// Summarize evaluates every field against data. Fields that resolve to null are skipped.
func (s *AnamnesisSummarizer) Summarize(data json.RawMessage) []model.AnamnesisSummaryItem {
	if s == nil || len(data) == 0 {
		return nil
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	var out []model.AnamnesisSummaryItem
	for _, f := range s.fields {
		v, err := f.expr.Search(doc)
		if err != nil || v == nil {
			continue
		}
		if text := formatSummaryValue(v); text != "" {
			out = append(out, model.AnamnesisSummaryItem{Label: f.label, Value: text})
		}
	}
	return out
}

func formatSummaryValue(v any) string {
	switch t := v.(type) {
	case bool:
		if t {
			return "Sim"
		}
		return "Não"
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := formatSummaryValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// NormalizeAnamnesis checks that raw is a JSON object and returns it compacted.
func NormalizeAnamnesis(raw []byte) ([]byte, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, apperrors.Validation("A anamnese deve ser um objeto JSON.")
	}
	return json.Marshal(obj)
}
