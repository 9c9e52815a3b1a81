// Package validation holds form-level validators whose messages are shown next to form fields.
package validation

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
)

// DateLayout is the layout of <input type="date"> values.
const DateLayout = "2006-01-02"

// Validator is a function that validates a string value and returns an error message if invalid.
type Validator func(v string) string

// Required validates that a field is not empty and does not exceed maxLen characters.
func Required(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " é obrigatório."
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s deve ter no máximo %d caracteres.", fieldName, maxLen)
		}
		return ""
	}
}

// MinLength validates that a field has at least minLen characters. Whitespace counts.
func MinLength(fieldName string, minLen int) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(v) < minLen {
			return fmt.Sprintf("%s deve ter pelo menos %d caracteres.", fieldName, minLen)
		}
		return ""
	}
}

// Email validates a bare e-mail address.
func Email(fieldName string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " é obrigatório."
		}
		addr, err := mail.ParseAddress(v)
		if err != nil || addr.Address != v {
			return "Informe um e-mail válido."
		}
		return ""
	}
}

// IntRange validates that an optional field, when present, is an integer between minVal and maxVal.
func IntRange(fieldName string, minVal, maxVal int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		i, err := strconv.Atoi(v)
		if err != nil {
			return fieldName + " deve ser um número."
		}
		if i < minVal || i > maxVal {
			return fmt.Sprintf("%s deve estar entre %d e %d.", fieldName, minVal, maxVal)
		}
		return ""
	}
}

// Money validates an optional monetary amount as accepted by model.ParseCents.
func Money(fieldName string) Validator {
	return func(v string) string {
		if _, err := model.ParseCents(v); err != nil {
			return fieldName + " deve ser um valor em reais."
		}
		return ""
	}
}

// Date validates an optional date in DateLayout.
func Date(fieldName string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		if _, err := time.Parse(DateLayout, v); err != nil {
			return fieldName + " deve ser uma data válida."
		}
		return ""
	}
}

// OneOf validates that a field matches one of the provided options exactly.
func OneOf(fieldName string, options []string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		for _, opt := range options {
			if v == opt {
				return ""
			}
		}
		return fieldName + " inválido."
	}
}

// Optional validates that an optional field does not exceed maxLen characters if provided.
func Optional(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s deve ter no máximo %d caracteres.", fieldName, maxLen)
		}
		return ""
	}
}

// FieldValidator provides a fluent API for validating multiple fields.
type FieldValidator struct {
	errors map[string]string
}

// New creates a new FieldValidator instance.
func New() *FieldValidator {
	return &FieldValidator{errors: make(map[string]string)}
}

// Validate validates a field with one or more validators, stopping at the first error.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	for _, v := range validators {
		if err := v(value); err != "" {
			fv.errors[field] = err
			break
		}
	}
	return fv
}

// Add records an error for field unless one is already present.
func (fv *FieldValidator) Add(field, msg string) *FieldValidator {
	if _, ok := fv.errors[field]; !ok {
		fv.errors[field] = msg
	}
	return fv
}

// Valid reports whether no errors were recorded.
func (fv *FieldValidator) Valid() bool { return len(fv.errors) == 0 }

// Errors returns the accumulated validation errors.
func (fv *FieldValidator) Errors() map[string]string {
	return fv.errors
}
