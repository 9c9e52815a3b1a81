package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

func TestParseAnamnesisFields(t *testing.T) {
	fields, err := ParseAnamnesisFields([]string{" Pele = skin_type ", "", "Alergias=has_allergies"})
	require.NoError(t, err)
	assert.Equal(t, []AnamnesisField{
		{Label: "Pele", Expr: "skin_type"},
		{Label: "Alergias", Expr: "has_allergies"},
	}, fields)

	_, err = ParseAnamnesisFields([]string{"skin_type"})
	assert.Error(t, err)
	_, err = ParseAnamnesisFields([]string{"Pele="})
	assert.Error(t, err)
}

func TestNewAnamnesisSummarizer_InvalidExpression(t *testing.T) {
	_, err := NewAnamnesisSummarizer([]AnamnesisField{{Label: "x", Expr: "a[?"}})
	assert.Error(t, err)
}

func TestAnamnesisSummarizer_Summarize(t *testing.T) {
	s, err := NewAnamnesisSummarizer([]AnamnesisField{
		{Label: "Possui alergias?", Expr: "has_allergies"},
		{Label: "Quais alergias?", Expr: "allergies"},
		{Label: "Tipo de Pele", Expr: "skin_type"},
		{Label: "Procedimentos", Expr: "history[].name"},
		{Label: "Idade", Expr: "age"},
		{Label: "Ausente", Expr: "missing"},
	})
	require.NoError(t, err)

	data := json.RawMessage(`{
		"has_allergies": true,
		"allergies": "  dipirona ",
		"skin_type": "Mista",
		"history": [{"name": "Botox"}, {"name": "Peeling"}],
		"age": 34
	}`)
	got := s.Summarize(data)
	assert.Equal(t, []model.AnamnesisSummaryItem{
		{Label: "Possui alergias?", Value: "Sim"},
		{Label: "Quais alergias?", Value: "dipirona"},
		{Label: "Tipo de Pele", Value: "Mista"},
		{Label: "Procedimentos", Value: "Botox, Peeling"},
		{Label: "Idade", Value: "34"},
	}, got)
}

func TestAnamnesisSummarizer_DefaultsAndBadInput(t *testing.T) {
	s, err := NewAnamnesisSummarizer(nil)
	require.NoError(t, err)

	got := s.Summarize(json.RawMessage(`{"has_allergies": false, "allergies": ""}`))
	assert.Equal(t, []model.AnamnesisSummaryItem{{Label: "Possui alergias?", Value: "Não"}}, got)

	assert.Nil(t, s.Summarize(json.RawMessage(`not json`)))
	assert.Nil(t, s.Summarize(nil))

	var nilSummarizer *AnamnesisSummarizer
	assert.Nil(t, nilSummarizer.Summarize(json.RawMessage(`{}`)))
}

func TestNormalizeAnamnesis(t *testing.T) {
	out, err := NormalizeAnamnesis([]byte(`{ "skin_type" : "Seca" }`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"skin_type":"Seca"}`, string(out))

	for _, raw := range []string{`[]`, `"text"`, `null`, `{`} {
		_, err := NormalizeAnamnesis([]byte(raw))
		assert.True(t, apperrors.IsValidation(err), raw)
	}
}
