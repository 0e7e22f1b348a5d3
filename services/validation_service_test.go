package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kannan-2002/Assessment-Management-System/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestValidateField_Required(t *testing.T) {
	t.Run("Empty values fail required fields of every type", func(t *testing.T) {
		cases := []struct {
			name  string
			typ   models.FieldType
			value interface{}
		}{
			{"nil text", models.FieldTypeText, nil},
			{"blank string", models.FieldTypeText, "   "},
			{"blank textarea", models.FieldTypeTextArea, ""},
			{"nil number", models.FieldTypeNumber, nil},
			{"no selection", models.FieldTypeSelect, ""},
			{"no radio choice", models.FieldTypeRadio, nil},
			{"empty checkbox list", models.FieldTypeCheckbox, []string{}},
			{"empty interface list", models.FieldTypeCheckbox, []interface{}{}},
			{"blank date", models.FieldTypeDate, ""},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				field := models.AssessmentField{ID: "f1", Label: "Field", Type: tc.typ, Required: true}
				kind, ok := ValidateField(field, tc.value)
				assert.False(t, ok)
				assert.Equal(t, models.ErrorKindMissingRequired, kind)
			})
		}
	})

	t.Run("Empty values pass optional fields", func(t *testing.T) {
		field := models.AssessmentField{ID: "f1", Label: "Field", Type: models.FieldTypeNumber, Required: false}
		_, ok := ValidateField(field, nil)
		assert.True(t, ok)

		_, ok = ValidateField(field, "")
		assert.True(t, ok)
	})
}

func TestValidateField_Number(t *testing.T) {
	field := models.AssessmentField{
		ID:       "age",
		Label:    "Age",
		Type:     models.FieldTypeNumber,
		Required: true,
		Validation: &models.ValidationRules{
			Min: floatPtr(1),
			Max: floatPtr(120),
		},
	}

	t.Run("Non-numeric input is rejected", func(t *testing.T) {
		for _, v := range []interface{}{"abc", "12abc", "NaN", "Inf"} {
			kind, ok := ValidateField(field, v)
			assert.False(t, ok, "value %v should be rejected", v)
			assert.Equal(t, models.ErrorKindNotANumber, kind)
		}
	})

	t.Run("Bounds are a closed interval", func(t *testing.T) {
		for _, v := range []interface{}{1.0, 120.0, "1", "120", 60} {
			_, ok := ValidateField(field, v)
			assert.True(t, ok, "value %v should be accepted", v)
		}

		kind, ok := ValidateField(field, 0.5)
		assert.False(t, ok)
		assert.Equal(t, models.ErrorKindBelowMin, kind)

		kind, ok = ValidateField(field, "121")
		assert.False(t, ok)
		assert.Equal(t, models.ErrorKindAboveMax, kind)
	})

	t.Run("Required check wins over number parsing", func(t *testing.T) {
		kind, ok := ValidateField(field, "")
		assert.False(t, ok)
		assert.Equal(t, models.ErrorKindMissingRequired, kind)
	})

	t.Run("Numeric strings are parsed for optional fields too", func(t *testing.T) {
		optional := models.AssessmentField{
			ID:         "weight",
			Label:      "Weight",
			Type:       models.FieldTypeNumber,
			Validation: &models.ValidationRules{Min: floatPtr(20)},
		}
		kind, ok := ValidateField(optional, "5")
		assert.False(t, ok)
		assert.Equal(t, models.ErrorKindBelowMin, kind)

		_, ok = ValidateField(optional, nil)
		assert.True(t, ok, "optional number may be left empty")
	})
}

func TestValidateResponses(t *testing.T) {
	typ := &models.AssessmentType{
		ID:    "as_test",
		Title: "Test",
		Fields: models.FieldList{
			{ID: "name", Label: "Name", Type: models.FieldTypeText, Required: true},
			{ID: "age", Label: "Age", Type: models.FieldTypeNumber, Required: true, Validation: &models.ValidationRules{Min: floatPtr(1), Max: floatPtr(120)}},
			{ID: "notes", Label: "Notes", Type: models.FieldTypeTextArea},
		},
	}

	t.Run("All failures are reported together", func(t *testing.T) {
		errs := ValidateResponses(typ, models.AnswerMap{"age": "130"})
		assert.Len(t, errs, 2)
		assert.Equal(t, models.ErrorKindMissingRequired, errs["name"])
		assert.Equal(t, models.ErrorKindAboveMax, errs["age"])
	})

	t.Run("Valid submission yields no errors", func(t *testing.T) {
		errs := ValidateResponses(typ, models.AnswerMap{"name": "Alice", "age": 42})
		assert.Empty(t, errs)
	})

	t.Run("Optional fields may be omitted", func(t *testing.T) {
		errs := ValidateResponses(typ, models.AnswerMap{"name": "Bob", "age": "1"})
		assert.Empty(t, errs)
	})
}
