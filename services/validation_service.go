package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/kannan-2002/Assessment-Management-System/models"
)

// ValidateField checks one candidate answer value against its field schema.
// It is a pure function used both reactively (per keystroke, to clear or set
// a single field's error) and exhaustively at submit time.
//
// Rules are evaluated in a fixed order, first match wins:
//  1. required but empty -> missing_required
//  2. number field, non-empty but not a finite number -> not_a_number
//  3. number field, value below Min -> below_min; above Max -> above_max
//  4. otherwise the value is accepted
//
// Non-number values (text, date, select, radio, checkbox) are accepted as-is
// beyond the required check; the schema's Pattern metadata is reserved and
// deliberately not evaluated here.
func ValidateField(field models.AssessmentField, value interface{}) (models.ErrorKind, bool) {
	if field.Required && isEmptyAnswer(value) {
		return models.ErrorKindMissingRequired, false
	}

	if field.Type == models.FieldTypeNumber && !isEmptyAnswer(value) {
		num, ok := toNumber(value)
		if !ok {
			return models.ErrorKindNotANumber, false
		}
		if field.Validation != nil {
			if field.Validation.Min != nil && num < *field.Validation.Min {
				return models.ErrorKindBelowMin, false
			}
			if field.Validation.Max != nil && num > *field.Validation.Max {
				return models.ErrorKindAboveMax, false
			}
		}
	}

	return "", true
}

// ValidateResponses validates every field of the assessment type against the
// answer map and returns the complete set of per-field failures. An empty
// map means the submission is acceptable as a whole.
func ValidateResponses(typ *models.AssessmentType, answers models.AnswerMap) map[string]models.ErrorKind {
	fieldErrors := make(map[string]models.ErrorKind)
	for _, field := range typ.Fields {
		if kind, ok := ValidateField(field, answers[field.ID]); !ok {
			fieldErrors[field.ID] = kind
		}
	}
	return fieldErrors
}

// isEmptyAnswer reports whether the value counts as "no answer": absent,
// nil, a blank string, or an empty selection.
func isEmptyAnswer(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []interface{}:
		return len(v) == 0
	}
	return false
}

// toNumber coerces a JSON-shaped answer value to a finite float64.
func toNumber(value interface{}) (float64, bool) {
	var num float64
	switch v := value.(type) {
	case float64:
		num = v
	case int:
		num = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		num = parsed
	default:
		return 0, false
	}
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, false
	}
	return num, true
}
