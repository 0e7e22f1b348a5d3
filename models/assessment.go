package models

import (
	"strconv"
	"strings"
	"time"
)

// FieldType defines the input type of an assessment field.
type FieldType string

const (
	FieldTypeText     FieldType = "text"     // Single-line text input
	FieldTypeNumber   FieldType = "number"   // Numeric input, optionally bounded
	FieldTypeSelect   FieldType = "select"   // Dropdown, single choice
	FieldTypeRadio    FieldType = "radio"    // Radio buttons, single choice
	FieldTypeCheckbox FieldType = "checkbox" // Checkboxes, multiple choice
	FieldTypeTextArea FieldType = "textarea" // Multi-line text input
	FieldTypeDate     FieldType = "date"     // Date picker
)

// IsValid reports whether t is one of the defined field types.
func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeSelect, FieldTypeRadio,
		FieldTypeCheckbox, FieldTypeTextArea, FieldTypeDate:
		return true
	}
	return false
}

// HasOptions reports whether fields of this type carry an option set.
func (t FieldType) HasOptions() bool {
	return t == FieldTypeSelect || t == FieldTypeRadio || t == FieldTypeCheckbox
}

// ValidationRules holds the optional constraints attached to a field.
// Min and Max are only meaningful for number fields.
// Pattern is declared in the schema but is currently not evaluated by the
// validator; it is reserved.
type ValidationRules struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
}

// AssessmentField defines one question within an assessment type.
type AssessmentField struct {
	ID         string           `json:"id"`
	Label      string           `json:"label"`
	Type       FieldType        `json:"type"`
	Required   bool             `json:"required"`
	Options    []string         `json:"options,omitempty"`    // Only for select/radio/checkbox fields
	Validation *ValidationRules `json:"validation,omitempty"` // Only meaningful for number fields
}

// Clone returns a deep copy of the field.
func (f AssessmentField) Clone() AssessmentField {
	c := f
	if f.Options != nil {
		c.Options = append([]string(nil), f.Options...)
	}
	if f.Validation != nil {
		v := *f.Validation
		if f.Validation.Min != nil {
			min := *f.Validation.Min
			v.Min = &min
		}
		if f.Validation.Max != nil {
			max := *f.Validation.Max
			v.Max = &max
		}
		c.Validation = &v
	}
	return c
}

// FieldList is an ordered list of assessment fields. The order is the display
// and response order and must be preserved through edits.
type FieldList []AssessmentField

// Clone returns a deep copy of the list.
func (l FieldList) Clone() FieldList {
	if l == nil {
		return nil
	}
	c := make(FieldList, len(l))
	for i, f := range l {
		c[i] = f.Clone()
	}
	return c
}

// ByID returns the field with the given id, or nil if no such field exists.
func (l FieldList) ByID(id string) *AssessmentField {
	for i := range l {
		if l[i].ID == id {
			return &l[i]
		}
	}
	return nil
}

// AssessmentType is the definition of one questionnaire template: its
// metadata plus the ordered field schemas.
type AssessmentType struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category" gorm:"index"`
	Fields      FieldList `json:"fields" gorm:"serializer:json"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the assessment type.
func (t AssessmentType) Clone() AssessmentType {
	c := t
	c.Fields = t.Fields.Clone()
	return c
}

// AssessmentTypeInput carries the operator-supplied parts of a new
// assessment type. Identity and timestamps are assigned by the repository.
type AssessmentTypeInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Fields      FieldList `json:"fields"`
}

// AssessmentTypeUpdate describes a partial update to an assessment type.
// Nil members are left unchanged.
type AssessmentTypeUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Fields      *FieldList `json:"fields,omitempty"`
}

// AnswerMap maps a field id to the respondent's answer value. Depending on
// the field type the value is a string, a number, or a list of strings
// (checkbox). Values arrive JSON-shaped, so numbers may come in as float64
// or as numeric strings and lists may come in as []interface{}.
type AnswerMap map[string]interface{}

// Clone returns a per-key copy of the map. Answer values are replaced
// wholesale on write, never mutated in place, so copying the values
// themselves is not needed.
func (m AnswerMap) Clone() AnswerMap {
	if m == nil {
		return nil
	}
	c := make(AnswerMap, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// IsAnswered reports whether the field has a non-empty answer: present, not
// nil, not an empty or blank string, and not an empty selection.
func (m AnswerMap) IsAnswered(fieldID string) bool {
	v, ok := m[fieldID]
	if !ok || v == nil {
		return false
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val) != ""
	case []string:
		return len(val) > 0
	case []interface{}:
		return len(val) > 0
	}
	return true
}

// Number returns the answer for fieldID as a float64 when it is present and
// parseable as a number.
func (m AnswerMap) Number(fieldID string) (float64, bool) {
	v, ok := m[fieldID]
	if !ok || v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// AssessmentResponse is one respondent's completed answer set for one
// assessment type. Responses are created only by the submit operation and
// are immutable afterwards; they are destroyed only when their assessment
// type is deleted.
type AssessmentResponse struct {
	ID               string    `json:"id" gorm:"primaryKey"`
	AssessmentTypeID string    `json:"assessmentTypeId" gorm:"index"`
	UserID           string    `json:"userId" gorm:"index"`
	Answers          AnswerMap `json:"responses" gorm:"serializer:json"`
	CompletedAt      time.Time `json:"completedAt"`
	Score            *int      `json:"score,omitempty"` // Completion percentage, fixed at submission time
}

// Clone returns a deep copy of the response.
func (r AssessmentResponse) Clone() AssessmentResponse {
	c := r
	c.Answers = r.Answers.Clone()
	if r.Score != nil {
		score := *r.Score
		c.Score = &score
	}
	return c
}

// InsightSeverity classifies an insight for presentation.
type InsightSeverity string

const (
	SeveritySuccess InsightSeverity = "success"
	SeverityGood    InsightSeverity = "good"
	SeverityWarning InsightSeverity = "warning"
	SeverityError   InsightSeverity = "error"
	SeverityInfo    InsightSeverity = "info"
)

// Insight is a derived, human-readable finding computed from a response and
// its assessment type. Insights are recomputed on every view, never stored.
type Insight struct {
	Severity    InsightSeverity `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
}
