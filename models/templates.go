package models

import "time"

// Identifiers of the assessment types shipped with the system. The insight
// rules for BMI and blood pressure register against these templates.
const (
	TemplateHealthFitnessID = "as_hr_02"
	TemplateCardiacID       = "as_card_01"
)

func f64(v float64) *float64 { return &v }

// BuiltinAssessmentTypes returns the assessment types seeded on first start:
// a Health & Fitness assessment and a Cardiac assessment.
func BuiltinAssessmentTypes() []AssessmentType {
	createdHealth := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	createdCardiac := time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC)

	return []AssessmentType{
		{
			ID:          TemplateHealthFitnessID,
			Title:       "Health & Fitness Assessment",
			Description: "Comprehensive health and fitness evaluation",
			Category:    "Health",
			Fields: FieldList{
				{ID: "age", Label: "Age", Type: FieldTypeNumber, Required: true, Validation: &ValidationRules{Min: f64(1), Max: f64(120)}},
				{ID: "gender", Label: "Gender", Type: FieldTypeRadio, Required: true, Options: []string{"Male", "Female", "Other"}},
				{ID: "height", Label: "Height (cm)", Type: FieldTypeNumber, Required: true, Validation: &ValidationRules{Min: f64(50), Max: f64(250)}},
				{ID: "weight", Label: "Weight (kg)", Type: FieldTypeNumber, Required: true, Validation: &ValidationRules{Min: f64(20), Max: f64(300)}},
				{ID: "activity_level", Label: "Activity Level", Type: FieldTypeSelect, Required: true, Options: []string{"Sedentary", "Lightly Active", "Moderately Active", "Very Active", "Extremely Active"}},
				{ID: "medical_conditions", Label: "Medical Conditions", Type: FieldTypeCheckbox, Required: false, Options: []string{"Diabetes", "Hypertension", "Heart Disease", "Asthma", "None"}},
				{ID: "fitness_goals", Label: "Fitness Goals", Type: FieldTypeTextArea, Required: true},
				{ID: "exercise_frequency", Label: "Exercise Frequency (per week)", Type: FieldTypeNumber, Required: true, Validation: &ValidationRules{Min: f64(0), Max: f64(14)}},
			},
			CreatedAt: createdHealth,
			UpdatedAt: createdHealth,
		},
		{
			ID:          TemplateCardiacID,
			Title:       "Cardiac Assessment",
			Description: "Cardiovascular health evaluation and risk assessment",
			Category:    "Medical",
			Fields: FieldList{
				{ID: "patient_id", Label: "Patient ID", Type: FieldTypeText, Required: true},
				{ID: "blood_pressure_systolic", Label: "Systolic BP (mmHg)", Type: FieldTypeNumber, Required: true, Validation: &ValidationRules{Min: f64(70), Max: f64(250)}},
				{ID: "blood_pressure_diastolic", Label: "Diastolic BP (mmHg)", Type: FieldTypeNumber, Required: true, Validation: &ValidationRules{Min: f64(40), Max: f64(150)}},
				{ID: "heart_rate", Label: "Heart Rate (bpm)", Type: FieldTypeNumber, Required: true, Validation: &ValidationRules{Min: f64(30), Max: f64(200)}},
				{ID: "cholesterol_total", Label: "Total Cholesterol (mg/dL)", Type: FieldTypeNumber, Required: true, Validation: &ValidationRules{Min: f64(100), Max: f64(400)}},
				{ID: "cholesterol_hdl", Label: "HDL Cholesterol (mg/dL)", Type: FieldTypeNumber, Required: true, Validation: &ValidationRules{Min: f64(20), Max: f64(100)}},
				{ID: "cholesterol_ldl", Label: "LDL Cholesterol (mg/dL)", Type: FieldTypeNumber, Required: true, Validation: &ValidationRules{Min: f64(50), Max: f64(300)}},
				{ID: "smoking_status", Label: "Smoking Status", Type: FieldTypeSelect, Required: true, Options: []string{"Never", "Former", "Current"}},
				{ID: "family_history", Label: "Family History of Heart Disease", Type: FieldTypeRadio, Required: true, Options: []string{"Yes", "No"}},
				{ID: "chest_pain", Label: "Chest Pain Symptoms", Type: FieldTypeCheckbox, Required: false, Options: []string{"At Rest", "During Exercise", "After Meals", "None"}},
				{ID: "assessment_date", Label: "Assessment Date", Type: FieldTypeDate, Required: true},
			},
			CreatedAt: createdCardiac,
			UpdatedAt: createdCardiac,
		},
	}
}
