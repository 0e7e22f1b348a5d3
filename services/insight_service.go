package services

import (
	"fmt"
	"log"

	"github.com/kannan-2002/Assessment-Management-System/models"
)

// InsightRule is one pluggable interpretation rule. Matches decides whether
// the rule applies to an assessment type; Derive produces zero or more
// insights from a response. Rules never fail: malformed or missing answers
// simply yield no insight.
type InsightRule struct {
	Name    string
	Matches func(typ *models.AssessmentType) bool
	Derive  func(typ *models.AssessmentType, resp *models.AssessmentResponse) []models.Insight
}

// InsightService derives human-readable findings from a completed response.
// Template-specific interpretation lives in registered rules, not in the
// engine, so new assessment templates can supply their own rules without
// engine changes.
type InsightService interface {
	DeriveInsights(typ *models.AssessmentType, resp *models.AssessmentResponse) []models.Insight
	Register(rule InsightRule)
}

type insightService struct {
	rules []InsightRule
}

// NewInsightService creates an InsightService with the default rules: the
// completion-quality rule plus the BMI and blood-pressure rules for the
// built-in health and cardiac templates.
func NewInsightService() InsightService {
	s := &insightService{}
	s.Register(completionRule())
	s.Register(bmiRule())
	s.Register(bloodPressureRule())
	return s
}

// Register appends a rule. Rules are evaluated in registration order.
func (s *insightService) Register(rule InsightRule) {
	s.rules = append(s.rules, rule)
	log.Printf("INFO: [InsightService] Registered insight rule '%s' (%d total).", rule.Name, len(s.rules))
}

// DeriveInsights evaluates every matching rule and concatenates the results
// in registration order. Pure: nothing is persisted, results are recomputed
// on every view.
func (s *insightService) DeriveInsights(typ *models.AssessmentType, resp *models.AssessmentResponse) []models.Insight {
	insights := make([]models.Insight, 0, len(s.rules))
	for _, rule := range s.rules {
		if rule.Matches != nil && !rule.Matches(typ) {
			continue
		}
		insights = append(insights, rule.Derive(typ, resp)...)
	}
	return insights
}

// completionRule interprets the stored completion score. It applies to every
// assessment type but yields nothing when the score is absent.
func completionRule() InsightRule {
	return InsightRule{
		Name:    "completion-quality",
		Matches: func(*models.AssessmentType) bool { return true },
		Derive: func(_ *models.AssessmentType, resp *models.AssessmentResponse) []models.Insight {
			if resp.Score == nil {
				return nil
			}
			switch score := *resp.Score; {
			case score >= 90:
				return []models.Insight{{
					Severity:    models.SeveritySuccess,
					Title:       "Excellent Completion",
					Description: "You provided comprehensive information across all assessment areas.",
				}}
			case score >= 70:
				return []models.Insight{{
					Severity:    models.SeverityGood,
					Title:       "Good Completion",
					Description: "Most assessment areas were completed thoroughly.",
				}}
			default:
				return []models.Insight{{
					Severity:    models.SeverityWarning,
					Title:       "Partial Completion",
					Description: "Consider completing remaining fields for a more comprehensive assessment.",
				}}
			}
		},
	}
}

// bmiRule computes body mass index for the built-in Health & Fitness
// template when both height and weight answers are numeric.
func bmiRule() InsightRule {
	return InsightRule{
		Name:    "bmi",
		Matches: func(typ *models.AssessmentType) bool { return typ.ID == models.TemplateHealthFitnessID },
		Derive: func(_ *models.AssessmentType, resp *models.AssessmentResponse) []models.Insight {
			heightCm, okH := resp.Answers.Number("height")
			weightKg, okW := resp.Answers.Number("weight")
			if !okH || !okW || heightCm <= 0 || weightKg <= 0 {
				return nil
			}
			bmi := CalculateBMI(heightCm, weightKg)
			return []models.Insight{{
				Severity:    models.SeverityInfo,
				Title:       fmt.Sprintf("BMI: %.1f", bmi),
				Description: BMICategory(bmi),
			}}
		},
	}
}

// bloodPressureRule categorizes blood pressure for the built-in Cardiac
// template when both systolic and diastolic answers are present.
func bloodPressureRule() InsightRule {
	return InsightRule{
		Name:    "blood-pressure",
		Matches: func(typ *models.AssessmentType) bool { return typ.ID == models.TemplateCardiacID },
		Derive: func(_ *models.AssessmentType, resp *models.AssessmentResponse) []models.Insight {
			systolic, okS := resp.Answers.Number("blood_pressure_systolic")
			diastolic, okD := resp.Answers.Number("blood_pressure_diastolic")
			if !okS || !okD {
				return nil
			}
			severity, description := BloodPressureCategory(systolic, diastolic)
			return []models.Insight{{
				Severity:    severity,
				Title:       fmt.Sprintf("Blood Pressure: %.0f/%.0f mmHg", systolic, diastolic),
				Description: description,
			}}
		},
	}
}

// CalculateBMI computes body mass index from height in centimeters and
// weight in kilograms.
func CalculateBMI(heightCm, weightKg float64) float64 {
	heightM := heightCm / 100
	return weightKg / (heightM * heightM)
}

// BMICategory maps a BMI value to its standard category.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal weight"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}

// BloodPressureCategory classifies a blood pressure reading. Thresholds are
// evaluated in order; the first matching stage wins.
func BloodPressureCategory(systolic, diastolic float64) (models.InsightSeverity, string) {
	switch {
	case systolic < 120 && diastolic < 80:
		return models.SeveritySuccess, "Normal blood pressure"
	case systolic < 130 && diastolic < 80:
		return models.SeverityWarning, "Elevated blood pressure"
	case (systolic >= 130 && systolic < 140) || (diastolic >= 80 && diastolic < 90):
		return models.SeverityWarning, "Stage 1 Hypertension"
	default:
		return models.SeverityError, "Stage 2 Hypertension - Consult a physician"
	}
}
