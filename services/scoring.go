package services

import (
	"math"

	"github.com/kannan-2002/Assessment-Management-System/models"
)

// AnsweredCount returns how many of the type's fields have a non-empty
// answer. Answer keys that no longer match a field id do not count.
func AnsweredCount(typ *models.AssessmentType, answers models.AnswerMap) int {
	count := 0
	for _, field := range typ.Fields {
		if answers.IsAnswered(field.ID) {
			count++
		}
	}
	return count
}

// CompletionScore computes the completion percentage of a submission:
// round(100 * answered / total fields). It is a completion-rate proxy, not a
// correctness score; the schema carries no correct-answer concept. A type
// with no fields scores 0.
//
// The score is computed once at submission time, stored on the response, and
// never recomputed even if the type is edited later.
func CompletionScore(typ *models.AssessmentType, answers models.AnswerMap) int {
	if len(typ.Fields) == 0 {
		return 0
	}
	answered := AnsweredCount(typ, answers)
	return int(math.Round(float64(answered) / float64(len(typ.Fields)) * 100))
}
