package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/kannan-2002/Assessment-Management-System/models"
	"github.com/kannan-2002/Assessment-Management-System/repository"
	"github.com/kannan-2002/Assessment-Management-System/utils"
)

// AssessmentService defines the operations on assessment types and
// responses. Schema-management operations (create/update/delete) are gated
// on the admin role and rejected with models.ErrForbidden for other callers,
// even when invoked directly.
type AssessmentService interface {
	CreateAssessmentType(actor models.Actor, input models.AssessmentTypeInput) (*models.AssessmentType, error)
	UpdateAssessmentType(actor models.Actor, id string, updates models.AssessmentTypeUpdate) (*models.AssessmentType, error)
	DeleteAssessmentType(actor models.Actor, id string) error
	GetAssessmentType(id string) (*models.AssessmentType, error)
	ListAssessmentTypes() []models.AssessmentType
	SubmitResponse(actor models.Actor, typeID string, answers models.AnswerMap) (*models.AssessmentResponse, error)
	GetResponse(id string) (*models.AssessmentResponse, error)
	GetUserResponses(userID string) []models.AssessmentResponse
}

type assessmentService struct {
	repo repository.AssessmentRepository
}

// NewAssessmentService creates a new instance of AssessmentService.
func NewAssessmentService(repo repository.AssessmentRepository) AssessmentService {
	return &assessmentService{repo: repo}
}

// CreateAssessmentType validates the operator input and stores a new
// assessment type.
func (s *assessmentService) CreateAssessmentType(actor models.Actor, input models.AssessmentTypeInput) (*models.AssessmentType, error) {
	if !actor.IsAdmin() {
		log.Printf("WARN: [AssessmentService] User '%s' (role '%s') attempted to create an assessment type.", actor.ID, actor.Role)
		return nil, models.ErrForbidden
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	category := strings.TrimSpace(input.Category)
	if title == "" || description == "" || category == "" {
		return nil, fmt.Errorf("%w: title, description and category are required", models.ErrInvalidInput)
	}

	fields, err := normalizeFields(input.Fields)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: an assessment type needs at least one field", models.ErrInvalidInput)
	}

	created, err := s.repo.CreateAssessmentType(models.AssessmentType{
		Title:       title,
		Description: description,
		Category:    category,
		Fields:      fields,
	})
	if err != nil {
		log.Printf("ERROR: [AssessmentService] Failed to create assessment type '%s': %v", title, err)
		return nil, fmt.Errorf("failed to create assessment type: %w", err)
	}
	log.Printf("INFO: [AssessmentService] User '%s' created assessment type '%s'.", actor.ID, created.ID)
	return created, nil
}

// UpdateAssessmentType applies a partial update to an existing type.
func (s *assessmentService) UpdateAssessmentType(actor models.Actor, id string, updates models.AssessmentTypeUpdate) (*models.AssessmentType, error) {
	if !actor.IsAdmin() {
		log.Printf("WARN: [AssessmentService] User '%s' (role '%s') attempted to update assessment type '%s'.", actor.ID, actor.Role, id)
		return nil, models.ErrForbidden
	}

	if updates.Fields != nil {
		fields, err := normalizeFields(*updates.Fields)
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: an assessment type needs at least one field", models.ErrInvalidInput)
		}
		updates.Fields = &fields
	}

	updated, err := s.repo.UpdateAssessmentType(id, updates)
	if err != nil {
		if !errors.Is(err, models.ErrAssessmentTypeNotFound) {
			log.Printf("ERROR: [AssessmentService] Failed to update assessment type '%s': %v", id, err)
		}
		return nil, err
	}
	log.Printf("INFO: [AssessmentService] User '%s' updated assessment type '%s'.", actor.ID, id)
	return updated, nil
}

// DeleteAssessmentType removes a type; the repository cascades the delete to
// every response referencing it.
func (s *assessmentService) DeleteAssessmentType(actor models.Actor, id string) error {
	if !actor.IsAdmin() {
		log.Printf("WARN: [AssessmentService] User '%s' (role '%s') attempted to delete assessment type '%s'.", actor.ID, actor.Role, id)
		return models.ErrForbidden
	}
	if err := s.repo.DeleteAssessmentType(id); err != nil {
		if !errors.Is(err, models.ErrAssessmentTypeNotFound) {
			log.Printf("ERROR: [AssessmentService] Failed to delete assessment type '%s': %v", id, err)
		}
		return err
	}
	log.Printf("INFO: [AssessmentService] User '%s' deleted assessment type '%s'.", actor.ID, id)
	return nil
}

// GetAssessmentType returns the type with the given id.
func (s *assessmentService) GetAssessmentType(id string) (*models.AssessmentType, error) {
	return s.repo.GetAssessmentType(id)
}

// ListAssessmentTypes returns all assessment types.
func (s *assessmentService) ListAssessmentTypes() []models.AssessmentType {
	return s.repo.ListAssessmentTypes()
}

// SubmitResponse is the one-shot submit operation: every field is validated
// against the current schema, and either all pass and exactly one scored
// response is persisted, or the complete per-field error set is returned and
// nothing is stored.
func (s *assessmentService) SubmitResponse(actor models.Actor, typeID string, answers models.AnswerMap) (*models.AssessmentResponse, error) {
	typ, err := s.repo.GetAssessmentType(typeID)
	if err != nil {
		log.Printf("WARN: [AssessmentService] Submit against unknown assessment type '%s' by user '%s'.", typeID, actor.ID)
		return nil, err
	}

	// Answer keys must reference current field ids; anything else is dropped
	// before validation so the stored response upholds the referential
	// invariant.
	known := make(models.AnswerMap, len(answers))
	for _, field := range typ.Fields {
		if v, ok := answers[field.ID]; ok {
			known[field.ID] = v
		}
	}

	if fieldErrors := ValidateResponses(typ, known); len(fieldErrors) > 0 {
		log.Printf("INFO: [AssessmentService] Submission for type '%s' by user '%s' rejected: %d invalid field(s).", typeID, actor.ID, len(fieldErrors))
		return nil, &models.ValidationError{FieldErrors: fieldErrors}
	}

	score := CompletionScore(typ, known)
	stored, err := s.repo.SubmitResponse(models.AssessmentResponse{
		AssessmentTypeID: typeID,
		UserID:           actor.ID,
		Answers:          known,
		Score:            &score,
	})
	if err != nil {
		log.Printf("ERROR: [AssessmentService] Failed to store response for type '%s' by user '%s': %v", typeID, actor.ID, err)
		return nil, fmt.Errorf("failed to store response: %w", err)
	}
	log.Printf("INFO: [AssessmentService] User '%s' submitted response '%s' for type '%s' with score %d.", actor.ID, stored.ID, typeID, score)
	return stored, nil
}

// GetResponse returns the response with the given id.
func (s *assessmentService) GetResponse(id string) (*models.AssessmentResponse, error) {
	return s.repo.GetResponse(id)
}

// GetUserResponses returns the user's responses in submission order.
func (s *assessmentService) GetUserResponses(userID string) []models.AssessmentResponse {
	return s.repo.GetResponsesByUserID(userID)
}

// normalizeFields drops fields with blank labels, assigns ids where the
// operator left them empty, and checks structural consistency: valid kind,
// unique ids, options present exactly for choice kinds.
func normalizeFields(fields models.FieldList) (models.FieldList, error) {
	out := make(models.FieldList, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, field := range fields {
		f := field.Clone()
		f.Label = strings.TrimSpace(f.Label)
		if f.Label == "" {
			continue
		}
		if !f.Type.IsValid() {
			return nil, fmt.Errorf("%w: field '%s' has unknown type '%s'", models.ErrInvalidInput, f.Label, f.Type)
		}
		if f.ID == "" {
			f.ID = utils.NewID("field")
		}
		if seen[f.ID] {
			return nil, fmt.Errorf("%w: duplicate field id '%s'", models.ErrInvalidInput, f.ID)
		}
		seen[f.ID] = true
		if f.Type.HasOptions() {
			if len(f.Options) == 0 {
				return nil, fmt.Errorf("%w: field '%s' of type '%s' needs at least one option", models.ErrInvalidInput, f.Label, f.Type)
			}
		} else {
			f.Options = nil
		}
		if f.Type != models.FieldTypeNumber && f.Validation != nil {
			// Bounds only mean something on number fields; keep Pattern as
			// declared since it is reserved schema metadata.
			f.Validation.Min = nil
			f.Validation.Max = nil
		}
		out = append(out, f)
	}
	return out, nil
}
