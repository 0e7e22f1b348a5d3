package repository

import (
	"fmt"
	"log"

	"github.com/kannan-2002/Assessment-Management-System/models"

	"gorm.io/gorm"
)

// SnapshotStore is the persistence collaborator for the assessment
// repository. Load is called once on start and returns the full collections
// (empty when nothing has been persisted yet); Save receives the full
// updated collection after every mutation.
type SnapshotStore interface {
	LoadAssessmentTypes() ([]models.AssessmentType, error)
	LoadResponses() ([]models.AssessmentResponse, error)
	SaveAssessmentTypes(types []models.AssessmentType) error
	SaveResponses(responses []models.AssessmentResponse) error
}

type gormSnapshotStore struct {
	db *gorm.DB
}

// NewSnapshotStore creates a GORM-backed SnapshotStore. Field lists and
// answer maps are serialized as JSON columns; the encoding is opaque to the
// repository.
func NewSnapshotStore(db *gorm.DB) SnapshotStore {
	return &gormSnapshotStore{db: db}
}

// LoadAssessmentTypes returns all persisted assessment types.
func (s *gormSnapshotStore) LoadAssessmentTypes() ([]models.AssessmentType, error) {
	var types []models.AssessmentType
	if err := s.db.Order("created_at").Find(&types).Error; err != nil {
		log.Printf("ERROR: [SnapshotStore] Failed to load assessment types: %v", err)
		return nil, fmt.Errorf("failed to load assessment types: %w", err)
	}
	log.Printf("INFO: [SnapshotStore] Loaded %d assessment type(s).", len(types))
	return types, nil
}

// LoadResponses returns all persisted assessment responses.
func (s *gormSnapshotStore) LoadResponses() ([]models.AssessmentResponse, error) {
	var responses []models.AssessmentResponse
	if err := s.db.Order("completed_at").Find(&responses).Error; err != nil {
		log.Printf("ERROR: [SnapshotStore] Failed to load assessment responses: %v", err)
		return nil, fmt.Errorf("failed to load assessment responses: %w", err)
	}
	log.Printf("INFO: [SnapshotStore] Loaded %d assessment response(s).", len(responses))
	return responses, nil
}

// SaveAssessmentTypes replaces the persisted assessment type collection with
// the given snapshot, atomically.
func (s *gormSnapshotStore) SaveAssessmentTypes(types []models.AssessmentType) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.AssessmentType{}).Error; err != nil {
			return err
		}
		if len(types) == 0 {
			return nil
		}
		return tx.Create(&types).Error
	})
	if err != nil {
		log.Printf("ERROR: [SnapshotStore] Failed to save assessment types: %v", err)
		return fmt.Errorf("failed to save assessment types: %w", err)
	}
	return nil
}

// SaveResponses replaces the persisted response collection with the given
// snapshot, atomically.
func (s *gormSnapshotStore) SaveResponses(responses []models.AssessmentResponse) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.AssessmentResponse{}).Error; err != nil {
			return err
		}
		if len(responses) == 0 {
			return nil
		}
		return tx.Create(&responses).Error
	})
	if err != nil {
		log.Printf("ERROR: [SnapshotStore] Failed to save assessment responses: %v", err)
		return fmt.Errorf("failed to save assessment responses: %w", err)
	}
	return nil
}
