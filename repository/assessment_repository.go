package repository

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/kannan-2002/Assessment-Management-System/models"
	"github.com/kannan-2002/Assessment-Management-System/utils"
)

// AssessmentRepository owns the assessment type and response collections.
// It assigns identifiers, enforces referential integrity (deleting a type
// cascades to its responses), and mirrors every mutation to the snapshot
// store. It does not validate submissions; that is the caller's job.
type AssessmentRepository interface {
	CreateAssessmentType(input models.AssessmentType) (*models.AssessmentType, error)
	UpdateAssessmentType(id string, updates models.AssessmentTypeUpdate) (*models.AssessmentType, error)
	DeleteAssessmentType(id string) error
	GetAssessmentType(id string) (*models.AssessmentType, error)
	ListAssessmentTypes() []models.AssessmentType
	SeedAssessmentTypes(types []models.AssessmentType) error

	SubmitResponse(response models.AssessmentResponse) (*models.AssessmentResponse, error)
	GetResponse(id string) (*models.AssessmentResponse, error)
	ListResponses() []models.AssessmentResponse
	GetResponsesByUserID(userID string) []models.AssessmentResponse
	CountResponsesByType(typeID string) int
}

type assessmentRepository struct {
	types      map[string]*models.AssessmentType
	responses  map[string]*models.AssessmentResponse
	userIndex  map[string][]string // UserID -> response IDs, in submission order
	store      SnapshotStore
	newID      func(prefix string) string
	muTypes    sync.RWMutex
	muResp     sync.RWMutex
}

// NewAssessmentRepository creates the repository and loads both collections
// from the snapshot store.
func NewAssessmentRepository(store SnapshotStore) (AssessmentRepository, error) {
	r := &assessmentRepository{
		types:     make(map[string]*models.AssessmentType),
		responses: make(map[string]*models.AssessmentResponse),
		userIndex: make(map[string][]string),
		store:     store,
		newID:     utils.NewID,
	}

	types, err := store.LoadAssessmentTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to load assessment types on start: %w", err)
	}
	for i := range types {
		t := types[i].Clone()
		r.types[t.ID] = &t
	}

	responses, err := store.LoadResponses()
	if err != nil {
		return nil, fmt.Errorf("failed to load responses on start: %w", err)
	}
	for i := range responses {
		resp := responses[i].Clone()
		r.responses[resp.ID] = &resp
		r.userIndex[resp.UserID] = append(r.userIndex[resp.UserID], resp.ID)
	}

	log.Printf("INFO: [AssessmentRepository] Initialized with %d type(s) and %d response(s).", len(r.types), len(r.responses))
	return r, nil
}

// CreateAssessmentType assigns a fresh id and timestamps, stores the type,
// and persists the updated collection.
func (r *assessmentRepository) CreateAssessmentType(input models.AssessmentType) (*models.AssessmentType, error) {
	r.muTypes.Lock()
	defer r.muTypes.Unlock()

	t := input.Clone()
	t.ID = r.newID("as")
	if _, exists := r.types[t.ID]; exists {
		log.Printf("ERROR: [AssessmentRepository] Generated duplicate assessment type id '%s'. This is an id generator bug.", t.ID)
		return nil, fmt.Errorf("assessment type id '%s': %w", t.ID, models.ErrDuplicateIdentifier)
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	r.types[t.ID] = &t
	if err := r.store.SaveAssessmentTypes(r.typeSnapshotLocked()); err != nil {
		delete(r.types, t.ID)
		return nil, err
	}

	log.Printf("INFO: [AssessmentRepository] Created assessment type '%s' ('%s') with %d field(s).", t.ID, t.Title, len(t.Fields))
	out := t.Clone()
	return &out, nil
}

// UpdateAssessmentType applies a partial update. UpdatedAt is always
// refreshed; CreatedAt and the id are immutable.
func (r *assessmentRepository) UpdateAssessmentType(id string, updates models.AssessmentTypeUpdate) (*models.AssessmentType, error) {
	r.muTypes.Lock()
	defer r.muTypes.Unlock()

	existing, ok := r.types[id]
	if !ok {
		log.Printf("WARN: [AssessmentRepository] UpdateAssessmentType: type '%s' not found.", id)
		return nil, models.ErrAssessmentTypeNotFound
	}

	updated := existing.Clone()
	if updates.Title != nil {
		updated.Title = *updates.Title
	}
	if updates.Description != nil {
		updated.Description = *updates.Description
	}
	if updates.Category != nil {
		updated.Category = *updates.Category
	}
	if updates.Fields != nil {
		updated.Fields = updates.Fields.Clone()
	}
	updated.UpdatedAt = time.Now()

	r.types[id] = &updated
	if err := r.store.SaveAssessmentTypes(r.typeSnapshotLocked()); err != nil {
		r.types[id] = existing
		return nil, err
	}

	log.Printf("INFO: [AssessmentRepository] Updated assessment type '%s'.", id)
	out := updated.Clone()
	return &out, nil
}

// DeleteAssessmentType removes the type and cascades to every response that
// references it.
func (r *assessmentRepository) DeleteAssessmentType(id string) error {
	r.muTypes.Lock()
	defer r.muTypes.Unlock()
	r.muResp.Lock()
	defer r.muResp.Unlock()

	if _, ok := r.types[id]; !ok {
		log.Printf("WARN: [AssessmentRepository] DeleteAssessmentType: type '%s' not found.", id)
		return models.ErrAssessmentTypeNotFound
	}

	delete(r.types, id)

	removed := 0
	for respID, resp := range r.responses {
		if resp.AssessmentTypeID != id {
			continue
		}
		delete(r.responses, respID)
		r.userIndex[resp.UserID] = removeID(r.userIndex[resp.UserID], respID)
		removed++
	}

	if err := r.store.SaveAssessmentTypes(r.typeSnapshotLocked()); err != nil {
		return err
	}
	if err := r.store.SaveResponses(r.responseSnapshotLocked()); err != nil {
		return err
	}

	log.Printf("INFO: [AssessmentRepository] Deleted assessment type '%s' and cascaded %d response(s).", id, removed)
	return nil
}

// GetAssessmentType returns a copy of the type with the given id.
func (r *assessmentRepository) GetAssessmentType(id string) (*models.AssessmentType, error) {
	r.muTypes.RLock()
	defer r.muTypes.RUnlock()

	t, ok := r.types[id]
	if !ok {
		return nil, models.ErrAssessmentTypeNotFound
	}
	out := t.Clone()
	return &out, nil
}

// ListAssessmentTypes returns copies of all types, oldest first.
func (r *assessmentRepository) ListAssessmentTypes() []models.AssessmentType {
	r.muTypes.RLock()
	defer r.muTypes.RUnlock()
	return r.typeSnapshotLocked()
}

// SeedAssessmentTypes inserts the given types with their ids as-is, skipping
// ids that already exist. Used to install the built-in templates on first
// start.
func (r *assessmentRepository) SeedAssessmentTypes(types []models.AssessmentType) error {
	r.muTypes.Lock()
	defer r.muTypes.Unlock()

	added := 0
	for i := range types {
		if _, exists := r.types[types[i].ID]; exists {
			continue
		}
		t := types[i].Clone()
		r.types[t.ID] = &t
		added++
	}
	if added == 0 {
		return nil
	}
	if err := r.store.SaveAssessmentTypes(r.typeSnapshotLocked()); err != nil {
		return err
	}
	log.Printf("INFO: [AssessmentRepository] Seeded %d built-in assessment type(s).", added)
	return nil
}

// SubmitResponse assigns a fresh id and completion timestamp, appends the
// response, and persists the updated collection.
func (r *assessmentRepository) SubmitResponse(response models.AssessmentResponse) (*models.AssessmentResponse, error) {
	r.muResp.Lock()
	defer r.muResp.Unlock()

	resp := response.Clone()
	resp.ID = r.newID("resp")
	if _, exists := r.responses[resp.ID]; exists {
		log.Printf("ERROR: [AssessmentRepository] Generated duplicate response id '%s'. This is an id generator bug.", resp.ID)
		return nil, fmt.Errorf("response id '%s': %w", resp.ID, models.ErrDuplicateIdentifier)
	}
	resp.CompletedAt = time.Now()

	r.responses[resp.ID] = &resp
	r.userIndex[resp.UserID] = append(r.userIndex[resp.UserID], resp.ID)
	if err := r.store.SaveResponses(r.responseSnapshotLocked()); err != nil {
		delete(r.responses, resp.ID)
		r.userIndex[resp.UserID] = removeID(r.userIndex[resp.UserID], resp.ID)
		return nil, err
	}

	log.Printf("INFO: [AssessmentRepository] Stored response '%s' for type '%s' (user '%s').", resp.ID, resp.AssessmentTypeID, resp.UserID)
	out := resp.Clone()
	return &out, nil
}

// GetResponse returns a copy of the response with the given id.
func (r *assessmentRepository) GetResponse(id string) (*models.AssessmentResponse, error) {
	r.muResp.RLock()
	defer r.muResp.RUnlock()

	resp, ok := r.responses[id]
	if !ok {
		return nil, models.ErrResponseNotFound
	}
	out := resp.Clone()
	return &out, nil
}

// ListResponses returns copies of all responses, oldest first.
func (r *assessmentRepository) ListResponses() []models.AssessmentResponse {
	r.muResp.RLock()
	defer r.muResp.RUnlock()
	return r.responseSnapshotLocked()
}

// GetResponsesByUserID returns the user's responses in submission order.
func (r *assessmentRepository) GetResponsesByUserID(userID string) []models.AssessmentResponse {
	r.muResp.RLock()
	defer r.muResp.RUnlock()

	ids := r.userIndex[userID]
	out := make([]models.AssessmentResponse, 0, len(ids))
	for _, id := range ids {
		resp, ok := r.responses[id]
		if !ok {
			log.Printf("ERROR: [AssessmentRepository] Data inconsistency: response id '%s' indexed for user '%s' but not stored.", id, userID)
			continue
		}
		out = append(out, resp.Clone())
	}
	return out
}

// CountResponsesByType returns how many responses reference the given type.
func (r *assessmentRepository) CountResponsesByType(typeID string) int {
	r.muResp.RLock()
	defer r.muResp.RUnlock()

	count := 0
	for _, resp := range r.responses {
		if resp.AssessmentTypeID == typeID {
			count++
		}
	}
	return count
}

// typeSnapshotLocked copies the type collection for persistence or listing.
// Callers must hold muTypes.
func (r *assessmentRepository) typeSnapshotLocked() []models.AssessmentType {
	out := make([]models.AssessmentType, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// responseSnapshotLocked copies the response collection for persistence or
// listing. Callers must hold muResp.
func (r *assessmentRepository) responseSnapshotLocked() []models.AssessmentResponse {
	out := make([]models.AssessmentResponse, 0, len(r.responses))
	for _, resp := range r.responses {
		out = append(out, resp.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CompletedAt.Equal(out[j].CompletedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CompletedAt.Before(out[j].CompletedAt)
	})
	return out
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
