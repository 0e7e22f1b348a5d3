package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/kannan-2002/Assessment-Management-System/middleware"
	"github.com/kannan-2002/Assessment-Management-System/models"
	"github.com/kannan-2002/Assessment-Management-System/repository"
	"github.com/kannan-2002/Assessment-Management-System/services"
)

// memorySnapshotStore keeps snapshots in memory for tests.
type memorySnapshotStore struct {
	types     []models.AssessmentType
	responses []models.AssessmentResponse
}

func (s *memorySnapshotStore) LoadAssessmentTypes() ([]models.AssessmentType, error) {
	return s.types, nil
}
func (s *memorySnapshotStore) LoadResponses() ([]models.AssessmentResponse, error) {
	return s.responses, nil
}
func (s *memorySnapshotStore) SaveAssessmentTypes(types []models.AssessmentType) error {
	s.types = types
	return nil
}
func (s *memorySnapshotStore) SaveResponses(responses []models.AssessmentResponse) error {
	s.responses = responses
	return nil
}

// memoryUserRepository is an in-memory UserRepository for tests.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*models.User)}
}

func (r *memoryUserRepository) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.Email] = user
	return nil
}

func (r *memoryUserRepository) GetUserByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[email], nil
}

func (r *memoryUserRepository) GetUserByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

type testEnv struct {
	router     *gin.Engine
	adminToken string
	userToken  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := repository.NewAssessmentRepository(&memorySnapshotStore{})
	assert.NoError(t, err)
	assert.NoError(t, repo.SeedAssessmentTypes(models.BuiltinAssessmentTypes()))

	authService := services.NewAuthService(newMemoryUserRepository(), "test-secret", time.Hour)
	assert.NoError(t, authService.SeedDemoUsers())

	handler := NewAPIHandler(
		services.NewAssessmentService(repo),
		services.NewInsightService(),
		authService,
		repo,
	)

	router := gin.New()
	apiGroup := router.Group("/api")
	apiGroup.POST("/auth/login", handler.LoginHandler)
	apiGroup.POST("/auth/register", handler.RegisterHandler)

	protected := apiGroup.Group("")
	protected.Use(middleware.Auth(authService))
	protected.GET("/assessments", handler.ListAssessmentTypesHandler)
	protected.POST("/assessments", handler.CreateAssessmentTypeHandler)
	protected.GET("/assessments/:id", handler.GetAssessmentTypeHandler)
	protected.PUT("/assessments/:id", handler.UpdateAssessmentTypeHandler)
	protected.DELETE("/assessments/:id", handler.DeleteAssessmentTypeHandler)
	protected.POST("/assessments/:id/responses", handler.SubmitResponseHandler)
	protected.GET("/responses/:id", handler.GetResponseHandler)
	protected.GET("/users/me/responses", handler.MyResponsesHandler)
	protected.GET("/dashboard/stats", handler.DashboardStatsHandler)

	env := &testEnv{router: router}
	env.adminToken = env.login(t, "admin@test.com", "admin123")
	env.userToken = env.login(t, "user@test.com", "user123")
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": password})
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Data.Token)
	return body.Data.Token
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Data
}

func TestAuthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	t.Run("Wrong password is rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "admin@test.com", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Registration issues a usable token", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
			"email": "fresh@test.com", "password": "secret123", "name": "Fresh",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		token := decodeData(t, rec)["token"].(string)

		rec = env.do(t, http.MethodGet, "/api/assessments", token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Duplicate registration conflicts", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
			"email": "user@test.com", "password": "secret123", "name": "Copycat",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Protected routes need a token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/assessments", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/assessments", "garbage-token", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAssessmentTypeEndpoints(t *testing.T) {
	env := newTestEnv(t)

	newType := gin.H{
		"title":       "Sleep Assessment",
		"description": "Evaluate sleep quality",
		"category":    "Wellness",
		"fields": []gin.H{
			{"label": "Hours of sleep", "type": "number", "required": true},
		},
	}

	t.Run("Regular user cannot manage types", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/assessments", env.userToken, newType)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = env.do(t, http.MethodDelete, "/api/assessments/"+models.TemplateCardiacID, env.userToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Admin creates, updates, and deletes a type", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/assessments", env.adminToken, newType)
		assert.Equal(t, http.StatusCreated, rec.Code)
		id := decodeData(t, rec)["id"].(string)

		rec = env.do(t, http.MethodPut, "/api/assessments/"+id, env.adminToken, gin.H{"title": "Renamed"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Renamed", decodeData(t, rec)["title"])

		rec = env.do(t, http.MethodDelete, "/api/assessments/"+id, env.adminToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/assessments/"+id, env.adminToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Invalid input is a 400", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/assessments", env.adminToken, gin.H{
			"title": "  ", "description": "d", "category": "c",
			"fields": []gin.H{{"label": "x", "type": "text"}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Listing includes the built-in templates with counts", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/assessments", env.userToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data []struct {
				Assessment    models.AssessmentType `json:"assessment"`
				ResponseCount int                   `json:"responseCount"`
			} `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		ids := make([]string, 0, len(body.Data))
		for _, entry := range body.Data {
			ids = append(ids, entry.Assessment.ID)
		}
		assert.Contains(t, ids, models.TemplateHealthFitnessID)
		assert.Contains(t, ids, models.TemplateCardiacID)
	})
}

func TestResponseEndpoints(t *testing.T) {
	env := newTestEnv(t)

	submitPath := fmt.Sprintf("/api/assessments/%s/responses", models.TemplateHealthFitnessID)
	fullAnswers := gin.H{"answers": gin.H{
		"age":                30,
		"gender":             "Male",
		"height":             170,
		"weight":             70,
		"activity_level":     "Moderately Active",
		"medical_conditions": []string{"Asthma", "Hypertension"},
		"fitness_goals":      "Lose weight and build endurance",
		"exercise_frequency": 3,
	}}

	t.Run("Out-of-range values come back as a field error map", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, submitPath, env.userToken, gin.H{"answers": gin.H{
			"age": 30, "gender": "Male", "height": 400, "weight": 70,
			"activity_level": "Sedentary", "fitness_goals": "Stay fit",
			"exercise_frequency": 2,
		}})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var body struct {
			Data struct {
				Errors map[string]struct {
					Kind    string `json:"kind"`
					Message string `json:"message"`
				} `json:"errors"`
			} `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "above_max", body.Data.Errors["height"].Kind)
		assert.NotEmpty(t, body.Data.Errors["height"].Message)
	})

	t.Run("Submitting against an unknown type is a 404", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/assessments/as_missing/responses", env.userToken, fullAnswers)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Valid submission, detail view, and access control", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, submitPath, env.userToken, fullAnswers)
		assert.Equal(t, http.StatusCreated, rec.Code)
		respID := decodeData(t, rec)["id"].(string)

		// Owner sees the detail with derived insights and display values.
		rec = env.do(t, http.MethodGet, "/api/responses/"+respID, env.userToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		data := decodeData(t, rec)

		insights := data["insights"].([]interface{})
		titles := make([]string, 0, len(insights))
		for _, raw := range insights {
			titles = append(titles, raw.(map[string]interface{})["title"].(string))
		}
		assert.Contains(t, titles, "Excellent Completion")
		assert.Contains(t, titles, "BMI: 24.2")

		display := data["displayValues"].(map[string]interface{})
		assert.Equal(t, "170", display["height"])
		assert.Equal(t, "Asthma, Hypertension", display["medical_conditions"])

		// Admins may view any response; another user may not exist here, but
		// the admin path must work.
		rec = env.do(t, http.MethodGet, "/api/responses/"+respID, env.adminToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		// A freshly registered user is neither owner nor admin.
		reg := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
			"email": "intruder@test.com", "password": "secret123", "name": "Intruder",
		})
		assert.Equal(t, http.StatusOK, reg.Code)
		otherToken := decodeData(t, reg)["token"].(string)

		rec = env.do(t, http.MethodGet, "/api/responses/"+respID, otherToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		// The owner's history lists the submission with its title.
		rec = env.do(t, http.MethodGet, "/api/users/me/responses", env.userToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var history struct {
			Data []struct {
				Response        models.AssessmentResponse `json:"response"`
				AssessmentTitle string                    `json:"assessmentTitle"`
			} `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
		assert.Len(t, history.Data, 1)
		assert.Equal(t, respID, history.Data[0].Response.ID)
		assert.Equal(t, "Health & Fitness Assessment", history.Data[0].AssessmentTitle)
	})

	t.Run("Deleting a type cascades to its responses", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, submitPath, env.userToken, fullAnswers)
		assert.Equal(t, http.StatusCreated, rec.Code)
		respID := decodeData(t, rec)["id"].(string)

		rec = env.do(t, http.MethodDelete, "/api/assessments/"+models.TemplateHealthFitnessID, env.adminToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/responses/"+respID, env.userToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDisplayValues(t *testing.T) {
	typ := &models.AssessmentType{
		ID: "as_t",
		Fields: models.FieldList{
			{ID: "name", Label: "Name", Type: models.FieldTypeText},
			{ID: "age", Label: "Age", Type: models.FieldTypeNumber},
			{ID: "tags", Label: "Tags", Type: models.FieldTypeCheckbox, Options: []string{"a", "b", "c"}},
			{ID: "notes", Label: "Notes", Type: models.FieldTypeTextArea},
		},
	}
	resp := &models.AssessmentResponse{
		Answers: models.AnswerMap{
			"name": "Alice",
			"age":  float64(42),
			"tags": []interface{}{"a", "c"},
		},
	}

	out := displayValues(typ, resp)
	assert.Equal(t, "Alice", out["name"])
	assert.Equal(t, "42", out["age"])
	assert.Equal(t, "a, c", out["tags"])
	assert.Equal(t, "Not provided", out["notes"])
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)

	submitPath := fmt.Sprintf("/api/assessments/%s/responses", models.TemplateCardiacID)
	rec := env.do(t, http.MethodPost, submitPath, env.userToken, gin.H{"answers": gin.H{
		"patient_id":               "P-1001",
		"blood_pressure_systolic":  118,
		"blood_pressure_diastolic": 75,
		"heart_rate":               64,
		"cholesterol_total":        180,
		"cholesterol_hdl":          55,
		"cholesterol_ldl":          100,
		"smoking_status":           "Never",
		"family_history":           "No",
		"assessment_date":          "2026-08-30",
	}})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/dashboard/stats", env.userToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)

	assert.Equal(t, float64(2), data["totalAssessments"])
	assert.Equal(t, float64(1), data["completedResponses"])
	assert.Greater(t, data["averageScore"].(float64), float64(0))
	assert.Equal(t, float64(1), data["responsesThisMonth"])
}
