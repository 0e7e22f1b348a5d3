package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kannan-2002/Assessment-Management-System/middleware"
	"github.com/kannan-2002/Assessment-Management-System/models"
	"github.com/kannan-2002/Assessment-Management-System/repository"
	"github.com/kannan-2002/Assessment-Management-System/services"
	"github.com/kannan-2002/Assessment-Management-System/utils"
)

// APIHandler holds all dependencies for API handlers, such as repositories and services.
type APIHandler struct {
	assessmentService services.AssessmentService
	insightService    services.InsightService
	authService       services.AuthService
	assessmentRepo    repository.AssessmentRepository
}

// NewAPIHandler creates a new APIHandler with necessary dependencies.
func NewAPIHandler(
	assessmentService services.AssessmentService,
	insightService services.InsightService,
	authService services.AuthService,
	assessmentRepo repository.AssessmentRepository,
) *APIHandler {
	return &APIHandler{
		assessmentService: assessmentService,
		insightService:    insightService,
		authService:       authService,
		assessmentRepo:    assessmentRepo,
	}
}

// actorFromContext retrieves the authenticated actor stored by the auth
// middleware. Handlers behind middleware.Auth can rely on it being present.
func actorFromContext(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(middleware.ActorContextKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(*models.Actor)
	if !ok || actor == nil {
		return models.Actor{}, false
	}
	return *actor, true
}

func sendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Success",
		"data":    data,
	})
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// LoginHandler authenticates a user by email and password and issues a
// bearer token.
func (h *APIHandler) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			utils.SendJSONError(c, http.StatusUnauthorized, "Invalid email or password.", nil)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "Login failed.", err)
		return
	}

	log.Printf("INFO: [Auth] User '%s' logged in.", user.Email)
	sendSuccess(c, gin.H{"user": user, "token": token})
}

// RegisterHandler creates a new user account and issues a bearer token.
// Accounts created through this endpoint always get the regular user role.
func (h *APIHandler) RegisterHandler(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	user, token, err := h.authService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			utils.SendJSONError(c, http.StatusConflict, "An account with this email already exists.", nil)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "Registration failed.", err)
		return
	}

	log.Printf("INFO: [Auth] New user '%s' registered.", user.Email)
	sendSuccess(c, gin.H{"user": user, "token": token})
}

// --- Assessment types ---

// ListAssessmentTypesHandler returns every assessment type together with the
// number of responses submitted against each.
func (h *APIHandler) ListAssessmentTypesHandler(c *gin.Context) {
	types := h.assessmentService.ListAssessmentTypes()

	list := make([]gin.H, 0, len(types))
	for i := range types {
		list = append(list, gin.H{
			"assessment":    types[i],
			"responseCount": h.assessmentRepo.CountResponsesByType(types[i].ID),
		})
	}
	sendSuccess(c, list)
}

// GetAssessmentTypeHandler returns a single assessment type by id.
func (h *APIHandler) GetAssessmentTypeHandler(c *gin.Context) {
	typ, err := h.assessmentService.GetAssessmentType(c.Param("id"))
	if err != nil {
		utils.SendJSONError(c, http.StatusNotFound, "Assessment type not found.", nil)
		return
	}
	sendSuccess(c, typ)
}

// CreateAssessmentTypeHandler creates a new assessment type. Admin only.
func (h *APIHandler) CreateAssessmentTypeHandler(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.SendJSONError(c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	var input models.AssessmentTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	typ, err := h.assessmentService.CreateAssessmentType(actor, input)
	if err != nil {
		h.sendServiceError(c, err, "Failed to create assessment type.")
		return
	}

	log.Printf("INFO: [API] Assessment type '%s' created by user '%s'.", typ.ID, actor.ID)
	c.JSON(http.StatusCreated, gin.H{
		"code":    201,
		"message": "Success",
		"data":    typ,
	})
}

// UpdateAssessmentTypeHandler applies a partial update to an assessment
// type. Admin only.
func (h *APIHandler) UpdateAssessmentTypeHandler(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.SendJSONError(c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	var updates models.AssessmentTypeUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	typ, err := h.assessmentService.UpdateAssessmentType(actor, c.Param("id"), updates)
	if err != nil {
		h.sendServiceError(c, err, "Failed to update assessment type.")
		return
	}

	log.Printf("INFO: [API] Assessment type '%s' updated by user '%s'.", typ.ID, actor.ID)
	sendSuccess(c, typ)
}

// DeleteAssessmentTypeHandler deletes an assessment type and all responses
// submitted against it. Admin only.
func (h *APIHandler) DeleteAssessmentTypeHandler(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.SendJSONError(c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	id := c.Param("id")
	if err := h.assessmentService.DeleteAssessmentType(actor, id); err != nil {
		h.sendServiceError(c, err, "Failed to delete assessment type.")
		return
	}

	log.Printf("INFO: [API] Assessment type '%s' deleted by user '%s'.", id, actor.ID)
	sendSuccess(c, gin.H{"id": id})
}

// --- Responses ---

type submitResponseRequest struct {
	Answers models.AnswerMap `json:"answers"`
}

// SubmitResponseHandler validates and stores a response against an
// assessment type. Validation failures return 422 with a per-field error
// breakdown; nothing is persisted in that case.
func (h *APIHandler) SubmitResponseHandler(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.SendJSONError(c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	var req submitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	typeID := c.Param("id")
	resp, err := h.assessmentService.SubmitResponse(actor, typeID, req.Answers)
	if err != nil {
		var valErr *models.ValidationError
		if errors.As(err, &valErr) {
			typ, typErr := h.assessmentService.GetAssessmentType(typeID)
			if typErr != nil {
				utils.SendJSONError(c, http.StatusNotFound, "Assessment type not found.", nil)
				return
			}
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"code":    422,
				"message": "Validation failed",
				"data":    gin.H{"errors": fieldErrorPayload(typ, valErr)},
			})
			return
		}
		h.sendServiceError(c, err, "Failed to submit response.")
		return
	}

	log.Printf("INFO: [API] Response '%s' submitted by user '%s' for type '%s'.", resp.ID, actor.ID, typeID)
	c.JSON(http.StatusCreated, gin.H{
		"code":    201,
		"message": "Success",
		"data":    resp,
	})
}

// fieldErrorPayload turns a validation error into the wire shape clients
// render: field id -> {kind, message}.
func fieldErrorPayload(typ *models.AssessmentType, valErr *models.ValidationError) gin.H {
	out := gin.H{}
	for fieldID, kind := range valErr.FieldErrors {
		field := typ.Fields.ByID(fieldID)
		if field == nil {
			continue
		}
		out[fieldID] = gin.H{
			"kind":    kind,
			"message": kind.Message(*field),
		}
	}
	return out
}

// GetResponseHandler returns a single response in full: the stored answers,
// the schema they were validated against, derived insights, and display
// values for each field. Only the owner of the response or an admin may
// view it.
func (h *APIHandler) GetResponseHandler(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.SendJSONError(c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	resp, err := h.assessmentService.GetResponse(c.Param("id"))
	if err != nil {
		utils.SendJSONError(c, http.StatusNotFound, "Response not found.", nil)
		return
	}
	if resp.UserID != actor.ID && !actor.IsAdmin() {
		utils.SendJSONError(c, http.StatusForbidden, "You do not have access to this response.", nil)
		return
	}

	typ, err := h.assessmentService.GetAssessmentType(resp.AssessmentTypeID)
	if err != nil {
		// The repository cascades deletes, so a live response always has a
		// live type. Reaching this means the store is inconsistent.
		utils.SendJSONError(c, http.StatusInternalServerError, "Assessment type for this response is missing.", err)
		return
	}

	sendSuccess(c, gin.H{
		"response":      resp,
		"assessment":    typ,
		"insights":      h.insightService.DeriveInsights(typ, resp),
		"displayValues": displayValues(typ, resp),
		"answeredCount": services.AnsweredCount(typ, resp.Answers),
		"totalFields":   len(typ.Fields),
	})
}

// displayValues renders each field's answer as a display string. Unanswered
// fields render as "Not provided"; multi-select answers are comma-joined.
func displayValues(typ *models.AssessmentType, resp *models.AssessmentResponse) gin.H {
	out := gin.H{}
	for _, field := range typ.Fields {
		if !resp.Answers.IsAnswered(field.ID) {
			out[field.ID] = "Not provided"
			continue
		}
		switch v := resp.Answers[field.ID].(type) {
		case []string:
			out[field.ID] = strings.Join(v, ", ")
		case []interface{}:
			parts := make([]string, 0, len(v))
			for _, item := range v {
				parts = append(parts, fmt.Sprintf("%v", item))
			}
			out[field.ID] = strings.Join(parts, ", ")
		case float64:
			out[field.ID] = fmt.Sprintf("%g", v)
		default:
			out[field.ID] = fmt.Sprintf("%v", v)
		}
	}
	return out
}

// MyResponsesHandler returns the caller's responses, each annotated with
// the title of the assessment it answers.
func (h *APIHandler) MyResponsesHandler(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.SendJSONError(c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	responses := h.assessmentService.GetUserResponses(actor.ID)
	list := make([]gin.H, 0, len(responses))
	for i := range responses {
		entry := gin.H{"response": responses[i]}
		if typ, err := h.assessmentService.GetAssessmentType(responses[i].AssessmentTypeID); err == nil {
			entry["assessmentTitle"] = typ.Title
			entry["assessmentCategory"] = typ.Category
		}
		list = append(list, entry)
	}
	sendSuccess(c, list)
}

// --- Dashboard ---

// DashboardStatsHandler aggregates headline numbers for the caller's
// dashboard: total assessment types, the caller's response count, their
// average completion score, and how many responses they submitted this
// month.
func (h *APIHandler) DashboardStatsHandler(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.SendJSONError(c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	responses := h.assessmentService.GetUserResponses(actor.ID)

	var scoreSum, scored int
	now := time.Now()
	thisMonth := 0
	for i := range responses {
		if responses[i].Score != nil {
			scoreSum += *responses[i].Score
			scored++
		}
		if responses[i].CompletedAt.Year() == now.Year() && responses[i].CompletedAt.Month() == now.Month() {
			thisMonth++
		}
	}

	averageScore := 0
	if scored > 0 {
		averageScore = scoreSum / scored
	}

	sendSuccess(c, gin.H{
		"totalAssessments":   len(h.assessmentService.ListAssessmentTypes()),
		"completedResponses": len(responses),
		"averageScore":       averageScore,
		"responsesThisMonth": thisMonth,
	})
}

// sendServiceError maps service-layer sentinel errors onto HTTP statuses.
func (h *APIHandler) sendServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrForbidden):
		utils.SendJSONError(c, http.StatusForbidden, "This operation requires the admin role.", nil)
	case errors.Is(err, models.ErrAssessmentTypeNotFound):
		utils.SendJSONError(c, http.StatusNotFound, "Assessment type not found.", nil)
	case errors.Is(err, models.ErrResponseNotFound):
		utils.SendJSONError(c, http.StatusNotFound, "Response not found.", nil)
	case errors.Is(err, models.ErrInvalidInput):
		utils.SendJSONError(c, http.StatusBadRequest, err.Error(), nil)
	default:
		utils.SendJSONError(c, http.StatusInternalServerError, fallback, err)
	}
}
