// internal/api/sessions.go
package api

import (
	"encoding/json"
	"net/http"
	"sort"

	apperrors "grant-portal/internal/common/errors"
	"grant-portal/internal/common/validation"
	"grant-portal/internal/models"
	formsession "grant-portal/internal/wizard/form-session"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the navigation boundary of the wizard.
type SessionHandler struct {
	registry *formsession.Registry
	errors   *apperrors.ErrorHandler
}

func NewSessionHandler(registry *formsession.Registry, errs *apperrors.ErrorHandler) *SessionHandler {
	return &SessionHandler{registry: registry, errors: errs}
}

func (h *SessionHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/sessions", h.create)

	s := r.Group("/sessions/:id")
	s.GET("", h.get)
	s.DELETE("", h.discard)
	s.PATCH("/fields", h.editFields)
	s.PUT("/fields/:field", h.editField)
	s.POST("/fields/:field/blur", h.blur)
	s.POST("/advance", h.advance)
	s.POST("/retreat", h.retreat)
	s.POST("/submit", h.submit)
}

type fieldUpdateRequest struct {
	Value interface{} `json:"value"`
}

type fieldBatchRequest struct {
	Values map[string]interface{} `json:"values"`
}

type advanceResponse struct {
	Advanced bool                      `json:"advanced"`
	Submit   *formsession.SubmitResult `json:"submit,omitempty"`
	Session  formsession.Snapshot      `json:"session"`
}

type submitResponse struct {
	Reference   string              `json:"reference"`
	Application *models.Application `json:"application"`
}

type invalidSubmitResponse struct {
	Errors  models.FieldErrors   `json:"errors"`
	Session formsession.Snapshot `json:"session"`
}

func (h *SessionHandler) create(c *gin.Context) {
	s := h.registry.Create()
	c.JSON(http.StatusCreated, s.Snapshot())
}

func (h *SessionHandler) get(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

func (h *SessionHandler) discard(c *gin.Context) {
	if err := h.registry.Discard(c.Param("id")); err != nil {
		h.errors.HandleRequestError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) editField(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req fieldUpdateRequest
	if !h.bind(c, validation.FieldUpdate, &req) {
		return
	}
	if err := s.EditField(c.Param("field"), req.Value); err != nil {
		h.errors.HandleRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// editFields applies several edits in name order. Names are checked up front
// so an unknown field leaves the session untouched.
func (h *SessionHandler) editFields(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req fieldBatchRequest
	if !h.bind(c, validation.FieldBatch, &req) {
		return
	}

	names := make([]string, 0, len(req.Values))
	for name := range req.Values {
		if !models.IsFormField(name) {
			h.errors.HandleRequestError(c, apperrors.NewUnknownFieldError(name))
			return
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := s.EditField(name, req.Values[name]); err != nil {
			h.errors.HandleRequestError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

func (h *SessionHandler) blur(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Blur(c.Param("field")); err != nil {
		h.errors.HandleRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

func (h *SessionHandler) advance(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	result, err := s.Advance(c.Request.Context())
	if err != nil {
		h.errors.HandleRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, advanceResponse{
		Advanced: result.Advanced,
		Submit:   result.Submit,
		Session:  s.Snapshot(),
	})
}

func (h *SessionHandler) retreat(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Retreat(); err != nil {
		h.errors.HandleRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// submit answers 201 with the reference, 422 with field errors, or 202 when
// a submission of this session is already in flight.
func (h *SessionHandler) submit(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	result, err := s.Submit(c.Request.Context())
	if err != nil {
		h.errors.HandleRequestError(c, err)
		return
	}

	switch result.Outcome {
	case formsession.OutcomeSubmitted:
		c.JSON(http.StatusCreated, submitResponse{Reference: result.Reference, Application: result.Application})
	case formsession.OutcomeInvalid:
		c.JSON(http.StatusUnprocessableEntity, invalidSubmitResponse{Errors: result.Errors, Session: s.Snapshot()})
	default:
		c.JSON(http.StatusAccepted, gin.H{"status": formsession.StateSubmitting})
	}
}

func (h *SessionHandler) session(c *gin.Context) (*formsession.Session, bool) {
	s, err := h.registry.Get(c.Param("id"))
	if err != nil {
		h.errors.HandleRequestError(c, err)
		return nil, false
	}
	return s, true
}

// bind checks the raw body against schema before decoding it into dst.
func (h *SessionHandler) bind(c *gin.Context, schema *validation.Schema, dst interface{}) bool {
	body, err := c.GetRawData()
	if err != nil {
		h.errors.HandleRequestError(c, apperrors.NewInvalidRequestError(err.Error()))
		return false
	}

	result := schema.ValidateBody(body)
	if !result.Valid {
		stdErr := apperrors.NewInvalidRequestError("request body does not match " + schema.Name())
		stdErr.WithMetadata("violations", result.Errors)
		h.errors.HandleRequestError(c, stdErr)
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		h.errors.HandleRequestError(c, apperrors.NewInvalidRequestError(err.Error()))
		return false
	}
	return true
}
