// internal/api/dashboard.go
package api

import (
	"net/http"
	"strconv"

	apperrors "grant-portal/internal/common/errors"
	"grant-portal/internal/models"
	fieldrules "grant-portal/internal/wizard/field-rules"
	stepdefinitions "grant-portal/internal/wizard/step-definitions"

	"github.com/gin-gonic/gin"
)

type formResponse struct {
	Steps   []stepdefinitions.Step `json:"steps"`
	Fields  []string               `json:"fields"`
	Options fieldrules.Catalog     `json:"options"`
	Initial models.FieldValues     `json:"initial"`
}

type dashboardResponse struct {
	Stats        models.Stats         `json:"stats"`
	Applications []models.Application `json:"applications"`
}

// getForm serves everything the front end needs to render the wizard.
func (s *Server) getForm(c *gin.Context) {
	c.JSON(http.StatusOK, formResponse{
		Steps:   s.deps.Steps.Steps(),
		Fields:  models.FormFields,
		Options: s.deps.Catalog,
		Initial: models.NewFieldValues(),
	})
}

func (s *Server) listApplications(c *gin.Context) {
	limit, ok := s.limit(c)
	if !ok {
		return
	}
	apps, err := s.deps.Store.List(c.Request.Context())
	if err != nil {
		s.errors.HandleRequestError(c, storeReadError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": truncate(apps, limit)})
}

func (s *Server) getStats(c *gin.Context) {
	stats, err := s.deps.Store.Stats(c.Request.Context())
	if err != nil {
		s.errors.HandleRequestError(c, storeReadError(err))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// getDashboard derives stats from the same list it returns so both always
// agree.
func (s *Server) getDashboard(c *gin.Context) {
	limit, ok := s.limit(c)
	if !ok {
		return
	}
	apps, err := s.deps.Store.List(c.Request.Context())
	if err != nil {
		s.errors.HandleRequestError(c, storeReadError(err))
		return
	}
	c.JSON(http.StatusOK, dashboardResponse{
		Stats:        models.ComputeStats(apps),
		Applications: truncate(apps, limit),
	})
}

// limit parses the optional ?limit= query. Zero means all.
func (s *Server) limit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		s.errors.HandleRequestError(c, apperrors.NewInvalidRequestError("limit must be a non-negative integer"))
		return 0, false
	}
	return n, true
}

func truncate(apps []models.Application, limit int) []models.Application {
	if apps == nil {
		return []models.Application{}
	}
	if limit > 0 && len(apps) > limit {
		return apps[:limit]
	}
	return apps
}

func storeReadError(err error) error {
	if _, ok := apperrors.AsStandardError(err); ok {
		return err
	}
	return apperrors.NewStoreReadFailedError(err)
}
