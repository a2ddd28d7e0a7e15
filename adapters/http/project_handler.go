package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/soundfolio/internal/application/usecase/editor"
	"github.com/khoahotran/soundfolio/internal/domain/portfolio"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

type ProjectHandler struct {
	registry *editor.Registry
	logger   logger.Logger
}

func NewProjectHandler(registry *editor.Registry, log logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		registry: registry,
		logger:   log,
	}
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.View().Projects)
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for project", err))
		return
	}
	project, err := session.AddProject(req.Title, req.URL, req.Image, portfolio.ParseSourceKind(req.SourceKind))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for project", err))
		return
	}
	project, err := session.UpdateProject(c.Param("projectId"), req.Title, req.URL, req.Image, portfolio.ParseSourceKind(req.SourceKind))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	if err := session.DeleteProject(c.Param("projectId")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
