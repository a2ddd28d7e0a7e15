package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/soundfolio/internal/application/usecase/dragdrop"
	"github.com/khoahotran/soundfolio/internal/application/usecase/editor"
	"github.com/khoahotran/soundfolio/internal/domain/portfolio"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

// PortfolioHandler serves the editor: the full view, save, and the section
// and box operations of the layout store.
type PortfolioHandler struct {
	registry *editor.Registry
	logger   logger.Logger
}

func NewPortfolioHandler(registry *editor.Registry, log logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{registry: registry, logger: log}
}

func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.View())
}

func (h *PortfolioHandler) Save(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	if err := session.Save(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, session.View())
}

func (h *PortfolioHandler) ListSections(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Layout().Sections())
}

func (h *PortfolioHandler) GetSection(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	sec, err := session.Layout().Section(c.Param("sectionId"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, sec)
}

func (h *PortfolioHandler) CreateSection(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	var req CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for section", err))
		return
	}
	sec, err := session.Layout().AddSection(req.ID, req.Title)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, sec)
}

func (h *PortfolioHandler) DeleteSection(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	if err := session.Layout().DeleteSection(c.Param("sectionId")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PortfolioHandler) CreateBox(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	var req CreateBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for box", err))
		return
	}
	kind, err := portfolio.ParseKind(req.Type)
	if err != nil {
		c.Error(err)
		return
	}
	box, err := session.Layout().CreateBox(c.Param("sectionId"), kind, req.Title, portfolio.ParseSize(req.Size))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, box)
}

// UpdateBox edits title, size and content in one step. Content must match
// the box's kind.
func (h *PortfolioHandler) UpdateBox(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	var req UpdateBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for box", err))
		return
	}
	box, err := session.Layout().EditBox(c.Param("sectionId"), c.Param("boxId"), func(b portfolio.ContentBox) (portfolio.ContentBox, error) {
		if req.Title != nil {
			b = b.WithTitle(*req.Title)
		}
		if req.Size != nil {
			b = b.WithSize(portfolio.ParseSize(*req.Size))
		}
		if len(req.Content) > 0 {
			content, err := portfolio.ParseContent(b.Kind(), req.Content)
			if err != nil {
				return b, err
			}
			return b.WithContent(content)
		}
		return b, nil
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, box)
}

func (h *PortfolioHandler) ResizeBox(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	var req ResizeBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for resize", err))
		return
	}
	box, err := session.Layout().Resize(c.Param("sectionId"), c.Param("boxId"), portfolio.ParseSize(req.Size))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, box)
}

func (h *PortfolioHandler) DeleteBox(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	if err := session.Layout().RemoveBox(c.Param("sectionId"), c.Param("boxId")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AppendItem adds a record to a gallery, experience or education box. An
// empty body appends the kind's placeholder item.
func (h *PortfolioHandler) AppendItem(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	sectionID, boxID := c.Param("sectionId"), c.Param("boxId")
	raw, err := c.GetRawData()
	if err != nil {
		c.Error(apperror.NewInvalidInput("failed to read request body", err))
		return
	}

	store := session.Layout()
	sec, err := store.Section(sectionID)
	if err != nil {
		c.Error(err)
		return
	}
	idx := sec.IndexOf(boxID)
	if idx < 0 {
		c.Error(apperror.NewNotFound("box", boxID))
		return
	}
	item, err := portfolio.ParseListItem(sec.Boxes[idx].Kind(), raw)
	if err != nil {
		c.Error(err)
		return
	}

	box, err := store.AppendListItem(sectionID, boxID, item)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, box)
}

// ReorderBoxes moves a box within one section and records the new layout in
// the volatile tier.
func (h *PortfolioHandler) ReorderBoxes(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for reorder", err))
		return
	}
	sectionID := c.Param("sectionId")
	changed, err := session.Drop(c.Request.Context(), dragdrop.DropCommand{
		Source:      dragdrop.Location{SectionID: sectionID, Index: *req.From},
		Destination: &dragdrop.Location{SectionID: sectionID, Index: *req.To},
	})
	if err != nil {
		c.Error(err)
		return
	}
	h.respondSection(c, session, sectionID, changed)
}

func (h *PortfolioHandler) Drop(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	var req DropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for drop", err))
		return
	}
	changed, err := session.Drop(c.Request.Context(), req.ToCommand())
	if err != nil {
		c.Error(err)
		return
	}
	h.respondSection(c, session, req.Source.SectionID, changed)
}

func (h *PortfolioHandler) respondSection(c *gin.Context, session *editor.Session, sectionID string, changed bool) {
	sec, err := session.Layout().Section(sectionID)
	if err != nil {
		c.Error(err)
		return
	}
	if changed {
		h.logger.Debug("Section reordered", zap.String("section_id", sectionID))
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed, "section": sec})
}
