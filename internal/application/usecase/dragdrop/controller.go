package dragdrop

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/soundfolio/internal/application/usecase/layout"
	"github.com/khoahotran/soundfolio/internal/domain/portfolio"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

// Location is a slot in a section's box list.
type Location struct {
	SectionID string `json:"section_id"`
	Index     int    `json:"index"`
}

// DropCommand is the result of a drag gesture. Destination is nil when the
// box was released outside any drop target.
type DropCommand struct {
	Source      Location  `json:"source"`
	Destination *Location `json:"destination"`
}

// LayoutWriter persists order and size to the volatile tier.
type LayoutWriter interface {
	WriteLayout(ctx context.Context, userID string, l portfolio.Layout) error
}

type Controller struct {
	store  *layout.Store
	writer LayoutWriter
	userID string
	logger logger.Logger
}

func NewController(store *layout.Store, writer LayoutWriter, userID string, log logger.Logger) *Controller {
	return &Controller{store: store, writer: writer, userID: userID, logger: log}
}

var tracer = otel.Tracer("dragdrop")

// Drop applies a drag result. Drops outside a target, onto another section,
// or onto the starting slot do nothing. Otherwise the new layout is written
// to the volatile tier first and the move is applied only if that write
// succeeds. It reports whether the order changed.
func (c *Controller) Drop(ctx context.Context, cmd DropCommand) (bool, error) {
	if cmd.Destination == nil || cmd.Destination.SectionID != cmd.Source.SectionID {
		return false, nil
	}

	ctx, span := tracer.Start(ctx, "dragdrop.Drop")
	defer span.End()
	span.SetAttributes(
		attribute.String("section_id", cmd.Source.SectionID),
		attribute.Int("from", cmd.Source.Index),
		attribute.Int("to", cmd.Destination.Index),
	)

	changed, err := c.store.ReorderAndCommit(cmd.Source.SectionID, cmd.Source.Index, cmd.Destination.Index,
		func(l portfolio.Layout) error {
			return c.writer.WriteLayout(ctx, c.userID, l)
		})
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	if changed {
		c.logger.Debug("Box moved",
			zap.String("user_id", c.userID),
			zap.String("section_id", cmd.Source.SectionID),
			zap.Int("from", cmd.Source.Index),
			zap.Int("to", cmd.Destination.Index),
		)
	}
	return changed, nil
}
