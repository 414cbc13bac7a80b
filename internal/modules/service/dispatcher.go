package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/contenthub/contenthub/internal/modules/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationEvent is the queue payload for one user-facing notification.
type NotificationEvent struct {
	EventID     uuid.UUID              `json:"event_id"`
	Type        model.NotificationType `json:"type"`
	RecipientID uuid.UUID              `json:"recipient_id"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	ActionURL   string                 `json:"action_url"`
	Metadata    map[string]any         `json:"metadata,omitempty"`
	OccurredAt  time.Time              `json:"occurred_at"`
}

// Dispatcher hands a notification off for asynchronous delivery.
type Dispatcher interface {
	Notify(ctx context.Context, ev NotificationEvent) error
}

// JSONPublisher is satisfied by *queue.Publisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, messageID string, v any) error
}

type queueDispatcher struct {
	pub JSONPublisher
}

func NewQueueDispatcher(pub JSONPublisher) Dispatcher {
	return &queueDispatcher{pub: pub}
}

func (d *queueDispatcher) Notify(ctx context.Context, ev NotificationEvent) error {
	if err := d.pub.PublishJSON(ctx, ev.EventID.String(), ev); err != nil {
		return fmt.Errorf("publish notification %s: %w", ev.EventID, err)
	}
	return nil
}

type logDispatcher struct {
	log *zap.Logger
}

// NewLogDispatcher is used when no broker is configured: events are logged
// and otherwise discarded.
func NewLogDispatcher(log *zap.Logger) Dispatcher {
	return &logDispatcher{log: log}
}

func (d *logDispatcher) Notify(_ context.Context, ev NotificationEvent) error {
	d.log.Sugar().Infow("notification not dispatched, no broker",
		"event_id", ev.EventID, "type", ev.Type, "recipient_id", ev.RecipientID)
	return nil
}

// decisionEvent builds the notification for the uploader after a reviewer decision.
func decisionEvent(rv *model.Review, a *model.Asset, publicURL string) NotificationEvent {
	ev := NotificationEvent{
		EventID:     uuid.New(),
		RecipientID: a.UploadedBy,
		ActionURL:   strings.TrimRight(publicURL, "/") + "/assets/" + a.ID.String(),
		Metadata: map[string]any{
			"asset_id":  a.ID.String(),
			"review_id": rv.ID.String(),
			"status":    string(rv.Status),
		},
		OccurredAt: time.Now().UTC(),
	}

	reasons := rv.ReasonList()
	if len(reasons) > 0 {
		ev.Metadata["reasons"] = reasons
	}

	switch rv.Status {
	case model.ReviewApproved:
		ev.Type = model.NotificationAssetApproved
		ev.Title = "Asset approved"
		ev.Message = fmt.Sprintf("%q was approved and is ready for publishing.", a.Title)
	case model.ReviewRejected:
		ev.Type = model.NotificationAssetRejected
		ev.Title = "Asset rejected"
		ev.Message = fmt.Sprintf("%q was rejected: %s.", a.Title, strings.Join(reasons, "; "))
	case model.ReviewChangesRequested:
		ev.Type = model.NotificationReviewChangesRequested
		ev.Title = "Changes requested"
		ev.Message = fmt.Sprintf("A reviewer asked for changes to %q: %s.", a.Title, strings.Join(reasons, "; "))
	}
	if rv.Comments != "" {
		ev.Message += "\n\n" + rv.Comments
	}
	return ev
}
