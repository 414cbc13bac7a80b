package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v5"
	"github.com/contenthub/contenthub/internal/infra/mailer"
	"github.com/contenthub/contenthub/internal/infra/queue"
	"github.com/contenthub/contenthub/internal/modules/model"
	"github.com/contenthub/contenthub/internal/modules/repo"
	"github.com/contenthub/contenthub/internal/pkg/apperr"
	"github.com/contenthub/contenthub/internal/pkg/paging"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationService interface {
	List(ctx context.Context, caller *model.User, in ListNotificationsInput) (*ListNotificationsOutput, error)
	MarkRead(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Notification, error)
}

type ListNotificationsInput struct {
	Limit  int
	Cursor string
}

type ListNotificationsOutput struct {
	Items      []*model.Notification `json:"items"`
	Unread     int64                 `json:"unread"`
	NextCursor string                `json:"next_cursor,omitempty"`
	HasMore    bool                  `json:"has_more"`
}

type notificationService struct {
	r repo.NotificationRepo
}

func NewNotificationService(r repo.NotificationRepo) NotificationService {
	return &notificationService{r: r}
}

func (s *notificationService) List(ctx context.Context, caller *model.User, in ListNotificationsInput) (*ListNotificationsOutput, error) {
	if caller == nil {
		return nil, apperr.Unauthenticated(msgSignInRequired)
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > 100 {
		limit = 100
	}

	var afterT time.Time
	var afterID uuid.UUID
	if in.Cursor != "" {
		var err error
		if afterT, afterID, err = paging.DecodeCursor(in.Cursor); err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, "Invalid cursor", err)
		}
	}

	items, err := s.r.ListByUserWithCursor(ctx, caller.ID, afterT, afterID, limit+1)
	if err != nil {
		return nil, translate(err, "Notification not found", "Notification changed")
	}

	out := &ListNotificationsOutput{Items: items}
	if len(items) > limit {
		out.HasMore = true
		out.Items = items[:limit]
		last := out.Items[limit-1]
		out.NextCursor = paging.EncodeCursor(last.CreatedAt, last.ID)
	}

	if out.Unread, err = s.r.CountUnread(ctx, caller.ID); err != nil {
		return nil, translate(err, "Notification not found", "Notification changed")
	}
	return out, nil
}

func (s *notificationService) MarkRead(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Notification, error) {
	if caller == nil {
		return nil, apperr.Unauthenticated(msgSignInRequired)
	}
	n, err := s.r.MarkRead(ctx, caller.ID, id)
	if err != nil {
		return nil, translate(err, "Notification not found", "Notification changed")
	}
	return n, nil
}

// RetryPolicy bounds email delivery attempts for one event.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// NotificationWorker consumes notification events: it stores the in-app copy
// and emails the recipient.
type NotificationWorker struct {
	notifications repo.NotificationRepo
	users         repo.UserRepo
	mail          mailer.Mailer
	retry         RetryPolicy
	log           *zap.Logger
}

func NewNotificationWorker(notifications repo.NotificationRepo, users repo.UserRepo, mail mailer.Mailer, retry RetryPolicy, log *zap.Logger) *NotificationWorker {
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = 5
	}
	if retry.InitialBackoff <= 0 {
		retry.InitialBackoff = 500 * time.Millisecond
	}
	if retry.MaxBackoff < retry.InitialBackoff {
		retry.MaxBackoff = 30 * time.Second
	}
	return &NotificationWorker{
		notifications: notifications,
		users:         users,
		mail:          mail,
		retry:         retry,
		log:           log,
	}
}

// Handle is a queue.HandlerFunc.
func (w *NotificationWorker) Handle(ctx context.Context, body []byte) error {
	var ev NotificationEvent
	if err := sonic.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: decode event: %v", queue.ErrDrop, err)
	}
	if ev.EventID == uuid.Nil || ev.RecipientID == uuid.Nil {
		return fmt.Errorf("%w: event without id or recipient", queue.ErrDrop)
	}

	// resolve the recipient first so a transient failure is retried before
	// anything is stored
	u, err := w.users.Get(ctx, ev.RecipientID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: recipient %s not found", queue.ErrDrop, ev.RecipientID)
	}
	if err != nil {
		return fmt.Errorf("load recipient: %w", err)
	}

	created, err := w.notifications.Create(ctx, &model.Notification{
		UserID:    u.ID,
		Type:      ev.Type,
		Title:     ev.Title,
		Message:   ev.Message,
		ActionURL: ev.ActionURL,
		Metadata:  datatypes.JSONMap(ev.Metadata),
		EventID:   ev.EventID,
	})
	if err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	if !created {
		// redelivery of an event we already handled
		w.log.Sugar().Infow("notification already stored", "event_id", ev.EventID)
		return nil
	}

	if u.Email == "" {
		return nil
	}
	if err := w.sendWithRetry(ctx, ev, u); err != nil {
		w.log.Sugar().Errorw("notification email failed",
			"event_id", ev.EventID, "recipient_id", u.ID, "attempts", w.retry.MaxAttempts, "err", err)
		return fmt.Errorf("%w: send email: %v", queue.ErrDrop, err)
	}
	return nil
}

func (w *NotificationWorker) sendWithRetry(ctx context.Context, ev NotificationEvent, u *model.User) error {
	msg := mailer.Message{
		To:      u.Email,
		ToName:  u.Name,
		Subject: ev.Title,
		Text:    ev.Message,
	}
	if ev.ActionURL != "" {
		msg.Text += "\n\nOpen in Content Hub: " + ev.ActionURL
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.retry.InitialBackoff
	b.MaxInterval = w.retry.MaxBackoff

	_, err := backoff.Retry(ctx,
		func() (struct{}, error) {
			return struct{}{}, w.mail.Send(ctx, msg)
		},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(w.retry.MaxAttempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			w.log.Sugar().Warnw("notification email retry", "event_id", ev.EventID, "next_in", next, "err", err)
		}),
	)
	return err
}
