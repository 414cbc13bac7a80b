package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/contenthub/contenthub/internal/modules/model"
	"github.com/contenthub/contenthub/internal/modules/repo"
	"github.com/contenthub/contenthub/internal/pkg/access"
	"github.com/contenthub/contenthub/internal/pkg/apperr"
	"github.com/contenthub/contenthub/internal/pkg/paging"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	defaultPageSize = 20
	dispatchTimeout = 5 * time.Second
)

type ReviewService interface {
	SubmitForReview(ctx context.Context, caller *model.User, assetID uuid.UUID, notes string) (*model.Review, error)
	Approve(ctx context.Context, caller *model.User, reviewID uuid.UUID, notes string) (*model.Review, error)
	Reject(ctx context.Context, caller *model.User, reviewID uuid.UUID, reasons []string, comments string) (*model.Review, error)
	RequestChanges(ctx context.Context, caller *model.User, reviewID uuid.UUID, requiredChanges []string, comments string) (*model.Review, error)
	Start(ctx context.Context, caller *model.User, reviewID uuid.UUID) (*model.Review, error)
	Resubmit(ctx context.Context, caller *model.User, reviewID uuid.UUID, notes string) (*model.Review, error)
	ListPending(ctx context.Context, caller *model.User, in ListPendingInput) (*ListPendingOutput, error)
	Get(ctx context.Context, caller *model.User, reviewID uuid.UUID) (*ReviewDetail, error)
	ListForAsset(ctx context.Context, caller *model.User, assetID uuid.UUID) ([]*model.Review, error)
}

// StatsCache is satisfied by *cache.ReviewStats. Invalidate bumps the
// generation; Set drops counts read under an older generation.
type StatsCache interface {
	Get(ctx context.Context) (map[string]int64, bool, error)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, gen int64, counts map[string]int64) error
	Invalidate(ctx context.Context) error
}

// Presigner is satisfied by *blob.S3Deps.
type Presigner interface {
	PresignGet(ctx context.Context, key, filename string, expire time.Duration) (string, error)
}

type ReviewOptions struct {
	// PublicURL is the console origin used in notification links.
	PublicURL     string
	MaxPageSize   int
	PresignExpire time.Duration
}

type ListPendingInput struct {
	// Statuses defaults to PENDING and IN_PROGRESS.
	Statuses []model.ReviewStatus
	Page     int
	PageSize int
	// Cursor, when set, takes precedence over Page.
	Cursor string
}

type ReviewStats struct {
	Pending          int64 `json:"pending"`
	InProgress       int64 `json:"in_progress"`
	Approved         int64 `json:"approved"`
	Rejected         int64 `json:"rejected"`
	ChangesRequested int64 `json:"changes_requested"`
}

type ListPendingOutput struct {
	Reviews    []*model.Review `json:"reviews"`
	Total      int64           `json:"total"`
	Stats      ReviewStats     `json:"stats"`
	NextCursor string          `json:"next_cursor,omitempty"`
	HasMore    bool            `json:"has_more"`
}

type ReviewDetail struct {
	Review     *model.Review `json:"review"`
	Asset      *model.Asset  `json:"asset"`
	PreviewURL string        `json:"preview_url,omitempty"`
}

type reviewService struct {
	reviews    repo.ReviewRepo
	assets     repo.AssetRepo
	dispatcher Dispatcher
	stats      StatsCache
	previews   Presigner
	log        *zap.Logger
	opts       ReviewOptions
}

// NewReviewService wires the workflow engine. stats and previews may be nil.
func NewReviewService(reviews repo.ReviewRepo, assets repo.AssetRepo, dispatcher Dispatcher, stats StatsCache, previews Presigner, log *zap.Logger, opts ReviewOptions) ReviewService {
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 100
	}
	if opts.PresignExpire <= 0 {
		opts.PresignExpire = 15 * time.Minute
	}
	return &reviewService{
		reviews:    reviews,
		assets:     assets,
		dispatcher: dispatcher,
		stats:      stats,
		previews:   previews,
		log:        log,
		opts:       opts,
	}
}

func (s *reviewService) SubmitForReview(ctx context.Context, caller *model.User, assetID uuid.UUID, notes string) (*model.Review, error) {
	if caller == nil {
		return nil, apperr.Unauthenticated(msgSignInRequired)
	}

	rv := &model.Review{
		AssetID:     assetID,
		SubmittedAt: time.Now().UTC(),
		SubmittedBy: caller.ID,
		Status:      model.ReviewPending,
		Notes:       strings.TrimSpace(notes),
	}
	_, err := s.reviews.Submit(ctx, rv, func(a *model.Asset, hasOpen bool) error {
		if !access.CanSubmit(caller, a) {
			return apperr.Forbidden(msgUploaderOnly)
		}
		if hasOpen {
			return apperr.Conflict(msgOpenReview)
		}
		if a.ReadyForPublishing {
			return apperr.Conflict("This asset is already approved for publishing")
		}
		if a.ProcessingStatus != model.ProcessingCompleted {
			return apperr.Conflict("This asset is not ready for review")
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, msgAssetNotFound, msgOpenReview)
	}

	s.invalidateStats(ctx)
	s.log.Sugar().Infow("review submitted", "review_id", rv.ID, "asset_id", assetID, "user_id", caller.ID)
	return rv, nil
}

func (s *reviewService) Approve(ctx context.Context, caller *model.User, reviewID uuid.UUID, notes string) (*model.Review, error) {
	return s.decide(ctx, caller, reviewID, model.ReviewApproved, nil, notes)
}

func (s *reviewService) Reject(ctx context.Context, caller *model.User, reviewID uuid.UUID, reasons []string, comments string) (*model.Review, error) {
	return s.decide(ctx, caller, reviewID, model.ReviewRejected, reasons, comments)
}

func (s *reviewService) RequestChanges(ctx context.Context, caller *model.User, reviewID uuid.UUID, requiredChanges []string, comments string) (*model.Review, error) {
	return s.decide(ctx, caller, reviewID, model.ReviewChangesRequested, requiredChanges, comments)
}

// decide moves a review awaiting a decision to one of the closing statuses and
// updates the asset in the same transaction, then notifies the uploader.
func (s *reviewService) decide(ctx context.Context, caller *model.User, reviewID uuid.UUID, to model.ReviewStatus, reasons []string, comments string) (*model.Review, error) {
	if caller == nil {
		return nil, apperr.Unauthenticated(msgSignInRequired)
	}
	if !access.CanReview(caller) {
		return nil, apperr.Forbidden(msgReviewersOnly)
	}

	reasons = cleanReasons(reasons)
	if to.RequiresReasons() && len(reasons) == 0 {
		if to == model.ReviewRejected {
			return nil, apperr.Validation("At least one rejection reason is required")
		}
		return nil, apperr.Validation("At least one required change is needed")
	}

	now := time.Now().UTC()
	rv, a, err := s.reviews.Transition(ctx, reviewID, func(cur *model.Review, _ *model.Asset) (*repo.Transition, error) {
		if !cur.Status.CanTransitionTo(to) {
			return nil, apperr.Conflict(msgAlreadyReviewed)
		}

		assetFields := map[string]any{"processing_status": model.ProcessingCompleted}
		if to == model.ReviewApproved {
			assetFields["ready_for_publishing"] = true
		}
		return &repo.Transition{
			To: to,
			ReviewFields: map[string]any{
				"reviewer_id": caller.ID,
				"decision_at": now,
				"reasons":     datatypes.NewJSONType(reasons),
				"comments":    strings.TrimSpace(comments),
			},
			AssetFields: assetFields,
		}, nil
	})
	if err != nil {
		return nil, translate(err, msgReviewNotFound, msgAlreadyReviewed)
	}
	rv.Asset = a

	s.invalidateStats(ctx)
	s.log.Sugar().Infow("review decided", "review_id", rv.ID, "asset_id", a.ID, "status", rv.Status, "reviewer_id", caller.ID)
	s.notify(ctx, decisionEvent(rv, a, s.opts.PublicURL))
	return rv, nil
}

func (s *reviewService) Start(ctx context.Context, caller *model.User, reviewID uuid.UUID) (*model.Review, error) {
	if caller == nil {
		return nil, apperr.Unauthenticated(msgSignInRequired)
	}
	if !access.CanReview(caller) {
		return nil, apperr.Forbidden(msgReviewersOnly)
	}

	rv, a, err := s.reviews.Transition(ctx, reviewID, func(cur *model.Review, _ *model.Asset) (*repo.Transition, error) {
		if cur.Status != model.ReviewPending {
			return nil, apperr.Conflict("This review is already being handled")
		}
		return &repo.Transition{
			To:           model.ReviewInProgress,
			ReviewFields: map[string]any{"reviewer_id": caller.ID},
		}, nil
	})
	if err != nil {
		return nil, translate(err, msgReviewNotFound, "This review is already being handled")
	}
	rv.Asset = a

	s.invalidateStats(ctx)
	s.log.Sugar().Infow("review started", "review_id", rv.ID, "reviewer_id", caller.ID)
	return rv, nil
}

// Resubmit puts a review with requested changes back into the queue. The
// reopened decision is appended to the review history; reasons and comments
// also stay on the review until the next decision.
func (s *reviewService) Resubmit(ctx context.Context, caller *model.User, reviewID uuid.UUID, notes string) (*model.Review, error) {
	if caller == nil {
		return nil, apperr.Unauthenticated(msgSignInRequired)
	}

	notes = strings.TrimSpace(notes)
	rv, a, err := s.reviews.Transition(ctx, reviewID, func(cur *model.Review, a *model.Asset) (*repo.Transition, error) {
		if !access.CanSubmit(caller, a) {
			return nil, apperr.Forbidden(msgUploaderOnly)
		}
		if cur.Status != model.ReviewChangesRequested {
			return nil, apperr.Conflict("Only reviews with requested changes can be resubmitted")
		}
		if !a.Submittable() {
			return nil, apperr.Conflict("This asset is not ready for review")
		}

		history := append(cur.HistoryList(), cur.CurrentDecision())
		fields := map[string]any{
			"submitted_at": time.Now().UTC(),
			"reviewer_id":  nil,
			"decision_at":  nil,
			"history":      datatypes.NewJSONType(history),
		}
		if notes != "" {
			fields["notes"] = notes
		}
		return &repo.Transition{
			To:           model.ReviewPending,
			ReviewFields: fields,
			AssetFields:  map[string]any{"processing_status": model.ProcessingReviewing},
		}, nil
	})
	if err != nil {
		return nil, translate(err, msgReviewNotFound, "This review was already resubmitted")
	}
	rv.Asset = a

	s.invalidateStats(ctx)
	s.log.Sugar().Infow("review resubmitted", "review_id", rv.ID, "asset_id", a.ID, "user_id", caller.ID)
	return rv, nil
}

func (s *reviewService) ListPending(ctx context.Context, caller *model.User, in ListPendingInput) (*ListPendingOutput, error) {
	if caller == nil {
		return nil, apperr.Unauthenticated(msgSignInRequired)
	}
	if !access.CanReview(caller) {
		return nil, apperr.Forbidden(msgReviewersOnly)
	}

	statuses := in.Statuses
	if len(statuses) == 0 {
		statuses = model.AwaitingDecisionStatuses
	}
	for _, st := range statuses {
		if !st.IsValid() {
			return nil, apperr.Validation(fmt.Sprintf("Unknown review status %q", st))
		}
	}

	size := in.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > s.opts.MaxPageSize {
		size = s.opts.MaxPageSize
	}

	f := repo.ReviewListFilter{Statuses: statuses, Limit: size + 1}
	if in.Cursor != "" {
		t, id, err := paging.DecodeCursor(in.Cursor)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, "Invalid cursor", err)
		}
		f.AfterSubmittedAt, f.AfterID = t, id
	} else {
		f.Offset = paging.Offset(in.Page, size)
	}

	items, err := s.reviews.List(ctx, f)
	if err != nil {
		return nil, translate(err, msgReviewNotFound, msgAlreadyReviewed)
	}

	out := &ListPendingOutput{Reviews: items}
	if len(items) > size {
		out.HasMore = true
		out.Reviews = items[:size]
		last := out.Reviews[size-1]
		out.NextCursor = paging.EncodeCursor(last.SubmittedAt, last.ID)
	}

	if out.Total, err = s.reviews.Count(ctx, statuses); err != nil {
		return nil, translate(err, msgReviewNotFound, msgAlreadyReviewed)
	}
	if out.Stats, err = s.loadStats(ctx); err != nil {
		return nil, translate(err, msgReviewNotFound, msgAlreadyReviewed)
	}
	return out, nil
}

func (s *reviewService) Get(ctx context.Context, caller *model.User, reviewID uuid.UUID) (*ReviewDetail, error) {
	if caller == nil {
		return nil, apperr.Unauthenticated(msgSignInRequired)
	}
	if !access.CanReview(caller) {
		return nil, apperr.Forbidden(msgReviewersOnly)
	}

	rv, err := s.reviews.Get(ctx, reviewID)
	if err != nil {
		return nil, translate(err, msgReviewNotFound, msgAlreadyReviewed)
	}

	out := &ReviewDetail{Review: rv, Asset: rv.Asset}
	if s.previews != nil && rv.Asset != nil && rv.Asset.S3Key != "" {
		url, perr := s.previews.PresignGet(ctx, rv.Asset.S3Key, "", s.opts.PresignExpire)
		if perr != nil {
			s.log.Sugar().Warnw("presign preview failed", "asset_id", rv.AssetID, "err", perr)
		} else {
			out.PreviewURL = url
		}
	}
	return out, nil
}

func (s *reviewService) ListForAsset(ctx context.Context, caller *model.User, assetID uuid.UUID) ([]*model.Review, error) {
	if caller == nil {
		return nil, apperr.Unauthenticated(msgSignInRequired)
	}

	a, err := s.assets.Get(ctx, assetID)
	if err != nil {
		return nil, translate(err, msgAssetNotFound, msgAlreadyReviewed)
	}
	if !access.CanViewReviews(caller, a) {
		return nil, apperr.Forbidden("You don't have access to this asset's reviews")
	}

	items, err := s.reviews.ListByAsset(ctx, assetID)
	if err != nil {
		return nil, translate(err, msgAssetNotFound, msgAlreadyReviewed)
	}
	return items, nil
}

func (s *reviewService) loadStats(ctx context.Context) (ReviewStats, error) {
	cacheable := false
	var gen int64
	if s.stats != nil {
		counts, ok, err := s.stats.Get(ctx)
		if err != nil {
			s.log.Sugar().Warnw("review stats cache read failed", "err", err)
		} else if ok {
			return statsFromCounts(counts), nil
		}
		// read before counting, so a write that commits meanwhile voids the fill
		if gen, err = s.stats.Generation(ctx); err != nil {
			s.log.Sugar().Warnw("review stats generation read failed", "err", err)
		} else {
			cacheable = true
		}
	}

	byStatus, err := s.reviews.CountByStatus(ctx)
	if err != nil {
		return ReviewStats{}, err
	}
	counts := make(map[string]int64, len(byStatus))
	for st, n := range byStatus {
		counts[string(st)] = n
	}

	if cacheable {
		if err := s.stats.Set(ctx, gen, counts); err != nil {
			s.log.Sugar().Warnw("review stats cache write failed", "err", err)
		}
	}
	return statsFromCounts(counts), nil
}

func (s *reviewService) invalidateStats(ctx context.Context) {
	if s.stats == nil {
		return
	}
	if err := s.stats.Invalidate(context.WithoutCancel(ctx)); err != nil {
		s.log.Sugar().Warnw("review stats cache invalidate failed", "err", err)
	}
}

// notify runs after the transaction committed. Delivery problems are logged and
// never change the outcome of the operation.
func (s *reviewService) notify(ctx context.Context, ev NotificationEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
	defer cancel()

	if err := s.dispatcher.Notify(ctx, ev); err != nil {
		s.log.Sugar().Errorw("notification dispatch failed",
			"event_id", ev.EventID, "type", ev.Type, "recipient_id", ev.RecipientID, "err", err)
	}
}

func statsFromCounts(counts map[string]int64) ReviewStats {
	return ReviewStats{
		Pending:          counts[string(model.ReviewPending)],
		InProgress:       counts[string(model.ReviewInProgress)],
		Approved:         counts[string(model.ReviewApproved)],
		Rejected:         counts[string(model.ReviewRejected)],
		ChangesRequested: counts[string(model.ReviewChangesRequested)],
	}
}

// cleanReasons trims entries and drops blanks, keeping order.
func cleanReasons(in []string) []string {
	out := make([]string, 0, len(in))
	for _, r := range in {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
