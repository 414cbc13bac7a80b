package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/contenthub/contenthub/internal/infra/db/dbtest"
	"github.com/contenthub/contenthub/internal/modules/model"
	"github.com/contenthub/contenthub/internal/modules/repo"
	"github.com/contenthub/contenthub/internal/pkg/apperr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MockDispatcher is a mock implementation of Dispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Notify(ctx context.Context, ev NotificationEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// MockPresigner is a mock implementation of Presigner
type MockPresigner struct {
	mock.Mock
}

func (m *MockPresigner) PresignGet(ctx context.Context, key, filename string, expire time.Duration) (string, error) {
	args := m.Called(ctx, key, filename, expire)
	return args.String(0), args.Error(1)
}

type memStats struct {
	mu            sync.Mutex
	counts        map[string]int64
	gen           int64
	invalidations int
	// beforeSet runs ahead of every Set, outside the lock.
	beforeSet func()
}

func (c *memStats) Get(context.Context) (map[string]int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts, c.counts != nil, nil
}

func (c *memStats) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *memStats) Set(_ context.Context, gen int64, counts map[string]int64) error {
	if c.beforeSet != nil {
		c.beforeSet()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil
	}
	c.counts = counts
	return nil
}

func (c *memStats) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = nil
	c.gen++
	c.invalidations++
	return nil
}

type engineFixture struct {
	db         *gorm.DB
	svc        ReviewService
	dispatcher *MockDispatcher
	stats      *memStats
	presigner  *MockPresigner

	uploader *model.User
	reviewer *model.User
	other    *model.User
}

func newEngine(t *testing.T) *engineFixture {
	t.Helper()
	d := dbtest.New(t)

	f := &engineFixture{
		db:         d,
		dispatcher: &MockDispatcher{},
		stats:      &memStats{},
		presigner:  &MockPresigner{},
	}
	f.uploader = f.user(t, model.RoleCreative)
	f.reviewer = f.user(t, model.RoleReviewer)
	f.other = f.user(t, model.RoleCreative)

	f.svc = NewReviewService(
		repo.NewReviewRepo(d),
		repo.NewAssetRepo(d),
		f.dispatcher,
		f.stats,
		f.presigner,
		zap.NewNop(),
		ReviewOptions{PublicURL: "https://hub.example.com/", MaxPageSize: 50},
	)
	return f
}

func (f *engineFixture) user(t *testing.T, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Email: uuid.NewString() + "@example.com", Name: string(role), Role: role}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *engineFixture) asset(t *testing.T, owner *model.User, status model.ProcessingStatus) *model.Asset {
	t.Helper()
	a := &model.Asset{
		Title:            "campaign key visual",
		Type:             model.AssetTypeImage,
		MimeType:         "image/jpeg",
		FileSize:         2048,
		Usage:            model.UsageInternal,
		ProcessingStatus: status,
		S3Key:            "assets/k.jpg",
		UploadedBy:       owner.ID,
	}
	require.NoError(t, repo.NewAssetRepo(f.db).Create(context.Background(), a, nil))
	return a
}

func (f *engineFixture) reload(t *testing.T, rv *model.Review) (*model.Review, *model.Asset) {
	t.Helper()
	var r model.Review
	require.NoError(t, f.db.Where("id = ?", rv.ID).First(&r).Error)
	var a model.Asset
	require.NoError(t, f.db.Where("id = ?", r.AssetID).First(&a).Error)
	return &r, &a
}

func (f *engineFixture) submit(t *testing.T) (*model.Review, *model.Asset) {
	t.Helper()
	a := f.asset(t, f.uploader, model.ProcessingCompleted)
	rv, err := f.svc.SubmitForReview(context.Background(), f.uploader, a.ID, "ready for brand check")
	require.NoError(t, err)
	return rv, a
}

func reasonsOf(r ...string) datatypes.JSONType[[]string] {
	return datatypes.NewJSONType(r)
}

func expectNotify(d *MockDispatcher, typ model.NotificationType, recipient uuid.UUID) *mock.Call {
	return d.On("Notify", mock.Anything, mock.MatchedBy(func(ev NotificationEvent) bool {
		return ev.Type == typ && ev.RecipientID == recipient && ev.EventID != uuid.Nil
	})).Return(nil)
}

func TestReviewService_SubmitForReview(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending review and marks asset reviewing", func(t *testing.T) {
		f := newEngine(t)
		a := f.asset(t, f.uploader, model.ProcessingCompleted)

		rv, err := f.svc.SubmitForReview(ctx, f.uploader, a.ID, "  please check colors  ")
		require.NoError(t, err)
		assert.Equal(t, model.ReviewPending, rv.Status)
		assert.Equal(t, f.uploader.ID, rv.SubmittedBy)
		assert.Equal(t, "please check colors", rv.Notes)
		assert.False(t, rv.SubmittedAt.IsZero())

		_, stored := f.reload(t, rv)
		assert.Equal(t, model.ProcessingReviewing, stored.ProcessingStatus)
		assert.False(t, stored.ReadyForPublishing)
		assert.Equal(t, 1, f.stats.invalidations)
		f.dispatcher.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("only the uploader may submit", func(t *testing.T) {
		f := newEngine(t)
		a := f.asset(t, f.uploader, model.ProcessingCompleted)

		for _, caller := range []*model.User{f.other, f.reviewer} {
			_, err := f.svc.SubmitForReview(ctx, caller, a.ID, "")
			assert.ErrorIs(t, err, apperr.ErrForbidden)
		}
	})

	t.Run("missing asset", func(t *testing.T) {
		f := newEngine(t)
		_, err := f.svc.SubmitForReview(ctx, f.uploader, uuid.New(), "")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("asset not completed", func(t *testing.T) {
		f := newEngine(t)
		for _, st := range []model.ProcessingStatus{model.ProcessingUploading, model.ProcessingProcessing, model.ProcessingFailed} {
			a := f.asset(t, f.uploader, st)
			_, err := f.svc.SubmitForReview(ctx, f.uploader, a.ID, "")
			assert.ErrorIs(t, err, apperr.ErrConflict, st)
		}
	})

	t.Run("already approved asset", func(t *testing.T) {
		f := newEngine(t)
		a := f.asset(t, f.uploader, model.ProcessingCompleted)
		require.NoError(t, f.db.Model(a).Update("ready_for_publishing", true).Error)

		_, err := f.svc.SubmitForReview(ctx, f.uploader, a.ID, "")
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("second submission while open", func(t *testing.T) {
		f := newEngine(t)
		_, a := f.submit(t)

		_, err := f.svc.SubmitForReview(ctx, f.uploader, a.ID, "")
		assert.ErrorIs(t, err, apperr.ErrConflict)

		var n int64
		require.NoError(t, f.db.Model(&model.Review{}).Where("asset_id = ?", a.ID).Count(&n).Error)
		assert.Equal(t, int64(1), n)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		f := newEngine(t)
		_, err := f.svc.SubmitForReview(ctx, nil, uuid.New(), "")
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})
}

func TestReviewService_ApproveScenario(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()
	rv, _ := f.submit(t)

	expectNotify(f.dispatcher, model.NotificationAssetApproved, f.uploader.ID).Once()

	out, err := f.svc.Approve(ctx, f.reviewer, rv.ID, "looks great")
	require.NoError(t, err)
	assert.Equal(t, model.ReviewApproved, out.Status)
	require.NotNil(t, out.ReviewerID)
	assert.Equal(t, f.reviewer.ID, *out.ReviewerID)
	assert.NotNil(t, out.DecisionAt)
	assert.Equal(t, "looks great", out.Comments)

	_, a := f.reload(t, rv)
	assert.True(t, a.ReadyForPublishing)
	assert.Equal(t, model.ProcessingCompleted, a.ProcessingStatus)

	f.dispatcher.AssertExpectations(t)
	ev := f.dispatcher.Calls[0].Arguments.Get(1).(NotificationEvent)
	assert.Equal(t, "https://hub.example.com/assets/"+a.ID.String(), ev.ActionURL)
	assert.Equal(t, rv.ID.String(), ev.Metadata["review_id"])
}

func TestReviewService_RejectRequiresReasons(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()
	rv, _ := f.submit(t)

	for _, reasons := range [][]string{nil, {}, {"  ", ""}} {
		_, err := f.svc.Reject(ctx, f.reviewer, rv.ID, reasons, "no")
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = f.svc.RequestChanges(ctx, f.reviewer, rv.ID, reasons, "no")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}

	stored, a := f.reload(t, rv)
	assert.Equal(t, model.ReviewPending, stored.Status)
	assert.Nil(t, stored.ReviewerID)
	assert.Empty(t, stored.ReasonList())
	assert.Equal(t, model.ProcessingReviewing, a.ProcessingStatus)
	f.dispatcher.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestReviewService_RejectThenResubmit(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()
	rv, a := f.submit(t)

	expectNotify(f.dispatcher, model.NotificationAssetRejected, f.uploader.ID).Once()
	out, err := f.svc.Reject(ctx, f.reviewer, rv.ID, []string{" Off-brand palette ", "Low resolution"}, "see guide")
	require.NoError(t, err)
	assert.Equal(t, model.ReviewRejected, out.Status)
	assert.Equal(t, []string{"Off-brand palette", "Low resolution"}, out.ReasonList())

	_, stored := f.reload(t, rv)
	assert.False(t, stored.ReadyForPublishing)
	assert.Equal(t, model.ProcessingCompleted, stored.ProcessingStatus)

	// a rejected review is closed, so a fresh submission is allowed
	next, err := f.svc.SubmitForReview(ctx, f.uploader, a.ID, "fixed palette")
	require.NoError(t, err)
	assert.NotEqual(t, rv.ID, next.ID)
	assert.Equal(t, model.ReviewPending, next.Status)
	f.dispatcher.AssertExpectations(t)
}

func TestReviewService_RequestChangesBlocksSubmit(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()
	rv, a := f.submit(t)

	expectNotify(f.dispatcher, model.NotificationReviewChangesRequested, f.uploader.ID).Once()
	out, err := f.svc.RequestChanges(ctx, f.reviewer, rv.ID, []string{"Crop to 16:9"}, "")
	require.NoError(t, err)
	assert.Equal(t, model.ReviewChangesRequested, out.Status)

	_, stored := f.reload(t, rv)
	assert.Equal(t, model.ProcessingCompleted, stored.ProcessingStatus)

	_, err = f.svc.SubmitForReview(ctx, f.uploader, a.ID, "")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// decisions are closed until the uploader resubmits
	_, err = f.svc.Approve(ctx, f.reviewer, rv.ID, "")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = f.svc.Resubmit(ctx, f.other, rv.ID, "")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	back, err := f.svc.Resubmit(ctx, f.uploader, rv.ID, "cropped")
	require.NoError(t, err)
	assert.Equal(t, rv.ID, back.ID)
	assert.Equal(t, model.ReviewPending, back.Status)
	assert.Nil(t, back.ReviewerID)
	assert.Nil(t, back.DecisionAt)
	assert.Equal(t, "cropped", back.Notes)
	assert.Equal(t, []string{"Crop to 16:9"}, back.ReasonList())
	assert.True(t, back.SubmittedAt.After(rv.SubmittedAt) || back.SubmittedAt.Equal(rv.SubmittedAt))

	history := back.HistoryList()
	require.Len(t, history, 1)
	assert.Equal(t, model.ReviewChangesRequested, history[0].Status)
	require.NotNil(t, history[0].ReviewerID)
	assert.Equal(t, f.reviewer.ID, *history[0].ReviewerID)
	assert.NotNil(t, history[0].DecisionAt)
	assert.Equal(t, []string{"Crop to 16:9"}, history[0].Reasons)

	_, stored = f.reload(t, rv)
	assert.Equal(t, model.ProcessingReviewing, stored.ProcessingStatus)

	_, err = f.svc.Resubmit(ctx, f.uploader, rv.ID, "")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	expectNotify(f.dispatcher, model.NotificationAssetApproved, f.uploader.ID).Once()
	final, err := f.svc.Approve(ctx, f.reviewer, rv.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.ReviewApproved, final.Status)
	assert.Empty(t, final.ReasonList())

	// the requested-changes cycle survives the approval
	cycles, err := f.svc.ListForAsset(ctx, f.uploader, a.ID)
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	require.Len(t, cycles[0].HistoryList(), 1)
	assert.Equal(t, []string{"Crop to 16:9"}, cycles[0].HistoryList()[0].Reasons)
	f.dispatcher.AssertExpectations(t)
}

func TestReviewService_StartClaimsReview(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()
	rv, _ := f.submit(t)

	_, err := f.svc.Start(ctx, f.uploader, rv.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	out, err := f.svc.Start(ctx, f.reviewer, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReviewInProgress, out.Status)
	require.NotNil(t, out.ReviewerID)
	assert.Equal(t, f.reviewer.ID, *out.ReviewerID)
	assert.Nil(t, out.DecisionAt)

	_, err = f.svc.Start(ctx, f.reviewer, rv.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	expectNotify(f.dispatcher, model.NotificationAssetRejected, f.uploader.ID).Once()
	done, err := f.svc.Reject(ctx, f.reviewer, rv.ID, []string{"Wrong logo"}, "")
	require.NoError(t, err)
	assert.Equal(t, model.ReviewRejected, done.Status)
}

func TestReviewService_DecisionGates(t *testing.T) {
	ctx := context.Background()

	t.Run("non reviewer roles are forbidden", func(t *testing.T) {
		f := newEngine(t)
		rv, _ := f.submit(t)

		for _, role := range []model.Role{model.RoleCreative, model.RoleUser} {
			caller := f.user(t, role)
			_, err := f.svc.Approve(ctx, caller, rv.ID, "")
			assert.ErrorIs(t, err, apperr.ErrForbidden)
			_, err = f.svc.Reject(ctx, caller, rv.ID, []string{"x"}, "")
			assert.ErrorIs(t, err, apperr.ErrForbidden)
			_, err = f.svc.RequestChanges(ctx, caller, rv.ID, []string{"x"}, "")
			assert.ErrorIs(t, err, apperr.ErrForbidden)
			_, err = f.svc.ListPending(ctx, caller, ListPendingInput{})
			assert.ErrorIs(t, err, apperr.ErrForbidden)
		}

		stored, _ := f.reload(t, rv)
		assert.Equal(t, model.ReviewPending, stored.Status)
	})

	t.Run("every reviewer role may decide", func(t *testing.T) {
		f := newEngine(t)
		f.dispatcher.On("Notify", mock.Anything, mock.Anything).Return(nil)

		for _, role := range []model.Role{model.RoleReviewer, model.RoleContentManager, model.RoleAdmin} {
			rv, _ := f.submit(t)
			out, err := f.svc.Approve(ctx, f.user(t, role), rv.ID, "")
			require.NoError(t, err, role)
			assert.Equal(t, model.ReviewApproved, out.Status)
		}
	})

	t.Run("missing review", func(t *testing.T) {
		f := newEngine(t)
		_, err := f.svc.Approve(ctx, f.reviewer, uuid.New(), "")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("closed reviews stay closed", func(t *testing.T) {
		f := newEngine(t)
		f.dispatcher.On("Notify", mock.Anything, mock.Anything).Return(nil)
		rv, _ := f.submit(t)

		_, err := f.svc.Approve(ctx, f.reviewer, rv.ID, "")
		require.NoError(t, err)

		_, err = f.svc.Reject(ctx, f.reviewer, rv.ID, []string{"late"}, "")
		assert.ErrorIs(t, err, apperr.ErrConflict)
		assert.Equal(t, msgAlreadyReviewed, apperr.MessageOf(err))
		_, err = f.svc.RequestChanges(ctx, f.reviewer, rv.ID, []string{"late"}, "")
		assert.ErrorIs(t, err, apperr.ErrConflict)
		_, err = f.svc.Approve(ctx, f.reviewer, rv.ID, "")
		assert.ErrorIs(t, err, apperr.ErrConflict)
		_, err = f.svc.Start(ctx, f.reviewer, rv.ID)
		assert.ErrorIs(t, err, apperr.ErrConflict)

		stored, a := f.reload(t, rv)
		assert.Equal(t, model.ReviewApproved, stored.Status)
		assert.Empty(t, stored.ReasonList())
		assert.True(t, a.ReadyForPublishing)
		f.dispatcher.AssertNumberOfCalls(t, "Notify", 1)
	})
}

func TestReviewService_ConcurrentApprove(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()
	rv, _ := f.submit(t)
	second := f.user(t, model.RoleContentManager)

	expectNotify(f.dispatcher, model.NotificationAssetApproved, f.uploader.ID).Once()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, caller := range []*model.User{f.reviewer, second} {
		wg.Add(1)
		go func(i int, caller *model.User) {
			defer wg.Done()
			_, errs[i] = f.svc.Approve(ctx, caller, rv.ID, "")
		}(i, caller)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, apperr.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)

	stored, _ := f.reload(t, rv)
	assert.Equal(t, model.ReviewApproved, stored.Status)
	f.dispatcher.AssertExpectations(t)
}

func TestReviewService_DispatchFailureIsNotReturned(t *testing.T) {
	f := newEngine(t)
	rv, _ := f.submit(t)
	f.dispatcher.On("Notify", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	out, err := f.svc.Approve(context.Background(), f.reviewer, rv.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.ReviewApproved, out.Status)
}

func TestReviewService_ListPending(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		a := f.asset(t, f.uploader, model.ProcessingReviewing)
		rv := &model.Review{AssetID: a.ID, SubmittedBy: f.uploader.ID, SubmittedAt: base.Add(time.Duration(4-i) * time.Minute), Status: model.ReviewPending}
		require.NoError(t, f.db.Create(rv).Error)
		ids = append([]uuid.UUID{rv.ID}, ids...)
	}
	closed := f.asset(t, f.uploader, model.ProcessingCompleted)
	require.NoError(t, f.db.Create(&model.Review{AssetID: closed.ID, SubmittedBy: f.uploader.ID, SubmittedAt: base, Status: model.ReviewRejected, Reasons: reasonsOf("x")}).Error)

	t.Run("offset pages in queue order", func(t *testing.T) {
		var got []uuid.UUID
		for page := 1; page <= 3; page++ {
			out, err := f.svc.ListPending(ctx, f.reviewer, ListPendingInput{Page: page, PageSize: 2})
			require.NoError(t, err)
			assert.Equal(t, int64(5), out.Total)
			for _, rv := range out.Reviews {
				got = append(got, rv.ID)
			}
			assert.Equal(t, page < 3, out.HasMore)
		}
		assert.Equal(t, ids, got)
	})

	t.Run("cursor pages in queue order", func(t *testing.T) {
		var got []uuid.UUID
		in := ListPendingInput{PageSize: 2}
		for {
			out, err := f.svc.ListPending(ctx, f.reviewer, in)
			require.NoError(t, err)
			for _, rv := range out.Reviews {
				got = append(got, rv.ID)
			}
			if !out.HasMore {
				assert.Empty(t, out.NextCursor)
				break
			}
			in.Cursor = out.NextCursor
		}
		assert.Equal(t, ids, got)
	})

	t.Run("stats are cached until a write", func(t *testing.T) {
		out, err := f.svc.ListPending(ctx, f.reviewer, ListPendingInput{})
		require.NoError(t, err)
		assert.Equal(t, ReviewStats{Pending: 5, Rejected: 1}, out.Stats)
		assert.NotNil(t, f.stats.counts)

		f.stats.counts = map[string]int64{"PENDING": 42}
		out, err = f.svc.ListPending(ctx, f.reviewer, ListPendingInput{})
		require.NoError(t, err)
		assert.Equal(t, int64(42), out.Stats.Pending)

		_, err = f.svc.Start(ctx, f.reviewer, ids[0])
		require.NoError(t, err)
		out, err = f.svc.ListPending(ctx, f.reviewer, ListPendingInput{})
		require.NoError(t, err)
		assert.Equal(t, ReviewStats{Pending: 4, InProgress: 1, Rejected: 1}, out.Stats)
		assert.Equal(t, int64(5), out.Total)
	})

	t.Run("write during a refill keeps the cache empty", func(t *testing.T) {
		require.NoError(t, f.stats.Invalidate(ctx))
		f.stats.beforeSet = func() {
			f.stats.beforeSet = nil
			_, err := f.svc.Start(ctx, f.reviewer, ids[1])
			require.NoError(t, err)
		}

		stale, err := f.svc.ListPending(ctx, f.reviewer, ListPendingInput{})
		require.NoError(t, err)
		assert.Equal(t, ReviewStats{Pending: 4, InProgress: 1, Rejected: 1}, stale.Stats)
		assert.Nil(t, f.stats.counts)

		fresh, err := f.svc.ListPending(ctx, f.reviewer, ListPendingInput{})
		require.NoError(t, err)
		assert.Equal(t, ReviewStats{Pending: 3, InProgress: 2, Rejected: 1}, fresh.Stats)
		assert.NotNil(t, f.stats.counts)
	})

	t.Run("status filter", func(t *testing.T) {
		out, err := f.svc.ListPending(ctx, f.reviewer, ListPendingInput{Statuses: []model.ReviewStatus{model.ReviewRejected}})
		require.NoError(t, err)
		require.Len(t, out.Reviews, 1)
		assert.Equal(t, closed.ID, out.Reviews[0].AssetID)

		_, err = f.svc.ListPending(ctx, f.reviewer, ListPendingInput{Statuses: []model.ReviewStatus{"DONE"}})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		out, err := f.svc.ListPending(ctx, f.reviewer, ListPendingInput{Page: math.MaxInt, PageSize: 50})
		require.NoError(t, err)
		assert.Empty(t, out.Reviews)
		assert.False(t, out.HasMore)
		assert.Equal(t, int64(5), out.Total)
	})

	t.Run("invalid cursor", func(t *testing.T) {
		_, err := f.svc.ListPending(ctx, f.reviewer, ListPendingInput{Cursor: "%%%"})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestReviewService_GetAndListForAsset(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()
	rv, a := f.submit(t)

	f.presigner.On("PresignGet", mock.Anything, "assets/k.jpg", "", 15*time.Minute).Return("https://s3.example.com/k.jpg?sig", nil).Once()

	detail, err := f.svc.Get(ctx, f.reviewer, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, rv.ID, detail.Review.ID)
	assert.Equal(t, a.ID, detail.Asset.ID)
	assert.Equal(t, "https://s3.example.com/k.jpg?sig", detail.PreviewURL)
	f.presigner.AssertExpectations(t)

	_, err = f.svc.Get(ctx, f.uploader, rv.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = f.svc.Get(ctx, f.reviewer, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	for _, caller := range []*model.User{f.uploader, f.reviewer} {
		items, err := f.svc.ListForAsset(ctx, caller, a.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, rv.ID, items[0].ID)
	}
	_, err = f.svc.ListForAsset(ctx, f.other, a.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = f.svc.ListForAsset(ctx, f.uploader, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
