package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReviewStatus string

const (
	ReviewPending          ReviewStatus = "PENDING"
	ReviewInProgress       ReviewStatus = "IN_PROGRESS"
	ReviewApproved         ReviewStatus = "APPROVED"
	ReviewRejected         ReviewStatus = "REJECTED"
	ReviewChangesRequested ReviewStatus = "CHANGES_REQUESTED"
)

// OpenReviewStatuses block a new submission for the same asset.
var OpenReviewStatuses = []ReviewStatus{ReviewPending, ReviewInProgress, ReviewChangesRequested}

// AwaitingDecisionStatuses are the statuses a reviewer may decide on.
var AwaitingDecisionStatuses = []ReviewStatus{ReviewPending, ReviewInProgress}

// reviewTransitions is the review state machine. APPROVED and REJECTED have no
// outgoing edges; CHANGES_REQUESTED only goes back to PENDING on resubmission.
var reviewTransitions = map[ReviewStatus][]ReviewStatus{
	ReviewPending:          {ReviewInProgress, ReviewApproved, ReviewRejected, ReviewChangesRequested},
	ReviewInProgress:       {ReviewApproved, ReviewRejected, ReviewChangesRequested},
	ReviewChangesRequested: {ReviewPending},
}

func (s ReviewStatus) IsValid() bool {
	switch s {
	case ReviewPending, ReviewInProgress, ReviewApproved, ReviewRejected, ReviewChangesRequested:
		return true
	}
	return false
}

func (s ReviewStatus) IsOpen() bool {
	for _, o := range OpenReviewStatuses {
		if s == o {
			return true
		}
	}
	return false
}

func (s ReviewStatus) IsTerminal() bool {
	return s == ReviewApproved || s == ReviewRejected
}

// RequiresReasons reports whether a review in status s must carry at least one reason.
func (s ReviewStatus) RequiresReasons() bool {
	return s == ReviewRejected || s == ReviewChangesRequested
}

func (s ReviewStatus) CanTransitionTo(next ReviewStatus) bool {
	for _, n := range reviewTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// TransitionSources lists every status that may move to next, in a stable order.
// Repositories use it as the compare-and-set guard of an UPDATE.
func TransitionSources(next ReviewStatus) []ReviewStatus {
	order := []ReviewStatus{ReviewPending, ReviewInProgress, ReviewApproved, ReviewRejected, ReviewChangesRequested}
	out := make([]ReviewStatus, 0, 2)
	for _, s := range order {
		if s.CanTransitionTo(next) {
			out = append(out, s)
		}
	}
	return out
}

// ReviewDecision is a decision that a resubmission reopened. Reviews keep
// them in order so the full review cycle stays visible.
type ReviewDecision struct {
	Status     ReviewStatus `json:"status"`
	ReviewerID *uuid.UUID   `json:"reviewer_id"`
	DecisionAt *time.Time   `json:"decision_at"`
	Reasons    []string     `json:"reasons"`
	Comments   string       `json:"comments"`
}

type Review struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_reviews_queue,priority:3" json:"id"`
	AssetID uuid.UUID `gorm:"type:uuid;not null;index" json:"asset_id"`
	Asset   *Asset    `gorm:"foreignKey:AssetID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE;" json:"asset,omitempty"`

	SubmittedAt time.Time    `gorm:"not null;index:idx_reviews_queue,priority:2" json:"submitted_at"`
	SubmittedBy uuid.UUID    `gorm:"type:uuid;not null;index" json:"submitted_by"`
	Status      ReviewStatus `gorm:"type:text;not null;default:'PENDING';index:idx_reviews_queue,priority:1;check:status IN ('PENDING','IN_PROGRESS','APPROVED','REJECTED','CHANGES_REQUESTED')" json:"status"`
	Notes       string       `gorm:"type:text;not null;default:''" json:"notes"`

	ReviewerID *uuid.UUID                   `gorm:"type:uuid;index" json:"reviewer_id"`
	DecisionAt *time.Time                   `json:"decision_at"`
	Reasons    datatypes.JSONType[[]string] `gorm:"type:jsonb;not null" swaggertype:"array,string" json:"reasons"`
	Comments   string                       `gorm:"type:text;not null;default:''" json:"comments"`

	History datatypes.JSONType[[]ReviewDecision] `gorm:"type:jsonb;not null;default:'[]'" swaggertype:"array,object" json:"history"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Review) TableName() string { return "reviews" }

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Reasons.Data() == nil {
		r.Reasons = datatypes.NewJSONType([]string{})
	}
	if r.History.Data() == nil {
		r.History = datatypes.NewJSONType([]ReviewDecision{})
	}
	return nil
}

// ReasonList returns the decision reasons, never nil.
func (r *Review) ReasonList() []string {
	reasons := r.Reasons.Data()
	if reasons == nil {
		return []string{}
	}
	return reasons
}

// HistoryList returns reopened decisions, oldest first, never nil.
func (r *Review) HistoryList() []ReviewDecision {
	h := r.History.Data()
	if h == nil {
		return []ReviewDecision{}
	}
	return h
}

// CurrentDecision snapshots the decision fields as they are now.
func (r *Review) CurrentDecision() ReviewDecision {
	return ReviewDecision{
		Status:     r.Status,
		ReviewerID: r.ReviewerID,
		DecisionAt: r.DecisionAt,
		Reasons:    r.ReasonList(),
		Comments:   r.Comments,
	}
}
