package service

import (
	"context"
	"errors"

	"github.com/contenthub/contenthub/internal/modules/repo"
	"github.com/contenthub/contenthub/internal/pkg/apperr"
	"gorm.io/gorm"
)

// Messages shown to console users; handlers pass them through unchanged.
const (
	msgAlreadyReviewed = "This item was already reviewed"
	msgOpenReview      = "This asset already has an open review"
	msgReviewNotFound  = "Review not found"
	msgAssetNotFound   = "Asset not found"
	msgSignInRequired  = "Sign in required"
	msgReviewersOnly   = "Only reviewers can perform this action"
	msgUploaderOnly    = "Only the uploader can perform this action"
)

// translate classifies a repository error. Errors already carrying a kind pass
// through; conflict is the message used for lost compare-and-set races.
func translate(err error, notFound, conflict string) error {
	var ae *apperr.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ae):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Wrap(apperr.KindNotFound, notFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, repo.ErrStaleStatus):
		return apperr.Wrap(apperr.KindConflict, conflict, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperr.Unavailable("request cancelled", err)
	default:
		return apperr.Unavailable("storage unavailable", err)
	}
}
