// Package access holds the capability predicates for the review workflow.
// Handlers may call them to decide what to render; services call them to decide
// what to allow, and only the service-side check is authoritative.
package access

import "github.com/contenthub/contenthub/internal/modules/model"

var reviewerRoles = map[model.Role]struct{}{
	model.RoleReviewer:       {},
	model.RoleContentManager: {},
	model.RoleAdmin:          {},
}

// CanReview reports whether u may list, claim and decide reviews.
func CanReview(u *model.User) bool {
	if u == nil {
		return false
	}
	_, ok := reviewerRoles[u.Role]
	return ok
}

// CanSubmit reports whether u may submit (or resubmit) a for review.
func CanSubmit(u *model.User, a *model.Asset) bool {
	if u == nil || a == nil {
		return false
	}
	return u.ID == a.UploadedBy
}

// CanViewReviews reports whether u may read the review history of a.
func CanViewReviews(u *model.User, a *model.Asset) bool {
	return CanReview(u) || CanSubmit(u, a)
}

// Capabilities is what the console needs to decide which controls to show.
type Capabilities struct {
	CanReview bool `json:"can_review"`
	CanUpload bool `json:"can_upload"`
}

func For(u *model.User) Capabilities {
	return Capabilities{
		CanReview: CanReview(u),
		CanUpload: u != nil,
	}
}
