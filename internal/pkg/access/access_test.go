package access

import (
	"testing"

	"github.com/contenthub/contenthub/internal/modules/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanReview(t *testing.T) {
	tests := []struct {
		role model.Role
		want bool
	}{
		{model.RoleAdmin, true},
		{model.RoleContentManager, true},
		{model.RoleReviewer, true},
		{model.RoleCreative, false},
		{model.RoleUser, false},
		{model.Role("GUEST"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, CanReview(&model.User{ID: uuid.New(), Role: tt.role}))
		})
	}

	assert.False(t, CanReview(nil))
}

func TestCanSubmit(t *testing.T) {
	owner := &model.User{ID: uuid.New(), Role: model.RoleCreative}
	other := &model.User{ID: uuid.New(), Role: model.RoleAdmin}
	asset := &model.Asset{ID: uuid.New(), UploadedBy: owner.ID}

	assert.True(t, CanSubmit(owner, asset))
	assert.False(t, CanSubmit(other, asset), "admins cannot submit assets they did not upload")
	assert.False(t, CanSubmit(nil, asset))
	assert.False(t, CanSubmit(owner, nil))
}

func TestCanViewReviews(t *testing.T) {
	owner := &model.User{ID: uuid.New(), Role: model.RoleUser}
	reviewer := &model.User{ID: uuid.New(), Role: model.RoleReviewer}
	stranger := &model.User{ID: uuid.New(), Role: model.RoleCreative}
	asset := &model.Asset{ID: uuid.New(), UploadedBy: owner.ID}

	assert.True(t, CanViewReviews(owner, asset))
	assert.True(t, CanViewReviews(reviewer, asset))
	assert.False(t, CanViewReviews(stranger, asset))
}

func TestFor(t *testing.T) {
	caps := For(&model.User{ID: uuid.New(), Role: model.RoleContentManager})
	assert.True(t, caps.CanReview)
	assert.True(t, caps.CanUpload)

	assert.Equal(t, Capabilities{}, For(nil))
}
