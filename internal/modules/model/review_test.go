package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReviewStatus_CanTransitionTo(t *testing.T) {
	all := []ReviewStatus{ReviewPending, ReviewInProgress, ReviewApproved, ReviewRejected, ReviewChangesRequested}
	allowed := map[[2]ReviewStatus]bool{
		{ReviewPending, ReviewInProgress}:          true,
		{ReviewPending, ReviewApproved}:            true,
		{ReviewPending, ReviewRejected}:            true,
		{ReviewPending, ReviewChangesRequested}:    true,
		{ReviewInProgress, ReviewApproved}:         true,
		{ReviewInProgress, ReviewRejected}:         true,
		{ReviewInProgress, ReviewChangesRequested}: true,
		{ReviewChangesRequested, ReviewPending}:    true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]ReviewStatus{from, to}]
			assert.Equalf(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestReviewStatus_Classification(t *testing.T) {
	assert.True(t, ReviewPending.IsOpen())
	assert.True(t, ReviewInProgress.IsOpen())
	assert.True(t, ReviewChangesRequested.IsOpen())
	assert.False(t, ReviewApproved.IsOpen())
	assert.False(t, ReviewRejected.IsOpen())

	assert.True(t, ReviewApproved.IsTerminal())
	assert.True(t, ReviewRejected.IsTerminal())
	assert.False(t, ReviewChangesRequested.IsTerminal())

	assert.True(t, ReviewRejected.RequiresReasons())
	assert.True(t, ReviewChangesRequested.RequiresReasons())
	assert.False(t, ReviewApproved.RequiresReasons())

	assert.False(t, ReviewStatus("ARCHIVED").IsValid())
}

func TestTransitionSources(t *testing.T) {
	assert.Equal(t, []ReviewStatus{ReviewPending, ReviewInProgress}, TransitionSources(ReviewApproved))
	assert.Equal(t, []ReviewStatus{ReviewPending, ReviewInProgress}, TransitionSources(ReviewRejected))
	assert.Equal(t, []ReviewStatus{ReviewPending}, TransitionSources(ReviewInProgress))
	assert.Equal(t, []ReviewStatus{ReviewChangesRequested}, TransitionSources(ReviewPending))
}

func TestAssetTypeFromMIME(t *testing.T) {
	tests := []struct {
		mime string
		want AssetType
	}{
		{"image/png", AssetTypeImage},
		{"image/vnd.adobe.photoshop", AssetTypeDesign},
		{"video/mp4", AssetTypeVideo},
		{"audio/mpeg", AssetTypeAudio},
		{"model/gltf-binary", AssetTypeModel3D},
		{"application/pdf", AssetTypeDocument},
		{"Text/Plain; charset=utf-8", AssetTypeDocument},
		{"application/zip", AssetTypeDocument},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			assert.Equal(t, tt.want, AssetTypeFromMIME(tt.mime))
		})
	}
}

func TestNormalizeTagNames(t *testing.T) {
	got := NormalizeTagNames([]string{" Brand ", "brand", "", "Summer", "SUMMER", "print"})
	assert.Equal(t, []string{"brand", "summer", "print"}, got)
}
