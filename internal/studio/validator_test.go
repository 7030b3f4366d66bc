package studio

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restyle-server/internal/domain"
)

var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x01, 0x02, 0x03}

func pngAsset(t *testing.T) domain.ImageAsset {
	t.Helper()
	asset, err := domain.DecodeUpload(pngBytes, "image/png")
	require.NoError(t, err)
	return asset
}

func validSubmission(t *testing.T) domain.Submission {
	t.Helper()
	sub := domain.NewSubmission()
	sub.Source = pngAsset(t)
	sub.PoseText = "superhero landing pose"
	return sub
}

func TestValidateRequiresSourceImage(t *testing.T) {
	sub := domain.NewSubmission()
	sub.PoseText = "any pose"

	_, err := Validate(sub)
	assert.ErrorIs(t, err, domain.ErrNoSourceImage)
}

func TestValidateRequiresAtLeastOneModifier(t *testing.T) {
	sub := domain.NewSubmission()
	sub.Source = pngAsset(t)
	sub.PoseText = "   "
	sub.ClothingText = "\t"

	_, err := Validate(sub)
	assert.ErrorIs(t, err, domain.ErrNoModifierSpecified)
}

func TestValidateImageSupersedesText(t *testing.T) {
	sub := domain.NewSubmission()
	sub.Source = pngAsset(t)
	sub.ClothingText = "red dress"
	sub.ClothingImage = pngAsset(t)
	sub.BackgroundText = "beach at sunset"
	sub.BackgroundImage = pngAsset(t)

	n, err := Validate(sub)
	require.NoError(t, err)

	assert.Empty(t, n.Submission.ClothingText)
	assert.False(t, n.Submission.ClothingImage.IsZero())
	assert.Empty(t, n.Submission.BackgroundText)
	assert.False(t, n.Submission.BackgroundImage.IsZero())
	assert.Len(t, n.Notes, 2)
}

func TestValidateTextOnlyModifierIsKept(t *testing.T) {
	sub := domain.NewSubmission()
	sub.Source = pngAsset(t)
	sub.ClothingText = "  red dress  "

	n, err := Validate(sub)
	require.NoError(t, err)
	assert.Equal(t, "red dress", n.Submission.ClothingText)
	assert.Empty(t, n.Notes)
}

func TestValidateUnwrapsDataURIPayloads(t *testing.T) {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
	sub := domain.NewSubmission()
	sub.Source = domain.ImageAsset{Data: []byte(uri), MediaType: "image/png"}
	sub.PoseText = "arms crossed"

	n, err := Validate(sub)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, n.Submission.Source.Data)
	assert.Equal(t, "image/png", n.Submission.Source.MediaType)
}

func TestValidateRejectsMalformedReferenceBeforeAnyCall(t *testing.T) {
	sub := domain.NewSubmission()
	sub.Source = pngAsset(t)
	sub.BackgroundImage = domain.ImageAsset{Data: []byte("data:image/png;base64,"), MediaType: "image/png"}

	_, err := Validate(sub)
	assert.ErrorIs(t, err, domain.ErrMalformedAsset)
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	sub := domain.NewSubmission()
	sub.Source = pngAsset(t)
	sub.ClothingText = "red dress"
	sub.ClothingImage = pngAsset(t)

	_, err := Validate(sub)
	require.NoError(t, err)
	assert.Equal(t, "red dress", sub.ClothingText)
}
