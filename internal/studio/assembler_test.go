package studio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restyle-server/internal/domain"
)

func TestAssemblePoseOnly(t *testing.T) {
	n, err := Validate(validSubmission(t))
	require.NoError(t, err)

	req := Assemble(n)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, "superhero landing pose", req.Pose)
	assert.True(t, req.Clothing.IsZero())
	assert.True(t, req.Background.IsZero())
	assert.True(t, req.PreserveBodyShape)
	assert.Contains(t, req.Instruction, "Pose: superhero landing pose")
	assert.Contains(t, req.Instruction, "body shape")
	assert.Empty(t, req.ReferenceImages())
}

func TestAssembleClothingImageWinsOverText(t *testing.T) {
	sub := domain.NewSubmission()
	sub.Source = pngAsset(t)
	sub.ClothingText = "red dress"
	sub.ClothingImage = pngAsset(t)

	n, err := Validate(sub)
	require.NoError(t, err)
	req := Assemble(n)

	assert.True(t, req.Clothing.HasImage())
	assert.Empty(t, req.Clothing.Text)
	assert.Contains(t, req.Instruction, "Clothing: match reference image 1")
	assert.Len(t, req.ReferenceImages(), 1)
}

func TestAssembleReferenceOrdering(t *testing.T) {
	sub := domain.NewSubmission()
	sub.Source = pngAsset(t)
	sub.ClothingImage = pngAsset(t)
	sub.BackgroundImage = pngAsset(t)

	n, err := Validate(sub)
	require.NoError(t, err)
	req := Assemble(n)

	require.Len(t, req.ReferenceImages(), 2)
	assert.Contains(t, req.Instruction, "Clothing: match reference image 1")
	assert.Contains(t, req.Instruction, "Background: match reference image 2")
}

func TestAssembleEmptyPoseCarriedAsEmpty(t *testing.T) {
	sub := domain.NewSubmission()
	sub.Source = pngAsset(t)
	sub.BackgroundText = "beach at sunset"

	n, err := Validate(sub)
	require.NoError(t, err)
	req := Assemble(n)

	assert.Equal(t, "", req.Pose)
	assert.NotContains(t, req.Instruction, "Pose:")
	assert.Contains(t, req.Instruction, "Background: beach at sunset")
}

func TestAssemblePreserveBodyShapeOptOut(t *testing.T) {
	sub := validSubmission(t)
	sub.PreserveBodyShape = false

	n, err := Validate(sub)
	require.NoError(t, err)
	req := Assemble(n)

	assert.False(t, req.PreserveBodyShape)
	assert.NotContains(t, req.Instruction, "body shape")
}

func TestAssembleDoesNotAliasSubmissionBytes(t *testing.T) {
	sub := validSubmission(t)
	n, err := Validate(sub)
	require.NoError(t, err)

	req := Assemble(n)
	n.Submission.Source.Data[0] = 0xFF

	assert.Equal(t, byte(0x89), req.Source.Data[0])
}

func TestAssembleInstructionIsDeterministic(t *testing.T) {
	n, err := Validate(validSubmission(t))
	require.NoError(t, err)

	a := Assemble(n)
	b := Assemble(n)

	assert.Equal(t, a.Instruction, b.Instruction)
	assert.NotEqual(t, a.ID, b.ID)
}
