package studio

import (
	"fmt"
	"strings"

	"restyle-server/internal/domain"
)

// Normalized is a validated submission with modifier conflicts resolved and
// every present image already converted to wire form. It is the only input
// Assemble accepts.
type Normalized struct {
	Submission domain.Submission

	// Notes records non-fatal normalizations applied during validation, such
	// as a reference image superseding a text description for the same
	// category. They are surfaced to the presentation layer, never treated as
	// rejections.
	Notes []string
}

// Validate gates a submission before any external call is attempted.
// Rule order, first failure wins: the source image must be present; at least
// one modifier must be active; for clothing and background a simultaneous
// text and image is resolved in favor of the image. The presentation layer's
// own mutual-exclusivity UI is a convenience and is deliberately not trusted
// here.
func Validate(s domain.Submission) (Normalized, error) {
	if s.Source.IsZero() {
		return Normalized{}, domain.ErrNoSourceImage
	}

	sub := s.Clone()
	sub.PoseText = strings.TrimSpace(sub.PoseText)
	sub.ClothingText = strings.TrimSpace(sub.ClothingText)
	sub.BackgroundText = strings.TrimSpace(sub.BackgroundText)

	anyModifier := sub.PoseText != "" ||
		sub.ClothingText != "" || !sub.ClothingImage.IsZero() ||
		sub.BackgroundText != "" || !sub.BackgroundImage.IsZero()
	if !anyModifier {
		return Normalized{}, domain.ErrNoModifierSpecified
	}

	var notes []string
	if sub.ClothingText != "" && !sub.ClothingImage.IsZero() {
		notes = append(notes, "clothing: reference image supersedes text description")
		sub.ClothingText = ""
	}
	if sub.BackgroundText != "" && !sub.BackgroundImage.IsZero() {
		notes = append(notes, "background: reference image supersedes text description")
		sub.BackgroundText = ""
	}

	// Resolve codec-level problems now so they can never reach the external
	// boundary. Each present asset is rewritten into wire form.
	var err error
	if sub.Source, err = toWire(sub.Source); err != nil {
		return Normalized{}, fmt.Errorf("source image: %w", err)
	}
	if !sub.ClothingImage.IsZero() {
		if sub.ClothingImage, err = toWire(sub.ClothingImage); err != nil {
			return Normalized{}, fmt.Errorf("clothing image: %w", err)
		}
	}
	if !sub.BackgroundImage.IsZero() {
		if sub.BackgroundImage, err = toWire(sub.BackgroundImage); err != nil {
			return Normalized{}, fmt.Errorf("background image: %w", err)
		}
	}

	return Normalized{Submission: sub, Notes: notes}, nil
}

func toWire(a domain.ImageAsset) (domain.ImageAsset, error) {
	payload, mediaType, err := domain.WireForm(a)
	if err != nil {
		return domain.ImageAsset{}, err
	}
	if !domain.AcceptedMediaType(mediaType) {
		return domain.ImageAsset{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedMediaType, mediaType)
	}
	return domain.ImageAsset{Data: payload, MediaType: mediaType}, nil
}
