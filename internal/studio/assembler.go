package studio

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"restyle-server/internal/domain"
)

// Directive is one modifier category's contribution to a generation request:
// a reference image, a text description, or nothing.
type Directive struct {
	Text  string
	Image domain.ImageAsset
}

// HasImage reports whether the directive carries a reference image.
func (d Directive) HasImage() bool { return !d.Image.IsZero() }

// IsZero reports whether the directive requests no change for its category.
func (d Directive) IsZero() bool { return d.Text == "" && d.Image.IsZero() }

// EditRequest is the immutable payload handed to the generation capability.
// It owns deep copies of every image so edits made to the live submission
// while a request is in flight cannot leak into it. The pose directive is
// carried even when empty; the capability treats an absent field the same as
// an empty one.
type EditRequest struct {
	ID                string
	Source            domain.ImageAsset
	Pose              string
	Clothing          Directive
	Background        Directive
	PreserveBodyShape bool
	Instruction       string
}

// Assemble builds an EditRequest from an already-validated submission. It is
// deterministic and total: every failure mode was resolved by Validate.
func Assemble(n Normalized) EditRequest {
	sub := n.Submission
	req := EditRequest{
		ID:     uuid.NewString(),
		Source: sub.Source.Clone(),
		Pose:   sub.PoseText,
		Clothing: Directive{
			Text:  sub.ClothingText,
			Image: sub.ClothingImage.Clone(),
		},
		Background: Directive{
			Text:  sub.BackgroundText,
			Image: sub.BackgroundImage.Clone(),
		},
		PreserveBodyShape: sub.PreserveBodyShape,
	}
	req.Instruction = buildInstruction(req)
	return req
}

var titler = cases.Title(language.English)

// buildInstruction composes the text directive sent alongside the image
// parts. Reference images are numbered in the order they are attached after
// the source image.
func buildInstruction(req EditRequest) string {
	var b strings.Builder
	b.WriteString("Edit the first provided photo of a person.")

	refIndex := 0
	section := func(category, text string, hasImage bool) {
		if text == "" && !hasImage {
			return
		}
		b.WriteString("\n")
		b.WriteString(titler.String(category))
		b.WriteString(": ")
		if hasImage {
			refIndex++
			b.WriteString("match reference image ")
			b.WriteString(ordinal(refIndex))
			return
		}
		b.WriteString(text)
	}

	section("pose", req.Pose, false)
	section("clothing", req.Clothing.Text, req.Clothing.HasImage())
	section("background", req.Background.Text, req.Background.HasImage())

	if req.PreserveBodyShape {
		b.WriteString("\nKeep the person's body shape and proportions unchanged.")
	}
	b.WriteString("\nLeave everything not mentioned above untouched.")
	return b.String()
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "1 (the second attached image)"
	case 2:
		return "2 (the third attached image)"
	default:
		return ""
	}
}

// ReferenceImages returns the request's reference images in attachment
// order, matching the numbering used by the instruction text.
func (r EditRequest) ReferenceImages() []domain.ImageAsset {
	var refs []domain.ImageAsset
	if r.Clothing.HasImage() {
		refs = append(refs, r.Clothing.Image)
	}
	if r.Background.HasImage() {
		refs = append(refs, r.Background.Image)
	}
	return refs
}
