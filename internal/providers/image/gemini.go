package image

import (
	"context"

	"restyle-server/internal/domain"
	"restyle-server/internal/providers/genai"
	"restyle-server/internal/studio"
)

// GeminiEditor adapts the Gemini client to the studio's generation boundary.
type GeminiEditor struct {
	client *genai.Client
}

func NewGeminiEditor(client *genai.Client) *GeminiEditor {
	return &GeminiEditor{client: client}
}

func (g *GeminiEditor) Generate(ctx context.Context, req studio.EditRequest) (domain.ImageAsset, error) {
	refs := req.ReferenceImages()
	wire := genai.EditRequest{
		Instruction: req.Instruction,
		Source: genai.Image{
			Data:      req.Source.Data,
			MediaType: req.Source.MediaType,
		},
		References: make([]genai.Image, len(refs)),
	}
	for i, ref := range refs {
		wire.References[i] = genai.Image{Data: ref.Data, MediaType: ref.MediaType}
	}

	result, err := g.client.EditImage(ctx, wire)
	if err != nil {
		return domain.ImageAsset{}, err
	}
	return domain.ImageAsset{Data: result.Data, MediaType: result.MediaType}, nil
}

var _ studio.GenerationClient = (*GeminiEditor)(nil)
