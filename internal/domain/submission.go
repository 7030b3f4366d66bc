package domain

// Submission aggregates the mandatory source photo and the optional modifier
// inputs as captured at the presentation boundary. Clothing and background
// may each arrive as text, as a reference image, or (when the UI state drifts)
// as both; the validator resolves that, not this type.
type Submission struct {
	Source ImageAsset

	PoseText string

	ClothingText  string
	ClothingImage ImageAsset

	BackgroundText  string
	BackgroundImage ImageAsset

	PreserveBodyShape bool
}

// NewSubmission returns an empty submission with the preserve-body-shape flag
// at its default of true.
func NewSubmission() Submission {
	return Submission{PreserveBodyShape: true}
}

// Clone deep-copies the submission so callers can hold a snapshot that does
// not alias any live asset bytes.
func (s Submission) Clone() Submission {
	out := s
	out.Source = s.Source.Clone()
	out.ClothingImage = s.ClothingImage.Clone()
	out.BackgroundImage = s.BackgroundImage.Clone()
	return out
}
