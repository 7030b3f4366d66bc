package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"restyle-server/internal/domain"
	"restyle-server/internal/studio"
)

// imageInput is how the presentation layer ships image bytes: either a full
// data: URI in Data, or plain base64 plus an explicit media type.
type imageInput struct {
	Data      string `json:"data"`
	MediaType string `json:"media_type,omitempty"`
}

type editSubmitRequest struct {
	SourceImage       *imageInput `json:"source_image"`
	PoseText          string      `json:"pose_text"`
	ClothingText      string      `json:"clothing_text"`
	ClothingImage     *imageInput `json:"clothing_image"`
	BackgroundText    string      `json:"background_text"`
	BackgroundImage   *imageInput `json:"background_image"`
	PreserveBodyShape *bool       `json:"preserve_body_shape"`
}

type imageOutput struct {
	Data      string `json:"data"`
	MediaType string `json:"media_type"`
}

type snapshotResponse struct {
	State      string       `json:"state"`
	AttemptID  string       `json:"attempt_id,omitempty"`
	UpdatedAt  string       `json:"updated_at"`
	Error      string       `json:"error,omitempty"`
	Result     *imageOutput `json:"result,omitempty"`
	Normalized []string     `json:"normalized,omitempty"`
}

func toSnapshotResponse(snap studio.Snapshot, notes []string) snapshotResponse {
	resp := snapshotResponse{
		State:      string(snap.State),
		AttemptID:  snap.AttemptID,
		UpdatedAt:  snap.UpdatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Error:      snap.ErrorDetail,
		Normalized: notes,
	}
	if !snap.Result.IsZero() {
		resp.Result = &imageOutput{
			Data: fmt.Sprintf("data:%s;base64,%s", snap.Result.MediaType,
				base64.StdEncoding.EncodeToString(snap.Result.Data)),
			MediaType: snap.Result.MediaType,
		}
	}
	return resp
}

// EditsSubmit accepts a full submission and triggers generation. 202 when the
// attempt is accepted, 409 while another attempt is pending, 422 when the
// submission is rejected before any external call.
func (a *App) EditsSubmit(w http.ResponseWriter, r *http.Request) {
	var req editSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	sub := domain.NewSubmission()
	sub.PoseText = req.PoseText
	sub.ClothingText = req.ClothingText
	sub.BackgroundText = req.BackgroundText
	if req.PreserveBodyShape != nil {
		sub.PreserveBodyShape = *req.PreserveBodyShape
	}

	var err error
	if sub.Source, err = decodeImageInput(req.SourceImage); err != nil {
		a.codecError(w, "source_image", err)
		return
	}
	if sub.ClothingImage, err = decodeImageInput(req.ClothingImage); err != nil {
		a.codecError(w, "clothing_image", err)
		return
	}
	if sub.BackgroundImage, err = decodeImageInput(req.BackgroundImage); err != nil {
		a.codecError(w, "background_image", err)
		return
	}

	notes, err := a.Studio.RequestGeneration(sub)
	if err != nil {
		a.triggerError(w, err)
		return
	}
	a.json(w, http.StatusAccepted, toSnapshotResponse(a.Studio.Snapshot(), notes))
}

// EditsRetry re-runs generation with the most recent submission.
func (a *App) EditsRetry(w http.ResponseWriter, r *http.Request) {
	notes, err := a.Studio.Retry()
	if err != nil {
		a.triggerError(w, err)
		return
	}
	a.json(w, http.StatusAccepted, toSnapshotResponse(a.Studio.Snapshot(), notes))
}

// EditsCurrent returns the current lifecycle snapshot.
func (a *App) EditsCurrent(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, toSnapshotResponse(a.Studio.Snapshot(), nil))
}

// EditsSample serves the preloaded default source image, when available.
func (a *App) EditsSample(w http.ResponseWriter, r *http.Request) {
	asset, ok := a.Sample.Get()
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "no sample image available")
		return
	}
	a.json(w, http.StatusOK, imageOutput{
		Data: fmt.Sprintf("data:%s;base64,%s", asset.MediaType,
			base64.StdEncoding.EncodeToString(asset.Data)),
		MediaType: asset.MediaType,
	})
}

func (a *App) triggerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrGenerationPending):
		a.json(w, http.StatusConflict, toSnapshotResponse(a.Studio.Snapshot(), nil))
	case errors.Is(err, domain.ErrNoSubmission):
		a.error(w, http.StatusUnprocessableEntity, "no_submission", err.Error())
	default:
		// Validation and codec rejections; the controller already moved to
		// Failed with the same detail.
		a.error(w, http.StatusUnprocessableEntity, "rejected", err.Error())
	}
}

func (a *App) codecError(w http.ResponseWriter, field string, err error) {
	code := "malformed_asset"
	if errors.Is(err, domain.ErrUnsupportedMediaType) {
		code = "unsupported_media_type"
	}
	a.error(w, http.StatusUnprocessableEntity, code, fmt.Sprintf("%s: %s", field, err.Error()))
}

func decodeImageInput(in *imageInput) (domain.ImageAsset, error) {
	if in == nil || strings.TrimSpace(in.Data) == "" {
		return domain.ImageAsset{}, nil
	}
	data := strings.TrimSpace(in.Data)
	if strings.HasPrefix(data, "data:") {
		payload, mediaType, err := domain.ParseDataURI(data)
		if err != nil {
			return domain.ImageAsset{}, err
		}
		if mediaType == "" {
			mediaType = in.MediaType
		}
		return domain.DecodeUpload(payload, mediaType)
	}
	payload, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return domain.ImageAsset{}, fmt.Errorf("%w: %v", domain.ErrMalformedAsset, err)
	}
	return domain.DecodeUpload(payload, in.MediaType)
}
