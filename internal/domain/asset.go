package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// ImageAsset holds a raster image as raw bytes plus its declared media type.
// An asset is owned by exactly one submission field and is replaced wholesale
// on re-upload; nothing mutates the payload in place.
type ImageAsset struct {
	Data      []byte
	MediaType string
}

// IsZero reports whether the asset carries no payload at all.
func (a ImageAsset) IsZero() bool {
	return len(a.Data) == 0 && a.MediaType == ""
}

// Clone returns a copy whose payload does not alias the receiver's bytes.
func (a ImageAsset) Clone() ImageAsset {
	if len(a.Data) == 0 {
		return ImageAsset{MediaType: a.MediaType}
	}
	return ImageAsset{
		Data:      append([]byte(nil), a.Data...),
		MediaType: a.MediaType,
	}
}

var acceptedMediaTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
}

// NormalizeMediaType lowercases a declared media type and folds the common
// "image/jpg" spelling into "image/jpeg". Parameters such as charset are
// discarded.
func NormalizeMediaType(mediaType string) string {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if mt == "image/jpg" {
		mt = "image/jpeg"
	}
	return mt
}

// AcceptedMediaType reports whether the declared type is a raster image type
// the pipeline accepts.
func AcceptedMediaType(mediaType string) bool {
	_, ok := acceptedMediaTypes[NormalizeMediaType(mediaType)]
	return ok
}

// DecodeUpload turns raw uploaded bytes plus their declared media type into
// an ImageAsset. The declared type must be an accepted raster image type and
// the payload must be non-empty.
func DecodeUpload(raw []byte, declaredMediaType string) (ImageAsset, error) {
	mt := NormalizeMediaType(declaredMediaType)
	if !AcceptedMediaType(mt) {
		return ImageAsset{}, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, declaredMediaType)
	}
	if len(raw) == 0 {
		return ImageAsset{}, fmt.Errorf("%w: empty payload", ErrMalformedAsset)
	}
	return ImageAsset{Data: append([]byte(nil), raw...), MediaType: mt}, nil
}

// ParseDataURI splits a data: URI into its decoded payload and media type.
// Base64 and plain (URL-escaped) payloads are both handled; only the base64
// form is produced by the browsers feeding this service, but the plain form
// costs nothing to accept.
func ParseDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", fmt.Errorf("%w: not a data URI", ErrMalformedAsset)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("%w: data URI without payload segment", ErrMalformedAsset)
	}
	if payload == "" {
		return nil, "", fmt.Errorf("%w: data URI with empty payload", ErrMalformedAsset)
	}
	mediaType := header
	isBase64 := false
	if cut, ok := strings.CutSuffix(header, ";base64"); ok {
		mediaType = cut
		isBase64 = true
	}
	if !isBase64 {
		return []byte(payload), NormalizeMediaType(mediaType), nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrMalformedAsset, err)
	}
	return data, NormalizeMediaType(mediaType), nil
}

// WireForm strips any transport envelope from the asset and returns the
// payload bytes plus media type as sent to the generation capability. Assets
// whose payload is itself a data: URI are unwrapped; the URI's own media type
// wins over the declared one when both are present.
func WireForm(a ImageAsset) ([]byte, string, error) {
	if len(a.Data) == 0 {
		return nil, "", fmt.Errorf("%w: no payload segment", ErrMalformedAsset)
	}
	if strings.HasPrefix(string(a.Data[:min(len(a.Data), 5)]), "data:") {
		payload, mediaType, err := ParseDataURI(string(a.Data))
		if err != nil {
			return nil, "", err
		}
		if mediaType == "" {
			mediaType = NormalizeMediaType(a.MediaType)
		}
		return payload, mediaType, nil
	}
	return a.Data, NormalizeMediaType(a.MediaType), nil
}
