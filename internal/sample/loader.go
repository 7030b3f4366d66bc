package sample

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"restyle-server/internal/domain"
)

// Loader fetches the default source image once at startup. A fetch failure
// degrades to "no source image yet", which validation already handles; it
// must never block interaction.
type Loader struct {
	url        string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewLoader(url string, httpClient *http.Client, logger zerolog.Logger) *Loader {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Loader{url: url, httpClient: httpClient, logger: logger}
}

// Fetch downloads the sample image and decodes it through the upload codec.
// The Content-Type header wins when present; otherwise the payload bytes are
// sniffed.
func (l *Loader) Fetch(ctx context.Context) (domain.ImageAsset, error) {
	if strings.TrimSpace(l.url) == "" {
		return domain.ImageAsset{}, fmt.Errorf("sample image url not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return domain.ImageAsset{}, fmt.Errorf("create sample request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return domain.ImageAsset{}, fmt.Errorf("fetch sample image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return domain.ImageAsset{}, fmt.Errorf("fetch sample image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ImageAsset{}, fmt.Errorf("read sample image: %w", err)
	}

	mediaType := resp.Header.Get("Content-Type")
	if !domain.AcceptedMediaType(mediaType) {
		mediaType = http.DetectContentType(data)
	}

	asset, err := domain.DecodeUpload(data, mediaType)
	if err != nil {
		return domain.ImageAsset{}, fmt.Errorf("decode sample image: %w", err)
	}

	l.logger.Info().
		Str("media_type", asset.MediaType).
		Int("bytes", len(asset.Data)).
		Msg("sample: default source image loaded")
	return asset, nil
}

// Holder keeps the fetched sample available to the presentation layer.
type Holder struct {
	mu    sync.RWMutex
	asset domain.ImageAsset
	ok    bool
}

func (h *Holder) Set(asset domain.ImageAsset) {
	h.mu.Lock()
	h.asset = asset
	h.ok = true
	h.mu.Unlock()
}

func (h *Holder) Get() (domain.ImageAsset, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.asset, h.ok
}

// Preload runs Fetch in the background and stores the result in the holder.
func Preload(ctx context.Context, loader *Loader, holder *Holder, logger zerolog.Logger) {
	go func() {
		asset, err := loader.Fetch(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("sample: default source image unavailable")
			return
		}
		holder.Set(asset)
	}()
}
