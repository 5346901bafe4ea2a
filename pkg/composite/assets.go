package composite

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ourbooth/booth/config"
	"github.com/ourbooth/booth/util/log"
	"golang.org/x/time/rate"
)

// HTTP client hardening knobs shared by all asset fetches.
const (
	httpDialTimeout           = 5 * time.Second
	httpKeepAlive             = 30 * time.Second
	httpResponseHeaderTimeout = 10 * time.Second
	httpTLSHandshakeTimeout   = 5 * time.Second

	// maxAssetBytes bounds a single sticker download. Emoji rasters are a
	// few KB; anything past this is a misbehaving source.
	maxAssetBytes = 4 << 20
)

// AssetResolver turns a sticker into a decoded image. Injected into the
// compositor so rendering can be tested without network access.
type AssetResolver interface {
	Resolve(ctx context.Context, s Sticker) (image.Image, error)
}

// HTTPAssetResolver resolves emoji stickers against a twemoji-style CDN and
// image stickers against a configured static asset root. Fetches are rate
// limited and individually bounded by a timeout; decoded assets are cached
// for the resolver's lifetime.
type HTTPAssetResolver struct {
	client       *http.Client
	emojiBaseURL string
	assetBaseURL string
	fetchTimeout time.Duration
	limiter      *rate.Limiter

	mu    sync.Mutex
	cache map[string]image.Image
}

// NewHTTPAssetResolver builds a resolver from the runtime configuration.
func NewHTTPAssetResolver(cfg *config.Config) *HTTPAssetResolver {
	robustClient := &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   httpDialTimeout,
				KeepAlive: httpKeepAlive,
			}).DialContext,
			ResponseHeaderTimeout: httpResponseHeaderTimeout,
			TLSHandshakeTimeout:   httpTLSHandshakeTimeout,
		},
	}

	return &HTTPAssetResolver{
		client:       robustClient,
		emojiBaseURL: strings.TrimRight(cfg.EmojiCDNBaseURL, "/"),
		assetBaseURL: strings.TrimRight(cfg.StickerBaseURL, "/"),
		fetchTimeout: time.Duration(cfg.FetchTimeoutSec) * time.Second,
		limiter:      rate.NewLimiter(rate.Limit(cfg.FetchPerSecond), cfg.FetchPerSecond),
		cache:        make(map[string]image.Image),
	}
}

// Resolve fetches and decodes the sticker's asset. Errors are returned to
// the caller, which treats them as "skip this sticker".
func (r *HTTPAssetResolver) Resolve(ctx context.Context, s Sticker) (image.Image, error) {
	url, err := r.assetURL(s)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if img, ok := r.cache[url]; ok {
		r.mu.Unlock()
		return img, nil
	}
	r.mu.Unlock()

	img, err := r.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[url] = img
	r.mu.Unlock()

	return img, nil
}

func (r *HTTPAssetResolver) assetURL(s Sticker) (string, error) {
	switch s.Type {
	case StickerEmoji:
		path := EmojiAssetPath(s.Emoji)
		if path == "" {
			return "", fmt.Errorf("sticker %s: empty emoji", s.ID)
		}
		return fmt.Sprintf("%s/%s.png", r.emojiBaseURL, path), nil
	case StickerImage:
		if s.Src == "" {
			return "", fmt.Errorf("sticker %s: empty src", s.ID)
		}
		if strings.HasPrefix(s.Src, "http://") || strings.HasPrefix(s.Src, "https://") {
			return s.Src, nil
		}
		return fmt.Sprintf("%s/%s", r.assetBaseURL, strings.TrimLeft(s.Src, "/")), nil
	default:
		return "", fmt.Errorf("sticker %s: unknown type %q", s.ID, s.Type)
	}
}

func (r *HTTPAssetResolver) fetch(ctx context.Context, url string) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	if len(data) > maxAssetBytes {
		return nil, fmt.Errorf("fetching %s: asset exceeds %d bytes", url, maxAssetBytes)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", url, err)
	}
	log.Printf("Resolved asset %s (%s, %d bytes)", url, format, len(data))

	return img, nil
}
