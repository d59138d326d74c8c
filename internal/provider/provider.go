package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/darkawower/bingwall/internal/config"
)

// DeviceHeader carries the per-device identifier on every request.
const DeviceHeader = "X-Device-ID"

const userAgent = "bingwall/0.1"

// maxImageSize bounds a single download.
const maxImageSize = 64 << 20

// Region selects which daily image a provider resolves.
type Region string

const (
	RegionChina  Region = "china"
	RegionGlobal Region = "global"
)

func (r Region) String() string {
	return string(r)
}

// ImageMeta describes the current wallpaper for a region. ID is the identity
// used as the cache key.
type ImageMeta struct {
	ID          string
	URL         string
	DownloadURL string
	Title       string
	Copyright   string
	Source      string
}

type Provider interface {
	Name() string
	Resolve(ctx context.Context, region Region) (ImageMeta, error)
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// DeviceIDSource supplies the identifier sent in DeviceHeader.
type DeviceIDSource interface {
	ID() (string, error)
}

type BaseProvider struct {
	client  *http.Client
	device  DeviceIDSource
	baseURL string
}

func NewBaseProvider(device DeviceIDSource) *BaseProvider {
	return &BaseProvider{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		device: device,
	}
}

func (p *BaseProvider) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	if p.device != nil {
		id, err := p.device.ID()
		if err != nil {
			return nil, fmt.Errorf("failed to load device id: %w", err)
		}
		req.Header.Set(DeviceHeader, id)
	}

	return req, nil
}

func (p *BaseProvider) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := p.newRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}

	return resp, nil
}

// Fetch downloads the bytes at url.
func (p *BaseProvider) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := p.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) > maxImageSize {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageSize)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	return data, nil
}

func NewProvider(cfg *config.Config, device DeviceIDSource) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderBing:
		return NewBingProvider(cfg.Bing, device), nil
	case config.ProviderServer:
		return NewServerProvider(cfg.Server.Endpoint, device), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
