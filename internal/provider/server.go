package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// ServerProvider asks a wallpaper service for today's image. Its identity is
// the file name the service assigns.
type ServerProvider struct {
	*BaseProvider
}

func NewServerProvider(endpoint string, device DeviceIDSource) *ServerProvider {
	p := &ServerProvider{
		BaseProvider: NewBaseProvider(device),
	}
	p.baseURL = strings.TrimRight(endpoint, "/")
	return p
}

func (p *ServerProvider) Name() string {
	return "server"
}

func (p *ServerProvider) Resolve(ctx context.Context, region Region) (ImageMeta, error) {
	u := fmt.Sprintf("%s/wallpaper/today?region=%s", p.baseURL, url.QueryEscape(region.String()))

	resp, err := p.get(ctx, u)
	if err != nil {
		return ImageMeta{}, fmt.Errorf("failed to query wallpaper service: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Name      string `json:"name"`
		URL       string `json:"url"`
		Title     string `json:"title"`
		Copyright string `json:"copyright"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ImageMeta{}, fmt.Errorf("failed to decode wallpaper service response: %w", err)
	}

	if result.Name == "" || result.URL == "" {
		return ImageMeta{}, fmt.Errorf("wallpaper service response is missing name or url")
	}

	download, err := p.resolveURL(result.URL)
	if err != nil {
		return ImageMeta{}, err
	}

	return ImageMeta{
		ID:          result.Name,
		URL:         download,
		DownloadURL: download,
		Title:       result.Title,
		Copyright:   result.Copyright,
		Source:      p.Name(),
	}, nil
}

// resolveURL allows the service to return paths relative to its endpoint.
func (p *ServerProvider) resolveURL(raw string) (string, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid image url %q: %w", raw, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}

	base, err := url.Parse(p.baseURL + "/")
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", p.baseURL, err)
	}
	return base.ResolveReference(ref).String(), nil
}
