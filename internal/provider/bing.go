package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/darkawower/bingwall/internal/config"
)

// BingProvider resolves the Bing image of the day. Its identity is the
// image's start date, formatted YYYY-MM-DD.
type BingProvider struct {
	*BaseProvider
	hosts      map[Region]string
	resolution string
}

var bingMarkets = map[Region]string{
	RegionChina:  "zh-CN",
	RegionGlobal: "en-US",
}

func NewBingProvider(cfg config.BingConfig, device DeviceIDSource) *BingProvider {
	resolution := cfg.Resolution
	if resolution == "" {
		resolution = "UHD"
	}
	return &BingProvider{
		BaseProvider: NewBaseProvider(device),
		hosts: map[Region]string{
			RegionChina:  strings.TrimRight(cfg.ChinaHost, "/"),
			RegionGlobal: strings.TrimRight(cfg.GlobalHost, "/"),
		},
		resolution: resolution,
	}
}

func (p *BingProvider) Name() string {
	return "bing"
}

type bingArchive struct {
	Images []struct {
		StartDate string `json:"startdate"`
		URL       string `json:"url"`
		URLBase   string `json:"urlbase"`
		Title     string `json:"title"`
		Copyright string `json:"copyright"`
	} `json:"images"`
}

func (p *BingProvider) Resolve(ctx context.Context, region Region) (ImageMeta, error) {
	host, ok := p.hosts[region]
	if !ok || host == "" {
		return ImageMeta{}, fmt.Errorf("no bing host for region %s", region)
	}

	q := url.Values{}
	q.Set("format", "js")
	q.Set("idx", "0")
	q.Set("n", "1")
	q.Set("mkt", bingMarkets[region])
	u := fmt.Sprintf("%s/HPImageArchive.aspx?%s", host, q.Encode())

	resp, err := p.get(ctx, u)
	if err != nil {
		return ImageMeta{}, fmt.Errorf("failed to query image archive: %w", err)
	}
	defer resp.Body.Close()

	var archive bingArchive
	if err := json.NewDecoder(resp.Body).Decode(&archive); err != nil {
		return ImageMeta{}, fmt.Errorf("failed to decode image archive: %w", err)
	}

	if len(archive.Images) == 0 {
		return ImageMeta{}, fmt.Errorf("image archive returned no images")
	}
	img := archive.Images[0]

	date, err := time.Parse("20060102", img.StartDate)
	if err != nil {
		return ImageMeta{}, fmt.Errorf("invalid start date %q: %w", img.StartDate, err)
	}

	var download string
	switch {
	case img.URLBase != "":
		download = fmt.Sprintf("%s%s_%s.jpg", host, img.URLBase, p.resolution)
	case img.URL != "":
		download = host + img.URL
	default:
		return ImageMeta{}, fmt.Errorf("image archive entry has no url")
	}

	return ImageMeta{
		ID:          date.Format("2006-01-02"),
		URL:         host + img.URL,
		DownloadURL: download,
		Title:       img.Title,
		Copyright:   img.Copyright,
		Source:      p.Name(),
	}, nil
}
