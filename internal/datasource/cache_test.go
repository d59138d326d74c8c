package datasource

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/darkawower/bingwall/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

type fakeProvider struct {
	mu         sync.Mutex
	identity   string
	data       []byte
	resolveErr error
	fetchErr   error
	resolves   int
	fetches    int
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Resolve(ctx context.Context, region provider.Region) (provider.ImageMeta, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resolves++
	if p.resolveErr != nil {
		return provider.ImageMeta{}, p.resolveErr
	}
	return provider.ImageMeta{
		ID:          p.identity,
		DownloadURL: "http://example.com/" + p.identity,
		Title:       "title " + p.identity,
	}, nil
}

func (p *fakeProvider) Fetch(ctx context.Context, url string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetches++
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	return p.data, nil
}

func (p *fakeProvider) counts() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resolves, p.fetches
}

func TestArtifactName(t *testing.T) {
	tests := []struct {
		identity string
		want     string
		wantErr  bool
	}{
		{"2024-01-01", "2024-01-01.jpg", false},
		{"aurora.jpg", "aurora.jpg", false},
		{"aurora.PNG", "aurora.jpg", false},
		{"v1.2", "v1.2.jpg", false},
		{"", "", true},
		{"..", "", true},
		{"../etc/passwd", "", true},
		{`a\b`, "", true},
		{".jpg", "", true},
		{".download-123", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.identity, func(t *testing.T) {
			got, err := artifactName(tt.identity)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCache_Ensure_DownloadsOnMiss(t *testing.T) {
	dir := t.TempDir()
	data := jpegBytes(t)
	p := &fakeProvider{identity: "2024-01-01", data: data}
	c := NewCache(p, dir, 0, nil)

	img, err := c.Ensure(context.Background(), false, provider.RegionChina)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "china", "2024-01-01.jpg"), img.Path)
	assert.Equal(t, "2024-01-01", img.Identity)
	assert.Equal(t, provider.RegionChina, img.Region)
	assert.True(t, img.Downloaded)

	written, err := os.ReadFile(img.Path)
	require.NoError(t, err)
	assert.Equal(t, data, written)
}

func TestCache_Ensure_Idempotent(t *testing.T) {
	p := &fakeProvider{identity: "2024-01-01", data: jpegBytes(t)}
	c := NewCache(p, t.TempDir(), 0, nil)

	first, err := c.Ensure(context.Background(), false, provider.RegionGlobal)
	require.NoError(t, err)
	assert.True(t, first.Downloaded)

	second, err := c.Ensure(context.Background(), false, provider.RegionGlobal)
	require.NoError(t, err)
	assert.False(t, second.Downloaded)
	assert.Equal(t, first.Path, second.Path)

	resolves, fetches := p.counts()
	assert.Equal(t, 2, resolves, "identity is resolved on every call")
	assert.Equal(t, 1, fetches, "bytes are downloaded once")
}

func TestCache_Ensure_ForceBypassesCache(t *testing.T) {
	p := &fakeProvider{identity: "2024-01-01", data: jpegBytes(t)}
	c := NewCache(p, t.TempDir(), 0, nil)

	_, err := c.Ensure(context.Background(), false, provider.RegionChina)
	require.NoError(t, err)

	img, err := c.Ensure(context.Background(), true, provider.RegionChina)
	require.NoError(t, err)
	assert.True(t, img.Downloaded)

	_, fetches := p.counts()
	assert.Equal(t, 2, fetches)
}

func TestCache_Ensure_NewIdentityDownloads(t *testing.T) {
	p := &fakeProvider{identity: "2024-01-01", data: jpegBytes(t)}
	c := NewCache(p, t.TempDir(), 0, nil)

	_, err := c.Ensure(context.Background(), false, provider.RegionChina)
	require.NoError(t, err)

	p.mu.Lock()
	p.identity = "2024-01-02"
	p.mu.Unlock()

	img, err := c.Ensure(context.Background(), false, provider.RegionChina)
	require.NoError(t, err)
	assert.True(t, img.Downloaded)
	assert.Equal(t, "2024-01-02.jpg", filepath.Base(img.Path))

	_, fetches := p.counts()
	assert.Equal(t, 2, fetches)
}

func TestCache_Ensure_RegionsAreSeparate(t *testing.T) {
	p := &fakeProvider{identity: "2024-01-01", data: jpegBytes(t)}
	c := NewCache(p, t.TempDir(), 0, nil)

	china, err := c.Ensure(context.Background(), false, provider.RegionChina)
	require.NoError(t, err)
	global, err := c.Ensure(context.Background(), false, provider.RegionGlobal)
	require.NoError(t, err)

	assert.NotEqual(t, china.Path, global.Path)
	assert.True(t, global.Downloaded)
}

func TestCache_Ensure_Errors(t *testing.T) {
	t.Run("identity resolution", func(t *testing.T) {
		p := &fakeProvider{resolveErr: errors.New("dns failure")}
		c := NewCache(p, t.TempDir(), 0, nil)

		_, err := c.Ensure(context.Background(), false, provider.RegionChina)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIdentityResolution)
		assert.Contains(t, err.Error(), "dns failure")

		_, fetches := p.counts()
		assert.Zero(t, fetches)
	})

	t.Run("invalid identity", func(t *testing.T) {
		p := &fakeProvider{identity: "../escape", data: jpegBytes(t)}
		c := NewCache(p, t.TempDir(), 0, nil)

		_, err := c.Ensure(context.Background(), false, provider.RegionChina)
		assert.ErrorIs(t, err, ErrIdentityResolution)
	})

	t.Run("download", func(t *testing.T) {
		p := &fakeProvider{identity: "2024-01-01", fetchErr: errors.New("connection reset")}
		dir := t.TempDir()
		c := NewCache(p, dir, 0, nil)

		_, err := c.Ensure(context.Background(), false, provider.RegionChina)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDownload)
		assert.NotErrorIs(t, err, ErrIdentityResolution)

		_, statErr := os.Stat(filepath.Join(dir, "china", "2024-01-01.jpg"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("not an image", func(t *testing.T) {
		p := &fakeProvider{identity: "2024-01-01", data: []byte("<html>captive portal</html>")}
		c := NewCache(p, t.TempDir(), 0, nil)

		_, err := c.Ensure(context.Background(), false, provider.RegionChina)
		assert.ErrorIs(t, err, ErrDownload)
		assert.Contains(t, err.Error(), "not an image")
	})

	t.Run("persist", func(t *testing.T) {
		root := t.TempDir()
		blocker := filepath.Join(root, "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("file"), 0644))

		p := &fakeProvider{identity: "2024-01-01", data: jpegBytes(t)}
		c := NewCache(p, blocker, 0, nil)

		_, err := c.Ensure(context.Background(), false, provider.RegionChina)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPersist)
	})
}

func TestCache_Ensure_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	p := &fakeProvider{identity: "2024-01-01", data: jpegBytes(t)}
	c := NewCache(p, dir, 0, nil)

	_, err := c.Ensure(context.Background(), true, provider.RegionChina)
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "china"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2024-01-01.jpg", entries[0].Name())
}

func TestCache_ListImages(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(&fakeProvider{}, dir, 0, nil)

	images, err := c.ListImages(provider.RegionChina)
	require.NoError(t, err)
	assert.Empty(t, images)

	regionDir := c.Dir(provider.RegionChina)
	require.NoError(t, os.MkdirAll(regionDir, 0755))

	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"b.jpg", "a.jpg", "c.jpg"} {
		path := filepath.Join(regionDir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		mtime := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}
	require.NoError(t, os.WriteFile(filepath.Join(regionDir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(regionDir, tempPrefix+"1"), []byte("x"), 0644))

	images, err = c.ListImages(provider.RegionChina)
	require.NoError(t, err)
	require.Len(t, images, 3)
	assert.Equal(t, "b", images[0].Identity)
	assert.Equal(t, "a", images[1].Identity)
	assert.Equal(t, "c", images[2].Identity)
}

func TestCache_Prune(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(&fakeProvider{}, dir, 2, nil)

	regionDir := c.Dir(provider.RegionGlobal)
	require.NoError(t, os.MkdirAll(regionDir, 0755))

	base := time.Now().Add(-time.Hour)
	var paths []string
	for i := 0; i < 4; i++ {
		path := filepath.Join(regionDir, time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")+ArtifactExt)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		mtime := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, mtime, mtime))
		paths = append(paths, path)
	}

	// The oldest file is the current one and must survive.
	require.NoError(t, c.Prune(provider.RegionGlobal, paths[0]))

	images, err := c.ListImages(provider.RegionGlobal)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, paths[0], images[0].Path)
	assert.Equal(t, paths[3], images[1].Path)
}

func TestCache_Prune_KeepAll(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(&fakeProvider{}, dir, 0, nil)

	regionDir := c.Dir(provider.RegionGlobal)
	require.NoError(t, os.MkdirAll(regionDir, 0755))
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(regionDir, name), []byte("x"), 0644))
	}

	require.NoError(t, c.Prune(provider.RegionGlobal, ""))

	images, err := c.ListImages(provider.RegionGlobal)
	require.NoError(t, err)
	assert.Len(t, images, 3)
}
