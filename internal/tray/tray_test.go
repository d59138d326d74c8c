package tray

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/darkawower/bingwall/internal/refresh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	mu        sync.Mutex
	mode      refresh.Mode
	err       error
	listeners []func(refresh.Mode)
}

func (c *fakeController) Toggle(ctx context.Context, mode refresh.Mode) (refresh.Mode, error) {
	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return c.mode, err
	}
	if c.mode == mode {
		c.mode = refresh.Off
	} else {
		c.mode = mode
	}
	next := c.mode
	listeners := c.listeners
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return next, nil
}

func (c *fakeController) Mode() refresh.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *fakeController) OnChange(fn func(refresh.Mode)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func newTestTray(c *fakeController) (*Tray, *[]refresh.Mode) {
	var rendered []refresh.Mode
	tr := New(context.Background(), c, "/data/wallpapers", nil)
	tr.render = func(m refresh.Mode) { rendered = append(rendered, m) }
	c.OnChange(func(m refresh.Mode) { tr.render(m) })
	return tr, &rendered
}

func TestMenuState(t *testing.T) {
	tests := []struct {
		mode refresh.Mode
		want map[refresh.Mode]bool
	}{
		{refresh.Off, map[refresh.Mode]bool{refresh.China: false, refresh.Global: false}},
		{refresh.China, map[refresh.Mode]bool{refresh.China: true, refresh.Global: false}},
		{refresh.Global, map[refresh.Mode]bool{refresh.China: false, refresh.Global: true}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, MenuState(tt.mode))
		})
	}
}

func TestTooltip(t *testing.T) {
	assert.Equal(t, "bingwall: refresh off", Tooltip(refresh.Off))
	assert.Equal(t, "bingwall: China daily wallpaper", Tooltip(refresh.China))
}

func TestHandleToggle(t *testing.T) {
	c := &fakeController{}
	tr, rendered := newTestTray(c)

	tr.handleToggle(refresh.China)
	tr.handleToggle(refresh.Global)
	tr.handleToggle(refresh.Global)

	assert.Equal(t, []refresh.Mode{refresh.China, refresh.Global, refresh.Off}, *rendered)
	assert.Equal(t, refresh.Off, c.Mode())
}

func TestHandleToggle_Poisoned(t *testing.T) {
	c := &fakeController{mode: refresh.China, err: refresh.ErrLockPoisoned}
	tr, rendered := newTestTray(c)

	var messages []string
	tr.SetCallbacks(nil, func(msg string) { messages = append(messages, msg) })

	tr.handleToggle(refresh.Global)

	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "restart")
	assert.Equal(t, []refresh.Mode{refresh.China}, *rendered)
}

func TestHandleToggle_AfterShutdown(t *testing.T) {
	c := &fakeController{err: refresh.ErrClosed}
	tr, rendered := newTestTray(c)

	var messages []string
	tr.SetCallbacks(nil, func(msg string) { messages = append(messages, msg) })

	tr.handleToggle(refresh.China)

	assert.Empty(t, *rendered)
	assert.Empty(t, messages)
}

func TestHandleOpenFolder(t *testing.T) {
	tr, _ := newTestTray(&fakeController{})

	var opened []string
	tr.openFolder = func(dir string) error {
		opened = append(opened, dir)
		return errors.New("no file manager")
	}

	assert.NotPanics(t, tr.handleOpenFolder)
	assert.Equal(t, []string{"/data/wallpapers"}, opened)
}

func TestHandleQuit(t *testing.T) {
	tr, _ := newTestTray(&fakeController{})
	assert.NotPanics(t, tr.handleQuit)

	quit := false
	tr.SetCallbacks(func() { quit = true }, nil)
	tr.handleQuit()
	assert.True(t, quit)
}
