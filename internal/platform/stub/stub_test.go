package stub

import (
	"testing"

	"github.com/darkawower/bingwall/internal/platform"
	"github.com/stretchr/testify/assert"
)

func TestRegistersSystems(t *testing.T) {
	registered := platform.Registered()
	for _, goos := range Systems {
		assert.Contains(t, registered, goos)
	}
}

func TestNew(t *testing.T) {
	p := New("openbsd")

	assert.Equal(t, "openbsd", p.Name())
	assert.False(t, p.Supported())

	err := p.Wallpaper().Set("/path/to/image")
	assert.ErrorIs(t, err, platform.ErrUnsupported)
	assert.Contains(t, err.Error(), "not supported")

	assert.ErrorIs(t, p.FileManager().Open("/path"), platform.ErrUnsupported)
}
