package refresh

import (
	"testing"

	"github.com/darkawower/bingwall/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMode_Region(t *testing.T) {
	tests := []struct {
		mode   Mode
		region provider.Region
		ok     bool
	}{
		{Off, "", false},
		{China, provider.RegionChina, true},
		{Global, provider.RegionGlobal, true},
		{Mode(42), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			region, ok := tt.mode.Region()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.region, region)
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"china", China, false},
		{" Global ", Global, false},
		{"off", Off, false},
		{"", Off, false},
		{"mars", Off, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMode_Label(t *testing.T) {
	assert.Equal(t, "China daily wallpaper", China.Label())
	assert.Equal(t, "Global daily wallpaper", Global.Label())
	assert.Equal(t, "mode(9)", Mode(9).String())
}
