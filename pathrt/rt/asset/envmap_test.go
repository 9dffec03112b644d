package asset

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeutral(t *testing.T) {
	img := Neutral()
	assert.Equal(t, 1, img.Width)
	assert.Equal(t, 1, img.Height)
	assert.Equal(t, [4]float32{0.5, 0.5, 0.5, 1}, img.At(0, 0))
	assert.Equal(t, uint32(16), img.BytesPerRow())

	got, err := LoadEnvironment("")
	require.NoError(t, err)
	assert.Equal(t, img, got)
}

func TestDecodeHDR(t *testing.T) {
	const w, h = 16, 150
	px := func(x, y int) [3]float32 { return [3]float32{float32(x) + 1, float32(y%7) + 1, 0.5} }
	for _, rle := range []bool{true, false} {
		img, err := DecodeHDR(bytes.NewReader(encodeHDR(w, h, px, rle)))
		require.NoError(t, err)
		require.Equal(t, w, img.Width)
		require.Equal(t, h, img.Height)
		require.Len(t, img.Pix, w*h*4)

		for _, p := range [][2]int{{0, 0}, {5, 3}, {13, 70}, {w - 3, h - 1}} {
			want := px(p[0], p[1])
			got := img.At(p[0], p[1])
			assert.InEpsilon(t, want[0], got[0], 0.03, "rle=%v at %v", rle, p)
			assert.InEpsilon(t, want[1], got[1], 0.05, "rle=%v at %v", rle, p)
			assert.Equal(t, float32(1), got[3])
		}
	}
}

func TestDecodeHDRTruncated(t *testing.T) {
	data := encodeHDR(16, 4, func(int, int) [3]float32 { return [3]float32{1, 1, 1} }, true)
	_, err := DecodeHDR(bytes.NewReader(data[:len(data)-10]))
	assert.ErrorIs(t, err, ErrBadHDR)
}

func TestDecodeHDROversized(t *testing.T) {
	var img *EnvironmentImage
	var err error
	require.NotPanics(t, func() {
		img, err = DecodeHDR(strings.NewReader("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y 2000000000 +X 2000000000\n"))
	})
	assert.Nil(t, img)
	assert.ErrorIs(t, err, ErrBadHDR)
}

func TestLoadEnvironmentPNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})
	src.Set(2, 1, color.NRGBA{R: 128, G: 128, B: 128, A: 255})

	path := filepath.Join(t.TempDir(), "sky.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	img, err := LoadEnvironment(path)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.InDelta(t, 1, img.At(0, 0)[0], 1e-4)
	assert.InDelta(t, 0, img.At(0, 0)[1], 1e-4)
	// mid grey linearizes to about 0.22
	assert.InDelta(t, 0.22, img.At(2, 1)[1], 0.01)
	assert.InDelta(t, 1, img.At(2, 1)[3], 1e-4)
}

func TestLoadEnvironmentHDRFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sky.HDR")
	data := encodeHDR(8, 2, func(int, int) [3]float32 { return [3]float32{4, 2, 1} }, true)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	img, err := LoadEnvironment(path)
	require.NoError(t, err)
	assert.InEpsilon(t, float32(4), img.At(7, 1)[0], 0.02)
}

func TestLoadEnvironmentErrors(t *testing.T) {
	_, err := LoadEnvironment(filepath.Join(t.TempDir(), "missing.hdr"))
	var re *ReadError
	require.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	path := filepath.Join(t.TempDir(), "junk.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))
	_, err = LoadEnvironment(path)
	require.ErrorAs(t, err, &re)
	assert.Equal(t, path, re.Path)
}
