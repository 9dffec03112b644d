package asset

import (
	"bufio"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ReadError reports an environment image that could not be opened or decoded.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("environment image %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// EnvironmentImage is an equirectangular RGBA float32 image, top row first.
type EnvironmentImage struct {
	Width  int
	Height int
	Pix    []float32
}

func NewEnvironmentImage(w, h int) *EnvironmentImage {
	return &EnvironmentImage{Width: w, Height: h, Pix: make([]float32, w*h*4)}
}

// Neutral is a 1x1 uniform sky used when no image is configured.
func Neutral() *EnvironmentImage {
	img := NewEnvironmentImage(1, 1)
	copy(img.Pix, []float32{0.5, 0.5, 0.5, 1})
	return img
}

func (e *EnvironmentImage) At(x, y int) [4]float32 {
	i := (y*e.Width + x) * 4
	return [4]float32{e.Pix[i], e.Pix[i+1], e.Pix[i+2], e.Pix[i+3]}
}

func (e *EnvironmentImage) BytesPerRow() uint32 {
	return uint32(e.Width * 16)
}

// LoadEnvironment reads path. An empty path yields Neutral. Radiance .hdr
// files are decoded natively; other formats go through image.Decode.
func LoadEnvironment(path string) (*EnvironmentImage, error) {
	if path == "" {
		return Neutral(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	var img *EnvironmentImage
	if strings.EqualFold(filepath.Ext(path), ".hdr") {
		img, err = DecodeHDR(f)
	} else {
		img, err = DecodeLDR(f)
	}
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return img, nil
}

// DecodeHDR decodes a Radiance RGBE stream.
func DecodeHDR(r io.Reader) (*EnvironmentImage, error) {
	br := bufio.NewReader(r)
	h, err := readHDRHeader(br)
	if err != nil {
		return nil, err
	}

	raw := make([]byte, h.width*h.height*4)
	for y := 0; y < h.height; y++ {
		row := raw[y*h.width*4 : (y+1)*h.width*4]
		if err := readScanline(br, row, h.width); err != nil {
			return nil, fmt.Errorf("%w: scanline %d: %v", ErrBadHDR, y, err)
		}
	}

	img := NewEnvironmentImage(h.width, h.height)
	expandRows(h.height, func(y0, y1 int) {
		for i := y0 * h.width; i < y1*h.width; i++ {
			r, g, b := rgbeToFloat(raw[i*4 : i*4+4])
			img.Pix[i*4+0] = r
			img.Pix[i*4+1] = g
			img.Pix[i*4+2] = b
			img.Pix[i*4+3] = 1
		}
	})
	return img, nil
}

func srgbToLinear(c uint32) float32 {
	return float32(math.Pow(float64(c)/0xffff, 2.2))
}

// DecodeLDR decodes any registered 8/16-bit image format and linearizes it.
func DecodeLDR(r io.Reader) (*EnvironmentImage, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	img := NewEnvironmentImage(b.Dx(), b.Dy())
	expandRows(img.Height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < img.Width; x++ {
				cr, cg, cb, ca := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
				i := (y*img.Width + x) * 4
				img.Pix[i+0] = srgbToLinear(cr)
				img.Pix[i+1] = srgbToLinear(cg)
				img.Pix[i+2] = srgbToLinear(cb)
				img.Pix[i+3] = float32(ca) / 0xffff
			}
		}
	})
	return img, nil
}

const rowsPerTask = 64

// expandRows runs fn over [0,height) in bands on a worker pool and waits.
func expandRows(height int, fn func(y0, y1 int)) {
	if height <= rowsPerTask {
		fn(0, height)
		return
	}

	pool := worker.NewDynamicWorkerPool(max(runtime.NumCPU()-1, 1), 256, time.Second)
	var wg sync.WaitGroup
	id := 0
	for y := 0; y < height; y += rowsPerTask {
		y0, y1 := y, min(y+rowsPerTask, height)
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				fn(y0, y1)
				return nil, nil
			},
		})
		id++
	}
	wg.Wait()
}
