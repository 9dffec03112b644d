package asset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

var ErrBadHDR = errors.New("asset: malformed radiance hdr")

// MaxHDRSide bounds either image side; it matches the common 2D texture limit.
const MaxHDRSide = 16384

type hdrHeader struct {
	width, height int
}

func readHDRHeader(r *bufio.Reader) (hdrHeader, error) {
	var h hdrHeader
	magic, err := r.ReadString('\n')
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrBadHDR, err)
	}
	if !strings.HasPrefix(magic, "#?") {
		return h, fmt.Errorf("%w: missing #? signature", ErrBadHDR)
	}

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return h, fmt.Errorf("%w: header: %v", ErrBadHDR, err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		if v, ok := strings.CutPrefix(line, "FORMAT="); ok && v != "32-bit_rle_rgbe" {
			return h, fmt.Errorf("%w: unsupported format %q", ErrBadHDR, v)
		}
	}

	res, err := r.ReadString('\n')
	if err != nil {
		return h, fmt.Errorf("%w: resolution: %v", ErrBadHDR, err)
	}
	if _, err := fmt.Sscanf(strings.TrimSpace(res), "-Y %d +X %d", &h.height, &h.width); err != nil {
		return h, fmt.Errorf("%w: resolution %q: only -Y H +X W is supported", ErrBadHDR, strings.TrimSpace(res))
	}
	if h.width <= 0 || h.height <= 0 || h.width > MaxHDRSide || h.height > MaxHDRSide {
		return h, fmt.Errorf("%w: bad size %dx%d", ErrBadHDR, h.width, h.height)
	}
	return h, nil
}

// readScanline reads one row of RGBE quads into dst (len 4*width).
func readScanline(r *bufio.Reader, dst []byte, width int) error {
	if width < 8 || width > 0x7fff {
		_, err := io.ReadFull(r, dst)
		return err
	}

	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return err
	}
	if head[0] != 2 || head[1] != 2 || head[2]&0x80 != 0 {
		// Flat scanline; head is its first pixel.
		copy(dst, head[:])
		_, err := io.ReadFull(r, dst[4:])
		return err
	}
	if int(head[2])<<8|int(head[3]) != width {
		return fmt.Errorf("%w: scanline width mismatch", ErrBadHDR)
	}

	for ch := 0; ch < 4; ch++ {
		for x := 0; x < width; {
			count, err := r.ReadByte()
			if err != nil {
				return err
			}
			if count > 128 {
				n := int(count) - 128
				if x+n > width {
					return fmt.Errorf("%w: run overflows scanline", ErrBadHDR)
				}
				v, err := r.ReadByte()
				if err != nil {
					return err
				}
				for i := 0; i < n; i++ {
					dst[(x+i)*4+ch] = v
				}
				x += n
				continue
			}
			n := int(count)
			if n == 0 || x+n > width {
				return fmt.Errorf("%w: bad literal run", ErrBadHDR)
			}
			for i := 0; i < n; i++ {
				v, err := r.ReadByte()
				if err != nil {
					return err
				}
				dst[(x+i)*4+ch] = v
			}
			x += n
		}
	}
	return nil
}

// rgbeToFloat expands one RGBE quad into linear RGB.
func rgbeToFloat(q []byte) (float32, float32, float32) {
	if q[3] == 0 {
		return 0, 0, 0
	}
	f := math.Ldexp(1, int(q[3])-(128+8))
	return float32((float64(q[0]) + 0.5) * f), float32((float64(q[1]) + 0.5) * f), float32((float64(q[2]) + 0.5) * f)
}
