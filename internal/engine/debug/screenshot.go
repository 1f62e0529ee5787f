// Package debug provides debugging aids for the sandbox.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Screenshots writes framebuffer captures as PNG files.
type Screenshots struct {
	dir    string
	prefix string
	now    func() time.Time

	last string // timestamp of the previous capture
	seq  int    // captures sharing that timestamp
}

// NewScreenshots writes captures named <prefix>_<timestamp>.png into dir.
func NewScreenshots(dir, prefix string) *Screenshots {
	return &Screenshots{dir: dir, prefix: prefix, now: time.Now}
}

// Dir returns the output directory.
func (s *Screenshots) Dir() string {
	return s.dir
}

// Save encodes bottom-up RGBA pixels, as glReadPixels returns them, and
// returns the written path.
func (s *Screenshots) Save(pixels []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid capture size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	img := flipRows(pixels, width, height)
	path := s.nextPath()

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return path, nil
}

func (s *Screenshots) nextPath() string {
	stamp := s.now().Format("2006-01-02_15-04-05")
	name := fmt.Sprintf("%s_%s.png", s.prefix, stamp)
	if stamp == s.last {
		s.seq++
		name = fmt.Sprintf("%s_%s_%d.png", s.prefix, stamp, s.seq)
	} else {
		s.last = stamp
		s.seq = 0
	}
	return filepath.Join(s.dir, name)
}

// flipRows copies GL pixels into an image with the origin at the top.
func flipRows(pixels []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		dst := y * img.Stride
		copy(img.Pix[dst:dst+row], pixels[src:src+row])
	}
	return img
}
