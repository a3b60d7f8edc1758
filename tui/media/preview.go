package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/nfnt/resize"

	"github.com/CrestNiraj12/iav/blob"
	"github.com/CrestNiraj12/iav/domain"
)

const maxPreviewFrames = 8

// renderPreview turns a ready handle into one or more ANSI frames. Videos need
// ffmpeg; without it they render as a labelled tile.
func renderPreview(h *blob.Handle, w, ht int) ([]string, error) {
	if h.Kind() == domain.KindVideo {
		return renderANSIFramesFromVideo(h.Path(), w, ht, maxPreviewFrames)
	}
	data, err := h.Bytes()
	if err != nil {
		return nil, err
	}
	if h.MIME() == "image/gif" {
		if frames, err := renderANSIFramesFromGIF(data, w, ht, maxPreviewFrames); err == nil {
			return frames, nil
		}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", h.MIME(), err)
	}
	return []string{renderANSIThumbnail(img, w, ht)}, nil
}

var (
	ffmpegCheckOnce sync.Once
	ffmpegAvailable bool
)

func hasFFmpeg() bool {
	ffmpegCheckOnce.Do(func() {
		_, err := exec.LookPath("ffmpeg")
		ffmpegAvailable = err == nil
	})
	return ffmpegAvailable
}

func renderANSIFramesFromGIF(data []byte, w, h int, maxFrames int) ([]string, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(g.Image) <= 1 {
		return nil, fmt.Errorf("not animated")
	}
	n := min(len(g.Image), maxFrames)
	frames := make([]string, 0, n)
	for i := range n {
		frames = append(frames, renderANSIThumbnail(g.Image[i], w, h))
	}
	return frames, nil
}

func renderANSIFramesFromVideo(path string, w, h int, maxFrames int) ([]string, error) {
	if !hasFFmpeg() {
		return nil, fmt.Errorf("ffmpeg unavailable")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	filter := fmt.Sprintf("fps=4,scale=%d:%d:flags=lanczos", max(w*2, 16), max(h*2, 8))
	cmd := exec.CommandContext(
		ctx,
		"ffmpeg",
		"-hide_banner",
		"-loglevel", "error",
		"-i", path,
		"-vf", filter,
		"-frames:v", fmt.Sprintf("%d", maxFrames),
		"-f", "gif",
		"-",
	)
	data, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	frames, err := renderANSIFramesFromGIF(data, w, h, maxFrames)
	if err != nil {
		// A single-frame clip still gets a still preview.
		img, derr := gif.Decode(bytes.NewReader(data))
		if derr != nil {
			return nil, err
		}
		return []string{renderANSIThumbnail(img, w, h)}, nil
	}
	return frames, nil
}

// renderANSIThumbnail draws img as w×h cells of two-space background blocks.
// The image is scaled down first so each cell samples a smoothed pixel.
func renderANSIThumbnail(img image.Image, w, h int) string {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return ""
	}
	if w < 4 {
		w = 4
	}
	if h < 2 {
		h = 2
	}
	if b.Dx() > w || b.Dy() > h {
		img = resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
		b = img.Bounds()
	}
	var out strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx := b.Min.X + x*b.Dx()/w
			sy := b.Min.Y + y*b.Dy()/h
			c := color.NRGBAModel.Convert(img.At(sx, sy)).(color.NRGBA)
			fmt.Fprintf(&out, "\x1b[48;2;%d;%d;%dm  \x1b[0m", c.R, c.G, c.B)
		}
		if y < h-1 {
			out.WriteByte('\n')
		}
	}
	return out.String()
}
