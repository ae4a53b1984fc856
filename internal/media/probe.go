// Package media describes files for the info panel, probes images and videos
// through Go decoders or ffprobe/ffmpeg, and samples images into terminal
// color blocks.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"os"
	"os/exec"
	"strconv"

	// Decoders for image.Decode and image.DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	serr "mediabrowse/internal/errors"
	"mediabrowse/internal/log"
)

// ImageDecoder decodes images for the preview and reads their dimensions.
type ImageDecoder interface {
	Decode(ctx context.Context, path string) (image.Image, error)
	Dimensions(ctx context.Context, path string) (width, height int, err error)
}

// VideoProber reports the duration of a video in seconds, 0 when unknown.
type VideoProber interface {
	Duration(ctx context.Context, path string) float64
}

// Probe decodes what the Go image decoders understand (png, jpeg, gif, bmp,
// tiff, webp) natively and falls back to ffmpeg/ffprobe for everything else,
// including svg, avif and the first frame of videos.
type Probe struct {
	FFmpeg  string
	FFprobe string
	logger  *log.Logger
}

// NewProbe returns a Probe using the given executables.
func NewProbe(ffmpeg, ffprobe string, logger *log.Logger) *Probe {
	if logger == nil {
		logger = log.Default()
	}
	return &Probe{FFmpeg: ffmpeg, FFprobe: ffprobe, logger: logger}
}

// Decode returns the decoded image at path.
func (p *Probe) Decode(ctx context.Context, path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, serr.NewDecodeError("failed to open image", path, err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err == nil {
		return img, nil
	}

	p.logger.With(log.F("path", path)).Debugf("native decode failed, grabbing a frame with ffmpeg: %v", err)
	return p.grabFrame(ctx, path)
}

// grabFrame asks ffmpeg for the first frame of path as a PNG on stdout.
func (p *Probe) grabFrame(ctx context.Context, path string) (image.Image, error) {
	out, err := p.output(ctx, p.FFmpeg,
		"-v", "quiet", "-i", path,
		"-frames:v", "1", "-f", "image2pipe", "-vcodec", "png", "-")
	if err != nil {
		return nil, serr.NewDecodeError("failed to extract frame", path, err)
	}
	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, serr.NewDecodeError("failed to decode frame", path, err)
	}
	return img, nil
}

// Dimensions returns the pixel size of the image at path.
func (p *Probe) Dimensions(ctx context.Context, path string) (int, int, error) {
	if f, err := os.Open(path); err == nil {
		cfg, _, err := image.DecodeConfig(f)
		f.Close()
		if err == nil {
			return cfg.Width, cfg.Height, nil
		}
	}

	out, err := p.output(ctx, p.FFprobe,
		"-v", "quiet", "-print_format", "json", "-show_streams", "-select_streams", "v:0", path)
	if err != nil {
		return 0, 0, serr.NewDecodeError("failed to probe dimensions", path, err)
	}
	var result struct {
		Streams []struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(out, &result); err != nil {
		return 0, 0, serr.NewDecodeError("failed to parse ffprobe output", path, err)
	}
	if len(result.Streams) == 0 || result.Streams[0].Width == 0 {
		return 0, 0, serr.NewDecodeError("no video stream", path, nil)
	}
	return result.Streams[0].Width, result.Streams[0].Height, nil
}

// Duration returns the container duration reported by ffprobe, or 0 when the
// probe fails.
func (p *Probe) Duration(ctx context.Context, path string) float64 {
	out, err := p.output(ctx, p.FFprobe,
		"-v", "quiet", "-print_format", "json", "-show_format", path)
	if err != nil {
		p.logger.With(log.F("path", path)).Debugf("ffprobe failed: %v", err)
		return 0
	}
	d, err := parseDuration(out)
	if err != nil {
		p.logger.With(log.F("path", path)).Debugf("unreadable ffprobe output: %v", err)
		return 0
	}
	return d
}

// parseDuration reads format.duration from ffprobe's JSON output. ffprobe
// prints the duration as a string.
func parseDuration(out []byte) (float64, error) {
	var result struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(out, &result); err != nil {
		return 0, err
	}
	if result.Format.Duration == "" {
		return 0, nil
	}
	return strconv.ParseFloat(result.Format.Duration, 64)
}

func (p *Probe) output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if name == "" {
		return nil, serr.NewProcessError("no executable configured", name, -1, nil)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		code := -1
		if cmd.ProcessState != nil {
			code = cmd.ProcessState.ExitCode()
		}
		return nil, serr.NewProcessError("command failed", name, code, err)
	}
	return out, nil
}
