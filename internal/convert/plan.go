// Package convert plans ffmpeg invocations that turn images into WebP and
// videos into MP4, runs them one at a time and rewrites references to the
// converted file in the bound target document.
package convert

import (
	"strings"

	"mediabrowse/internal/files"
)

// Kind is the kind of media a plan converts.
type Kind int

const (
	Image Kind = iota
	Video
)

func (k Kind) String() string {
	if k == Video {
		return "video"
	}
	return "image"
}

// Plan is one transcoder invocation. Args are passed to the transcoder
// executable as-is.
type Plan struct {
	Kind   Kind
	Input  string
	Output string
	// NewExt is the extension, with its dot, references are rewritten to.
	NewExt string
	Args   []string
}

// Quality settings for video conversion. These are fixed.
const (
	videoCodec   = "libx264"
	videoPreset  = "veryslow"
	videoCRF     = "20"
	audioCodec   = "aac"
	audioBitrate = "128k"
)

// PlanImageConversion converts input into a WebP sibling, overwriting any
// existing output.
func PlanImageConversion(input string) Plan {
	output := files.ReplaceExt(input, ".webp")
	return Plan{
		Kind:   Image,
		Input:  input,
		Output: output,
		NewExt: ".webp",
		Args:   []string{"-y", "-i", input, output},
	}
}

// PlanVideoConversion converts input into an H.264 MP4 sibling. keepAudio
// re-encodes the audio track to AAC; otherwise audio is dropped.
func PlanVideoConversion(input string, keepAudio bool) Plan {
	output := files.ReplaceExt(input, ".mp4")
	args := []string{
		"-y", "-i", input,
		"-c:v", videoCodec,
		"-preset", videoPreset,
		"-crf", videoCRF,
	}
	if keepAudio {
		args = append(args, "-c:a", audioCodec, "-b:a", audioBitrate)
	} else {
		args = append(args, "-an")
	}
	args = append(args, output)

	return Plan{
		Kind:   Video,
		Input:  input,
		Output: output,
		NewExt: ".mp4",
		Args:   args,
	}
}

// CommandLine renders the invocation for display, quoting arguments that
// contain spaces.
func (p Plan) CommandLine(executable string) string {
	parts := make([]string, 0, len(p.Args)+1)
	for _, a := range append([]string{executable}, p.Args...) {
		if strings.ContainsAny(a, " \t\"") {
			a = `"` + strings.ReplaceAll(a, `"`, `\"`) + `"`
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
