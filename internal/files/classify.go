package files

import (
	"path/filepath"
	"strings"
)

// IconCategory is the broad kind of an entry, used to pick its icon.
type IconCategory int

const (
	Generic IconCategory = iota
	Directory
	Image
	Video
	Audio
	Document
	Code
	Archive
)

func (c IconCategory) String() string {
	switch c {
	case Directory:
		return "directory"
	case Image:
		return "image"
	case Video:
		return "video"
	case Audio:
		return "audio"
	case Document:
		return "document"
	case Code:
		return "code"
	case Archive:
		return "archive"
	}
	return "generic"
}

// Icon returns the glyph drawn in front of an entry.
func (c IconCategory) Icon() string {
	switch c {
	case Directory:
		return "📁"
	case Image:
		return "📒"
	case Video:
		return "🎬"
	case Audio:
		return "🎵"
	case Document:
		return "📝"
	case Code:
		return "📄"
	case Archive:
		return "📦"
	}
	return "📃"
}

// ExtSet is a set of extensions without the leading dot, matched
// case-insensitively.
type ExtSet []string

var (
	ImageExtensions = ExtSet{"png", "jpg", "jpeg", "gif", "bmp", "svg", "webp", "avif"}
	VideoExtensions = ExtSet{"mp4", "avi", "mov", "mkv", "webm"}
	AudioExtensions = ExtSet{"mp3", "wav", "flac", "aac", "ogg"}
	DocExtensions   = ExtSet{"txt", "md", "json"}
	CodeExtensions  = ExtSet{"js", "ts", "tsx", "html", "css", "go"}
	ArchiveExts     = ExtSet{"zip", "rar"}
	// TargetExtensions are the files that can be bound as reference rewrite targets.
	TargetExtensions = ExtSet{"html", "md"}
)

// Has reports whether name ends with one of the set's extensions.
func (s ExtSet) Has(name string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return false
	}
	for _, e := range s {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// Classify maps an entry to its category. The directory flag wins over the
// extension.
func Classify(name string, isDir bool) IconCategory {
	return ClassifyWith(name, isDir, ImageExtensions, VideoExtensions)
}

// ClassifyWith is Classify with caller supplied image and video sets.
func ClassifyWith(name string, isDir bool, images, videos ExtSet) IconCategory {
	switch {
	case isDir:
		return Directory
	case images.Has(name):
		return Image
	case videos.Has(name):
		return Video
	case AudioExtensions.Has(name):
		return Audio
	case DocExtensions.Has(name):
		return Document
	case CodeExtensions.Has(name):
		return Code
	case ArchiveExts.Has(name):
		return Archive
	}
	return Generic
}
