package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"

	"mediabrowse/internal/files"
	"mediabrowse/internal/log"
	"mediabrowse/internal/rewrite"
)

// Unreadable replaces the details of an entry that could not be inspected.
const Unreadable = "Cannot read file info"

// sniffLimit bounds the files whose content type is detected.
const sniffLimit = 1 << 20

func init() {
	exif.RegisterParsers(mknote.All...)
}

// Describer builds the text shown in the info panel for the selected entry.
type Describer struct {
	fs       files.Provider
	images   ImageDecoder
	videos   VideoProber
	rewriter *rewrite.Rewriter
	logger   *log.Logger

	// ImageExts and VideoExts decide how a file is described and which
	// extensions count as occurrences in the target.
	ImageExts files.ExtSet
	VideoExts files.ExtSet
}

// NewDescriber returns a Describer using the default extension sets.
func NewDescriber(fs files.Provider, images ImageDecoder, videos VideoProber, rewriter *rewrite.Rewriter, logger *log.Logger) *Describer {
	if logger == nil {
		logger = log.Default()
	}
	return &Describer{
		fs:        fs,
		images:    images,
		videos:    videos,
		rewriter:  rewriter,
		logger:    logger,
		ImageExts: files.ImageExtensions,
		VideoExts: files.VideoExtensions,
	}
}

// Describe returns the info panel text for name in dir. target is the bound
// reference target, or "" when none is bound. Failures never escape: the
// text then carries Unreadable instead of the details.
func (d *Describer) Describe(ctx context.Context, dir, name, target string) string {
	path := filepath.Join(dir, name)
	logger := d.logger.With(log.F("path", path))

	info, err := d.fs.Stat(path)
	if err != nil {
		logger.WithError(err).Debug("stat failed")
		return name + "\n" + Unreadable
	}

	switch {
	case info.IsDir:
		folders, nfiles, size, err := d.folderInfo(path)
		if err != nil {
			logger.WithError(err).Debug("cannot list folder")
			return name + "\n" + Unreadable
		}
		return fmt.Sprintf("%s\n%d %s, %d %s\nTotal size: %s",
			name, folders, plural(folders, "folder"), nfiles, plural(nfiles, "file"), FormatSize(size))

	case d.ImageExts.Has(name):
		w, h, err := d.images.Dimensions(ctx, path)
		if err != nil {
			logger.Debugf("cannot read dimensions: %v", err)
			return name + "\n" + Unreadable
		}
		lines := []string{
			name,
			"Size: " + FormatSize(info.Size),
			fmt.Sprintf("Dimensions: %dx%d", w, h),
		}
		lines = append(lines, exifLines(path)...)
		if target != "" {
			lines = append(lines, d.occurrences(target, name, d.ImageExts))
		}
		return strings.Join(lines, "\n")

	case d.VideoExts.Has(name):
		duration := d.videos.Duration(ctx, path)
		lines := []string{
			name,
			"Size: " + FormatSize(info.Size),
			fmt.Sprintf("Duration: %.1f sec", duration),
		}
		if target != "" {
			lines = append(lines, d.occurrences(target, name, d.VideoExts))
		}
		return strings.Join(lines, "\n")
	}

	lines := []string{name, "Size: " + FormatSize(info.Size)}
	if kind := d.contentType(path, info.Size); kind != "" {
		lines = append(lines, "Type: "+kind)
	}
	return strings.Join(lines, "\n")
}

// contentType sniffs the media type of small files. Larger files and read
// failures yield "".
func (d *Describer) contentType(path string, size int64) string {
	if size == 0 || size > sniffLimit {
		return ""
	}
	content, err := d.fs.ReadFile(path)
	if err != nil {
		return ""
	}
	return mimetype.Detect([]byte(content)).String()
}

func (d *Describer) occurrences(target, name string, exts files.ExtSet) string {
	n := d.rewriter.CountOccurrences(target, files.BaseName(name), exts)
	return fmt.Sprintf("Occurrences in target: %d", n)
}

// folderInfo counts the immediate children of dir and sums their sizes.
func (d *Describer) folderInfo(dir string) (folders, nfiles int, size int64, err error) {
	entries, err := d.fs.List(dir)
	if err != nil {
		return 0, 0, 0, err
	}
	for _, e := range entries {
		if e.IsDir {
			folders++
		} else {
			nfiles++
		}
		size += e.Size
	}
	return folders, nfiles, size, nil
}

// exifLines returns capture date and camera model for images carrying EXIF
// data. Missing data yields no lines.
func exifLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil
	}
	var lines []string
	if tag, err := x.Get(exif.DateTimeOriginal); err == nil {
		if s, _ := tag.StringVal(); s != "" {
			lines = append(lines, "Taken: "+s)
		}
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if s, _ := tag.StringVal(); s != "" {
			lines = append(lines, "Camera: "+strings.TrimSpace(s))
		}
	}
	return lines
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// FormatSize renders a byte count as B below 1 KiB, KB with one decimal
// below 1 MiB and MB with two decimals above.
func FormatSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	}
	return fmt.Sprintf("%.2f MB", float64(size)/(1024*1024))
}
