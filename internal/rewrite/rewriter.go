package rewrite

import (
	serr "mediabrowse/internal/errors"
	"mediabrowse/internal/files"
	"mediabrowse/internal/log"
)

// Rewriter reads and updates the target document through a files.Provider.
type Rewriter struct {
	fs     files.Provider
	logger *log.Logger
}

// New returns a Rewriter. A nil logger uses the package default.
func New(fs files.Provider, logger *log.Logger) *Rewriter {
	if logger == nil {
		logger = log.Default()
	}
	return &Rewriter{fs: fs, logger: logger}
}

// CountOccurrences counts references to baseName with one of exts in target.
// An unreadable target counts as 0.
func (r *Rewriter) CountOccurrences(target, baseName string, exts []string) int {
	content, err := r.fs.ReadFile(target)
	if err != nil {
		r.logger.WithError(err).Debug("cannot count occurrences")
		return 0
	}
	return Count(content, baseName, exts)
}

// Rewrite changes the extension of every reference to source's base name in
// target to newExt and returns how many references changed. The target is
// written only when something changed. Failing to read or write the target
// is a *errors.RewriteError, never a zero count.
func (r *Rewriter) Rewrite(source, newExt string, exts []string, target string) (int, error) {
	content, err := r.fs.ReadFile(target)
	if err != nil {
		return 0, serr.NewRewriteError("failed to read target file", target, err)
	}

	base := files.BaseName(source)
	updated, count := Replace(content, base, newExt, exts)
	if count == 0 {
		r.logger.With(log.F("target", target), log.F("base", base)).Debug("no references found")
		return 0, nil
	}

	if err := r.fs.WriteFile(target, updated); err != nil {
		return 0, serr.NewRewriteError("failed to write target file", target, err)
	}
	r.logger.With(
		log.F("target", target),
		log.F("base", base),
		log.F("count", count),
		log.F("ext", newExt),
	).Info("references updated")
	return count, nil
}
