// Package rewrite counts and rewrites references to media files inside a
// bound text document such as an HTML page or a Markdown file.
package rewrite

import "strings"

// Count returns the number of case-insensitive, non-overlapping occurrences
// of base followed by "." and one of exts in text. No context is required
// around the match.
func Count(text, base string, exts []string) int {
	if base == "" {
		return 0
	}
	n := 0
	for i := 0; i+len(base) < len(text); {
		if extLen := extensionAt(text, i, base, exts, false); extLen > 0 {
			n++
			i += len(base) + 1 + extLen
			continue
		}
		i++
	}
	return n
}

// Replace swaps the extension of every reference to base in text for newExt
// (which includes the leading dot) and returns the new text and the number of
// references changed. References that already carry newExt are left alone
// and not counted.
//
// A reference is base + "." + ext, matched case-insensitively, where the
// character after the extension is not a letter or digit and the text before
// base is one of:
//
//	"photo.png   'photo.png   (photo.png   =photo.png
//	= "photo.png            whitespace after the opener
//	"img/a/photo.png        a path prefix ending in / or \
//
// Anything else in front of base, such as more letters ("myphoto.png") or a
// hyphen, is not a reference to base.
func Replace(text, base, newExt string, exts []string) (string, int) {
	if base == "" {
		return text, 0
	}
	want := strings.TrimPrefix(newExt, ".")
	var b strings.Builder
	last, n := 0, 0
	for i := 0; i+len(base) < len(text); {
		extLen := extensionAt(text, i, base, exts, true)
		if extLen == 0 || !anchored(text, i) {
			i++
			continue
		}
		dot := i + len(base)
		// Already converted
		if strings.EqualFold(text[dot+1:dot+1+extLen], want) {
			i = dot + 1 + extLen
			continue
		}
		b.WriteString(text[last:dot])
		b.WriteString(newExt)
		last = dot + 1 + extLen
		i = last
		n++
	}
	if n == 0 {
		return text, 0
	}
	b.WriteString(text[last:])
	return b.String(), n
}

// extensionAt reports the length of the extension when text[i:] starts with
// base + "." + ext for some ext in exts, or 0. The longest matching extension
// wins. With bounded set the extension must not run on into a letter or digit.
func extensionAt(text string, i int, base string, exts []string, bounded bool) int {
	dot := i + len(base)
	if dot >= len(text) || text[dot] != '.' || !strings.EqualFold(text[i:dot], base) {
		return 0
	}
	best := 0
	for _, ext := range exts {
		end := dot + 1 + len(ext)
		if ext == "" || end > len(text) || len(ext) <= best {
			continue
		}
		if !strings.EqualFold(text[dot+1:end], ext) {
			continue
		}
		if bounded && end < len(text) && isAlnum(text[end]) {
			continue
		}
		best = len(ext)
	}
	return best
}

// anchored reports whether the base name starting at i sits in a reference
// context.
func anchored(text string, i int) bool {
	j := i
	if j > 0 && isSeparator(text[j-1]) {
		for j > 0 && !isPathStop(text[j-1]) {
			j--
		}
	}
	for j > 0 && isSpace(text[j-1]) {
		j--
	}
	return j > 0 && isOpener(text[j-1])
}

func isOpener(c byte) bool {
	return c == '"' || c == '\'' || c == '(' || c == '='
}

func isSeparator(c byte) bool {
	return c == '/' || c == '\\'
}

func isPathStop(c byte) bool {
	return isOpener(c) || isSpace(c) || c == ')' || c == '>'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
