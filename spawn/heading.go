package spawn

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// HeadingInjector replaces the first heading element of a markup file with one that
// carries the keyword. The file is tokenized rather than pattern-matched, so only the
// addressed element changes and every other byte is written back untouched.
type HeadingInjector struct {
	// Tag is the element name to replace, e.g. "h1".
	Tag string
	// ClassName is written as the className attribute of the new element (JSX markup).
	ClassName string
	// Suffix follows the title text, e.g. ": AI Powered SEO".
	Suffix string
}

var (
	jsxTextEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"{", "&#123;",
		"}", "&#125;",
	)
	jsxAttrEscaper = strings.NewReplacer(
		"&", "&amp;",
		`"`, "&quot;",
	)
)

// Render returns the replacement element for title.
func (h HeadingInjector) Render(title string) string {
	tag := strings.ToLower(h.Tag)
	var b strings.Builder
	b.WriteString("<" + tag)
	if h.ClassName != "" {
		fmt.Fprintf(&b, ` className="%s"`, jsxAttrEscaper.Replace(h.ClassName))
	}
	b.WriteString(">")
	b.WriteString(jsxTextEscaper.Replace(title + h.Suffix))
	b.WriteString("</" + tag + ">")
	return b.String()
}

// Inject returns content with the first heading element replaced.
// It fails with ErrHeadingNotFound if the element is missing or never closed.
func (h HeadingInjector) Inject(content []byte, title string) ([]byte, error) {
	start, end, ok := findElement(content, strings.ToLower(h.Tag))
	if !ok {
		return nil, fmt.Errorf("%w: no <%s> element", ErrHeadingNotFound, h.Tag)
	}

	rendered := h.Render(title)
	out := make([]byte, 0, len(content)-(end-start)+len(rendered))
	out = append(out, content[:start]...)
	out = append(out, rendered...)
	out = append(out, content[end:]...)
	return out, nil
}

// InjectFile rewrites the heading in the file at path. A missing file is not an error:
// it returns false and leaves the filesystem alone. The file keeps its permissions.
func (h HeadingInjector) InjectFile(path, title string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat heading file: %w", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read heading file: %w", err)
	}

	updated, err := h.Inject(content, title)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}

	if err := os.WriteFile(path, updated, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to write heading file: %w", err)
	}
	return true, nil
}

// findElement returns the byte span [start, end) of the first element named tag,
// from the "<" of its start tag through the ">" of its matching end tag.
// Nested elements of the same name are balanced.
func findElement(content []byte, tag string) (start, end int, ok bool) {
	z := html.NewTokenizer(bytes.NewReader(content))
	pos, depth := 0, 0
	start = -1

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return 0, 0, false
		}
		// Raw spans are contiguous, so summing them tracks the byte offset.
		n := len(z.Raw())

		// JSX has no raw-text elements: <Script />, <Textarea /> or <style jsx> must not
		// swallow the rest of the file.
		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			z.NextIsNotRawText()
		}

		switch tt {
		case html.StartTagToken:
			if name, _ := z.TagName(); string(name) == tag {
				if depth == 0 {
					start = pos
				}
				depth++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == tag && depth > 0 {
				depth--
				if depth == 0 {
					return start, pos + n, true
				}
			}
		}
		pos += n
	}
}
