package spawn

import (
	"fmt"
	"strings"

	"spawner/config"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slugify turns a keyword into the directory-name slug: surrounding whitespace is trimmed,
// letters are lowercased and every internal whitespace run becomes a single hyphen.
// Nothing else is stripped, so two keywords that only differ in case or spacing
// share a slug.
//
//	Slugify("SEO Velocity")       // "seo-velocity"
//	Slugify("  SEO VELOCITY  ")   // "seo-velocity"
func Slugify(keyword string) string {
	return strings.ToLower(strings.Join(strings.Fields(keyword), "-"))
}

// Titleize title-cases each word of the keyword and joins the words with single spaces.
//
//	Titleize("fast invoicing")  // "Fast Invoicing"
func Titleize(keyword string) string {
	// Casers carry state, so one per call.
	return cases.Title(language.Und).String(strings.Join(strings.Fields(keyword), " "))
}

// checkSlug rejects slugs that would place the project outside the projects root,
// e.g. a keyword like "x/../../outside".
func checkSlug(slug string) error {
	if strings.ContainsAny(slug, `/\`) || config.ContainsPathTraversal(slug) {
		return fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	return nil
}
