package core

import (
	"regexp"
	"strings"

	"github.com/siahsang/forum/internal/validator"
)

// IntroductionSlug names the category whose post titles need not be questions.
const IntroductionSlug = "introductions"

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name, collapses every run of characters outside [a-z0-9]
// into one hyphen and trims hyphens at both ends.
func Slugify(name string) string {
	slug := nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

func checkQuestionTitle(v *validator.Validator, title, categorySlug string) {
	if categorySlug == IntroductionSlug {
		return
	}
	v.Check(strings.HasSuffix(strings.TrimSpace(title), "?"), "title", "must end with a question mark")
}
