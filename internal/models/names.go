package models

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	unsafeCharRE = regexp.MustCompile(`[^\w\s-]`)

	// Matches one {name} placeholder, optionally carrying an inner
	// regex separated by whitespace: {name <regex>}.
	namePlaceholderRE = regexp.MustCompile(`\{name(?:\s+(.*?))?\}`)
)

// FilenameSafe replaces every character of name that is not a word
// character, whitespace or hyphen with '_', lowercasing the result
// when lower is true. It never fails.
func FilenameSafe(name string, lower bool) string {
	cleaned := unsafeCharRE.ReplaceAllString(name, "_")
	if lower {
		return strings.ToLower(cleaned)
	}
	return cleaned
}

// NameTemplate derives new item names from existing ones. The template
// must contain at least one {name} placeholder; a placeholder may carry
// an inner regex ({name <regex>}) with one or more capturing groups,
// used to extract the portion of the source name to substitute.
type NameTemplate struct {
	src string
}

// NewNameTemplate wraps a rename template string. The template is only
// validated when Apply is called.
func NewNameTemplate(template string) *NameTemplate {
	return &NameTemplate{src: template}
}

// Apply expands the template against the given source name, returning
// the derived name. A placeholder without an inner regex substitutes
// the name unchanged. With an inner regex, the matched portion of the
// name is replaced by its extracted groups; if the regex does not match
// the name at all, the empty string is substituted.
func (t *NameTemplate) Apply(name string) (string, error) {
	var applyErr error

	result := namePlaceholderRE.ReplaceAllStringFunc(t.src, func(placeholder string) string {
		if applyErr != nil {
			return ""
		}
		sub := namePlaceholderRE.FindStringSubmatch(placeholder)
		inner := sub[1]
		if inner == "" {
			return name
		}

		innerRE, err := regexp.Compile(inner)
		if err != nil {
			applyErr = &TemplateError{Msg: fmt.Sprintf("invalid regular expression %q: %v", inner, err)}
			return ""
		}
		groups := innerRE.NumSubexp()
		if groups == 0 {
			applyErr = &TemplateError{Msg: "regular expression must include at least one capturing group"}
			return ""
		}
		if !innerRE.MatchString(name) {
			return ""
		}

		// A single group extracts its own match. With multiple groups
		// the first one marks the portion of the match to drop and the
		// remaining ones are concatenated.
		var repl strings.Builder
		first := 1
		if groups > 1 {
			first = 2
		}
		for g := first; g <= groups; g++ {
			fmt.Fprintf(&repl, "${%d}", g)
		}
		return innerRE.ReplaceAllString(name, repl.String())
	})
	if applyErr != nil {
		return "", applyErr
	}
	if !namePlaceholderRE.MatchString(t.src) {
		return "", &TemplateError{Msg: "template must include {name} variable"}
	}
	return result, nil
}
