// Package actions parses embedded action directives out of free text.
//
// Language model replies may carry robot actions in a bracket syntax,
// e.g. "Sure! [nod] Here you go [wiggle_antennas]". Extract splits such a
// reply into the speakable text and the ordered list of directives so the
// caller can dispatch them separately.
package actions

import (
	"regexp"
	"strings"
)

// Directive is a single bracketed action extracted from text.
type Directive struct {
	// Raw is the directive content without brackets, e.g. "nod".
	Raw string
}

var (
	directiveRe = regexp.MustCompile(`\[([^\[\]]+)\]`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// Extract returns the text with all bracket directives removed and the
// directives in their order of appearance. Whitespace left behind by
// removed directives is collapsed. Empty brackets are ignored.
func Extract(text string) (string, []Directive) {
	var directives []Directive
	for _, m := range directiveRe.FindAllStringSubmatch(text, -1) {
		raw := strings.TrimSpace(m[1])
		if raw == "" {
			continue
		}
		directives = append(directives, Directive{Raw: raw})
	}

	clean := directiveRe.ReplaceAllString(text, " ")
	clean = spaceRe.ReplaceAllString(clean, " ")
	return strings.TrimSpace(clean), directives
}

// Names returns just the raw directive names in order.
func Names(directives []Directive) []string {
	names := make([]string, len(directives))
	for i, d := range directives {
		names[i] = d.Raw
	}
	return names
}
