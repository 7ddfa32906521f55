// Package wake detects configured wake phrases in speech transcripts.
//
// Detection is a pure function over text: no state, no goroutines. The
// orchestrator applies it to final transcripts only, so partial text never
// triggers the pipeline.
package wake

import (
	"strings"
	"unicode"
)

// DefaultPhrases are the wake phrases used when none are configured.
// Longer phrases are listed first so Extract strips the most specific match.
var DefaultPhrases = []string{
	"hey minibot",
	"okay minibot",
	"minibot",
}

// Normalize lowercases text, strips punctuation, and collapses whitespace.
// "Hey, MiniBot!" and "hey minibot" normalize to the same string.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	lastSpace := true
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// Match reports whether text contains any of the wake phrases.
// Matching is case-insensitive on normalized text; multiple phrase hits in
// one utterance still count as a single match.
func Match(text string, phrases []string) bool {
	norm := Normalize(text)
	_, _, ok := find(norm, phrases)
	return ok
}

// Extract returns the command portion following the first wake phrase in
// text, and whether a phrase matched at all. When the phrase appears with
// no trailing text, the remainder is empty.
func Extract(text string, phrases []string) (string, bool) {
	norm := Normalize(text)
	at, phraseLen, ok := find(norm, phrases)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(norm[at+phraseLen:]), true
}

// find locates the first configured phrase in norm, returning its position
// and normalized length. Phrases are tried in order, so callers should list
// longer phrases first.
func find(norm string, phrases []string) (at, phraseLen int, ok bool) {
	if norm == "" {
		return 0, 0, false
	}
	for _, phrase := range phrases {
		p := Normalize(phrase)
		if p == "" {
			continue
		}
		if at, ok := indexPhrase(norm, p); ok {
			return at, len(p), true
		}
	}
	return 0, 0, false
}

// indexPhrase finds p in norm on word boundaries. Substring matching alone
// would let "minibottle" trigger "minibot".
func indexPhrase(norm, p string) (int, bool) {
	idx := 0
	for {
		at := strings.Index(norm[idx:], p)
		if at < 0 {
			return 0, false
		}
		at += idx

		startOK := at == 0 || norm[at-1] == ' '
		end := at + len(p)
		endOK := end == len(norm) || norm[end] == ' '
		if startOK && endOK {
			return at, true
		}
		idx = at + 1
	}
}
