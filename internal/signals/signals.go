package signals

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// space lists every rune Unicode treats as whitespace. RE2's \s covers ASCII only and
// misses \v, NBSP and the other separators PDF text tends to carry.
const space = `\t\n\v\f\r \x{1c}-\x{1f}\x{85}\x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}`

var (
	emailRE = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRE = regexp.MustCompile(`(?:\+?\p{Nd}{1,3}[` + space + `-]?)?(?:\(\p{Nd}{2,4}\)|\p{Nd}{2,4})[` + space + `-]?\p{Nd}{3,4}[` + space + `-]?\p{Nd}{3,4}`)
	urlRE   = regexp.MustCompile(`https?://[^` + space + `]+`)
)

// maxNameLineRunes bounds the trimmed length of a line accepted as a candidate name.
const maxNameLineRunes = 60

// Set holds every signal recognized in one resume text.
type Set struct {
	Emails []string
	Phones []string
	URLs   []string
	Skills []string
	Name   string
}

// Extract runs every recognizer over text.
func Extract(text string) Set {
	return Set{
		Emails: FindEmails(text),
		Phones: FindPhones(text),
		URLs:   FindURLs(text),
		Skills: ExtractSkills(text),
		Name:   GuessName(text),
	}
}

// FindEmails returns unique email addresses in order of first appearance.
func FindEmails(text string) []string {
	return dedup(emailRE.FindAllString(text, -1))
}

// FindPhones returns unique phone-like sequences as matched, in order of first appearance.
// The pattern is permissive and also matches dates and numeric codes.
func FindPhones(text string) []string {
	return dedup(phoneRE.FindAllString(text, -1))
}

// FindURLs returns unique http(s) tokens in order of first appearance.
func FindURLs(text string) []string {
	return dedup(urlRE.FindAllString(text, -1))
}

// ExtractSkills reports the vocabulary terms contained in text, in vocabulary order.
// Matching is plain substring containment on the lower-cased text, so short terms
// such as "c" or "ml" match inside longer words.
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	hits := make([]string, 0, len(Vocabulary))
	for _, skill := range Vocabulary {
		if strings.Contains(lower, skill) {
			hits = append(hits, skill)
		}
	}
	return dedup(hits)
}

// GuessName returns the first line carrying at least two capitalized words and at most
// maxNameLineRunes characters once trimmed, or "".
func GuessName(text string) string {
	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		caps := 0
		for _, w := range strings.Fields(trimmed) {
			if isCapitalized(w) {
				caps++
			}
		}
		if caps >= 2 && utf8.RuneCountInString(trimmed) <= maxNameLineRunes {
			return trimmed
		}
	}
	return ""
}

// isCapitalized accepts "Smith" and "O'neil" but not "SMITH", "McDonald" or "A".
func isCapitalized(word string) bool {
	first, size := utf8.DecodeRuneInString(word)
	if first == utf8.RuneError || !unicode.IsUpper(first) {
		return false
	}
	return isLower(word[size:])
}

// isLower reports whether s has at least one cased rune and none of them upper or title case.
func isLower(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			return false
		case unicode.IsLower(r):
			cased = true
		}
	}
	return cased
}

// splitLines breaks text on \n, \r\n, \r and the other line boundaries PDF text tends to carry.
func splitLines(text string) []string {
	return strings.FieldsFunc(strings.ReplaceAll(text, "\r\n", "\n"), isLineBreak)
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

func dedup(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
