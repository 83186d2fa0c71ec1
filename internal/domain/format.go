package domain

import "strings"

// FormatRegionName turns a region label such as "north_west_shelf" into a
// display name ("North West Shelf"). Underscores become spaces one for one,
// and an ASCII letter is upper-cased when it starts a word, i.e. when it is
// first or follows a character outside [A-Za-z0-9_]. Nothing else changes,
// so "NW" and "2nd" survive.
func FormatRegionName(label string) string {
	var b strings.Builder
	b.Grow(len(label))
	prevWord := false
	for _, r := range label {
		if r == '_' {
			b.WriteByte(' ')
			prevWord = false
			continue
		}
		if !prevWord && 'a' <= r && r <= 'z' {
			r -= 'a' - 'A'
		}
		b.WriteRune(r)
		prevWord = isWordChar(r)
	}
	return b.String()
}

func isWordChar(r rune) bool {
	return r == '_' || ('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}
