package model

import "strings"

// CleanText maps s onto text both databases can store and compare: invalid
// UTF-8 sequences and NUL bytes each become U+FFFD. Stored text and search
// input go through the same mapping, so a search still matches literally.
func CleanText(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	return strings.ReplaceAll(s, "\x00", "\uFFFD")
}
