// Package textnorm repairs descriptions whose Hebrew runs were stored in
// visual (reversed) order behind a bidirectional override character.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	leftToRightOverride = "\u202d"
	rightToLeftOverride = "\u202e"
	popDirectional      = "\u202c"
)

var hebrewRun = regexp.MustCompile(`[\x{0590}-\x{05FF}]+`)

// HasOverride reports whether s carries a bidirectional override marker.
func HasOverride(s string) bool {
	return strings.Contains(s, leftToRightOverride) || strings.Contains(s, rightToLeftOverride)
}

// Sanitize strips the override markers from s and restores every contiguous
// Hebrew run to reading order. Text without a marker is returned unchanged.
//
// Only Hebrew runs are touched: Latin letters, digits, spaces and punctuation
// between them keep their bytes and positions.
func Sanitize(s string) string {
	if !HasOverride(s) {
		return s
	}

	plain := strings.NewReplacer(
		leftToRightOverride, "",
		rightToLeftOverride, "",
		popDirectional, "",
	).Replace(s)

	return hebrewRun.ReplaceAllStringFunc(plain, func(run string) string {
		return reverse(norm.NFC.String(run))
	})
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
