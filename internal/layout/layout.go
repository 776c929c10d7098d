// Package layout composes the two highlighted panels into the side-by-side table.
package layout

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/sidebyside/internal/highlight"
)

// HeightUnit is the CSS length unit of the right panel's fixed height.
const HeightUnit = "ex"

// CountLines returns the number of newline-separated segments in text. A
// trailing newline contributes a final empty segment, so "a\nb\n" has 3.
func CountLines(text string) int {
	return strings.Count(text, "\n") + 1
}

// FitHeight rewrites the wrapper of frag so the panel is frag.SourceLineCount
// lines tall. The rest of the fragment is left untouched.
func FitHeight(frag highlight.Fragment) (string, error) {
	if err := highlight.CheckContract(frag.HTML); err != nil {
		return "", err
	}
	rest := frag.HTML[len(highlight.WrapperPrefix):]
	return fmt.Sprintf(`<div class="highlight" style="height: %d%s">%s`, frag.SourceLineCount, HeightUnit, rest), nil
}

// Compose builds the example-display table: original on the left, transformed
// on the right with its height matched to the original.
func Compose(left, right highlight.Fragment) (string, error) {
	fitted, err := FitHeight(right)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(left.HTML) + len(fitted) + 160)
	b.WriteString(`<table class="example-display"><tr valign="top">`)
	b.WriteString(`<td class="left" width="50%">`)
	b.WriteString(left.HTML)
	b.WriteString(`</td><td class="right" width="50%">`)
	b.WriteString(fitted)
	b.WriteString(`</td></tr></table>`)
	return b.String(), nil
}
