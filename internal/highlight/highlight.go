// Package highlight turns source text into syntax-highlighted HTML fragments.
//
// Every fragment starts with WrapperPrefix. Layout code rewrites that opening
// tag, so the prefix is checked explicitly rather than assumed: output that
// lacks it is a ContractViolation, not something to recover from.
package highlight

import (
	"errors"
	"fmt"
	"strings"
)

// WrapperPrefix is the opening tag every highlighted fragment begins with.
const WrapperPrefix = `<div class="highlight">`

// ErrContractViolation indicates highlighter output that does not begin with WrapperPrefix.
var ErrContractViolation = errors.New("highlighter output violates wrapper contract")

// Highlighter renders raw text as an HTML fragment beginning with WrapperPrefix.
type Highlighter interface {
	Highlight(text string) (string, error)
}

// Fragment is highlighted HTML plus the line count of the original source it
// is displayed against. Both fragments of a pair carry the original's count.
type Fragment struct {
	HTML            string
	SourceLineCount int
}

// CheckContract returns ErrContractViolation when html does not start with WrapperPrefix.
func CheckContract(html string) error {
	if strings.HasPrefix(html, WrapperPrefix) {
		return nil
	}
	head := html
	if len(head) > len(WrapperPrefix)+16 {
		head = head[:len(WrapperPrefix)+16]
	}
	return fmt.Errorf("%w: want prefix %q, got %q", ErrContractViolation, WrapperPrefix, head)
}

// Render highlights text with h and verifies the result's wrapper.
func Render(h Highlighter, text string, sourceLines int) (Fragment, error) {
	html, err := h.Highlight(text)
	if err != nil {
		return Fragment{}, err
	}
	if err := CheckContract(html); err != nil {
		return Fragment{}, err
	}
	return Fragment{HTML: html, SourceLineCount: sourceLines}, nil
}

// Func adapts a plain function to the Highlighter interface.
type Func func(text string) (string, error)

func (f Func) Highlight(text string) (string, error) { return f(text) }
