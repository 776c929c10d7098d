package highlight

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"git.home.luguber.info/inful/sidebyside/internal/logfields"
)

// ErrUnknownLexer indicates no chroma lexer is registered under the configured name.
var ErrUnknownLexer = errors.New("unknown lexer")

// ChromaHighlighter highlights with chroma, emitting CSS classes rather than
// inline styles so a single stylesheet (see WriteCSS) themes every fragment.
type ChromaHighlighter struct {
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter *html.Formatter
}

// NewChromaHighlighter looks up lexerName and styleName in chroma's registries.
// An unknown style falls back to chroma's default; an unknown lexer is an error.
func NewChromaHighlighter(lexerName, styleName string) (*ChromaHighlighter, error) {
	lexer := lexers.Get(lexerName)
	if lexer == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLexer, lexerName)
	}
	style := styles.Get(styleName)
	if !strings.EqualFold(style.Name, styleName) {
		slog.Warn("Unknown highlight style, using fallback", logfields.Style(styleName), slog.String("fallback", style.Name))
	}
	slog.Debug("Highlighter ready", logfields.Lexer(lexer.Config().Name), logfields.Style(style.Name))
	return &ChromaHighlighter{
		lexer:     chroma.Coalesce(lexer),
		style:     style,
		formatter: html.New(html.WithClasses(true)),
	}, nil
}

// Highlight returns text rendered as `<div class="highlight"><pre ...>...</pre></div>`.
func (h *ChromaHighlighter) Highlight(text string) (string, error) {
	it, err := h.lexer.Tokenise(nil, text)
	if err != nil {
		return "", fmt.Errorf("tokenise: %w", err)
	}
	var b strings.Builder
	b.WriteString(WrapperPrefix)
	if err := h.formatter.Format(&b, h.style, it); err != nil {
		return "", fmt.Errorf("format html: %w", err)
	}
	b.WriteString("</div>\n")
	return b.String(), nil
}

// WriteCSS writes the stylesheet for the configured style's classes.
func (h *ChromaHighlighter) WriteCSS(w io.Writer) error {
	return h.formatter.WriteCSS(w, h.style)
}

// StyleName reports the resolved style.
func (h *ChromaHighlighter) StyleName() string { return h.style.Name }
