package highlight

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckContract(t *testing.T) {
	assert.NoError(t, CheckContract(WrapperPrefix+"<pre>x</pre></div>"))

	err := CheckContract(`<pre class="chroma">let a</pre>`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrContractViolation))

	assert.True(t, errors.Is(CheckContract(""), ErrContractViolation))
}

func TestRender_AttachesLineCount(t *testing.T) {
	h := Func(func(text string) (string, error) {
		return WrapperPrefix + text + "</div>", nil
	})
	frag, err := Render(h, "a\nb", 7)
	require.NoError(t, err)
	assert.Equal(t, Fragment{HTML: WrapperPrefix + "a\nb</div>", SourceLineCount: 7}, frag)
}

func TestRender_RejectsBadWrapper(t *testing.T) {
	h := Func(func(text string) (string, error) { return "<span>" + text + "</span>", nil })
	_, err := Render(h, "a", 1)
	assert.True(t, errors.Is(err, ErrContractViolation))
}

func TestRender_PropagatesHighlighterError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Render(Func(func(string) (string, error) { return "", boom }), "a", 1)
	assert.ErrorIs(t, err, boom)
}

func TestChromaHighlighter(t *testing.T) {
	h, err := NewChromaHighlighter("javascript", "github")
	require.NoError(t, err)

	out, err := h.Highlight("let a = 1;\nlet b = 2;\n")
	require.NoError(t, err)
	require.NoError(t, CheckContract(out))
	assert.True(t, strings.HasSuffix(out, "</div>\n"))
	assert.Contains(t, out, `class="chroma"`)
	assert.Contains(t, out, "let")

	again, err := h.Highlight("let a = 1;\nlet b = 2;\n")
	require.NoError(t, err)
	assert.Equal(t, out, again, "highlighting must be deterministic")
}

func TestChromaHighlighter_EscapesMarkup(t *testing.T) {
	h, err := NewChromaHighlighter("javascript", "github")
	require.NoError(t, err)

	out, err := h.Highlight("const s = \"<script>\";\n")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestChromaHighlighter_UnknownLexer(t *testing.T) {
	_, err := NewChromaHighlighter("no-such-language", "github")
	assert.ErrorIs(t, err, ErrUnknownLexer)
}

func TestChromaHighlighter_UnknownStyleFallsBack(t *testing.T) {
	h, err := NewChromaHighlighter("javascript", "no-such-style")
	require.NoError(t, err)
	assert.NotEmpty(t, h.StyleName())
}

func TestChromaHighlighter_WriteCSS(t *testing.T) {
	h, err := NewChromaHighlighter("javascript", "github")
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, h.WriteCSS(&b))
	assert.Contains(t, b.String(), ".chroma")
}
