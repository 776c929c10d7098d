package layout

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sidebyside/internal/highlight"
)

func TestCountLines(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 1},
		{"let a = 1;", 1},
		{"let a = 1;\n", 2},
		{"let a = 1;\nlet b = 2;\n", 3},
		{"\n\n", 3},
		{"a\r\nb", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CountLines(tt.text), "CountLines(%q)", tt.text)
		assert.Equal(t, len(strings.Split(tt.text, "\n")), CountLines(tt.text))
	}
}

func TestFitHeight(t *testing.T) {
	frag := highlight.Fragment{
		HTML:            highlight.WrapperPrefix + `<pre class="chroma">x</pre></div>` + "\n",
		SourceLineCount: 3,
	}
	got, err := FitHeight(frag)
	require.NoError(t, err)
	assert.Equal(t, `<div class="highlight" style="height: 3ex"><pre class="chroma">x</pre></div>`+"\n", got)
}

func TestFitHeight_ContractViolation(t *testing.T) {
	_, err := FitHeight(highlight.Fragment{HTML: `<div class="code"><pre></pre></div>`, SourceLineCount: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, highlight.ErrContractViolation))
}

func TestCompose(t *testing.T) {
	left := highlight.Fragment{HTML: highlight.WrapperPrefix + "L</div>", SourceLineCount: 2}
	right := highlight.Fragment{HTML: highlight.WrapperPrefix + "R</div>", SourceLineCount: 2}

	got, err := Compose(left, right)
	require.NoError(t, err)
	want := `<table class="example-display"><tr valign="top">` +
		`<td class="left" width="50%"><div class="highlight">L</div></td>` +
		`<td class="right" width="50%"><div class="highlight" style="height: 2ex">R</div></td>` +
		`</tr></table>`
	assert.Equal(t, want, got)
}

func TestCompose_LeftIsUntouched(t *testing.T) {
	// Only the right wrapper is rewritten; the left panel is emitted verbatim.
	left := highlight.Fragment{HTML: "<p>not checked</p>", SourceLineCount: 1}
	right := highlight.Fragment{HTML: highlight.WrapperPrefix + "R</div>", SourceLineCount: 1}

	got, err := Compose(left, right)
	require.NoError(t, err)
	assert.Contains(t, got, `<td class="left" width="50%"><p>not checked</p></td>`)
}

func TestCompose_RightContractViolation(t *testing.T) {
	left := highlight.Fragment{HTML: highlight.WrapperPrefix + "L</div>", SourceLineCount: 1}
	_, err := Compose(left, highlight.Fragment{HTML: "R", SourceLineCount: 1})
	assert.ErrorIs(t, err, highlight.ErrContractViolation)
}
