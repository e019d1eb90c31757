package assistant

import (
	"bytes"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(false),
			),
		),
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// sanitizer allows the markup markdown rendering produces, including the
// span/style attributes the syntax highlighter emits, and nothing else.
var sanitizer = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("pre", "code", "span", "div")
	p.AllowAttrs("style").OnElements("pre", "span")
	return p
}()

// AnnotateFences forces a python language tag onto the first code fence when
// the completion contains fences but never names python. Completions that
// already tag a fence as python are left untouched.
func AnnotateFences(text string) string {
	if strings.Contains(text, "```") && !strings.Contains(text, "```python") {
		return strings.Replace(text, "```", "```python", 1)
	}
	return text
}

// RenderHTML converts completion markdown into sanitized HTML with
// highlighted code blocks.
func RenderHTML(text string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return sanitizer.Sanitize(buf.String()), nil
}
