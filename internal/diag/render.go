package diag

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	colorRed  = "\x1b[31m"
	colorBlue = "\x1b[94m"
	clipMark  = "..."
)

// Renderer writes caret snippets for diagnostic contexts.
//
//	unterminated block comment
//	 --> main.al:3:5
//	  |
//	3 | x = /* never closed
//	  |     ^
type Renderer struct {
	cfg Config
}

// NewRenderer returns a Renderer using cfg's color setting.
func NewRenderer(cfg Config) *Renderer {
	return &Renderer{cfg: cfg}
}

func (r *Renderer) paint(color, s string) string {
	if !r.cfg.Color {
		return s
	}
	return color + s + ansiReset
}

// Render writes ctx to w.
func (r *Renderer) Render(w io.Writer, ctx Context) error {
	var b strings.Builder

	if ctx.Pre != "" {
		b.WriteString(ctx.Pre)
		b.WriteByte('\n')
	}

	gutter := len(strconv.Itoa(ctx.Line))
	blank := strings.Repeat(" ", gutter)
	fmt.Fprintf(&b, "%s%s %s\n", blank, r.paint(colorBlue, "-->"), ctx.Position)
	fmt.Fprintf(&b, "%s %s\n", blank, r.paint(colorBlue, "|"))

	text, lead := ctx.Text, 0
	if ctx.ClippedLeft {
		text = clipMark + text
		lead = len(clipMark)
	}
	if ctx.ClippedRight {
		text += clipMark
	}
	fmt.Fprintf(&b, "%*d %s %s\n", gutter, ctx.Line, r.paint(colorBlue, "|"), text)
	fmt.Fprintf(&b, "%s %s %s%s\n", blank, r.paint(colorBlue, "|"),
		strings.Repeat(" ", lead)+caretPad(ctx.Text, ctx.Caret), r.paint(colorRed, "^"))

	if ctx.Post != "" {
		b.WriteString(ctx.Post)
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// String renders ctx without color.
func (ctx Context) String() string {
	var b strings.Builder
	_ = NewRenderer(Config{}).Render(&b, ctx)
	return b.String()
}

// caretPad returns the padding that puts a caret under scalar col of text.
// Tabs are kept so the caret lines up however the terminal expands them.
func caretPad(text string, col int) string {
	var b strings.Builder
	i := 0
	for _, r := range text {
		if i == col {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
		i++
	}
	for ; i < col; i++ {
		b.WriteByte(' ')
	}
	return b.String()
}
