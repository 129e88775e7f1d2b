package diag

import (
	"fmt"

	"github.com/hassan/allium/internal/source"
)

// Position is a human-facing location in a source file.
type Position struct {
	Path   string
	Line   int // 1-based
	Column int // 0-based, in scalars
	Offset int // scalar offset from the start of the file
}

// String formats the position as file:line:col with a 1-based column, the
// form editors and terminals recognize.
func (p Position) String() string {
	if p.Path == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column+1)
	}
	return fmt.Sprintf("%s:%d:%d", p.Path, p.Line, p.Column+1)
}

// PositionOf locates c.
func PositionOf(c source.Cursor) (Position, error) {
	line, col, err := c.Location()
	if err != nil {
		return Position{}, err
	}
	return Position{
		Path:   c.File().Path(),
		Line:   line + 1,
		Column: col,
		Offset: c.Pos(),
	}, nil
}

// Context is everything needed to show where a cursor is: its position and
// the text around it.
//
// Text is the cursor's line without its line ending. A line wider than the
// configured width is cut to a window of exactly that width, and Caret is
// the cursor's column within Text.
type Context struct {
	Position

	Text  string
	Caret int

	// ClippedLeft and ClippedRight report that Text is a window and the line
	// continues on that side.
	ClippedLeft  bool
	ClippedRight bool

	// Pre and Post are optional messages shown above and below the snippet.
	Pre  string
	Post string
}

// NewContext builds the context for c using a window of width scalars. A
// non-positive width means DefaultWidth.
//
// When the line does not fit, the window starts width/2 scalars left of the
// cursor once the cursor is past the midpoint, and never runs past the end
// of the line.
func NewContext(c source.Cursor, width int) (Context, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	pos, err := PositionOf(c)
	if err != nil {
		return Context{}, err
	}
	line, err := c.File().Line(pos.Line - 1)
	if err != nil {
		return Context{}, err
	}

	visible, err := trimLineEnding(line)
	if err != nil {
		return Context{}, err
	}
	ctx := Context{Position: pos, Caret: pos.Column}
	if visible.IsZero() {
		return ctx, nil
	}
	n := visible.Len()
	if n <= width {
		ctx.Text = visible.String()
		return ctx, nil
	}

	start := 0
	if pos.Column > width/2 {
		start = pos.Column - width/2
	}
	if start > n-width {
		start = n - width
	}
	window := visible
	if start > 0 {
		if window, err = window.ShrinkLeft(start); err != nil {
			return Context{}, err
		}
	}
	if extra := window.Len() - width; extra > 0 {
		if window, err = window.ShrinkRight(extra); err != nil {
			return Context{}, err
		}
	}

	ctx.Text = window.String()
	ctx.Caret = pos.Column - start
	ctx.ClippedLeft = start > 0
	ctx.ClippedRight = start+width < n
	return ctx, nil
}

// WithMessages returns a copy of ctx carrying pre and post.
func (ctx Context) WithMessages(pre, post string) Context {
	ctx.Pre, ctx.Post = pre, post
	return ctx
}

// trimLineEnding drops a trailing "\n" or "\r\n" from a line span. A line
// that is only a line ending yields the zero Span.
func trimLineEnding(line source.Span) (source.Span, error) {
	for _, ending := range []rune{'\n', '\r'} {
		if line.IsZero() || line.End().Char() != ending {
			continue
		}
		if line.Len() == 1 {
			return source.Span{}, nil
		}
		var err error
		if line, err = line.ShrinkRight(1); err != nil {
			return source.Span{}, err
		}
	}
	return line, nil
}
