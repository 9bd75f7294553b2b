// Package star provides Document rendering to STAR bytes.
//
// This file implements the writer layout: data_ header, indented save_
// frames, free tags aligned in one column and loops with aligned rows.
package star

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/shapestone/shape-star/internal/quote"
)

// Render converts a Document to STAR bytes with the default writer options.
//
// Every value goes through the quoting codec, so the output parses back
// to the same tags and values. Rendering handles:
//   - The data_ header and one save_ frame per saveframe
//   - Free tags with their values aligned in one column
//   - Loops with column-aligned rows and a closing stop_
//   - Multi-line values as semicolon blocks
//
// Example:
//
//	doc, _ := star.Parse(input)
//	out, _ := star.Render(doc)
func Render(doc *Document) ([]byte, error) {
	return renderDocument(doc, DefaultWriterOptions())
}

// renderer writes one document.
type renderer struct {
	buf  bytes.Buffer
	opts WriterOptions
}

// rendererPool reuses output buffers across Render calls.
var rendererPool = sync.Pool{
	New: func() interface{} {
		return new(renderer)
	},
}

func getRenderer(opts WriterOptions) *renderer {
	r := rendererPool.Get().(*renderer)
	r.buf.Reset()
	r.opts = opts
	return r
}

func putRenderer(r *renderer) {
	// Don't pool buffers grown by very large documents
	const maxCapacity = 1 << 20
	if r.buf.Cap() > maxCapacity {
		return
	}
	r.opts = WriterOptions{}
	rendererPool.Put(r)
}

func renderDocument(doc *Document, opts WriterOptions) ([]byte, error) {
	if doc == nil {
		return []byte{}, nil
	}

	r := getRenderer(opts)
	defer putRenderer(r)
	if err := r.document(doc); err != nil {
		return nil, err
	}
	out := make([]byte, r.buf.Len())
	copy(out, r.buf.Bytes())
	return out, nil
}

func (r *renderer) document(doc *Document) error {
	for _, c := range doc.Comments {
		r.buf.WriteString(c)
		r.buf.WriteByte('\n')
	}
	if len(doc.Comments) > 0 {
		r.buf.WriteByte('\n')
	}

	r.buf.WriteString("data_")
	r.buf.WriteString(doc.Name)
	r.buf.WriteString("\n\n")

	if !r.opts.Grammar.Saveframes {
		return r.frame(&doc.Frame, 0)
	}
	if len(doc.Tags) > 0 || len(doc.Loops) > 0 {
		return &OptionsError{
			Field:   "Grammar",
			Message: fmt.Sprintf("%s keeps tags and loops inside saveframes; data_%s has them at block level", r.opts.Grammar, doc.Name),
		}
	}
	for _, sf := range doc.Saveframes {
		r.indent(1)
		r.buf.WriteString("save_")
		r.buf.WriteString(sf.Name)
		r.buf.WriteByte('\n')

		if err := r.frame(&sf.Frame, 2); err != nil {
			return err
		}

		r.indent(1)
		r.buf.WriteString("save_\n\n")
	}
	return nil
}

func (r *renderer) indent(level int) {
	r.buf.WriteString(strings.Repeat(" ", level*r.opts.Indent))
}

func (r *renderer) pad(n int) {
	if n > 0 {
		r.buf.WriteString(strings.Repeat(" ", n))
	}
}

func (r *renderer) frame(f *Frame, level int) error {
	if err := r.freeTags(f.Tags, level); err != nil {
		return err
	}
	for _, l := range f.Loops {
		if err := r.loop(l, level); err != nil {
			return err
		}
	}
	return nil
}

// value quotes one value of tag.
func (r *renderer) value(tag, text string, style Style) (string, error) {
	table, column := splitTag(tag)
	if style == StyleFramecode {
		// read as $name: keep it a reference
		if s, err := quote.RenderReference(framecodes, table, column, text); err == nil {
			return s, nil
		}
	}
	return quote.RenderReference(r.opts.Dictionary, table, column, text)
}

// framecodes treats every column as a save-frame pointer.
var framecodes = quote.DictionaryFunc(func(string, string) bool { return true })

func isBlock(rendered string) bool {
	return strings.HasPrefix(rendered, "\n;")
}

// freeTags writes tags with values aligned one indent past the longest name.
func (r *renderer) freeTags(tags []*Tag, level int) error {
	longest := 0
	for _, t := range tags {
		if len(t.Name) > longest {
			longest = len(t.Name)
		}
	}
	longest += r.opts.Indent

	for _, t := range tags {
		v, err := r.value(t.Name, t.Value, t.Style)
		if err != nil {
			return err
		}
		r.indent(level)
		r.buf.WriteString(t.Name)
		if isBlock(v) {
			r.buf.WriteString(v)
			continue
		}
		r.pad(longest - len(t.Name))
		r.buf.WriteString(v)
		r.buf.WriteByte('\n')
	}
	return nil
}

// loop writes a loop_ table with each column padded to its widest value.
// Loops without tags or rows are not written.
func (r *renderer) loop(l *Loop, level int) error {
	if len(l.Tags) == 0 || len(l.Rows) == 0 {
		return nil
	}

	rows := make([][]string, len(l.Rows))
	widths := make([]int, len(l.Tags))
	for i, row := range l.Rows {
		rows[i] = make([]string, len(l.Tags))
		for j, tag := range l.Tags {
			v := Value{Text: Null}
			if j < len(row) {
				v = row[j]
			}
			s, err := r.value(tag, v.Text, v.Style)
			if err != nil {
				return err
			}
			rows[i][j] = s
			if !isBlock(s) && len(s) > widths[j] {
				widths[j] = len(s)
			}
		}
	}

	r.buf.WriteByte('\n')
	r.indent(level)
	r.buf.WriteString("loop_\n")
	for _, tag := range l.Tags {
		r.indent(level + 1)
		r.buf.WriteString(tag)
		r.buf.WriteByte('\n')
	}
	r.buf.WriteByte('\n')

	for _, row := range rows {
		lineStart := true
		for j, s := range row {
			if isBlock(s) {
				r.buf.WriteString(s)
				lineStart = true
				continue
			}
			if lineStart {
				r.indent(level + 1)
				lineStart = false
			}
			r.buf.WriteString(s)
			if j < len(row)-1 {
				r.pad(widths[j] + r.opts.Indent - len(s))
			}
		}
		if !lineStart {
			r.buf.WriteByte('\n')
		}
	}

	r.indent(level)
	r.buf.WriteString("stop_\n")
	return nil
}
