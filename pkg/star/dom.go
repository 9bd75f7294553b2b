// Package star provides a user-friendly DOM API for STAR manipulation.
//
// The DOM API provides plain structs for building and inspecting STAR
// documents without implementing the callback interfaces.
//
// # Document Type
//
// Document represents one data block. In the STAR dialect it holds
// saveframes; in the CIF dialect free tags and loops sit in the block itself:
//
//	doc := star.NewDocument("15000")
//	sf := doc.AddSaveframe("entry_information")
//	sf.AddTag("_Entry.ID", "15000")
//	loop := sf.AddLoop("_Entry_author.Ordinal", "_Entry_author.Family_name")
//	loop.AddRow("1", "Smith")
//
// # Lookup
//
// Access values by tag name:
//
//	tag, ok := sf.Get("_Entry.ID")
//	names, ok := loop.Column("_Entry_author.Family_name")
//
// # Round-trip Support
//
// Parse STAR and render back to STAR:
//
//	doc, _ := star.Parse(input)
//	out, _ := doc.STAR()
package star

import (
	"fmt"
	"strings"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-star/internal/parser"
)

// Document represents a data block.
type Document struct {
	// Name is the data block name without the data_ prefix.
	Name string
	// Comments holds every comment in the input, in order, including the #.
	Comments []string
	// Frame holds free tags and loops placed directly in the data block.
	// Only the CIF dialect puts anything here.
	Frame
	// Saveframes holds the data block's saveframes (STAR dialect).
	Saveframes []*Saveframe
}

// Frame is a container of free tags and loops.
type Frame struct {
	Tags  []*Tag
	Loops []*Loop
}

// Saveframe is a named save_ frame.
type Saveframe struct {
	Name string
	Line int
	Frame
}

// Tag is a free tag with its value.
type Tag struct {
	Name  string
	Value string
	Style Style
	Line  int
}

// Value is one loop cell.
type Value struct {
	Text  string
	Style Style
}

// Loop is a loop_ table. Each row holds one Value per tag; a row read from
// input with a short value count stays short.
type Loop struct {
	Tags []string
	Rows [][]Value
	Line int
}

// NewDocument creates a new empty Document.
func NewDocument(name string) *Document {
	return &Document{Name: name}
}

// AddSaveframe appends a new saveframe and returns it.
func (d *Document) AddSaveframe(name string) *Saveframe {
	sf := &Saveframe{Name: name}
	d.Saveframes = append(d.Saveframes, sf)
	return sf
}

// Saveframe returns the first saveframe with the given name.
func (d *Document) Saveframe(name string) (*Saveframe, bool) {
	for _, sf := range d.Saveframes {
		if sf.Name == name {
			return sf, true
		}
	}
	return nil, false
}

// SaveframesByCategory returns the saveframes whose _<category>.Sf_category
// tag equals category.
func (d *Document) SaveframesByCategory(category string) []*Saveframe {
	var out []*Saveframe
	for _, sf := range d.Saveframes {
		for _, t := range sf.Tags {
			if t.Field() == "Sf_category" && t.Value == category {
				out = append(out, sf)
				break
			}
		}
	}
	return out
}

// STAR renders the Document with the default writer options.
//
// Example:
//
//	doc := star.NewDocument("x")
//	doc.AddSaveframe("s").AddTag("_A.b", "one two")
//	out, _ := doc.STAR()
func (d *Document) STAR() (string, error) {
	b, err := Render(d)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// AddTag appends a free tag, classifying its value, and returns it.
func (f *Frame) AddTag(name, value string) *Tag {
	t := &Tag{Name: name, Value: value, Style: Classify(value)}
	f.Tags = append(f.Tags, t)
	return t
}

// AddLoop appends an empty loop over tags and returns it.
func (f *Frame) AddLoop(tags ...string) *Loop {
	l := &Loop{Tags: tags}
	f.Loops = append(f.Loops, l)
	return l
}

// Get returns the free tag with the given name.
func (f *Frame) Get(name string) (*Tag, bool) {
	for _, t := range f.Tags {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Loop returns the loop containing the given tag.
func (f *Frame) Loop(tag string) (*Loop, bool) {
	for _, l := range f.Loops {
		if l.index(tag) >= 0 {
			return l, true
		}
	}
	return nil, false
}

// Category returns the table part of _<table>.<column>, or "" when the
// name has no dot.
func (t *Tag) Category() string {
	table, _ := splitTag(t.Name)
	return table
}

// Field returns the column part of _<table>.<column>.
func (t *Tag) Field() string {
	_, column := splitTag(t.Name)
	return column
}

// Position returns the tag's position as a shape-core position.
func (t *Tag) Position() ast.Position {
	return ast.NewPosition(0, t.Line, 1)
}

func splitTag(name string) (table, column string) {
	name = strings.TrimPrefix(name, "_")
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// AddRow appends a row, classifying each value. Returns the Loop for
// method chaining.
func (l *Loop) AddRow(values ...string) *Loop {
	row := make([]Value, len(values))
	for i, v := range values {
		row[i] = Value{Text: v, Style: Classify(v)}
	}
	l.Rows = append(l.Rows, row)
	return l
}

// Column returns every value of tag, one per row. Short rows yield an
// empty Value.
func (l *Loop) Column(tag string) ([]Value, bool) {
	i := l.index(tag)
	if i < 0 {
		return nil, false
	}
	col := make([]Value, len(l.Rows))
	for r, row := range l.Rows {
		if i < len(row) {
			col[r] = row[i]
		}
	}
	return col, true
}

// Category returns the table shared by the loop's tags.
func (l *Loop) Category() string {
	if len(l.Tags) == 0 {
		return ""
	}
	table, _ := splitTag(l.Tags[0])
	return table
}

func (l *Loop) index(tag string) int {
	for i, t := range l.Tags {
		if t == tag {
			return i
		}
	}
	return -1
}

// ============================================================================
// AST Conversion (for integration with AST-based APIs)
// ============================================================================

// Node converts the loop to a shape-core AST ArrayDataNode: the tag names
// as the first row, then one row per loop row, every cell a LiteralNode
// holding a string.
func (l *Loop) Node() *ast.ArrayDataNode {
	rows := make([]ast.SchemaNode, 0, len(l.Rows)+1)

	header := make([]ast.SchemaNode, len(l.Tags))
	for i, t := range l.Tags {
		header[i] = ast.NewLiteralNode(t, ast.ZeroPosition())
	}
	rows = append(rows, ast.NewArrayDataNode(header, ast.NewPosition(0, l.Line, 1)))

	for _, row := range l.Rows {
		cells := make([]ast.SchemaNode, len(row))
		for i, v := range row {
			cells[i] = ast.NewLiteralNode(v.Text, ast.ZeroPosition())
		}
		rows = append(rows, ast.NewArrayDataNode(cells, ast.ZeroPosition()))
	}

	return ast.NewArrayDataNode(rows, ast.NewPosition(0, l.Line, 1))
}

// LoopFromNode creates a Loop from an AST ArrayDataNode shaped like the
// output of Loop.Node.
func LoopFromNode(node ast.SchemaNode) (*Loop, error) {
	arrayNode, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("expected *ast.ArrayDataNode, got %T", node)
	}

	elements := arrayNode.Elements()
	if len(elements) == 0 {
		return nil, fmt.Errorf("expected a header row")
	}

	var rows [][]string
	for _, elem := range elements {
		rowNode, ok := elem.(*ast.ArrayDataNode)
		if !ok {
			return nil, fmt.Errorf("expected row to be *ast.ArrayDataNode, got %T", elem)
		}

		cells := make([]string, 0, rowNode.Len())
		for _, cellNode := range rowNode.Elements() {
			literalNode, ok := cellNode.(*ast.LiteralNode)
			if !ok {
				return nil, fmt.Errorf("expected cell to be *ast.LiteralNode, got %T", cellNode)
			}

			value, ok := literalNode.Value().(string)
			if !ok {
				return nil, fmt.Errorf("expected cell value to be string, got %T", literalNode.Value())
			}

			cells = append(cells, value)
		}
		rows = append(rows, cells)
	}

	l := &Loop{Tags: rows[0]}
	for _, row := range rows[1:] {
		l.AddRow(row...)
	}
	return l, nil
}

// ============================================================================
// Document builder
// ============================================================================

// builder assembles a Document from parser events.
type builder struct {
	doc   *Document
	frame *Frame
	loop  *Loop
	diag  *diagnostics
}

func newBuilder(diag *diagnostics) *builder {
	b := &builder{doc: &Document{}, diag: diag}
	b.frame = &b.doc.Frame
	return b
}

func (b *builder) Comment(line int, text string) bool {
	b.doc.Comments = append(b.doc.Comments, text)
	return false
}

func (b *builder) StartData(line int, id string) bool {
	b.doc.Name = id
	return false
}

func (b *builder) EndData(int, string) {}

func (b *builder) StartSaveframe(line int, name string) bool {
	sf := b.doc.AddSaveframe(name)
	sf.Line = line
	b.frame = &sf.Frame
	return false
}

func (b *builder) EndSaveframe(int, string) bool {
	b.frame = &b.doc.Frame
	return false
}

func (b *builder) StartLoop(line int) bool {
	b.loop = &Loop{Line: line}
	b.frame.Loops = append(b.frame.Loops, b.loop)
	return false
}

func (b *builder) EndLoop(int) bool {
	b.loop = nil
	return false
}

// Tag collects loop column names; free tags arrive through Value.
func (b *builder) Tag(line int, name string) bool {
	if b.loop != nil {
		b.loop.Tags = append(b.loop.Tags, name)
		return false
	}
	b.frame.Tags = append(b.frame.Tags, &Tag{Name: name, Line: line})
	return false
}

func (b *builder) Value(line int, text string, style Style) bool {
	if b.diag.oversized(text) {
		if b.diag.tooLarge(line, len(text)) {
			return true
		}
		text = "" // dropped
	}

	if b.loop == nil {
		if n := len(b.frame.Tags); n > 0 {
			t := b.frame.Tags[n-1]
			t.Value, t.Style = text, style
		}
		return false
	}

	l := b.loop
	if n := len(l.Rows); n == 0 || len(l.Rows[n-1]) == len(l.Tags) {
		l.Rows = append(l.Rows, make([]Value, 0, len(l.Tags)))
	}
	last := len(l.Rows) - 1
	l.Rows[last] = append(l.Rows[last], Value{Text: text, Style: style})
	return false
}

var _ parser.TagValueHandler = (*builder)(nil)
