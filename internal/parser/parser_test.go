package parser

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/shapestone/shape-star/internal/quote"
	"github.com/shapestone/shape-star/internal/tokenizer"
)

// recorder logs every event as a short string.
type recorder struct {
	events   []string
	stopOn   string // stop when an event starts with this prefix
	stopDiag bool   // errors and warnings ask to stop
}

func (r *recorder) add(format string, args ...interface{}) bool {
	ev := fmt.Sprintf(format, args...)
	r.events = append(r.events, ev)
	return r.stopOn != "" && strings.HasPrefix(ev, r.stopOn)
}

func (r *recorder) FatalError(line, col int, msg string) { r.add("fatal %d %s", line, msg) }
func (r *recorder) Error(line, col int, msg string) bool {
	return r.add("error %d %s", line, msg) || r.stopDiag
}
func (r *recorder) Warning(line, col int, msg string) bool {
	return r.add("warning %d %s", line, msg) || r.stopDiag
}
func (r *recorder) Comment(line int, text string) bool     { return r.add("comment %d %s", line, text) }
func (r *recorder) StartData(line int, id string) bool     { return r.add("data %d %s", line, id) }
func (r *recorder) EndData(line int, id string)            { r.add("enddata %d %s", line, id) }
func (r *recorder) StartSaveframe(line int, n string) bool { return r.add("save %d %s", line, n) }
func (r *recorder) EndSaveframe(line int, n string) bool   { return r.add("endsave %d %s", line, n) }
func (r *recorder) StartLoop(line int) bool                { return r.add("loop %d", line) }
func (r *recorder) EndLoop(line int) bool                  { return r.add("endloop %d", line) }

// dataRecorder receives combined tag/value events.
type dataRecorder struct{ recorder }

func (r *dataRecorder) Data(tagLine int, tag string, valLine int, value string, style quote.Style, inLoop bool) bool {
	where := "free"
	if inLoop {
		where = "loop"
	}
	return r.add("%s %s=%s %s", where, tag, value, style)
}

// splitRecorder receives separate tag and value events.
type splitRecorder struct{ recorder }

func (r *splitRecorder) Tag(line int, name string) bool { return r.add("tag %s", name) }
func (r *splitRecorder) Value(line int, text string, style quote.Style) bool {
	return r.add("value %s %s", text, style)
}

func parseData(g Grammar, input string) []string {
	r := &dataRecorder{}
	NewParser(g, tokenizer.NewScanner(input), r, &r.recorder).Parse()
	return r.events
}

func parseSplit(g Grammar, input string) []string {
	r := &splitRecorder{}
	NewParser(g, tokenizer.NewScanner(input), r, &r.recorder).Parse()
	return r.events
}

func checkEvents(t *testing.T, got, want []string) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("events mismatch\ngot:\n  %s\nwant:\n  %s",
			strings.Join(got, "\n  "), strings.Join(want, "\n  "))
	}
}

func countPrefix(events []string, prefix string) int {
	n := 0
	for _, ev := range events {
		if strings.HasPrefix(ev, prefix) {
			n++
		}
	}
	return n
}

func TestCIF_FreeTagsAndLoop(t *testing.T) {
	input := "data_x\n_a.b 1\nloop_\n_c.d\n_c.e\n1 2\n3 4\nstop_\n"
	want := []string{
		"data 1 x",
		"free _a.b=1 none",
		"loop 3",
		"loop _c.d=1 none",
		"loop _c.e=2 none",
		"loop _c.d=3 none",
		"loop _c.e=4 none",
		"endloop 8",
		"enddata 9 x",
	}
	checkEvents(t, parseData(CIF, input), want)
}

func TestCIF_SynthesizedTerminator(t *testing.T) {
	input := "data_x\n_a.b 1\nloop_\n_c.d\n1\n_e.f 2\n"
	want := []string{
		"data 1 x",
		"free _a.b=1 none",
		"loop 3",
		"loop _c.d=1 none",
		"endloop 6",
		"free _e.f=2 none",
		"enddata 7 x",
	}
	checkEvents(t, parseData(CIF, input), want)
}

func TestCIF_LoopStartClosesPreviousLoop(t *testing.T) {
	input := "data_x\nloop_\n_a.b\n1\nloop_\n_c.d\n2\n"
	want := []string{
		"data 1 x",
		"loop 2",
		"loop _a.b=1 none",
		"endloop 5",
		"loop 5",
		"loop _c.d=2 none",
		"endloop 8",
		"enddata 8 x",
	}
	checkEvents(t, parseData(CIF, input), want)
}

func TestCIF_SplitHandler(t *testing.T) {
	input := "data_x\n_a.b 'one two'\nloop_\n_c.d\n1\n_e.f 2\n"
	want := []string{
		"data 1 x",
		"tag _a.b",
		"value one two single",
		"loop 3",
		"tag _c.d",
		"value 1 none",
		"endloop 6",
		"tag _e.f",
		"value 2 none",
		"enddata 7 x",
	}
	checkEvents(t, parseSplit(CIF, input), want)
}

func TestCIF_StructuralErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tag before data block", "_a.b 1\ndata_x\n", "error 1 Invalid token at file level: _a.b"},
		{"second data block", "data_x\ndata_y\n", "error 2 Invalid token in data block: data_y"},
		{"saveframe in flat grammar", "data_x\nsave_y\n", "error 2 Invalid token in data block: save_y"},
		{"missing value", "data_x\n_a.b\n_c.d 1\n", "error 3 Value expected"},
		{"missing value before loop", "data_x\n_a.b\nloop_\n_c.d 1\n", "error 3 Value expected"},
		{"missing value at end", "data_x\n_a.b\n", "error 3 Value expected"},
		{"value without tag", "data_x\n1\n", "error 2 Value not expected"},
		{"stop outside loop", "data_x\nstop_\n", "error 2 Invalid token in data block: end of loop"},
		{"loop without tags", "data_x\nloop_\n1\n", "error 3 Loop with no tags"},
		{"loop without values", "data_x\nloop_\n_a.b\nstop_\n", "error 4 Loop with no values"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := parseData(CIF, tt.input)
			found := false
			for _, ev := range events {
				if ev == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %q in events:\n  %s", tt.want, strings.Join(events, "\n  "))
			}
		})
	}
}

func TestLoopCountValidation(t *testing.T) {
	tests := []struct {
		name     string
		values   string
		warnings int
		line     int
	}{
		{"four values", "1 2\n3 4\n", 0, 0},
		{"six values", "1 2\n3 4\n5 6\n", 0, 0},
		{"five values", "1 2\n3 4\n5\n", 1, 7},
		{"three values", "1 2\n3\n", 1, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// loop_ on line 2, tags on 3-4, values from line 5
			inputs := map[Grammar]string{
				CIF:  "data_x\nloop_\n_t.a\n_t.b\n" + tt.values + "stop_\n",
				STAR: "data_x save_s\nloop_\n_t.a\n_t.b\n" + tt.values + "stop_\nsave_\n",
			}
			for g, input := range inputs {
				events := parseData(g, input)
				if got := countPrefix(events, "warning"); got != tt.warnings {
					t.Errorf("%s: expected %d warnings, got %d: %v", g, tt.warnings, got, events)
				}
				if tt.warnings > 0 {
					want := fmt.Sprintf("warning %d Loop count error", tt.line)
					if countPrefix(events, want) != 1 {
						t.Errorf("%s: expected %q in %v", g, want, events)
					}
				}
				if countPrefix(events, "endloop") != 1 {
					t.Errorf("%s: loop count warning must not drop the loop: %v", g, events)
				}
			}
		})
	}
}

func TestSTAR_Structure(t *testing.T) {
	input := strings.Join([]string{
		"data_15000",
		"save_entry_information",
		"_Entry.Sf_category entry_information",
		"_Entry.Title",
		";",
		"A title",
		";",
		"loop_",
		"_Entry_author.Ordinal",
		"_Entry_author.Family_name",
		"1 Smith",
		"2 \"O'Neil\"",
		"stop_",
		"save_",
		"",
	}, "\n")
	want := []string{
		"data 1 15000",
		"save 2 entry_information",
		"free _Entry.Sf_category=entry_information none",
		"free _Entry.Title=A title semicolon",
		"loop 8",
		"loop _Entry_author.Ordinal=1 none",
		"loop _Entry_author.Family_name=Smith none",
		"loop _Entry_author.Ordinal=2 none",
		"loop _Entry_author.Family_name=O'Neil double",
		"endloop 13",
		"endsave 14 entry_information",
		"enddata 15 15000",
	}
	checkEvents(t, parseData(STAR, input), want)
}

func TestSTAR_SplitHandler(t *testing.T) {
	input := "data_d\nsave_s\n_a.b $ref\nloop_\n_c.d\nx\nstop_\nsave_\n"
	want := []string{
		"data 1 d",
		"save 2 s",
		"tag _a.b",
		"value $ref framecode",
		"loop 4",
		"tag _c.d",
		"value x none",
		"endloop 7",
		"endsave 8 s",
		"enddata 9 d",
	}
	checkEvents(t, parseSplit(STAR, input), want)
}

func TestSTAR_MissingStop(t *testing.T) {
	input := "data_d\nsave_s\nloop_\n_c.d\n1\n2\n"
	events := parseData(STAR, input)
	if countPrefix(events, "endloop") != 0 {
		t.Errorf("endLoop must not be delivered: %v", events)
	}
	if countPrefix(events, `error 7 No closing "stop_"`) != 1 {
		t.Errorf("expected missing stop_ error: %v", events)
	}
	if countPrefix(events, "enddata") != 0 || countPrefix(events, "endsave") != 0 {
		t.Errorf("no end events expected after unterminated loop: %v", events)
	}
}

func TestSTAR_MissingSave(t *testing.T) {
	events := parseData(STAR, "data_d\nsave_s\n_a.b 1\n")
	if countPrefix(events, `error 4 No closing "save_"`) != 1 {
		t.Errorf("expected missing save_ error: %v", events)
	}
	if countPrefix(events, "endsave") != 0 {
		t.Errorf("endSaveframe must not be delivered: %v", events)
	}
}

func TestSTAR_StructuralErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tag in data block", "data_d\n_a.b 1\n", "error 2 Invalid token in data block: _a.b"},
		{"loop in data block", "data_d\nloop_\n", "error 2 Invalid token in data block: start of loop"},
		{"nested saveframe", "data_d\nsave_a\nsave_b\nsave_\n", "error 3 Invalid token in saveframe: save_b"},
		{"tag owed a value", "data_d\nsave_a\n_a.b\n_a.c 1\nsave_\n", "error 4 Value expected"},
		{"tag owed at save end", "data_d\nsave_a\n_a.b\nsave_\n", "error 4 Value expected"},
		{"value not expected", "data_d\nsave_a\n_a.b 1 2\nsave_\n", "error 3 Value not expected"},
		{"tag after loop values", "data_d\nsave_a\nloop_\n_a.b\n1\n_a.c\nstop_\nsave_\n", "error 6 Invalid token in loop: _a.c"},
		{"save end inside loop", "data_d\nsave_a\nloop_\n_a.b\n1\nsave_\n", "error 6 Invalid token in loop: save_"},
		{"stop outside loop", "data_d\nsave_a\nstop_\nsave_\n", "error 3 Invalid token in saveframe: end of loop"},
		{"empty loop", "data_d\nsave_a\nloop_\nstop_\nsave_\n", "error 4 Loop with no tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := parseData(STAR, tt.input)
			if countPrefix(events, tt.want) != 1 {
				t.Errorf("expected %q once in events:\n  %s", tt.want, strings.Join(events, "\n  "))
			}
		})
	}
}

func TestKeywordInValueWarning(t *testing.T) {
	input := "data_x\n_a.b\n;\nunterminated text\nloop_\n;\n"
	events := parseData(CIF, input)
	if countPrefix(events, "warning 3 Keyword in value: loop_") != 1 {
		t.Errorf("expected keyword warning: %v", events)
	}
	// the value is still delivered
	if countPrefix(events, "free _a.b=unterminated text\nloop_ semicolon") != 1 {
		t.Errorf("expected value delivered: %v", events)
	}
}

func TestSemicolonLeadingNewlineStripped(t *testing.T) {
	events := parseSplit(CIF, "data_x\n_a.b\n;\nline\n\nmore\n;\n")
	if countPrefix(events, "value line\n\nmore semicolon") != 1 {
		t.Errorf("expected single leading newline stripped: %q", events)
	}
}

func TestFatalError(t *testing.T) {
	r := &dataRecorder{}
	stats := NewParser(CIF, tokenizer.NewScanner("data_x\n_a.b 'open\n_c.d 1\n"), r, &r.recorder).Parse()
	if !stats.Fatal {
		t.Fatal("expected fatal stats")
	}
	last := r.events[len(r.events)-1]
	if !strings.HasPrefix(last, "fatal 2 Parser error in data block: unterminated quoted value") {
		t.Errorf("unexpected last event %q", last)
	}
	if countPrefix(r.events, "enddata") != 0 {
		t.Errorf("fatal error must end the parse: %v", r.events)
	}
}

func TestCommentEvents(t *testing.T) {
	events := parseData(CIF, "# head\ndata_x # tail\n_a.b 1\n")
	want := []string{
		"comment 1 # head",
		"data 2 x",
		"comment 2 # tail",
		"free _a.b=1 none",
		"enddata 4 x",
	}
	checkEvents(t, events, want)
}

func TestStopFlag(t *testing.T) {
	tests := []struct {
		name   string
		stopOn string
		last   string
	}{
		{"comment", "comment", "comment 2 # c"},
		{"start data", "data", "data 1 x"},
		{"start loop", "loop 3", "loop 3"},
		{"data event", "free", "free _a.b=1 none"},
		{"end loop", "endloop", "endloop 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &dataRecorder{recorder: recorder{stopOn: tt.stopOn}}
			input := "data_x\n# c\nloop_\n_c.d 1\nstop_\n_a.b 1\n"
			stats := NewParser(CIF, tokenizer.NewScanner(input), r, &r.recorder).Parse()
			if !stats.Stopped {
				t.Error("expected Stopped")
			}
			if got := r.events[len(r.events)-1]; got != tt.last {
				t.Errorf("last event = %q, want %q", got, tt.last)
			}
		})
	}
}

func TestErrorHandlerStops(t *testing.T) {
	r := &dataRecorder{recorder: recorder{stopDiag: true}}
	stats := NewParser(CIF, tokenizer.NewScanner("data_x\n_a.b\n_c.d 1\n_e.f 2\n"), r, &r.recorder).Parse()
	if stats.Errors != 1 || !stats.Stopped {
		t.Errorf("unexpected stats %+v", stats)
	}
	if got := r.events[len(r.events)-1]; got != "error 3 Value expected" {
		t.Errorf("last event = %q", got)
	}
}

func TestErrorHandlerContinues(t *testing.T) {
	r := &dataRecorder{}
	stats := NewParser(CIF, tokenizer.NewScanner("data_x\n_a.b\n_c.d 1\n"), r, &r.recorder).Parse()
	if stats.Errors != 1 || stats.Stopped {
		t.Errorf("unexpected stats %+v", stats)
	}
	if countPrefix(r.events, "free _c.d=1") != 1 || countPrefix(r.events, "enddata") != 1 {
		t.Errorf("parser should continue after error: %v", r.events)
	}
}

// structureOnly sees only structural events.
type structureOnly struct {
	NopContentHandler
	loops int
}

func (s *structureOnly) EndLoop(int) bool {
	s.loops++
	return false
}

func TestNopContentHandler(t *testing.T) {
	h := &structureOnly{}
	p := NewParser(STAR, tokenizer.NewScanner("data_d save_s loop_ _a.b 1 stop_ loop_ _c.d 2 stop_ save_"), h, ErrorFuncs{})
	stats := p.Parse()
	if h.loops != 2 {
		t.Errorf("expected 2 loops, got %d", h.loops)
	}
	if stats.Saveframes != 1 || stats.Loops != 2 || stats.Errors != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestParserIsRestartable(t *testing.T) {
	r := &dataRecorder{}
	p := NewParser(CIF, tokenizer.NewScanner("data_a\n_x.y 1\n"), r, &r.recorder)
	p.Parse()
	first := append([]string(nil), r.events...)

	r.events = nil
	p.SetScanner(tokenizer.NewScanner("data_a\n_x.y 1\n"))
	p.Parse()
	checkEvents(t, r.events, first)
}

func TestParserWithoutCollaborators(t *testing.T) {
	p := NewParser(CIF, nil, nil, nil)
	if stats := p.Parse(); stats != (Stats{}) {
		t.Errorf("expected empty stats, got %+v", stats)
	}
}

func TestEmptyInput(t *testing.T) {
	if events := parseData(STAR, ""); len(events) != 0 {
		t.Errorf("expected no events, got %v", events)
	}
}

func TestGrammar_String(t *testing.T) {
	if CIF.String() != "CIF" || STAR.String() != "STAR" || (Grammar{}).String() != "custom" {
		t.Error("unexpected grammar names")
	}
}

func TestKeywordInValue(t *testing.T) {
	tests := map[string]string{
		"plain":           "",
		"has data_ in it": "data_",
		"SAVE_x":          "save_",
		"a loop_ b":       "loop_",
		"xstop_":          "stop_",
		"stop_ and data_": "data_",
	}
	for in, want := range tests {
		if got := keywordInValue(in); got != want {
			t.Errorf("keywordInValue(%q) = %q, want %q", in, got, want)
		}
	}
}

// lineRecorder keeps the tag line of every data event.
type lineRecorder struct {
	dataRecorder
	lines map[string]int
}

func (r *lineRecorder) Data(tagLine int, tag string, valLine int, value string, style quote.Style, inLoop bool) bool {
	r.lines[tag] = tagLine
	return r.dataRecorder.Data(tagLine, tag, valLine, value, style, inLoop)
}

func TestSemicolonRoundTrip(t *testing.T) {
	values := []string{
		"line one\nline two",
		"indented\n   block\n\nwith a blank line",
		`a 'b' "c"`,
		"x ; y\nz;",
	}

	for _, v := range values {
		for _, eol := range []string{"\n", "\r\n"} {
			name := fmt.Sprintf("%q/%q", v, eol)
			t.Run(name, func(t *testing.T) {
				input := "data_x\n_a.b" + quote.Render(v, quote.Semicolon) + "_c.d 1\n"
				input = strings.ReplaceAll(input, "\n", eol)

				r := &lineRecorder{lines: map[string]int{}}
				NewParser(CIF, tokenizer.NewScanner(input), r, &r.recorder).Parse()

				want := []string{
					"data 1 x",
					"free _a.b=" + v + " semicolon",
					"free _c.d=1 none",
					"enddata " + fmt.Sprint(strings.Count(v, "\n")+7) + " x",
				}
				checkEvents(t, r.events, want)
				if got, want := r.lines["_c.d"], strings.Count(v, "\n")+6; got != want {
					t.Errorf("_c.d on line %d, want %d", got, want)
				}
			})
		}
	}
}
