package script

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Line
	}{
		{
			name:  "bracketed speakers with junk",
			input: "[Alice]: Hello there\n[Bob]: Hi Alice\n\nrandom junk line",
			expected: []Line{
				{Speaker: "Alice", Text: "Hello there", Ordinal: 0},
				{Speaker: "Bob", Text: "Hi Alice", Ordinal: 1},
			},
		},
		{
			name:  "plain labels and crlf",
			input: "Host: Welcome\r\nGuest :  Thanks for having me \r\n",
			expected: []Line{
				{Speaker: "Host", Text: "Welcome", Ordinal: 0},
				{Speaker: "Guest", Text: "Thanks for having me", Ordinal: 1},
			},
		},
		{
			name:  "empty body and empty label are skipped",
			input: "Alice:\n: orphan text\n[ ]: spaces\nBob: ok",
			expected: []Line{
				{Speaker: "Bob", Text: "ok", Ordinal: 0},
			},
		},
		{
			name:  "later separators stay in the body",
			input: "[Bob]: Meet at 10:30, ok?",
			expected: []Line{
				{Speaker: "Bob", Text: "Meet at 10:30, ok?", Ordinal: 0},
			},
		},
		{
			name:  "ordinals are dense after skips",
			input: "title line\n\n\nA: one\nnoise\n\nB: two\n   \nA: three",
			expected: []Line{
				{Speaker: "A", Text: "one", Ordinal: 0},
				{Speaker: "B", Text: "two", Ordinal: 1},
				{Speaker: "A", Text: "three", Ordinal: 2},
			},
		},
		{
			name:  "markdown emphasis around labels",
			input: "**[Alice]**: Hi\n[**Alice**]: Again\n**Bob:** Hello\n__Alice__: Bye",
			expected: []Line{
				{Speaker: "Alice", Text: "Hi", Ordinal: 0},
				{Speaker: "Alice", Text: "Again", Ordinal: 1},
				{Speaker: "Bob", Text: "Hello", Ordinal: 2},
				{Speaker: "Alice", Text: "Bye", Ordinal: 3},
			},
		},
		{
			name:     "nothing recognizable",
			input:    "\n\njust prose\nmore prose\n",
			expected: nil,
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.input)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Parse(%q) = %+v; want %+v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestParseProperties(t *testing.T) {
	inputs := []string{
		"[Alice]: Hello there\n[Bob]: Hi Alice\n\nrandom junk line",
		"a:b:c\n::\n:x\nx:\n[]:y\n [z] : w ",
		"**Narrator**: Once upon a time\n\tHost:\ttab separated\n",
	}
	for _, in := range inputs {
		first := Parse(in)
		for i, l := range first {
			if l.Speaker == "" || l.Text == "" {
				t.Errorf("Parse(%q)[%d] has empty field: %+v", in, i, l)
			}
			if l.Ordinal != i {
				t.Errorf("Parse(%q)[%d].Ordinal = %d", in, i, l.Ordinal)
			}
		}
		if second := Parse(in); !reflect.DeepEqual(first, second) {
			t.Errorf("Parse(%q) is not idempotent: %+v vs %+v", in, first, second)
		}
	}
}

func TestLabels(t *testing.T) {
	lines := Parse("B: 1\nA: 2\nB: 3\nC: 4\nA: 5")
	want := []string{"B", "A", "C"}
	if got := Labels(lines); !reflect.DeepEqual(got, want) {
		t.Errorf("Labels = %v; want %v", got, want)
	}
}

func TestBracketNames(t *testing.T) {
	raw := "[Host]: Welcome [Guest]!\n[Guest]: Thanks\n[Host]: Bye"
	want := []string{"Host", "Guest"}
	if got := BracketNames(raw); !reflect.DeepEqual(got, want) {
		t.Errorf("BracketNames = %v; want %v", got, want)
	}
	if got := BracketNames("no names"); got != nil {
		t.Errorf("BracketNames(no names) = %v; want nil", got)
	}
}
