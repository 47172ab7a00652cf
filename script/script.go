// Package script turns generated dialogue text into an ordered list of
// speaker lines.
//
// Parsing is deliberately permissive: the generator output has no contract,
// so anything that does not look like "Speaker: text" is dropped instead of
// reported.
package script

import (
	"regexp"
	"strings"
)

// Separator splits the speaker label from the utterance.
const Separator = ":"

// Line is one retained dialogue line.
type Line struct {
	Speaker string
	Text    string
	// Ordinal is the playback position, dense from 0 over retained lines.
	Ordinal int
}

// Parse splits raw into dialogue lines. Blank lines, lines without a
// separator and lines with an empty label or body are skipped. Only the first
// separator counts, so "Bob: meet at 10:30" keeps "meet at 10:30".
func Parse(raw string) []Line {
	var lines []Line
	for _, l := range strings.Split(raw, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		label, text, ok := strings.Cut(l, Separator)
		if !ok {
			continue
		}
		label = cleanLabel(label)
		// "**Alice:** hi" leaves the closing emphasis on the body
		text = strings.TrimLeft(strings.TrimSpace(text), emphasis)
		if label == "" || text == "" {
			continue
		}
		lines = append(lines, Line{Speaker: label, Text: text, Ordinal: len(lines)})
	}
	return lines
}

// emphasis is the markdown decoration generators put around names.
const emphasis = "*_ "

// cleanLabel strips whitespace, markdown emphasis and bracket decoration:
// "[Alice] ", "**[Alice]**" and "[**Alice**]" all become "Alice".
func cleanLabel(s string) string {
	s = strings.Trim(strings.TrimSpace(s), emphasis)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	return strings.Trim(s, emphasis)
}

// Labels returns the distinct speakers of lines in first-appearance order.
func Labels(lines []Line) []string {
	seen := make(map[string]struct{}, len(lines))
	var out []string
	for _, l := range lines {
		if _, ok := seen[l.Speaker]; ok {
			continue
		}
		seen[l.Speaker] = struct{}{}
		out = append(out, l.Speaker)
	}
	return out
}

var bracketName = regexp.MustCompile(`\[([^\]]+)\]`)

// BracketNames returns every distinct "[Name]" token in raw, in order of
// first appearance. It looks at the whole text, not only at line prefixes,
// and is used to preview the cast of a freshly generated scenario.
func BracketNames(raw string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, m := range bracketName.FindAllStringSubmatch(raw, -1) {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
