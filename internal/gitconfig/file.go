package gitconfig

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKey is returned for keys that are not of the form section[.subsection].name
var ErrInvalidKey = errors.New("invalid config key")

// ParseError reports a line that is not valid git config syntax
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bad config line %d: %s", e.Line, e.Msg)
}

type lineKind int

const (
	lineOther lineKind = iota // blank or comment
	lineSection
	lineVariable
	lineContinuation // follows a variable whose value ended in a backslash
)

type line struct {
	raw        string
	kind       lineKind
	section    string
	subsection string
	name       string
	value      string // resolved value, variables only
}

// File is a parsed git config file
type File struct {
	lines           []line
	trailingNewline bool
	crlf            bool
}

// Key is a parsed config key
type Key struct {
	Section    string
	Subsection string
	Name       string
}

// ParseKey splits "section.name" or "section.subsection.name".
func ParseKey(key string) (Key, error) {
	first := strings.Index(key, ".")
	last := strings.LastIndex(key, ".")
	if first <= 0 || last == len(key)-1 {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	k := Key{Section: key[:first], Name: key[last+1:]}
	if first != last {
		k.Subsection = key[first+1 : last]
	}
	if !validSectionName(k.Section) || !validVariableName(k.Name) {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return k, nil
}

func (k Key) String() string {
	if k.Subsection == "" {
		return k.Section + "." + k.Name
	}
	return k.Section + "." + k.Subsection + "." + k.Name
}

func (k Key) matchesSection(l line) bool {
	return strings.EqualFold(l.section, k.Section) && l.subsection == k.Subsection
}

func (k Key) matches(l line) bool {
	return l.kind == lineVariable && k.matchesSection(l) && strings.EqualFold(l.name, k.Name)
}

// Parse reads git config text. Untouched content is reproduced exactly by Bytes.
func Parse(data []byte) (*File, error) {
	f := &File{}
	if len(data) == 0 {
		return f, nil
	}

	text := string(data)
	if strings.HasSuffix(text, "\n") {
		f.trailingNewline = true
		text = strings.TrimSuffix(text, "\n")
	}
	raws := strings.Split(text, "\n")
	f.crlf = strings.HasSuffix(raws[0], "\r")

	var section, subsection string
	inSection := false

	for i := 0; i < len(raws); i++ {
		raw := raws[i]
		trimmed := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))

		switch {
		case trimmed == "" || trimmed[0] == '#' || trimmed[0] == ';':
			f.lines = append(f.lines, line{raw: raw, kind: lineOther})

		case trimmed[0] == '[':
			sec, sub, err := parseSectionHeader(trimmed)
			if err != nil {
				return nil, &ParseError{Line: i + 1, Msg: err.Error()}
			}
			section, subsection, inSection = sec, sub, true
			f.lines = append(f.lines, line{raw: raw, kind: lineSection, section: sec, subsection: sub})

		default:
			if !inSection {
				return nil, &ParseError{Line: i + 1, Msg: "variable outside of a section"}
			}
			name, rest, hasValue, err := splitVariable(trimmed)
			if err != nil {
				return nil, &ParseError{Line: i + 1, Msg: err.Error()}
			}

			start := i
			value, continued := "true", false
			if hasValue {
				value, continued, err = parseValue(rest)
			}
			// Join continuation lines before resolving the value.
			for err == nil && continued {
				if i+1 >= len(raws) {
					break
				}
				i++
				rest = strings.TrimSuffix(rest, "\\") + strings.TrimSuffix(raws[i], "\r")
				value, continued, err = parseValue(rest)
			}
			if err != nil {
				return nil, &ParseError{Line: start + 1, Msg: err.Error()}
			}

			f.lines = append(f.lines, line{raw: raws[start], kind: lineVariable, section: section, subsection: subsection, name: name, value: value})
			for j := start + 1; j <= i; j++ {
				f.lines = append(f.lines, line{raw: raws[j], kind: lineContinuation, section: section, subsection: subsection})
			}
		}
	}

	return f, nil
}

// Bytes renders the file
func (f *File) Bytes() []byte {
	var buf bytes.Buffer
	for i, l := range f.lines {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(l.raw)
	}
	if f.trailingNewline && len(f.lines) > 0 {
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Get returns the last value set for key.
func (f *File) Get(key string) (string, bool) {
	k, err := ParseKey(key)
	if err != nil {
		return "", false
	}

	value, found := "", false
	for _, l := range f.lines {
		if k.matches(l) {
			value, found = l.value, true
		}
	}
	return value, found
}

// Set assigns value to key. Existing lines for the key are rewritten in
// place; otherwise the variable is added to the last matching section, or to
// a new section at the end of the file.
func (f *File) Set(key, value string) error {
	k, err := ParseKey(key)
	if err != nil {
		return err
	}

	replaced := false
	out := make([]line, 0, len(f.lines)+2)
	for i := 0; i < len(f.lines); i++ {
		l := f.lines[i]
		if l.kind == lineContinuation && replaced && len(out) > 0 && k.matches(out[len(out)-1]) {
			continue
		}
		if k.matches(l) {
			indent := leadingWhitespace(l.raw)
			l.raw = f.eol(indent + l.name + " = " + encodeValue(value))
			l.value = value
			replaced = true
		}
		out = append(out, l)
	}
	if replaced {
		f.lines = out
		return nil
	}

	newLine := line{
		raw:        f.eol("\t" + k.Name + " = " + encodeValue(value)),
		kind:       lineVariable,
		section:    k.Section,
		subsection: k.Subsection,
		name:       k.Name,
		value:      value,
	}

	if at := f.insertionPoint(k); at >= 0 {
		f.lines = append(f.lines[:at], append([]line{newLine}, f.lines[at:]...)...)
		return nil
	}

	header := line{
		raw:        f.eol(renderSectionHeader(k.Section, k.Subsection)),
		kind:       lineSection,
		section:    k.Section,
		subsection: k.Subsection,
	}
	f.lines = append(f.lines, header, newLine)
	f.trailingNewline = true
	return nil
}

// Unset removes every line of key and reports whether any existed.
func (f *File) Unset(key string) bool {
	k, err := ParseKey(key)
	if err != nil {
		return false
	}

	removed := false
	dropping := false
	out := f.lines[:0:0]
	for _, l := range f.lines {
		if k.matches(l) {
			removed, dropping = true, true
			continue
		}
		if dropping && l.kind == lineContinuation {
			continue
		}
		dropping = false
		out = append(out, l)
	}
	f.lines = out
	return removed
}

// insertionPoint returns the index after the last variable of the last
// section matching k, or -1 when no such section exists.
func (f *File) insertionPoint(k Key) int {
	header := -1
	for i, l := range f.lines {
		if l.kind == lineSection && k.matchesSection(l) {
			header = i
		}
	}
	if header < 0 {
		return -1
	}

	at := header + 1
	for i := header + 1; i < len(f.lines); i++ {
		l := f.lines[i]
		if l.kind == lineSection {
			break
		}
		if l.kind == lineVariable || l.kind == lineContinuation {
			at = i + 1
		}
	}
	return at
}

func (f *File) eol(s string) string {
	if f.crlf {
		return s + "\r"
	}
	return s
}

func leadingWhitespace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}
