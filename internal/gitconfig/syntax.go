package gitconfig

import (
	"errors"
	"strings"
)

func parseSectionHeader(s string) (section, subsection string, err error) {
	s = s[1:]
	end := strings.IndexAny(s, " \t\"]")
	if end < 0 {
		return "", "", errors.New("unterminated section header")
	}
	section = s[:end]
	s = strings.TrimLeft(s[end:], " \t")

	quoted := false
	if strings.HasPrefix(s, `"`) {
		var b strings.Builder
		closed := false
		i := 1
		for i < len(s) {
			c := s[i]
			if c == '\\' && i+1 < len(s) {
				b.WriteByte(s[i+1])
				i += 2
				continue
			}
			i++
			if c == '"' {
				closed = true
				break
			}
			b.WriteByte(c)
		}
		if !closed {
			return "", "", errors.New("unterminated subsection name")
		}
		subsection, quoted = b.String(), true
		s = s[i:]
	}
	if !strings.HasPrefix(s, "]") {
		return "", "", errors.New("unterminated section header")
	}
	// Valid git, but the variable would be invisible to Get/Set/Unset.
	if rest := strings.TrimLeft(s[1:], " \t"); rest != "" && rest[0] != '#' && rest[0] != ';' {
		return "", "", errors.New("variable on a section header line is not supported")
	}

	// [section.subsection] is the deprecated form; its subsection is case-insensitive.
	if !quoted {
		if dot := strings.Index(section, "."); dot >= 0 {
			section, subsection = section[:dot], strings.ToLower(section[dot+1:])
		}
	}
	if !validSectionName(section) {
		return "", "", errors.New("invalid section name")
	}
	return section, subsection, nil
}

func renderSectionHeader(section, subsection string) string {
	if subsection == "" {
		return "[" + section + "]"
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(subsection)
	return "[" + section + ` "` + escaped + `"]`
}

// splitVariable splits "name = value". A bare name has no value and means true.
func splitVariable(s string) (name, rest string, hasValue bool, err error) {
	i := 0
	for i < len(s) && (isAlnum(s[i]) || s[i] == '-') {
		i++
	}
	if i == 0 || !isAlpha(s[0]) {
		return "", "", false, errors.New("invalid variable name")
	}
	name = s[:i]

	r := strings.TrimLeft(s[i:], " \t")
	switch {
	case r == "" || r[0] == '#' || r[0] == ';':
		return name, "", false, nil
	case r[0] == '=':
		return name, strings.TrimLeft(r[1:], " \t"), true, nil
	}
	return "", "", false, errors.New("expected '=' after variable name")
}

// parseValue resolves quotes, escapes and inline comments. continued is true
// when the value ends in a line-continuation backslash.
func parseValue(s string) (value string, continued bool, err error) {
	var b strings.Builder
	keep := 0 // length of b up to the last byte that is not trailing whitespace
	inQuote := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			if i+1 >= len(s) {
				return b.String()[:keep], true, nil
			}
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'b':
				b.WriteByte('\b')
			case '\\', '"':
				b.WriteByte(s[i])
			default:
				return "", false, errors.New("invalid escape sequence in value")
			}
			keep = b.Len()
		case c == '"':
			inQuote = !inQuote
			keep = b.Len()
		case !inQuote && (c == '#' || c == ';'):
			return finishValue(b.String()[:keep], inQuote)
		case c == '\r' && i == len(s)-1:
		default:
			b.WriteByte(c)
			if inQuote || (c != ' ' && c != '\t') {
				keep = b.Len()
			}
		}
	}
	return finishValue(b.String()[:keep], inQuote)
}

func finishValue(v string, inQuote bool) (string, bool, error) {
	if inQuote {
		return "", false, errors.New("unterminated quote in value")
	}
	return v, false, nil
}

// encodeValue quotes and escapes a value the way git writes it.
func encodeValue(v string) string {
	var b strings.Builder
	for _, r := range v {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		default:
			b.WriteRune(r)
		}
	}
	if v == "" || v != strings.TrimSpace(v) || strings.ContainsAny(v, "#;") {
		return `"` + b.String() + `"`
	}
	return b.String()
}

func validSectionName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isAlnum(s[i]) && s[i] != '-' && s[i] != '.' {
			return false
		}
	}
	return true
}

func validVariableName(s string) bool {
	if s == "" || !isAlpha(s[0]) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isAlnum(s[i]) && s[i] != '-' {
			return false
		}
	}
	return true
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool {
	return isAlpha(c) || (c >= '0' && c <= '9')
}
