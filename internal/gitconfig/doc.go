// Package gitconfig edits git config files in place.
//
// The file is kept as a list of physical lines. Only the lines of variables
// that are set or unset are rewritten; comments, blank lines, section order
// and the formatting of every other variable survive byte for byte.
//
// Section and variable names match case-insensitively, subsection names
// case-sensitively. Both `[section "sub"]` and the legacy `[section.sub]`
// header forms are understood. Values continued onto the next line with a
// trailing backslash are treated as one variable.
//
// Known limitations:
//
//   - includes are not followed
//   - a variable written on the same line as its section header is a parse error
package gitconfig
