package ui

import (
	"fmt"
	"io"
	"iter"

	"github.com/keeper-security/git-user/pkg/types"
)

// Printer renders command output. Results go to out, diagnostics to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
}

// NewPrinter creates a printer
func NewPrinter(out, errOut io.Writer) *Printer {
	return &Printer{out: out, errOut: errOut}
}

// Profiles writes every profile as its key followed by indented fields and a
// blank line. Optional fields are only shown when present.
func (p *Printer) Profiles(profiles iter.Seq2[string, types.Profile]) error {
	for key, profile := range profiles {
		if err := writeProfile(p.out, key, profile); err != nil {
			return err
		}
	}
	return nil
}

// Export writes a serialized store followed by a newline
func (p *Printer) Export(data []byte) error {
	if _, err := p.out.Write(data); err != nil {
		return err
	}
	_, err := fmt.Fprintln(p.out)
	return err
}

// Error writes the single "Error: <message>" line for a failed command
func (p *Printer) Error(err error) {
	fmt.Fprintf(p.errOut, "Error: %v\n", err)
}

func writeProfile(w io.Writer, key string, profile types.Profile) error {
	lines := []string{
		key,
		"  Name: " + profile.Name,
		"  Email: " + profile.Email,
	}
	if profile.HasSigningKey() {
		lines = append(lines, "  Signing Key: "+*profile.SigningKey)
	}
	if profile.HasSSHCommand() {
		lines = append(lines, "  SSH Command: "+*profile.SSHCommand)
	}
	lines = append(lines, "")

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
