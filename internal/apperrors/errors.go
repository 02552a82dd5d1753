// Package apperrors defines the error kinds surfaced to the command line.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind is the category of an application error
type Kind string

const (
	KindConfig Kind = "Config"
	KindFile   Kind = "File"
	KindGit    Kind = "Git"
	KindJSON   Kind = "JSON"
)

// Sentinels for errors.Is checks against a kind
var (
	ErrConfig = errors.New("config error")
	ErrFile   = errors.New("file error")
	ErrGit    = errors.New("git error")
	ErrJSON   = errors.New("json error")
)

// Error is a categorized application error
type Error struct {
	Kind Kind
	Op   string // what was being done, e.g. "read /home/me/.gitusers"
	Msg  string // used when there is no underlying error
	Err  error
}

func (e *Error) Error() string {
	detail := e.Msg
	if e.Err != nil {
		detail = e.Err.Error()
		if e.Op != "" {
			detail = e.Op + ": " + detail
		}
	}
	return fmt.Sprintf("%s error: %s", e.Kind, detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for the kind sentinels
func (e *Error) Is(target error) bool {
	switch target {
	case ErrConfig:
		return e.Kind == KindConfig
	case ErrFile:
		return e.Kind == KindFile
	case ErrGit:
		return e.Kind == KindGit
	case ErrJSON:
		return e.Kind == KindJSON
	}
	return false
}

// Config returns a semantic error such as an unknown profile.
func Config(format string, args ...interface{}) error {
	return &Error{Kind: KindConfig, Msg: fmt.Sprintf(format, args...)}
}

// File wraps an I/O failure
func File(op string, err error) error {
	return &Error{Kind: KindFile, Op: op, Err: err}
}

// Git wraps a repository resolution or config model failure
func Git(op string, err error) error {
	return &Error{Kind: KindGit, Op: op, Err: err}
}

// JSON wraps a store document decode/encode failure
func JSON(op string, err error) error {
	return &Error{Kind: KindJSON, Op: op, Err: err}
}
