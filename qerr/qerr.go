// SPDX-License-Identifier: GPL-2.0-or-later

// Package qerr defines the two failure kinds of a map load. Both abort the
// load; neither is retried.
package qerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// FormatError reports data that does not follow the file layout.
type FormatError struct {
	File string
	Msg  string
}

func (e *FormatError) Error() string {
	if e.File == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.File, e.Msg)
}

// IOError reports a source that could not be opened or read.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func Format(format string, args ...any) error {
	return errors.WithStack(&FormatError{Msg: fmt.Sprintf(format, args...)})
}

// InFile attaches a file name to a FormatError. Other errors pass unchanged.
func InFile(err error, name string) error {
	var fe *FormatError
	if errors.As(err, &fe) && fe.File == "" {
		fe.File = name
	}
	return err
}

func IO(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if IsIO(err) {
		return errors.Wrapf(err, format, args...)
	}
	return errors.WithStack(&IOError{Op: fmt.Sprintf(format, args...), Err: err})
}

func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

func IsIO(err error) bool {
	var ie *IOError
	return errors.As(err, &ie)
}
