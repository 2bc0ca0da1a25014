/*------------------------------------------------------------------------------
* renixerr.go : rinex 3 observation header errors
*
*          Copyright (C) 2022-2025 by feng xuebin, All rights reserved.
*
* history : 2024/03/02 1.0  new
*-----------------------------------------------------------------------------*/
package gnssgo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedLine          = errors.New("malformed header line")
	ErrUnknownLabel           = errors.New("unknown header record label")
	ErrMalformedField         = errors.New("malformed header field")
	ErrUnsupportedVersion     = errors.New("unsupported rinex version")
	ErrInvalidFileType        = errors.New("invalid file type")
	ErrInvalidSystem          = errors.New("invalid satellite system")
	ErrIncompleteHeader       = errors.New("incomplete header")
	ErrUnexpectedContinuation = errors.New("unexpected continuation line")
)

// HdrError describes a failed header decode or encode.
// errors.Is matches the Kind sentinel.
type HdrError struct {
	Kind    error    /* ErrXxx */
	Line    int      /* physical line number (0: encode) */
	Rec     HdrRec   /* record kind (-1: unknown) */
	Label   string   /* raw label text */
	Field   string   /* offending field name */
	Text    string   /* offending field text */
	Missing []HdrRec /* unset required record kinds */
	Detail  []string /* multi-line diagnostic text */
	Fatal   bool
	Err     error /* underlying error */
}

func (e *HdrError) Error() string {
	var b strings.Builder

	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	b.WriteString(e.Kind.Error())
	if e.Rec >= 0 && e.Rec < NUMHREC {
		fmt.Fprintf(&b, " (%s)", strings.TrimSpace(e.Rec.Label()))
	} else if e.Label != "" {
		fmt.Fprintf(&b, " %q", e.Label)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": %s %q", e.Field, e.Text)
	}
	if len(e.Missing) > 0 {
		names := make([]string, len(e.Missing))
		for i, rec := range e.Missing {
			names[i] = rec.String()
		}
		fmt.Fprintf(&b, ": missing %s", strings.Join(names, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *HdrError) Is(target error) bool {
	return target == e.Kind
}

func (e *HdrError) Unwrap() error {
	return e.Err
}

func newHdrError(kind error, rec HdrRec) *HdrError {
	return &HdrError{Kind: kind, Rec: rec, Fatal: true}
}

func fieldError(rec HdrRec, field, text string, err error) *HdrError {
	e := newHdrError(ErrMalformedField, rec)
	e.Field, e.Text, e.Err = field, text, err
	return e
}
