// Package upload turns multipart files into stored objects and reference strings.
//
// Handlers call Collect before touching the store. Either every requested
// field is materialized, or nothing is left behind and a *Error explains why.
package upload

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

// Materializer stores uploaded files.
type Materializer interface {
	// Put stores the file under folder and returns its public reference.
	Put(ctx context.Context, folder string, fh *multipart.FileHeader) (string, error)
	// Remove deletes a previously returned reference. Unknown references are not an error.
	Remove(ctx context.Context, ref string) error
	// Name identifies the backend in logs.
	Name() string
}

// Reason classifies an upload failure.
type Reason string

const (
	ReasonType     Reason = "unsupported file type"
	ReasonCount    Reason = "too many files"
	ReasonSize     Reason = "file too large"
	ReasonRequired Reason = "file required"
	ReasonStore    Reason = "failed to store file"
)

// Error is returned by Collect.
type Error struct {
	Field  string
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload %s: %s: %v", e.Field, e.Reason, e.Err)
	}

	return fmt.Sprintf("upload %s: %s", e.Field, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var ue *Error
	ok := errors.As(err, &ue)

	return ue, ok
}

// FieldSpec describes one multipart field.
type FieldSpec struct {
	Field      string   // multipart field name
	Folder     string   // destination folder
	Extensions []string // allowed lower-case extensions without dot, empty allows any
	MaxFiles   int      // 0 means one
	MaxBytes   int64    // per file ceiling, 0 means unlimited
	Required   bool
}

func (s FieldSpec) maxFiles() int {
	if s.MaxFiles <= 0 {
		return 1
	}

	return s.MaxFiles
}

func (s FieldSpec) check(fh *multipart.FileHeader) *Error {
	if len(s.Extensions) > 0 {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
		if !slices.Contains(s.Extensions, ext) {
			return &Error{Field: s.Field, Reason: ReasonType, Err: fmt.Errorf("%q", fh.Filename)}
		}
	}

	if s.MaxBytes > 0 && fh.Size > s.MaxBytes {
		return &Error{Field: s.Field, Reason: ReasonSize}
	}

	return nil
}

// Result maps a field name to the references stored for it.
type Result map[string][]string

// First returns the first reference of field, or "".
func (r Result) First(field string) string {
	if refs := r[field]; len(refs) > 0 {
		return refs[0]
	}

	return ""
}

// Collect validates and stores the files named by specs.
// All fields are validated before anything is stored. When storing fails,
// refs already written are removed best effort.
func Collect(ctx context.Context, m Materializer, form *multipart.Form, specs ...FieldSpec) (Result, error) {
	result := Result{}

	files := map[string][]*multipart.FileHeader{}
	if form != nil {
		files = form.File
	}

	for _, spec := range specs {
		headers := files[spec.Field]

		if len(headers) == 0 && spec.Required {
			return nil, &Error{Field: spec.Field, Reason: ReasonRequired}
		}

		if len(headers) > spec.maxFiles() {
			return nil, &Error{Field: spec.Field, Reason: ReasonCount}
		}

		for _, fh := range headers {
			if err := spec.check(fh); err != nil {
				return nil, err
			}
		}
	}

	for _, spec := range specs {
		for _, fh := range files[spec.Field] {
			ref, err := m.Put(ctx, spec.Folder, fh)
			if err != nil {
				Discard(ctx, m, result)
				return nil, &Error{Field: spec.Field, Reason: ReasonStore, Err: err}
			}

			result[spec.Field] = append(result[spec.Field], ref)
		}
	}

	return result, nil
}

// Discard removes every reference in result, logging failures.
func Discard(ctx context.Context, m Materializer, result Result) {
	ctx = context.WithoutCancel(ctx)

	for field, refs := range result {
		for _, ref := range refs {
			if err := m.Remove(ctx, ref); err != nil {
				log.Warn().Err(err).
					Str("backend", m.Name()).
					Str("field", field).
					Str("ref", ref).
					Msg("failed to remove upload")
			}
		}
	}
}
