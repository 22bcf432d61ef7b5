// Package uploadtest provides an in-memory Materializer and multipart helpers for tests.
package uploadtest

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"path"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// ErrInjected is returned by Fake.Put once FailAfter puts succeeded.
var ErrInjected = errors.New("injected storage failure")

// Fake keeps references in memory.
type Fake struct {
	// FailAfter makes Put fail after that many successful calls. Negative never fails.
	FailAfter int

	mu     sync.Mutex
	puts   int
	stored map[string][]byte
}

// NewFake returns a Fake that never fails.
func NewFake() *Fake {
	return &Fake{FailAfter: -1, stored: map[string][]byte{}}
}

// Name implements upload.Materializer.
func (f *Fake) Name() string {
	return "fake"
}

// Put implements upload.Materializer.
func (f *Fake) Put(_ context.Context, folder string, fh *multipart.FileHeader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailAfter >= 0 && f.puts >= f.FailAfter {
		return "", ErrInjected
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	var buf bytes.Buffer
	if _, err = buf.ReadFrom(src); err != nil {
		return "", err
	}

	f.puts++
	ref := path.Join("/uploads", folder, fh.Filename)
	f.stored[ref] = buf.Bytes()

	return ref, nil
}

// Remove implements upload.Materializer.
func (f *Fake) Remove(_ context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.stored, ref)

	return nil
}

// Refs returns the references currently stored.
func (f *Fake) Refs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	refs := make([]string, 0, len(f.stored))
	for ref := range f.stored {
		refs = append(refs, ref)
	}

	return refs
}

// File is one part of a multipart body.
type File struct {
	Field   string
	Name    string
	Content []byte
}

// Body encodes fields and files as multipart/form-data and returns the body and content type.
func Body(t *testing.T, fields map[string]string, files ...File) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		require.NoError(t, err)
		_, err = part.Write(f.Content)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())

	return body, w.FormDataContentType()
}

// Form parses files into a *multipart.Form as a server would see it.
func Form(t *testing.T, files ...File) *multipart.Form {
	t.Helper()

	body, contentType := Body(t, nil, files...)

	_, params, found := bytes.Cut([]byte(contentType), []byte("boundary="))
	require.True(t, found)

	form, err := multipart.NewReader(body, string(params)).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form
}
