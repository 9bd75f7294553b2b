// Package mmap gives the parsers read-only access to a file's bytes
// without copying them onto the heap.
package mmap

import (
	"bytes"
	"errors"
)

// ErrClosed is returned by Reader after Close.
var ErrClosed = errors.New("mmap: file is closed")

// File is a read-only view of a file's contents.
// The bytes are only valid until Close.
type File struct {
	data   []byte
	unmap  func() error
	closed bool
}

// Len returns the size of the file in bytes.
func (m *File) Len() int {
	return len(m.data)
}

// Reader returns a reader over the mapped bytes.
// The reader must not be used after Close.
func (m *File) Reader() (*bytes.Reader, error) {
	if m.closed {
		return nil, ErrClosed
	}
	return bytes.NewReader(m.data), nil
}

// Close releases the mapping. Closing twice is a no-op.
func (m *File) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.data = nil
	if m.unmap == nil {
		return nil
	}
	return m.unmap()
}
