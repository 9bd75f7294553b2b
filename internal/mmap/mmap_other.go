//go:build !unix

package mmap

import (
	"fmt"
	"os"
)

// Open reads the named file into memory; this platform has no mmap.
func Open(name string) (*File, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}
	return &File{data: data}, nil
}
