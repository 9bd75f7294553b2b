//go:build unix

package mmap

import (
	"fmt"
	"os"
	"syscall"
)

// Open maps the named file for reading.
//
//	m, err := mmap.Open("bmr15000_3.str")
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
func Open(name string) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}
	size := stat.Size()
	if size == 0 {
		return &File{data: []byte{}}, nil
	}
	if size != int64(int(size)) {
		return nil, fmt.Errorf("mmap: %s is too large to map (%d bytes)", name, size)
	}

	// the mapping outlives the descriptor
	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap: %s: %w", name, err)
	}
	return &File{
		data:  data,
		unmap: func() error { return syscall.Munmap(data) },
	}, nil
}
