package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// ExportExt is the extension of device database exports.
const ExportExt = ".db"

// Input errors.
var (
	ErrNoInputs      = errors.New("no acceptable input files")
	ErrInputRejected = errors.New("input rejected")
)

// Accept checks that path names a regular .db file no larger than maxSize
// bytes. It returns the file size.
func Accept(path string, maxSize uint64) (uint64, error) {
	if !strings.EqualFold(filepath.Ext(path), ExportExt) {
		return 0, fmt.Errorf("%w: %s: not a %s file", ErrInputRejected, path, ExportExt)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInputRejected, err)
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%w: %s: not a regular file", ErrInputRejected, path)
	}

	size := uint64(info.Size())
	if size > maxSize {
		return size, fmt.Errorf("%w: %s: %s exceeds limit of %s",
			ErrInputRejected, path, humanize.IBytes(size), humanize.IBytes(maxSize))
	}
	return size, nil
}
