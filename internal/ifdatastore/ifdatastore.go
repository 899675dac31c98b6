// Package ifdatastore implements the append-only, random-access IF_DATA
// index described by §4.8: one record per IF_DATA block encountered during
// preprocessing, keyed by (start_line, start_col) for later retrieval by the
// IF_DATA parser.
package ifdatastore

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/christoph2/a2lgo/internal/token"
)

// Key identifies an IF_DATA block by the source position of the "IF_DATA"
// keyword token that follows its "/begin".
type Key struct {
	StartLine, StartCol int
}

// Store is a scoped resource: it owns a temp file opened for exclusive
// write during preprocessing, and answers random-access Get queries once
// finalized. Close removes the underlying file on every exit path, per §5.
type Store struct {
	f        *os.File
	path     string
	index    map[Key]int64
	writable bool
}

// New creates the backing temp file, opened for exclusive write.
func New() (*Store, error) {
	f, err := os.CreateTemp("", "a2l-ifdata-*.bin")
	if err != nil {
		return nil, fmt.Errorf("ifdatastore: create temp file: %w", err)
	}
	return &Store{
		f:        f,
		path:     f.Name(),
		index:    make(map[Key]int64),
		writable: true,
	}, nil
}

// Put appends one record: len, start_line, start_col, end_line, end_col,
// then the raw payload bytes (the concatenated token text of the block,
// including internal whitespace).
func (s *Store) Put(span token.Span, payload []byte) error {
	if !s.writable {
		return fmt.Errorf("ifdatastore: store is not open for write")
	}
	offset, err := s.f.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}

	var header [40]byte
	binary.LittleEndian.PutUint64(header[0:8], uint64(len(payload)))
	binary.LittleEndian.PutUint64(header[8:16], uint64(span.StartLine))
	binary.LittleEndian.PutUint64(header[16:24], uint64(span.StartCol))
	binary.LittleEndian.PutUint64(header[24:32], uint64(span.EndLine))
	binary.LittleEndian.PutUint64(header[32:40], uint64(span.EndCol))

	if _, err := s.f.Write(header[:]); err != nil {
		return err
	}
	if _, err := s.f.Write(payload); err != nil {
		return err
	}

	s.index[Key{StartLine: span.StartLine, StartCol: span.StartCol}] = offset
	return nil
}

// Finalize marks the store read-only: later Put calls fail. The file is not
// reopened; Get reads through the same handle Put wrote with.
func (s *Store) Finalize() error {
	s.writable = false
	return nil
}

// Get returns the raw stored payload and span for the IF_DATA block whose
// opening keyword was at (line, col). ok is false if no such block was
// recorded ("not present").
func (s *Store) Get(line, col int) (payload []byte, span token.Span, ok bool, err error) {
	offset, present := s.index[Key{StartLine: line, StartCol: col}]
	if !present {
		return nil, token.Span{}, false, nil
	}

	var header [40]byte
	if _, err := s.f.ReadAt(header[:], offset); err != nil {
		return nil, token.Span{}, false, fmt.Errorf("ifdatastore: read header: %w", err)
	}

	length := binary.LittleEndian.Uint64(header[0:8])
	span = token.Span{
		StartLine: int(binary.LittleEndian.Uint64(header[8:16])),
		StartCol:  int(binary.LittleEndian.Uint64(header[16:24])),
		EndLine:   int(binary.LittleEndian.Uint64(header[24:32])),
		EndCol:    int(binary.LittleEndian.Uint64(header[32:40])),
	}

	payload = make([]byte, length)
	if _, err := s.f.ReadAt(payload, offset+40); err != nil {
		return nil, token.Span{}, false, fmt.Errorf("ifdatastore: read payload: %w", err)
	}

	return payload, span, true, nil
}

// Close releases the scoped resource: the backing temp file is removed
// regardless of whether preprocessing succeeded.
func (s *Store) Close() error {
	cerr := s.f.Close()
	rerr := os.Remove(s.path)
	if cerr != nil {
		return cerr
	}
	if rerr != nil && !os.IsNotExist(rerr) {
		return rerr
	}
	return nil
}
