package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/conscoin/blockchain/foundation/blockchain/ledger"
)

// File stores the snapshot as indented JSON on disk. When the path ends in
// .zst the JSON is compressed with zstd. Every save replaces the file
// atomically so a crash never leaves a partial snapshot behind.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile provides access to a snapshot at the specified path. The parent
// directory is created if it doesn't exist.
func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}

	return &File{path: path}, nil
}

// Path returns the location of the snapshot.
func (f *File) Path() string {
	return f.path
}

// Compressed reports whether the snapshot is stored zstd compressed.
func (f *File) Compressed() bool {
	return strings.HasSuffix(f.path, ".zst")
}

// Save writes the snapshot to a temporary file in the same directory and
// renames it over the previous snapshot.
func (f *File) Save(data ledger.ChainData) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	if f.Compressed() {
		content = zstdEncoder.EncodeAll(content, nil)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}

	// Remove is a no-op once the rename has happened.
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp snapshot: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp snapshot: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	return nil
}

// Load reads the snapshot from disk. ErrNotFound is returned when nothing
// has been saved yet.
func (f *File) Load() (ledger.ChainData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	content, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ledger.ChainData{}, ErrNotFound
		}
		return ledger.ChainData{}, fmt.Errorf("reading snapshot: %w", err)
	}

	if f.Compressed() {
		content, err = zstdDecoder.DecodeAll(content, nil)
		if err != nil {
			return ledger.ChainData{}, fmt.Errorf("decompressing snapshot: %w", err)
		}
	}

	var data ledger.ChainData
	if err := json.Unmarshal(content, &data); err != nil {
		return ledger.ChainData{}, fmt.Errorf("unmarshaling snapshot: %w", err)
	}

	return data, nil
}

// Close in this implementation has nothing to release since the file is
// only open during a save or load.
func (f *File) Close() error {
	return nil
}
