// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	snapshotDirPrefix = "snapshot_v"
	manifestFile      = "manifest.json"
	blobSuffix        = ".gob.gz"
	stagingPrefix     = ".staging-"
)

// FileStore keeps one directory per snapshot version under baseDir.
type FileStore struct {
	baseDir string
	mu      sync.RWMutex

	// latest committed version, 0 when none
	latest int
}

// NewFileStore opens or creates a snapshot store at baseDir. Leftover staging
// directories from interrupted saves are removed.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for artifact storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &FileStore{baseDir: baseDir}
	if err := s.scan(); err != nil {
		return nil, fmt.Errorf("scan existing snapshots: %w", err)
	}
	return s, nil
}

// scan finds the newest version and clears abandoned staging directories.
func (s *FileStore) scan() error {
	versions, err := s.versions()
	if err != nil {
		return err
	}
	if len(versions) > 0 {
		s.latest = versions[0]
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), stagingPrefix) {
			_ = os.RemoveAll(filepath.Join(s.baseDir, e.Name())) //nolint:errcheck // best-effort cleanup
		}
	}
	return nil
}

// versions returns committed versions, newest first.
func (s *FileStore) versions() ([]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}

	var out []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, ok := parseSnapshotDir(e.Name())
		if !ok {
			continue
		}
		out = append(out, v)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out, nil
}

// parseSnapshotDir extracts the version from a name like "snapshot_v3".
func parseSnapshotDir(name string) (int, bool) {
	if !strings.HasPrefix(name, snapshotDirPrefix) {
		return 0, false
	}
	v, err := strconv.Atoi(name[len(snapshotDirPrefix):])
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

func (s *FileStore) snapshotPath(version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s%d", snapshotDirPrefix, version))
}

// Save writes the blobs into a staging directory, writes the manifest last
// and renames the directory into place.
func (s *FileStore) Save(ctx context.Context, a *Artifacts) (Metadata, error) {
	blobs, err := encodeArtifacts(ctx, a)
	if err != nil {
		return Metadata{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	meta := a.Metadata
	meta.Version = s.latest + 1
	meta.SavedAt = time.Now().UTC()
	if meta.SnapshotID == "" {
		meta.SnapshotID = uuid.New().String()
	}
	applyBlobs(&meta, blobs)

	staging := filepath.Join(s.baseDir, stagingPrefix+meta.SnapshotID)
	if err := os.MkdirAll(staging, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for artifact storage
		return Metadata{}, fmt.Errorf("create staging directory: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.RemoveAll(staging) //nolint:errcheck // best-effort cleanup
		}
	}()

	for _, name := range BlobNames {
		if err := ctx.Err(); err != nil {
			return Metadata{}, err
		}
		if err := writeFileSync(filepath.Join(staging, name+blobSuffix), blobs[name].data); err != nil {
			return Metadata{}, fmt.Errorf("write %s: %w", name, err)
		}
	}

	manifest, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return Metadata{}, fmt.Errorf("encode manifest: %w", err)
	}
	if err := writeFileSync(filepath.Join(staging, manifestFile), manifest); err != nil {
		return Metadata{}, fmt.Errorf("write manifest: %w", err)
	}

	if err := os.Rename(staging, s.snapshotPath(meta.Version)); err != nil {
		return Metadata{}, fmt.Errorf("commit snapshot: %w", err)
	}
	committed = true
	s.latest = meta.Version

	return meta, nil
}

// writeFileSync writes data and fsyncs the file before closing it.
func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640) //nolint:gosec // path is built from trusted names
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close() //nolint:errcheck // write error takes precedence
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close() //nolint:errcheck // sync error takes precedence
		return err
	}
	return f.Close()
}

// Load reads the newest committed snapshot. Missing or corrupt blobs yield
// ErrNoSnapshot.
func (s *FileStore) Load(ctx context.Context) (*Artifacts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == 0 {
		return nil, ErrNoSnapshot
	}
	dir := s.snapshotPath(s.latest)

	meta, err := readManifest(dir)
	if err != nil {
		return nil, err
	}

	raw := make(map[string][]byte, len(BlobNames))
	for _, name := range BlobNames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(dir, name+blobSuffix)) //nolint:gosec // path is built from trusted names
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		raw[name] = data
	}

	return decodeArtifacts(meta, raw)
}

func readManifest(dir string) (Metadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile)) //nolint:gosec // path is built from trusted names
	if errors.Is(err, os.ErrNotExist) {
		return Metadata{}, fmt.Errorf("%w: manifest missing in %s", ErrNoSnapshot, dir)
	}
	if err != nil {
		return Metadata{}, fmt.Errorf("read manifest: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("%w: decode manifest: %w", ErrNoSnapshot, err)
	}
	return meta, nil
}

// Latest returns the metadata of the newest committed snapshot.
func (s *FileStore) Latest() (Metadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == 0 {
		return Metadata{}, false
	}
	meta, err := readManifest(s.snapshotPath(s.latest))
	if err != nil {
		return Metadata{}, false
	}
	return meta, true
}

// Prune removes all but the newest keep versions.
func (s *FileStore) Prune(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep < 1 {
		keep = 1
	}

	versions, err := s.versions()
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}
	for i := keep; i < len(versions); i++ {
		if err := os.RemoveAll(s.snapshotPath(versions[i])); err != nil {
			return fmt.Errorf("remove version %d: %w", versions[i], err)
		}
	}
	return nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error { return nil }
