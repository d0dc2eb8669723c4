// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	badgerLatestKey      = "snapshot:latest"
	badgerSnapshotPrefix = "snapshot:v"
)

// BadgerStore keeps snapshots in an embedded badger database.
//
// Keys:
//
//	snapshot:latest              -> version number
//	snapshot:v{N}:manifest       -> JSON metadata
//	snapshot:v{N}:{blob}         -> compressed blob
type BadgerStore struct {
	db     *badger.DB
	ownsDB bool
}

// OpenBadgerStore opens a badger database at dir. An empty dir opens an
// in-memory database.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db, ownsDB: true}, nil
}

// NewBadgerStore wraps an already open database. Close does not close db.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func versionKey(version int, part string) []byte {
	return []byte(badgerSnapshotPrefix + strconv.Itoa(version) + ":" + part)
}

func readLatest(txn *badger.Txn) (int, error) {
	item, err := txn.Get([]byte(badgerLatestKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var v int
	err = item.Value(func(val []byte) error {
		n, convErr := strconv.Atoi(string(val))
		v = n
		return convErr
	})
	return v, err
}

// Save writes every blob, the manifest and the latest pointer in one transaction.
func (s *BadgerStore) Save(ctx context.Context, a *Artifacts) (Metadata, error) {
	blobs, err := encodeArtifacts(ctx, a)
	if err != nil {
		return Metadata{}, err
	}

	meta := a.Metadata
	meta.SavedAt = time.Now().UTC()
	if meta.SnapshotID == "" {
		meta.SnapshotID = uuid.New().String()
	}
	applyBlobs(&meta, blobs)

	err = s.db.Update(func(txn *badger.Txn) error {
		latest, err := readLatest(txn)
		if err != nil {
			return fmt.Errorf("read latest version: %w", err)
		}
		meta.Version = latest + 1

		for _, name := range BlobNames {
			if err := txn.Set(versionKey(meta.Version, name), blobs[name].data); err != nil {
				return fmt.Errorf("set %s: %w", name, err)
			}
		}

		manifest, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("encode manifest: %w", err)
		}
		if err := txn.Set(versionKey(meta.Version, "manifest"), manifest); err != nil {
			return fmt.Errorf("set manifest: %w", err)
		}
		return txn.Set([]byte(badgerLatestKey), []byte(strconv.Itoa(meta.Version)))
	})
	if err != nil {
		return Metadata{}, err
	}
	return meta, nil
}

// Load reads the snapshot the latest pointer refers to.
func (s *BadgerStore) Load(_ context.Context) (*Artifacts, error) {
	var (
		meta Metadata
		raw  = make(map[string][]byte, len(BlobNames))
	)

	err := s.db.View(func(txn *badger.Txn) error {
		latest, err := readLatest(txn)
		if err != nil {
			return fmt.Errorf("read latest version: %w", err)
		}
		if latest == 0 {
			return ErrNoSnapshot
		}

		item, err := txn.Get(versionKey(latest, "manifest"))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: manifest missing for version %d", ErrNoSnapshot, latest)
		}
		if err != nil {
			return fmt.Errorf("get manifest: %w", err)
		}
		if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &meta) }); err != nil {
			return fmt.Errorf("%w: decode manifest: %w", ErrNoSnapshot, err)
		}

		for _, name := range BlobNames {
			item, err := txn.Get(versionKey(latest, name))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("get %s: %w", name, err)
			}
			data, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("read %s: %w", name, err)
			}
			raw[name] = data
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return decodeArtifacts(meta, raw)
}

// Latest returns the metadata of the newest committed snapshot.
func (s *BadgerStore) Latest() (Metadata, bool) {
	var meta Metadata
	err := s.db.View(func(txn *badger.Txn) error {
		latest, err := readLatest(txn)
		if err != nil || latest == 0 {
			return ErrNoSnapshot
		}
		item, err := txn.Get(versionKey(latest, "manifest"))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error { return json.Unmarshal(val, &meta) })
	})
	return meta, err == nil
}

// Prune deletes the keys of all but the newest keep versions.
func (s *BadgerStore) Prune(_ context.Context, keep int) error {
	if keep < 1 {
		keep = 1
	}

	var stale [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		latest, err := readLatest(txn)
		if err != nil {
			return err
		}
		cutoff := latest - keep

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(badgerSnapshotPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			rest := strings.TrimPrefix(string(key), badgerSnapshotPrefix)
			sep := strings.IndexByte(rest, ':')
			if sep < 0 {
				continue
			}
			v, convErr := strconv.Atoi(rest[:sep])
			if convErr != nil {
				continue
			}
			if v <= cutoff {
				stale = append(stale, key)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan versions: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range stale {
		if err := wb.Delete(key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return wb.Flush()
}

// Close closes the database when the store opened it.
func (s *BadgerStore) Close() error {
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}
