// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/bookrec/internal/recommend"
	"github.com/tomtom215/bookrec/internal/recommend/tfidf"
)

// vocabularyState is the persisted form of a vocabulary.
type vocabularyState struct {
	Terms []string
	IDF   []float64
}

// encodedBlob is a compressed blob plus the checksum of its raw form.
type encodedBlob struct {
	name     string
	data     []byte
	checksum string
}

// encodeBlob gob-encodes v, checksums the raw bytes and compresses them.
func encodeBlob(name string, v any) (encodedBlob, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return encodedBlob{}, fmt.Errorf("encode %s: %w", name, err)
	}

	raw := buf.Bytes()
	hash := sha256.Sum256(raw)

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw); err != nil {
		return encodedBlob{}, fmt.Errorf("compress %s: %w", name, err)
	}
	if err := gzw.Close(); err != nil {
		return encodedBlob{}, fmt.Errorf("finalize compression of %s: %w", name, err)
	}

	return encodedBlob{name: name, data: compressed.Bytes(), checksum: hex.EncodeToString(hash[:])}, nil
}

// decodeBlob reverses encodeBlob and verifies the checksum.
func decodeBlob(name string, data []byte, checksum string, target any) error {
	gzr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decompress %s: %w", name, err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	hash := sha256.Sum256(raw)
	if got := hex.EncodeToString(hash[:]); got != checksum {
		return fmt.Errorf("%s checksum mismatch: expected %s, got %s", name, checksum, got)
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// encodeArtifacts encodes the three blobs concurrently.
func encodeArtifacts(ctx context.Context, a *Artifacts) (map[string]encodedBlob, error) {
	if a.Vocabulary == nil || a.Matrix == nil {
		return nil, fmt.Errorf("incomplete artifacts")
	}
	if a.Matrix.NumRows() != len(a.Items) {
		return nil, fmt.Errorf("matrix has %d rows for %d items", a.Matrix.NumRows(), len(a.Items))
	}

	values := map[string]any{
		BlobVectorizer: vocabularyState{Terms: a.Vocabulary.Terms, IDF: a.Vocabulary.IDF},
		BlobMatrix:     a.Matrix,
		BlobCorpus:     a.Items,
	}

	blobs := make([]encodedBlob, len(BlobNames))
	g, _ := errgroup.WithContext(ctx)
	for i, name := range BlobNames {
		g.Go(func() error {
			b, err := encodeBlob(name, values[name])
			if err != nil {
				return err
			}
			blobs[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]encodedBlob, len(blobs))
	for _, b := range blobs {
		out[b.name] = b
	}
	return out, nil
}

// decodeArtifacts rebuilds Artifacts from raw blobs. Every blob named in
// BlobNames must be present.
func decodeArtifacts(meta Metadata, raw map[string][]byte) (*Artifacts, error) {
	for _, name := range BlobNames {
		if _, ok := raw[name]; !ok {
			return nil, fmt.Errorf("%w: blob %s missing", ErrNoSnapshot, name)
		}
		if _, ok := meta.Checksums[name]; !ok {
			return nil, fmt.Errorf("%w: no checksum for %s", ErrNoSnapshot, name)
		}
	}

	var vs vocabularyState
	if err := decodeBlob(BlobVectorizer, raw[BlobVectorizer], meta.Checksums[BlobVectorizer], &vs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoSnapshot, err)
	}
	var m tfidf.Matrix
	if err := decodeBlob(BlobMatrix, raw[BlobMatrix], meta.Checksums[BlobMatrix], &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoSnapshot, err)
	}
	var items []recommend.Item
	if err := decodeBlob(BlobCorpus, raw[BlobCorpus], meta.Checksums[BlobCorpus], &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoSnapshot, err)
	}

	if m.NumRows() != len(items) {
		return nil, fmt.Errorf("%w: matrix has %d rows for %d items", ErrNoSnapshot, m.NumRows(), len(items))
	}

	return &Artifacts{
		Metadata:   meta,
		Vocabulary: tfidf.NewVocabulary(vs.Terms, vs.IDF),
		Matrix:     &m,
		Items:      items,
	}, nil
}

// applyBlobs records checksums and sizes of encoded blobs in meta.
func applyBlobs(meta *Metadata, blobs map[string]encodedBlob) {
	meta.Checksums = make(map[string]string, len(blobs))
	meta.SizeBytes = 0
	for name, b := range blobs {
		meta.Checksums[name] = b.checksum
		meta.SizeBytes += int64(len(b.data))
	}
}
