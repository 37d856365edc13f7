package osudb

import (
	"bytes"
	"fmt"
	"io"

	"github.com/arloliu/osudb/encoding"
	"github.com/arloliu/osudb/format"
	"github.com/arloliu/osudb/log"
)

// Encoded minimums used to bound declared counts.
const (
	minCollectionSize = 1 + 4
	minHashSize       = 1
)

// Collection is a named, ordered list of beatmaps referenced by MD5 hash.
type Collection struct {
	Name   format.NullString   `json:"name"`
	Hashes []format.NullString `json:"hashes"`
}

// Collections is the content of collection.db.
type Collections struct {
	Version uint32       `json:"version"`
	Items   []Collection `json:"collections"`
}

// DecodeCollections decodes a collection.db file held in memory.
func DecodeCollections(data []byte, opts ...Option) (*Collections, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return readCollections(encoding.NewBytesDecoder(data), cfg)
}

// ReadCollections decodes a collection.db file from a stream.
func ReadCollections(r io.Reader, opts ...Option) (*Collections, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return readCollections(encoding.NewDecoder(encoding.NewStreamSource(r, cfg.sizeOf(r))), cfg)
}

func readCollections(dec *encoding.Decoder, cfg *Config) (*Collections, error) {
	version, err := dec.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("collections version: %w", err)
	}
	count, err := dec.ReadCount(minCollectionSize)
	if err != nil {
		return nil, fmt.Errorf("collection count: %w", err)
	}
	cfg.logger.Debug("decoding collections", log.Uint32("version", version), log.Int("collections", count))

	c := &Collections{Version: version, Items: make([]Collection, 0, dec.CapacityFor(count))}
	for i := range count {
		var item Collection
		if err := readCollection(dec, &item); err != nil {
			return nil, fmt.Errorf("collection %d: %w", i, err)
		}
		c.Items = append(c.Items, item)
	}

	return c, nil
}

func readCollection(dec *encoding.Decoder, dst *Collection) error {
	name, err := dec.ReadString()
	if err != nil {
		return fmt.Errorf("name: %w", err)
	}
	count, err := dec.ReadCount(minHashSize)
	if err != nil {
		return fmt.Errorf("hash count: %w", err)
	}
	hashes := make([]format.NullString, 0, dec.CapacityFor(count))
	for i := range count {
		h, err := dec.ReadString()
		if err != nil {
			return fmt.Errorf("hash %d: %w", i, err)
		}
		hashes = append(hashes, h)
	}
	dst.Name = name
	dst.Hashes = hashes

	return nil
}

// EncodeCollections is the mirror of DecodeCollections.
func EncodeCollections(c *Collections) ([]byte, error) {
	enc := encoding.NewFileEncoder()
	defer enc.Finish()

	enc.WriteUint32(c.Version)
	if err := enc.WriteCount(len(c.Items)); err != nil {
		return nil, fmt.Errorf("collection count: %w", err)
	}
	for i, item := range c.Items {
		enc.WriteString(item.Name)
		if err := enc.WriteCount(len(item.Hashes)); err != nil {
			return nil, fmt.Errorf("collection %d: hash count: %w", i, err)
		}
		for _, h := range item.Hashes {
			enc.WriteString(h)
		}
	}

	return bytes.Clone(enc.Bytes()), nil
}

// Find returns the first collection with the given name.
func (c *Collections) Find(name string) (*Collection, bool) {
	for i := range c.Items {
		if c.Items[i].Name.Valid && c.Items[i].Name.String == name {
			return &c.Items[i], true
		}
	}

	return nil, false
}
