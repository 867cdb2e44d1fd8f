// Package storage selects one of the block storage implementations by name.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ardanlabs/radcoin/foundation/blockchain/database"
	"github.com/ardanlabs/radcoin/foundation/blockchain/storage/bolt"
	"github.com/ardanlabs/radcoin/foundation/blockchain/storage/disk"
	"github.com/ardanlabs/radcoin/foundation/blockchain/storage/memory"
)

// Set of storage kinds that can be opened.
const (
	KindMemory = "memory"
	KindDisk   = "disk"
	KindBolt   = "bolt"
)

// Open constructs the storage of the specified kind. For disk the path is a
// folder, for bolt it's the database file. The path is ignored for memory.
func Open(kind string, path string) (database.Storage, error) {
	switch kind {
	case KindMemory:
		return memory.New(), nil

	case KindDisk:
		return disk.New(path)

	case KindBolt:
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		return bolt.New(path)
	}

	return nil, fmt.Errorf("unknown storage kind %q", kind)
}
