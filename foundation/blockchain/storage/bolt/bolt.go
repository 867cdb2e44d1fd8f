// Package bolt implements the ability to read and write blocks to a bbolt
// key/value file, keyed by big endian block number.
package bolt

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/radcoin/foundation/blockchain/database"
	bbolt "go.etcd.io/bbolt"
)

var blocksBucket = []byte("blocks")

// Bolt represents the serialization implementation for reading and storing
// blocks in a bbolt database. This implements the database.Storage interface.
type Bolt struct {
	db *bbolt.DB
}

// New opens or creates the bbolt file at the specified path.
func New(dbPath string) (*Bolt, error) {
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(blocksBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &Bolt{db: db}, nil
}

// Close releases the database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}

// Write stores the block under its number. Blocks must be written in chain
// order and are never replaced.
func (b *Bolt) Write(blockData database.BlockData) error {
	data, err := json.Marshal(blockData)
	if err != nil {
		return err
	}

	num := blockData.Block.Number

	return b.db.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(blocksBucket)

		var next uint64
		if k, _ := bkt.Cursor().Last(); k != nil {
			next = binary.BigEndian.Uint64(k) + 1
		}

		if num != next {
			return fmt.Errorf("block is out of order, got %d, exp %d", num, next)
		}

		return bkt.Put(key(num), data)
	})
}

// GetBlock returns the block with the specified number.
func (b *Bolt) GetBlock(num uint64) (database.BlockData, error) {
	var blockData database.BlockData

	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(blocksBucket).Get(key(num))
		if v == nil {
			return fmt.Errorf("block %d: %w", num, database.ErrBlockNotFound)
		}

		// The value is only valid for the life of the transaction so it's
		// decoded before returning.
		if err := json.Unmarshal(v, &blockData); err != nil {
			return fmt.Errorf("decoding block %d: %w", num, err)
		}

		return nil
	})

	return blockData, err
}

// ForEach returns an iterator to walk through all the blocks starting
// with genesis.
func (b *Bolt) ForEach() database.Iterator {
	return &boltIterator{bolt: b}
}

// Reset will clear out the stored blocks.
func (b *Bolt) Reset() error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(blocksBucket); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}

		_, err := tx.CreateBucket(blocksBucket)
		return err
	})
}

func key(num uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], num)
	return k[:]
}

// =============================================================================

// boltIterator walks the blocks one read transaction at a time so the
// iterator never holds the database open between calls.
type boltIterator struct {
	bolt    *Bolt
	current uint64
	eoc     bool
}

// Next retrieves the next block.
func (bi *boltIterator) Next() (database.BlockData, error) {
	if bi.eoc {
		return database.BlockData{}, database.ErrBlockNotFound
	}

	blockData, err := bi.bolt.GetBlock(bi.current)
	if err != nil {
		if errors.Is(err, database.ErrBlockNotFound) {
			bi.eoc = true
		}
		return database.BlockData{}, err
	}
	bi.current++

	return blockData, nil
}

// Done returns the end of chain value.
func (bi *boltIterator) Done() bool {
	return bi.eoc
}
