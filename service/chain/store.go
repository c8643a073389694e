package chain

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/model"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/service/ledger"
)

var (
	journalPrefix      = []byte("j/")
	transactionPrefix  = []byte("t/")
	notificationPrefix = []byte("n/")
)

const (
	journalKindDeploy  = "deploy"
	journalKindMessage = "message"
)

// journalEntry is one applied input of the node, replayed on startup
type journalEntry struct {
	Lt         uint64          `json:"lt"`
	Kind       string          `json:"kind"`
	CampaignID uint64          `json:"campaign_id"`
	Params     *ledger.Params  `json:"params,omitempty"`
	Message    *ledger.Message `json:"message,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Store keeps the node journal, transaction history and notification stream in LevelDB
type Store struct {
	db *leveldb.DB
}

// OpenStore opens (or creates) a store at the given path
func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path required")
	}
	db, err := leveldb.OpenFile(filepath.Clean(path), nil)
	if err != nil {
		return nil, fmt.Errorf("open node store: %w", err)
	}
	return &Store{db: db}, nil
}

// NewMemStore returns a store that lives in memory only
func NewMemStore() *Store {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		panic(err)
	}
	return &Store{db: db}
}

// Close ...
func (s *Store) Close() error {
	return s.db.Close()
}

func uint64Key(prefix []byte, values ...uint64) []byte {
	key := make([]byte, len(prefix), len(prefix)+8*len(values))
	copy(key, prefix)
	for _, v := range values {
		key = binary.BigEndian.AppendUint64(key, v)
	}
	return key
}

func campaignTxPrefix(campaignID uint64) []byte {
	return uint64Key(transactionPrefix, campaignID)
}

// commit writes one applied input atomically with its results
func (s *Store) commit(
	entry journalEntry, tx *model.Transaction, notifications []model.Notification,
) error {
	batch := new(leveldb.Batch)

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	batch.Put(uint64Key(journalPrefix, entry.Lt), data)

	if tx != nil {
		data, err := json.Marshal(tx)
		if err != nil {
			return err
		}
		batch.Put(uint64Key(transactionPrefix, tx.CampaignID, tx.Lt), data)
	}

	for _, n := range notifications {
		data, err := json.Marshal(n)
		if err != nil {
			return err
		}
		batch.Put(uint64Key(notificationPrefix, n.Seq), data)
	}

	return s.db.Write(batch, nil)
}

// lastKey returns the trailing uint64 of the greatest key under prefix
func (s *Store) lastKey(prefix []byte) (uint64, error) {
	iter := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	if !iter.Last() {
		return 0, iter.Error()
	}
	key := iter.Key()
	return binary.BigEndian.Uint64(key[len(key)-8:]), nil
}

func (s *Store) replay(fn func(entry journalEntry) error) error {
	iter := s.db.NewIterator(util.BytesPrefix(journalPrefix), nil)
	defer iter.Release()

	for iter.Next() {
		var entry journalEntry
		if err := json.Unmarshal(iter.Value(), &entry); err != nil {
			return fmt.Errorf("decode journal entry: %w", err)
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
	return iter.Error()
}

// RecentTransactions returns at most limit transactions of a campaign, newest first
func (s *Store) RecentTransactions(ctx context.Context, campaignID uint64, limit int) ([]model.Transaction, error) {
	iter := s.db.NewIterator(util.BytesPrefix(campaignTxPrefix(campaignID)), nil)
	defer iter.Release()

	var result []model.Transaction
	for ok := iter.Last(); ok && len(result) < limit; ok = iter.Prev() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var tx model.Transaction
		if err := json.Unmarshal(iter.Value(), &tx); err != nil {
			return nil, fmt.Errorf("decode transaction: %w", err)
		}
		result = append(result, tx)
	}
	return result, iter.Error()
}

// Notifications returns at most limit notifications with seq > since, in order
func (s *Store) Notifications(ctx context.Context, since uint64, limit int) ([]model.Notification, error) {
	if since == math.MaxUint64 {
		return nil, nil
	}

	iter := s.db.NewIterator(util.BytesPrefix(notificationPrefix), nil)
	defer iter.Release()

	var result []model.Notification
	for ok := iter.Seek(uint64Key(notificationPrefix, since+1)); ok && len(result) < limit; ok = iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var n model.Notification
		if err := json.Unmarshal(iter.Value(), &n); err != nil {
			return nil, fmt.Errorf("decode notification: %w", err)
		}
		result = append(result, n)
	}
	return result, iter.Error()
}
