package memtable

import (
	"encoding/binary"
	"sync"

	"github.com/coocood/freecache"
)

// MemTable remembers the highest delivered sequence of each campaign.
// Entries can be evicted, a missing entry means nothing is known.
type MemTable struct {
	mut   sync.Mutex
	cache *freecache.Cache
}

// New creates freecache with size
func New(size int) *MemTable {
	return &MemTable{
		cache: freecache.NewCache(size),
	}
}

func campaignKey(campaignID uint64) []byte {
	var key [9]byte
	key[0] = 'c'
	binary.BigEndian.PutUint64(key[1:], campaignID)
	return key[:]
}

func (m *MemTable) get(key []byte) (uint64, bool) {
	data, err := m.cache.Get(key)
	if err != nil {
		return 0, false
	}
	if len(data) < 8 {
		return 0, false
	}
	return binary.LittleEndian.Uint64(data), true
}

// HighWater ...
func (m *MemTable) HighWater(campaignID uint64) (seq uint64, ok bool) {
	m.mut.Lock()
	defer m.mut.Unlock()

	return m.get(campaignKey(campaignID))
}

// Advance stores seq for the campaign if it is above the stored one.
// It returns false when seq was already reached, meaning the event was seen.
func (m *MemTable) Advance(campaignID uint64, seq uint64) bool {
	m.mut.Lock()
	defer m.mut.Unlock()

	key := campaignKey(campaignID)
	if current, ok := m.get(key); ok && seq <= current {
		return false
	}

	var data [8]byte
	binary.LittleEndian.PutUint64(data[:], seq)
	_ = m.cache.Set(key, data[:], 0)
	return true
}

// Clear forgets every campaign
func (m *MemTable) Clear() {
	m.cache.Clear()
}
