package ledger

import "github.com/ton-affiliates/ton-affiliate-marketplace-sub001/model"

// LeaderboardCapacity ...
const LeaderboardCapacity = 3

type leaderboardEntry struct {
	affiliateID uint32
	total       model.Amount

	// observed orders entries with equal totals, smaller wins
	observed uint64
}

// leaderboard keeps the top affiliates by total earnings in a small sorted array
type leaderboard struct {
	entries [LeaderboardCapacity]leaderboardEntry
	size    int
}

func (b *leaderboard) less(i, j int) bool {
	a, c := b.entries[i], b.entries[j]
	if a.total != c.total {
		return a.total > c.total
	}
	return a.observed < c.observed
}

// fix restores order after entry i changed
func (b *leaderboard) fix(i int) {
	for i > 0 && b.less(i, i-1) {
		b.entries[i], b.entries[i-1] = b.entries[i-1], b.entries[i]
		i--
	}
	for i < b.size-1 && b.less(i+1, i) {
		b.entries[i], b.entries[i+1] = b.entries[i+1], b.entries[i]
		i++
	}
}

func (b *leaderboard) find(affiliateID uint32) int {
	for i := 0; i < b.size; i++ {
		if b.entries[i].affiliateID == affiliateID {
			return i
		}
	}
	return -1
}

// update inserts or updates an affiliate. When full the lowest entry is evicted
// only if the new total is strictly greater.
func (b *leaderboard) update(affiliateID uint32, total model.Amount, observed uint64) {
	if i := b.find(affiliateID); i >= 0 {
		b.entries[i].total = total
		b.entries[i].observed = observed
		b.fix(i)
		return
	}

	entry := leaderboardEntry{
		affiliateID: affiliateID,
		total:       total,
		observed:    observed,
	}

	if b.size < LeaderboardCapacity {
		b.entries[b.size] = entry
		b.size++
		b.fix(b.size - 1)
		return
	}

	last := b.size - 1
	if total <= b.entries[last].total {
		return
	}
	b.entries[last] = entry
	b.fix(last)
}

func (b *leaderboard) remove(affiliateID uint32) bool {
	i := b.find(affiliateID)
	if i < 0 {
		return false
	}
	copy(b.entries[i:b.size], b.entries[i+1:b.size])
	b.size--
	b.entries[b.size] = leaderboardEntry{}
	return true
}

func (b *leaderboard) snapshot() []model.LeaderboardEntry {
	result := make([]model.LeaderboardEntry, 0, b.size)
	for i := 0; i < b.size; i++ {
		result = append(result, model.LeaderboardEntry{
			AffiliateID:   b.entries[i].affiliateID,
			TotalEarnings: b.entries[i].total,
		})
	}
	return result
}
