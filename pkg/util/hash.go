package util

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/twmb/murmur3"
)

// TxHash derives a transaction hash from its logical time, campaign and sender
func TxHash(lt uint64, campaignID uint64, sender string) string {
	buf := make([]byte, 16, 16+len(sender))
	binary.BigEndian.PutUint64(buf[:8], lt)
	binary.BigEndian.PutUint64(buf[8:], campaignID)
	buf = append(buf, sender...)

	h1, h2 := murmur3.Sum128(buf)

	var out [16]byte
	binary.BigEndian.PutUint64(out[:8], h1)
	binary.BigEndian.PutUint64(out[8:], h2)
	return hex.EncodeToString(out[:])
}
