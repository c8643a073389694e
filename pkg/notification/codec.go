package notification

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/model"
)

// DecodeError is returned for a malformed payload of a known discriminator
type DecodeError struct {
	Discriminator uint32
	Reason        string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode notification 0x%08x: %s", e.Discriminator, e.Reason)
}

var errShortRead = errors.New("unexpected end of payload")

type writer struct {
	buf []byte
}

func newWriter(kind Kind) *writer {
	w := &writer{buf: make([]byte, 0, 64)}
	w.uint32(uint32(kind))
	return w
}

func (w *writer) uint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *writer) bool(v bool) {
	if v {
		w.uint8(1)
		return
	}
	w.uint8(0)
}

func (w *writer) uint32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

func (w *writer) uint64(v uint64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
}

func (w *writer) int64(v int64) {
	w.uint64(uint64(v))
}

func (w *writer) address(a model.Address) {
	s := string(a)
	if len(s) > math.MaxUint16 {
		s = s[:math.MaxUint16]
	}
	w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(len(s)))
	w.buf = append(w.buf, s...)
}

type reader struct {
	data []byte
	err  error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.data) < n {
		r.err = errShortRead
		return nil
	}
	b := r.data[:n]
	r.data = r.data[n:]
	return b
}

func (r *reader) uint8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) bool() bool {
	v := r.uint8()
	if v > 1 && r.err == nil {
		r.err = fmt.Errorf("invalid bool byte %d", v)
	}
	return v == 1
}

func (r *reader) uint32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (r *reader) uint64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func (r *reader) int64() int64 {
	return int64(r.uint64())
}

func (r *reader) address() model.Address {
	b := r.take(2)
	if b == nil {
		return ""
	}
	n := int(binary.BigEndian.Uint16(b))
	s := r.take(n)
	return model.Address(s)
}

func (r *reader) finish() error {
	if r.err != nil {
		return r.err
	}
	if len(r.data) > 0 {
		return fmt.Errorf("%d trailing bytes", len(r.data))
	}
	return nil
}

// Encode serializes an event: discriminator followed by its fields in fixed order
func Encode(evt Event) []byte {
	switch e := evt.(type) {
	case CampaignCreated:
		w := newWriter(KindCampaignCreated)
		w.uint64(e.CampaignID)
		w.address(e.Advertiser)
		return w.buf

	case CampaignConfigured:
		w := newWriter(KindCampaignConfigured)
		w.uint64(e.CampaignID)
		w.uint8(uint8(e.PaymentMethod))
		w.bool(e.IsPublic)
		w.bool(e.RequiresApproval)
		w.int64(e.ValidUntil)
		w.uint32(uint32(len(e.Costs)))
		for _, c := range e.Costs {
			w.uint32(uint32(c.ActionCode))
			w.uint64(uint64(c.Regular))
			w.uint64(uint64(c.Premium))
		}
		return w.buf

	case AffiliateCreated:
		w := newWriter(KindAffiliateCreated)
		w.uint64(e.CampaignID)
		w.uint32(e.AffiliateID)
		w.address(e.Owner)
		w.uint8(uint8(e.ApprovalState))
		return w.buf

	case AffiliateApproved:
		w := newWriter(KindAffiliateApproved)
		w.uint64(e.CampaignID)
		w.uint32(e.AffiliateID)
		return w.buf

	case AffiliateRemoved:
		w := newWriter(KindAffiliateRemoved)
		w.uint64(e.CampaignID)
		w.uint32(e.AffiliateID)
		w.address(e.Owner)
		return w.buf

	case FundsWithdrawn:
		w := newWriter(KindFundsWithdrawn)
		w.uint64(e.CampaignID)
		w.address(e.Advertiser)
		w.uint64(uint64(e.Amount))
		w.uint64(uint64(e.RemainingBalance))
		return w.buf

	case UserActionRecorded:
		w := newWriter(KindUserActionRecorded)
		w.uint64(e.CampaignID)
		w.uint32(e.AffiliateID)
		w.uint32(uint32(e.ActionCode))
		w.bool(e.IsPremium)
		w.uint64(uint64(e.Commission))
		w.uint64(uint64(e.TotalEarnings))
		return w.buf

	case EarningsReleased:
		w := newWriter(KindEarningsReleased)
		w.uint64(e.CampaignID)
		w.uint32(e.AffiliateID)
		w.uint64(uint64(e.Amount))
		return w.buf

	case AffiliateWithdrew:
		w := newWriter(KindAffiliateWithdrew)
		w.uint64(e.CampaignID)
		w.uint32(e.AffiliateID)
		w.address(e.Owner)
		w.uint64(uint64(e.Amount))
		return w.buf

	case CampaignPaused:
		w := newWriter(KindCampaignPaused)
		w.uint64(e.CampaignID)
		w.bool(e.Paused)
		return w.buf

	case Unknown:
		w := &writer{}
		w.uint32(e.Discriminator)
		w.buf = append(w.buf, e.Payload...)
		return w.buf

	default:
		panic(fmt.Sprintf("notification: can not encode %T", evt))
	}
}

type decodeFunc func(r *reader) Event

var decoders = map[Kind]decodeFunc{
	KindCampaignCreated: func(r *reader) Event {
		return CampaignCreated{
			CampaignID: r.uint64(),
			Advertiser: r.address(),
		}
	},
	KindCampaignConfigured: decodeCampaignConfigured,
	KindAffiliateCreated: func(r *reader) Event {
		return AffiliateCreated{
			CampaignID:    r.uint64(),
			AffiliateID:   r.uint32(),
			Owner:         r.address(),
			ApprovalState: model.ApprovalState(r.uint8()),
		}
	},
	KindAffiliateApproved: func(r *reader) Event {
		return AffiliateApproved{
			CampaignID:  r.uint64(),
			AffiliateID: r.uint32(),
		}
	},
	KindAffiliateRemoved: func(r *reader) Event {
		return AffiliateRemoved{
			CampaignID:  r.uint64(),
			AffiliateID: r.uint32(),
			Owner:       r.address(),
		}
	},
	KindFundsWithdrawn: func(r *reader) Event {
		return FundsWithdrawn{
			CampaignID:       r.uint64(),
			Advertiser:       r.address(),
			Amount:           model.Amount(r.uint64()),
			RemainingBalance: model.Amount(r.uint64()),
		}
	},
	KindUserActionRecorded: func(r *reader) Event {
		return UserActionRecorded{
			CampaignID:    r.uint64(),
			AffiliateID:   r.uint32(),
			ActionCode:    model.ActionCode(r.uint32()),
			IsPremium:     r.bool(),
			Commission:    model.Amount(r.uint64()),
			TotalEarnings: model.Amount(r.uint64()),
		}
	},
	KindEarningsReleased: func(r *reader) Event {
		return EarningsReleased{
			CampaignID:  r.uint64(),
			AffiliateID: r.uint32(),
			Amount:      model.Amount(r.uint64()),
		}
	},
	KindAffiliateWithdrew: func(r *reader) Event {
		return AffiliateWithdrew{
			CampaignID:  r.uint64(),
			AffiliateID: r.uint32(),
			Owner:       r.address(),
			Amount:      model.Amount(r.uint64()),
		}
	},
	KindCampaignPaused: func(r *reader) Event {
		return CampaignPaused{
			CampaignID: r.uint64(),
			Paused:     r.bool(),
		}
	},
}

// MaxCostEntries is the largest cost table a CampaignConfigured record may carry.
// The ledger rejects larger configurations and the decoder treats a larger count as corruption.
const MaxCostEntries = 1024

func decodeCampaignConfigured(r *reader) Event {
	e := CampaignConfigured{
		CampaignID:       r.uint64(),
		PaymentMethod:    model.PaymentMethod(r.uint8()),
		IsPublic:         r.bool(),
		RequiresApproval: r.bool(),
		ValidUntil:       r.int64(),
	}
	n := r.uint32()
	if n > MaxCostEntries {
		if r.err == nil {
			r.err = fmt.Errorf("too many cost entries: %d", n)
		}
		return e
	}
	for i := uint32(0); i < n && r.err == nil; i++ {
		e.Costs = append(e.Costs, CostEntry{
			ActionCode: model.ActionCode(r.uint32()),
			Regular:    model.Amount(r.uint64()),
			Premium:    model.Amount(r.uint64()),
		})
	}
	return e
}

// Decode reads the discriminator and dispatches to the decoder of that record type.
// Unknown discriminators are returned as Unknown without error.
func Decode(data []byte) (Event, error) {
	if len(data) < 4 {
		return nil, &DecodeError{Reason: "record shorter than discriminator"}
	}
	disc := binary.BigEndian.Uint32(data)
	fn, ok := decoders[Kind(disc)]
	if !ok {
		payload := make([]byte, len(data)-4)
		copy(payload, data[4:])
		return Unknown{Discriminator: disc, Payload: payload}, nil
	}

	r := &reader{data: data[4:]}
	evt := fn(r)
	if err := r.finish(); err != nil {
		return nil, &DecodeError{Discriminator: disc, Reason: err.Error()}
	}
	return evt, nil
}
