package ledger

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/model"
)

// Operation is the closed set of requests a campaign ledger accepts.
// Only types of this package implement it.
type Operation interface {
	Name() string
	isOperation()
}

// Message is an inbound request: sender, attached native value and operation
type Message struct {
	Sender model.Address `json:"sender"`
	Value  model.Amount  `json:"value"`
	Op     Operation     `json:"-"`
}

// Configure is the write-once campaign configuration
type Configure struct {
	RegularCostPerAction model.CostPerAction `json:"regular_cost_per_action"`
	PremiumCostPerAction model.CostPerAction `json:"premium_cost_per_action"`
	IsPublicCampaign     bool                `json:"is_public_campaign"`
	PaymentMethod        model.PaymentMethod `json:"payment_method"`

	// ValidDays zero means the campaign never expires
	ValidDays                     uint32 `json:"valid_days"`
	RequiresApprovalForWithdrawal bool   `json:"requires_approval_for_withdrawal"`
}

// Fund credits the attached native value
type Fund struct{}

// TokenTransferNotification is sent by the campaign token wallet when tokens arrive
type TokenTransferNotification struct {
	Amount     model.Amount  `json:"amount"`
	From       model.Address `json:"from"`
	ForwardTag string        `json:"forward_tag"`
}

// WithdrawFunds ...
type WithdrawFunds struct {
	Amount model.Amount `json:"amount"`
}

// CreateAffiliate ...
type CreateAffiliate struct{}

// ApproveAffiliate ...
type ApproveAffiliate struct {
	AffiliateID uint32 `json:"affiliate_id"`
}

// RemoveAffiliate ...
type RemoveAffiliate struct {
	AffiliateID uint32 `json:"affiliate_id"`
}

// UserActionVerified is recorded by the verifier bot, low action codes only
type UserActionVerified struct {
	AffiliateID   uint32           `json:"affiliate_id"`
	ActionCode    model.ActionCode `json:"action_code"`
	IsPremiumUser bool             `json:"is_premium_user"`
}

// UserActionByAdvertiser is recorded by the advertiser, high action codes only
type UserActionByAdvertiser struct {
	AffiliateID   uint32           `json:"affiliate_id"`
	ActionCode    model.ActionCode `json:"action_code"`
	IsPremiumUser bool             `json:"is_premium_user"`
}

// ReleaseEarnings moves amounts from pending to withdrawable, all or nothing
type ReleaseEarnings struct {
	Amounts map[uint32]model.Amount `json:"amounts"`
}

// AffiliateWithdraw ...
type AffiliateWithdraw struct {
	AffiliateID uint32 `json:"affiliate_id"`
}

// AdminCompensate restores an entitlement after a bounced token payout
type AdminCompensate struct {
	AffiliateID uint32       `json:"affiliate_id"`
	Amount      model.Amount `json:"amount"`
}

// AdminPause ...
type AdminPause struct{}

// AdminUnpause ...
type AdminUnpause struct{}

// AdminReplaceVerifier ...
type AdminReplaceVerifier struct {
	Verifier model.Address `json:"verifier"`
}

func (Configure) isOperation()                 {}
func (Fund) isOperation()                      {}
func (TokenTransferNotification) isOperation() {}
func (WithdrawFunds) isOperation()             {}
func (CreateAffiliate) isOperation()           {}
func (ApproveAffiliate) isOperation()          {}
func (RemoveAffiliate) isOperation()           {}
func (UserActionVerified) isOperation()        {}
func (UserActionByAdvertiser) isOperation()    {}
func (ReleaseEarnings) isOperation()           {}
func (AffiliateWithdraw) isOperation()         {}
func (AdminCompensate) isOperation()           {}
func (AdminPause) isOperation()                {}
func (AdminUnpause) isOperation()              {}
func (AdminReplaceVerifier) isOperation()      {}

// Operation names on the wire
const (
	OpConfigure                 = "configure"
	OpFund                      = "fund"
	OpTokenTransferNotification = "token_transfer_notification"
	OpWithdrawFunds             = "withdraw_funds"
	OpCreateAffiliate           = "create_affiliate"
	OpApproveAffiliate          = "approve_affiliate"
	OpRemoveAffiliate           = "remove_affiliate"
	OpUserActionVerified        = "user_action_verified"
	OpUserActionByAdvertiser    = "user_action_by_advertiser"
	OpReleaseEarnings           = "release_earnings"
	OpAffiliateWithdraw         = "affiliate_withdraw"
	OpAdminCompensate           = "admin_compensate"
	OpAdminPause                = "admin_pause"
	OpAdminUnpause              = "admin_unpause"
	OpAdminReplaceVerifier      = "admin_replace_verifier"
)

// Name ...
func (Configure) Name() string { return OpConfigure }

// Name ...
func (Fund) Name() string { return OpFund }

// Name ...
func (TokenTransferNotification) Name() string { return OpTokenTransferNotification }

// Name ...
func (WithdrawFunds) Name() string { return OpWithdrawFunds }

// Name ...
func (CreateAffiliate) Name() string { return OpCreateAffiliate }

// Name ...
func (ApproveAffiliate) Name() string { return OpApproveAffiliate }

// Name ...
func (RemoveAffiliate) Name() string { return OpRemoveAffiliate }

// Name ...
func (UserActionVerified) Name() string { return OpUserActionVerified }

// Name ...
func (UserActionByAdvertiser) Name() string { return OpUserActionByAdvertiser }

// Name ...
func (ReleaseEarnings) Name() string { return OpReleaseEarnings }

// Name ...
func (AffiliateWithdraw) Name() string { return OpAffiliateWithdraw }

// Name ...
func (AdminCompensate) Name() string { return OpAdminCompensate }

// Name ...
func (AdminPause) Name() string { return OpAdminPause }

// Name ...
func (AdminUnpause) Name() string { return OpAdminUnpause }

// Name ...
func (AdminReplaceVerifier) Name() string { return OpAdminReplaceVerifier }

// ErrUnknownOperation ...
var ErrUnknownOperation = errors.New("unknown operation")

type taggedOperation struct {
	Op   string          `json:"op"`
	Body json.RawMessage `json:"body"`
}

// MarshalOperation encodes an operation as a tagged record {"op": name, "body": fields}
func MarshalOperation(op Operation) ([]byte, error) {
	body, err := json.Marshal(op)
	if err != nil {
		return nil, err
	}
	return json.Marshal(taggedOperation{
		Op:   op.Name(),
		Body: body,
	})
}

func newOperation(name string) (Operation, error) {
	switch name {
	case OpConfigure:
		return &Configure{}, nil
	case OpFund:
		return &Fund{}, nil
	case OpTokenTransferNotification:
		return &TokenTransferNotification{}, nil
	case OpWithdrawFunds:
		return &WithdrawFunds{}, nil
	case OpCreateAffiliate:
		return &CreateAffiliate{}, nil
	case OpApproveAffiliate:
		return &ApproveAffiliate{}, nil
	case OpRemoveAffiliate:
		return &RemoveAffiliate{}, nil
	case OpUserActionVerified:
		return &UserActionVerified{}, nil
	case OpUserActionByAdvertiser:
		return &UserActionByAdvertiser{}, nil
	case OpReleaseEarnings:
		return &ReleaseEarnings{}, nil
	case OpAffiliateWithdraw:
		return &AffiliateWithdraw{}, nil
	case OpAdminCompensate:
		return &AdminCompensate{}, nil
	case OpAdminPause:
		return &AdminPause{}, nil
	case OpAdminUnpause:
		return &AdminUnpause{}, nil
	case OpAdminReplaceVerifier:
		return &AdminReplaceVerifier{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
}

// UnmarshalOperation decodes a tagged record produced by MarshalOperation
func UnmarshalOperation(data []byte) (Operation, error) {
	var tagged taggedOperation
	if err := json.Unmarshal(data, &tagged); err != nil {
		return nil, err
	}
	ptr, err := newOperation(tagged.Op)
	if err != nil {
		return nil, err
	}
	if len(tagged.Body) > 0 && string(tagged.Body) != "null" {
		if err := json.Unmarshal(tagged.Body, ptr); err != nil {
			return nil, fmt.Errorf("decode %s body: %w", tagged.Op, err)
		}
	}
	return derefOperation(ptr), nil
}

func derefOperation(op Operation) Operation {
	switch v := op.(type) {
	case *Configure:
		return *v
	case *Fund:
		return *v
	case *TokenTransferNotification:
		return *v
	case *WithdrawFunds:
		return *v
	case *CreateAffiliate:
		return *v
	case *ApproveAffiliate:
		return *v
	case *RemoveAffiliate:
		return *v
	case *UserActionVerified:
		return *v
	case *UserActionByAdvertiser:
		return *v
	case *ReleaseEarnings:
		return *v
	case *AffiliateWithdraw:
		return *v
	case *AdminCompensate:
		return *v
	case *AdminPause:
		return *v
	case *AdminUnpause:
		return *v
	case *AdminReplaceVerifier:
		return *v
	default:
		return op
	}
}

type messageJSON struct {
	Sender model.Address   `json:"sender"`
	Value  model.Amount    `json:"value"`
	Op     json.RawMessage `json:"op"`
}

// MarshalJSON ...
func (m Message) MarshalJSON() ([]byte, error) {
	op, err := MarshalOperation(m.Op)
	if err != nil {
		return nil, err
	}
	return json.Marshal(messageJSON{
		Sender: m.Sender,
		Value:  m.Value,
		Op:     op,
	})
}

// UnmarshalJSON ...
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw messageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	op, err := UnmarshalOperation(raw.Op)
	if err != nil {
		return err
	}
	m.Sender = raw.Sender
	m.Value = raw.Value
	m.Op = op
	return nil
}
