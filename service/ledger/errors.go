package ledger

import (
	"fmt"
	"sort"
)

// ErrorClass groups rejections by cause
type ErrorClass int

const (
	// ErrorClassAuthorization wrong caller role
	ErrorClassAuthorization ErrorClass = 1

	// ErrorClassPrecondition write-once guard, missing entity, wrong state
	ErrorClassPrecondition ErrorClass = 2

	// ErrorClassAccounting balance or entitlement violations
	ErrorClassAccounting ErrorClass = 3
)

func (c ErrorClass) String() string {
	switch c {
	case ErrorClassAuthorization:
		return "authorization"
	case ErrorClassPrecondition:
		return "precondition"
	case ErrorClassAccounting:
		return "accounting"
	default:
		return "unknown"
	}
}

// Error is a rejection with a stable exit code. A rejected message never changes state.
type Error struct {
	Code    uint32
	Class   ErrorClass
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("ledger: %s (exit code %d)", e.Message, e.Code)
}

// Is matches by exit code so wrapped copies compare equal
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

var catalog = map[uint32]*Error{}

func newError(code uint32, class ErrorClass, msg string) *Error {
	if _, existed := catalog[code]; existed {
		panic(fmt.Sprintf("duplicated exit code %d", code))
	}
	e := &Error{Code: code, Class: class, Message: msg}
	catalog[code] = e
	return e
}

// Authorization errors
var (
	// ErrOnlyAdvertiser ...
	ErrOnlyAdvertiser = newError(100, ErrorClassAuthorization, "only the advertiser can perform this action")

	// ErrOnlyVerifier ...
	ErrOnlyVerifier = newError(101, ErrorClassAuthorization, "only the verifier bot can perform this action")

	// ErrOnlyAdmin ...
	ErrOnlyAdmin = newError(102, ErrorClassAuthorization, "only the admin can perform this action")

	// ErrOnlyAffiliateOwner ...
	ErrOnlyAffiliateOwner = newError(103, ErrorClassAuthorization, "only the affiliate owner can perform this action")

	// ErrOnlyTokenWallet ...
	ErrOnlyTokenWallet = newError(104, ErrorClassAuthorization, "token transfer not sent by the campaign token wallet")
)

// Precondition errors
var (
	// ErrAlreadyConfigured ...
	ErrAlreadyConfigured = newError(200, ErrorClassPrecondition, "campaign is already configured")

	// ErrNotConfigured ...
	ErrNotConfigured = newError(201, ErrorClassPrecondition, "campaign is not configured")

	// ErrCostMapsMismatch ...
	ErrCostMapsMismatch = newError(202, ErrorClassPrecondition, "regular and premium costs must cover the same action codes")

	// ErrAffiliateNotFound ...
	ErrAffiliateNotFound = newError(203, ErrorClassPrecondition, "affiliate does not exist")

	// ErrAffiliateAlreadyActive ...
	ErrAffiliateAlreadyActive = newError(204, ErrorClassPrecondition, "affiliate is already active")

	// ErrAffiliateNotActive ...
	ErrAffiliateNotActive = newError(205, ErrorClassPrecondition, "affiliate is not approved")

	// ErrActionNotConfigured ...
	ErrActionNotConfigured = newError(206, ErrorClassPrecondition, "action code is not configured")

	// ErrVerifierActionOutOfRange ...
	ErrVerifierActionOutOfRange = newError(207, ErrorClassPrecondition, "action code is reserved for advertiser events")

	// ErrAdvertiserActionOutOfRange ...
	ErrAdvertiserActionOutOfRange = newError(208, ErrorClassPrecondition, "action code is reserved for verified events")

	// ErrCampaignNotLive ...
	ErrCampaignNotLive = newError(209, ErrorClassPrecondition, "campaign is not active")

	// ErrMaxAffiliatesReached ...
	ErrMaxAffiliatesReached = newError(210, ErrorClassPrecondition, "campaign reached its maximum number of affiliates")

	// ErrReleaseNotRequired ...
	ErrReleaseNotRequired = newError(211, ErrorClassPrecondition, "campaign does not require approval for withdrawal")

	// ErrAffiliateHasEarnings ...
	ErrAffiliateHasEarnings = newError(212, ErrorClassPrecondition, "affiliate still has unpaid earnings")

	// ErrUnknownForwardTag ...
	ErrUnknownForwardTag = newError(213, ErrorClassPrecondition, "token transfer forward tag not recognized")

	// ErrWrongPaymentMethod ...
	ErrWrongPaymentMethod = newError(214, ErrorClassPrecondition, "operation does not match the campaign payment method")

	// ErrEmptyCostMap ...
	ErrEmptyCostMap = newError(215, ErrorClassPrecondition, "at least one action code must be configured")

	// ErrEmptyRelease ...
	ErrEmptyRelease = newError(216, ErrorClassPrecondition, "no affiliates in release request")

	// ErrInvalidPaymentMethod ...
	ErrInvalidPaymentMethod = newError(217, ErrorClassPrecondition, "unsupported payment method")

	// ErrTooManyActionCodes ...
	ErrTooManyActionCodes = newError(218, ErrorClassPrecondition, "too many action codes configured")
)

// Accounting errors
var (
	// ErrInsufficientBalance ...
	ErrInsufficientBalance = newError(300, ErrorClassAccounting, "insufficient campaign balance")

	// ErrInvalidAmount ...
	ErrInvalidAmount = newError(301, ErrorClassAccounting, "amount must be positive")

	// ErrReleaseExceedsPending ...
	ErrReleaseExceedsPending = newError(302, ErrorClassAccounting, "release amount exceeds pending approval earnings")

	// ErrNothingToWithdraw ...
	ErrNothingToWithdraw = newError(303, ErrorClassAccounting, "no withdrawable earnings")

	// ErrInsufficientGasBuffer ...
	ErrInsufficientGasBuffer = newError(304, ErrorClassAccounting, "insufficient gas buffer for outbound transfer")

	// ErrAmountOverflow ...
	ErrAmountOverflow = newError(305, ErrorClassAccounting, "amount overflow")

	// ErrCompensationExceedsWithdrawn ...
	ErrCompensationExceedsWithdrawn = newError(306, ErrorClassAccounting, "compensation exceeds amount already paid out")
)

// Describe looks up the message of an exit code
func Describe(code uint32) (string, bool) {
	e, ok := catalog[code]
	if !ok {
		return "", false
	}
	return e.Message, true
}

// CatalogEntry ...
type CatalogEntry struct {
	Code    uint32 `json:"code"`
	Class   string `json:"class"`
	Message string `json:"message"`
}

// Catalog returns the declared error catalog sorted by code
func Catalog() []CatalogEntry {
	result := make([]CatalogEntry, 0, len(catalog))
	for _, e := range catalog {
		result = append(result, CatalogEntry{
			Code:    e.Code,
			Class:   e.Class.String(),
			Message: e.Message,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Code < result[j].Code
	})
	return result
}
