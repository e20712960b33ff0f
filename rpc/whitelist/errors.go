package whitelist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/block-webdev/wlmint-contract/common"
	"github.com/block-webdev/wlmint-contract/contracts/whitelist/wlconst"
)

// Failure classes of contract invocations.
var (
	ErrAuthorization   = errors.New("authorization failed")
	ErrDuplicateRecord = errors.New("duplicate record")
	ErrMissingRecord   = errors.New("missing record")
	ErrCapacity        = errors.New("capacity exceeded")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnderflow       = errors.New("counter underflow")
	ErrExternalCall    = errors.New("external call failed")
)

var faultClasses = []struct {
	msg string
	err error
}{
	{wlconst.NotAdminError, ErrAuthorization},
	{common.ErrOwnerWitnessFailed, ErrAuthorization},
	{"only committee can update contract", ErrAuthorization},
	{wlconst.AlreadyInitializedError, ErrDuplicateRecord},
	{wlconst.ParticipantExistsError, ErrDuplicateRecord},
	{wlconst.PlaceholderExistsError, ErrDuplicateRecord},
	{wlconst.PlaceholderConsumedError, ErrDuplicateRecord},
	{wlconst.NotInitializedError, ErrMissingRecord},
	{wlconst.ParticipantNotFoundError, ErrMissingRecord},
	{wlconst.PlaceholderNotFoundError, ErrMissingRecord},
	{wlconst.URITooLongError, ErrCapacity},
	{wlconst.CounterOverflowError, ErrCapacity},
	{wlconst.InvalidURIError, ErrInvalidInput},
	{wlconst.InvalidAddressError, ErrInvalidInput},
	{wlconst.InvalidTokenIDError, ErrInvalidInput},
	{common.ErrValueOutOfRange, ErrInvalidInput},
	{wlconst.CounterUnderflowError, ErrUnderflow},
}

// ParseFault classifies FAULT exception of the contract invocation. It
// returns nil for empty exception. Exceptions not thrown by the contract
// itself are attributed to its collaborators and wrap ErrExternalCall.
func ParseFault(exception string) error {
	if exception == "" {
		return nil
	}
	for _, c := range faultClasses {
		if strings.Contains(exception, c.msg) {
			return fmt.Errorf("%w: %s", c.err, exception)
		}
	}
	return fmt.Errorf("%w: %s", ErrExternalCall, exception)
}
