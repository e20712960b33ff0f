// Package wlconst holds constants shared by the whitelist contract and its
// clients.
package wlconst

const (
	// URICapacity is the size of the fixed content URI buffer of a metadata
	// placeholder.
	URICapacity = 100

	// GlobalConfigSize is the size of the packed global configuration record.
	GlobalConfigSize = 57
	// ParticipantSize is the size of the packed participant record.
	ParticipantSize = 21
	// PlaceholderSize is the size of the packed metadata placeholder record.
	PlaceholderSize = 109
)

// Tiers known to the contract. Values above TierPublic may be stored as the
// current tier, they carry no meaning for the contract itself.
const (
	TierPriority = 0
	TierGeneral  = 1
	TierPublic   = 2
)

// Exception messages thrown by the contract.
const (
	// NotAdminError is thrown when an admin-only method is not witnessed by
	// the admin.
	NotAdminError = "caller is not admin"

	// AlreadyInitializedError is thrown on repeated initialization.
	AlreadyInitializedError = "global config already exists"
	// ParticipantExistsError is thrown when a participant is registered twice.
	ParticipantExistsError = "participant already registered"
	// PlaceholderExistsError is thrown when a placeholder ID is taken.
	PlaceholderExistsError = "placeholder already registered"
	// PlaceholderConsumedError is thrown on mint against a consumed placeholder.
	PlaceholderConsumedError = "placeholder already consumed"

	// NotInitializedError is thrown when the global config is missing.
	NotInitializedError = "global config not found"
	// ParticipantNotFoundError is thrown when a participant record is missing.
	ParticipantNotFoundError = "participant not found"
	// PlaceholderNotFoundError is thrown when a placeholder record is missing.
	PlaceholderNotFoundError = "placeholder not found"

	// URITooLongError is thrown when a content URI does not fit the buffer.
	URITooLongError = "content uri exceeds buffer capacity"

	// InvalidURIError is thrown on mint with an empty metadata URI and on
	// placeholder registration with a content URI that can't be stored as is.
	InvalidURIError = "invalid metadata uri"
	// InvalidAddressError is thrown when an account is not a valid Hash160.
	InvalidAddressError = "invalid address"
	// InvalidTokenIDError is thrown on mint with an empty token ID.
	InvalidTokenIDError = "invalid token id"

	// CounterUnderflowError is thrown when a counter would drop below zero.
	CounterUnderflowError = "counter underflow"
	// CounterOverflowError is thrown when a counter would exceed 32 bits.
	CounterOverflowError = "counter overflow"
)
