/*
Package whitelist contains implementation of the Whitelist Mint contract.

Whitelist Mint contract gates minting of single-edition collectibles. The
admin registers participants under tiers and reserves metadata placeholders
keyed by content IDs. Participant mints a collectible by consuming a
placeholder: contract mints a token in the collectible token contract and
attaches descriptive metadata and a master edition to it in the metadata
registry contract, signing both registry writes with the authority derived
from its own script hash.

# Contract notifications

Initialized notification. This notification is produced when the global
configuration is created.

	Initialized:
	  - name: admin
	    type: Hash160

GlobalStateSet notification. This notification is produced when the admin
changes limit and price of a tier.

	GlobalStateSet:
	  - name: tier
	    type: Integer
	  - name: limit
	    type: Integer
	  - name: price
	    type: Integer

CurrentTierSet notification. This notification is produced when the admin
switches the active tier.

	CurrentTierSet:
	  - name: tier
	    type: Integer

ParticipantRegistered and ParticipantDeregistered notifications. These
notifications are produced when the admin adds or removes a participant.

	ParticipantRegistered:
	  - name: participant
	    type: Hash160
	  - name: tier
	    type: Integer

	ParticipantDeregistered:
	  - name: participant
	    type: Hash160

PlaceholderRegistered and PlaceholderDeregistered notifications. These
notifications are produced when the admin adds or removes a metadata
placeholder.

	PlaceholderRegistered:
	  - name: contentID
	    type: Integer

	PlaceholderDeregistered:
	  - name: contentID
	    type: Integer

Minted notification. This notification is produced when a participant mints
a collectible.

	Minted:
	  - name: participant
	    type: Hash160
	  - name: tokenID
	    type: ByteArray
	  - name: contentID
	    type: Integer
*/
package whitelist

/*
Contract storage model.

# Summary
Current conventions:
 <program>: 20-byte script hash of the contract itself
 <derive(seed)>: RIPEMD-160(SHA-256(seed || <program>))
 <participant>: 20-byte account of the participant
 <contentID>: 8-byte little-endian content identifier

Key-value storage format:
 - 'token' -> interop.Hash160
   collectible token contract reference
 - 'registry' -> interop.Hash160
   metadata registry contract reference
 - 0x10 + <derive("GLOBAL_STATE_SEED1")> -> [57]byte
   packed global configuration
 - 0x20 + <derive("USER_STATE_SEED1" || <participant>)> -> [21]byte
   packed participant record
 - 0x30 + <derive("IPFS_METADATA_SEED" || <contentID>)> -> [109]byte
   packed metadata placeholder

# Setting
Collaborator contracts are set on deploy. Global configuration can be
created on deploy too if the admin is passed.

# Participants
Every participant record costs one key, the configuration tracks their number.
Tier of the participant is not checked at mint time.

# Placeholders
Placeholder holds content URI up to 100 bytes. It is consumed by the mint and
can't be minted twice.
*/
