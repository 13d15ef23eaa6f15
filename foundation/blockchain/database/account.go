package database

import (
	"crypto/ecdsa"
	"regexp"

	"github.com/ethereum/go-ethereum/crypto"
)

// addressRegEx matches the hex form of an Ethereum style address.
var addressRegEx = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// PublicKeyToAccount derives the identity used on the ledger from a public
// key. Identities are opaque strings; key derived ones are just a
// convention for nodes and wallets that keep an ECDSA key on disk.
func PublicKeyToAccount(pk ecdsa.PublicKey) string {
	return crypto.PubkeyToAddress(pk).String()
}

// IsKeyAccount reports whether the identity has the form of a key derived
// account.
func IsKeyAccount(identity string) bool {
	return addressRegEx.MatchString(identity)
}
