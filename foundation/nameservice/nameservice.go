// Package nameservice reads a folder of ECDSA key files and creates a name
// service lookup for the identities derived from them.
package nameservice

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/crypto"
)

// NameService maintains a map of identities for name lookup.
type NameService struct {
	accounts map[string]string
}

// New constructs a name service with the identities of the key files found
// under root. A missing root produces an empty name service.
func New(root string) (*NameService, error) {
	ns := NameService{
		accounts: make(map[string]string),
	}

	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return &ns, nil
	}

	fn := func(fileName string, info fs.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if path.Ext(fileName) != ".ecdsa" {
			return nil
		}

		privateKey, err := crypto.LoadECDSA(fileName)
		if err != nil {
			return err
		}

		account := database.PublicKeyToAccount(privateKey.PublicKey)
		ns.accounts[account] = strings.TrimSuffix(path.Base(fileName), ".ecdsa")

		return nil
	}

	if err := filepath.Walk(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified identity. Unknown identities
// are returned as is.
func (ns *NameService) Lookup(account string) string {
	name, exists := ns.accounts[account]
	if !exists {
		return account
	}
	return name
}

// Account returns the identity registered under the specified name.
func (ns *NameService) Account(name string) (string, bool) {
	for account, n := range ns.accounts {
		if n == name {
			return account, true
		}
	}
	return "", false
}

// Copy returns a copy of the map of identities and names.
func (ns *NameService) Copy() map[string]string {
	cpy := make(map[string]string, len(ns.accounts))
	for account, name := range ns.accounts {
		cpy[account] = name
	}
	return cpy
}
