package cmd

import (
	"fmt"
	"os"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new key pair for the account",
	RunE:  generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) error {
	path := getPrivateKeyPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("key file %s already exists", path)
	}

	if err := os.MkdirAll(accountPath, 0755); err != nil {
		return err
	}

	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return err
	}

	if err := crypto.SaveECDSA(path, privateKey); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), database.PublicKeyToAccount(privateKey.PublicKey))
	return nil
}
