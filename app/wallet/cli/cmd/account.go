package cmd

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print account for the specific wallet",
	RunE:  accountRun,
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

func accountRun(cmd *cobra.Command, args []string) error {
	account, err := loadAccount()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), account)
	return nil
}

func loadAccount() (string, error) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		return "", err
	}

	return database.PublicKeyToAccount(privateKey.PublicKey), nil
}
