package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	from   string
	to     string
	amount float64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction to the node",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&from, "from", "f", "", "Sender, defaults to the wallet account.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Recipient of the amount.")
	sendCmd.Flags().Float64VarP(&amount, "amount", "v", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("to")
}

func sendRun(cmd *cobra.Command, args []string) error {
	sender := from
	if sender == "" {
		account, err := loadAccount()
		if err != nil {
			return fmt.Errorf("no sender provided and no wallet key: %w", err)
		}
		sender = account
	}

	tx := struct {
		Sender    string  `json:"sender"`
		Recipient string  `json:"recipient"`
		Amount    float64 `json:"amount"`
	}{
		Sender:    sender,
		Recipient: to,
		Amount:    amount,
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := send(http.MethodPost, "/v1/transactions/new", tx, &resp); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
	return nil
}
