// Package cmd contains the ledger wallet commands.
package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/spf13/cobra"
)

var (
	accountName string
	accountPath string
	nodeURL     string
)

const (
	keyExtension = ".ecdsa"
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "private.ecdsa", "Name of the private key file.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zblock/accounts/", "Path to the directory with private keys.")
	rootCmd.PersistentFlags().StringVarP(&nodeURL, "url", "u", "http://localhost:8080", "Url of the node's public api.")
}

var rootCmd = &cobra.Command{
	Use:          "wallet",
	Short:        "Simple client for a ledger node",
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getPrivateKeyPath() string {
	if !strings.HasSuffix(accountName, keyExtension) {
		accountName += keyExtension
	}

	return filepath.Join(accountPath, accountName)
}

// =============================================================================

var client = http.Client{
	Timeout: time.Minute,
}

// send calls the node and decodes the response into dataRecv. Error
// responses from the node are returned with the node's message.
func send(method string, path string, dataSend any, dataRecv any) error {
	var body io.Reader
	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, strings.TrimSuffix(nodeURL, "/")+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var er errs.Response
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
			return fmt.Errorf("node responded %s", resp.Status)
		}
		if len(er.Fields) > 0 {
			return fmt.Errorf("%s: %v", er.Error, er.Fields)
		}
		return fmt.Errorf("%s", er.Error)
	}

	if dataRecv != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return err
		}
	}

	return nil
}

// printJSON writes the value as indented JSON to the command's output.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
