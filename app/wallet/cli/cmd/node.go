package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to forge a new block",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, "/v1/mine", nil)
	},
}

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the node's chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, "/v1/chain", nil)
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Print the transactions waiting to be mined",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, "/v1/tx/pending", nil)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register host:port...",
	Short: "Register peer nodes with the node",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodes := struct {
			Nodes []string `json:"nodes"`
		}{
			Nodes: args,
		}
		return call(cmd, http.MethodPost, "/v1/nodes/register", nodes)
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Run consensus against the node's peers",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Message  string `json:"message"`
			Replaced bool   `json:"replaced"`
		}
		if err := send(http.MethodGet, "/v1/nodes/resolve", nil, &resp); err != nil {
			return err
		}
		return printJSON(cmd, resp)
	},
}

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Print the blocks holding transactions for the wallet account",
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := loadAccount()
		if err != nil {
			return err
		}
		return call(cmd, http.MethodGet, "/v1/blocks/account/"+account, nil)
	},
}

func init() {
	rootCmd.AddCommand(mineCmd, chainCmd, pendingCmd, registerCmd, resolveCmd, blocksCmd)
}

// call sends the request and prints whatever the node returns.
func call(cmd *cobra.Command, method string, path string, dataSend any) error {
	var resp any
	if err := send(method, path, dataSend, &resp); err != nil {
		return err
	}
	return printJSON(cmd, resp)
}
