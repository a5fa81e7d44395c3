package cmd

import (
	"fmt"
	"net/http"

	"github.com/conscoin/blockchain/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	to     string
	amount uint64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign and send a transfer",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address to send to.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "v", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}

func sendRun(cmd *cobra.Command, args []string) error {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		return err
	}

	toAddress, err := database.ToAddress(to)
	if err != nil {
		return err
	}

	from := database.PublicKeyToAddress(privateKey.PublicKey)

	tx, err := database.NewTransfer(from, toAddress, amount).Sign(privateKey)
	if err != nil {
		return err
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := send(http.MethodPost, "/v1/tx/submit", tx.Data(), &resp); err != nil {
		return err
	}

	fmt.Println(resp.Status)

	return nil
}
