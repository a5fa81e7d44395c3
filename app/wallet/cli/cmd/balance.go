package cmd

import (
	"fmt"
	"net/http"

	"github.com/conscoin/blockchain/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

type balance struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Balance uint64 `json:"balance"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) error {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		return err
	}

	address := database.PublicKeyToAddress(privateKey.PublicKey)
	fmt.Println("For Address:", address)

	var bal balance
	if err := send(http.MethodGet, "/v1/balances/"+string(address), nil, &bal); err != nil {
		return err
	}

	fmt.Println(bal.Balance)

	return nil
}
