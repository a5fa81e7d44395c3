package cmd

import (
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/conscoin/blockchain/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

type historyEntry struct {
	BlockIndex uint64          `json:"blockIndex"`
	FromName   string          `json:"fromName"`
	ToName     string          `json:"toName"`
	Tx         database.TxData `json:"transaction"`
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the transactions sent and received by your wallet.",
	RunE:  historyRun,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func historyRun(cmd *cobra.Command, args []string) error {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		return err
	}

	address := database.PublicKeyToAddress(privateKey.PublicKey)

	var hist []historyEntry
	if err := send(http.MethodGet, "/v1/transactions/"+string(address), nil, &hist); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BLOCK\tTIME\tFROM\tTO\tAMOUNT")
	for _, e := range hist {
		from := "coinbase"
		if e.Tx.FromAddress != nil {
			from = e.FromName
		}

		ts := time.UnixMilli(e.Tx.TimeStamp).UTC().Format(time.RFC3339)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", e.BlockIndex, ts, from, e.ToName, e.Tx.Amount)
	}

	return tw.Flush()
}
