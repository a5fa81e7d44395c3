package public

import (
	"time"

	"github.com/conscoin/blockchain/foundation/blockchain/database"
	"github.com/conscoin/blockchain/foundation/blockchain/genesis"
	"github.com/conscoin/blockchain/foundation/blockchain/ledger"
	"github.com/conscoin/blockchain/foundation/nameservice"
)

// newTx is the payload for submitting a transfer. A null fromAddress
// describes a coinbase which the node always rejects.
type newTx struct {
	FromAddress *database.Address `json:"fromAddress"`
	ToAddress   database.Address  `json:"toAddress" validate:"required"`
	Amount      uint64            `json:"amount" validate:"required"`
	TimeStamp   int64             `json:"timestamp" validate:"gte=0"`
	Signature   string            `json:"signature,omitempty" validate:"omitempty,hexadecimal"`
	PublicKey   string            `json:"publicKey,omitempty" validate:"omitempty,hexadecimal"`
}

func toTx(ntx newTx) database.Tx {
	ts := ntx.TimeStamp
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}

	return database.ToTx(database.TxData{
		FromAddress: ntx.FromAddress,
		ToAddress:   ntx.ToAddress,
		Amount:      ntx.Amount,
		TimeStamp:   ts,
		Signature:   ntx.Signature,
		PublicKey:   ntx.PublicKey,
	})
}

// mineReq optionally overrides the address credited for a mined block.
type mineReq struct {
	RewardAddress database.Address `json:"rewardAddress"`
}

type genesisInfo struct {
	Genesis      genesis.Genesis    `json:"genesis"`
	GenesisBlock database.BlockData `json:"genesisBlock"`
	Difficulty   uint               `json:"difficulty"`
	MinerAddress database.Address   `json:"minerAddress"`
}

type validity struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

type balance struct {
	Address database.Address `json:"address"`
	Name    string           `json:"name"`
	Balance uint64           `json:"balance"`
}

type balances struct {
	LatestBlock string    `json:"latestBlock"`
	Uncommitted int       `json:"uncommitted"`
	Balances    []balance `json:"balances"`
}

type historyEntry struct {
	BlockIndex uint64          `json:"blockIndex"`
	BlockHash  string          `json:"blockHash"`
	FromName   string          `json:"fromName,omitempty"`
	ToName     string          `json:"toName"`
	Tx         database.TxData `json:"transaction"`
}

func toHistory(ns *nameservice.NameService, entries []ledger.HistoryEntry) []historyEntry {
	out := make([]historyEntry, len(entries))
	for i, e := range entries {
		data := e.Tx.Data()

		var fromName string
		if data.FromAddress != nil {
			fromName = ns.Lookup(*data.FromAddress)
		}

		out[i] = historyEntry{
			BlockIndex: e.BlockIndex,
			BlockHash:  e.BlockHash,
			FromName:   fromName,
			ToName:     ns.Lookup(data.ToAddress),
			Tx:         data,
		}
	}
	return out
}

func toBlockDatas(blocks []database.Block) []database.BlockData {
	out := make([]database.BlockData, len(blocks))
	for i, b := range blocks {
		out[i] = database.NewBlockData(b)
	}
	return out
}
