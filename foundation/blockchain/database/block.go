package database

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/conscoin/blockchain/foundation/blockchain/pow"
	"github.com/conscoin/blockchain/foundation/blockchain/signature"
)

// GenesisPrevHash is the previous hash recorded in the genesis block which
// has no real predecessor.
const GenesisPrevHash = "0"

// =============================================================================

// HashBlock produces the content hash for a block. The fields are
// concatenated in order with the transactions serialized to JSON first.
func HashBlock(index uint64, prevHash string, timeStamp int64, trans []Tx, nonce uint64) string {
	return NewHasher(index, prevHash, timeStamp, trans).Hash(nonce)
}

// Hasher computes block hashes for a fixed set of block fields while the
// nonce changes. The nonce independent prefix is only serialized once.
type Hasher struct {
	prefix string
}

// NewHasher constructs a hasher for the specified block fields.
func NewHasher(index uint64, prevHash string, timeStamp int64, trans []Tx) Hasher {
	data, err := json.Marshal(NewTxDatas(trans))
	if err != nil {
		data = nil
	}

	prefix := strconv.FormatUint(index, 10) + prevHash + strconv.FormatInt(timeStamp, 10) + string(data)

	return Hasher{prefix: prefix}
}

// Hash returns the block hash for the specified nonce. It is safe to call
// concurrently.
func (h Hasher) Hash(nonce uint64) string {
	return signature.Hash([]byte(h.prefix + strconv.FormatUint(nonce, 10)))
}

// =============================================================================

// Block represents a group of transactions batched together and linked to
// the block before it.
type Block struct {
	Index      uint64
	TimeStamp  int64 // Milliseconds since the epoch.
	Trans      []Tx
	PrevHash   string
	Nonce      uint64
	Hash       string
	Difficulty uint // Leading zeros required when the block was mined.
}

// NewBlock constructs a block and computes its initial hash.
func NewBlock(index uint64, timeStamp int64, trans []Tx, prevHash string, nonce uint64) Block {
	b := Block{
		Index:     index,
		TimeStamp: timeStamp,
		Trans:     trans,
		PrevHash:  prevHash,
		Nonce:     nonce,
	}
	b.Hash = b.CalculateHash()

	return b
}

// CalculateHash recomputes the hash from the current fields of the block.
func (b Block) CalculateHash() string {
	return HashBlock(b.Index, b.PrevHash, b.TimeStamp, b.Trans, b.Nonce)
}

// Mine performs the proof of work to find a nonce that produces a hash with
// the specified number of leading zeros. Pointer semantics are being used
// since a nonce is being discovered. On error the block is left unchanged.
func (b *Block) Mine(ctx context.Context, difficulty uint, cfg pow.Config, ev func(v string, args ...any)) error {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	ev("database: Mine: MINING: started: blk[%d]", b.Index)
	defer ev("database: Mine: MINING: completed: blk[%d]", b.Index)

	hasher := NewHasher(b.Index, b.PrevHash, b.TimeStamp, b.Trans)

	res, err := pow.Search(ctx, cfg, difficulty, b.Nonce, hasher.Hash, ev)
	if err != nil {
		return err
	}

	b.Nonce = res.Nonce
	b.Hash = res.Hash
	b.Difficulty = difficulty

	ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", b.PrevHash, b.Hash, res.Attempts)

	return nil
}

// IsValid recomputes the hash from the block fields and compares it to the
// stored hash. It can't detect whether the link to the previous block is
// correct, only the chain can check that.
func (b Block) IsValid() bool {
	return b.Hash == b.CalculateHash()
}

// IsSolved reports whether the stored hash satisfies the difficulty.
func (b Block) IsSolved(difficulty uint) bool {
	return pow.IsSolved(difficulty, b.Hash)
}

// =============================================================================

// BlockData represents the serialized form of a block.
type BlockData struct {
	Index      uint64   `json:"index"`
	TimeStamp  int64    `json:"timestamp"`
	Data       []TxData `json:"data"`
	PrevHash   string   `json:"previousHash"`
	Nonce      uint64   `json:"nonce"`
	Hash       string   `json:"hash"`
	Difficulty uint     `json:"difficulty"`
}

// NewBlockData constructs the value to serialize.
func NewBlockData(b Block) BlockData {
	return BlockData{
		Index:      b.Index,
		TimeStamp:  b.TimeStamp,
		Data:       NewTxDatas(b.Trans),
		PrevHash:   b.PrevHash,
		Nonce:      b.Nonce,
		Hash:       b.Hash,
		Difficulty: b.Difficulty,
	}
}

// ToBlock converts the serialized form into a Block. The stored hash is
// taken as provided and not recomputed.
func ToBlock(bd BlockData) Block {
	return Block{
		Index:      bd.Index,
		TimeStamp:  bd.TimeStamp,
		Trans:      ToTxs(bd.Data),
		PrevHash:   bd.PrevHash,
		Nonce:      bd.Nonce,
		Hash:       bd.Hash,
		Difficulty: bd.Difficulty,
	}
}
