// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date              time.Time `json:"date"`               // Timestamp recorded in the genesis block.
	ChainID           uint16    `json:"chain_id"`           // The chain id represents an unique id for this running instance.
	TransPerBlock     uint16    `json:"trans_per_block"`    // The maximum number of transactions that can be in a block, coinbase included.
	Difficulty        uint      `json:"difficulty"`         // How difficult it needs to be to solve the work problem.
	MiningReward      uint64    `json:"mining_reward"`      // Reward for mining a block.
	TargetBlockTime   Duration  `json:"target_block_time"`  // Desired time between blocks.
	RetargetWindow    int       `json:"retarget_window"`    // Number of block intervals inspected when retargeting.
	RetargetInterval  int       `json:"retarget_interval"`  // Retarget after this many blocks.
	RequireSignatures bool      `json:"require_signatures"` // Reject transfers that are not signed by the sender.
}

// Default returns the genesis settings used when no file is provided.
func Default() Genesis {
	return Genesis{
		Date:             time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		ChainID:          1,
		TransPerBlock:    10,
		Difficulty:       2,
		MiningReward:     100,
		TargetBlockTime:  Duration(10 * time.Second),
		RetargetWindow:   10,
		RetargetInterval: 1,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Any field missing from the file
// keeps its default value.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("unmarshal genesis: %w", err)
	}

	if genesis.TransPerBlock < 1 {
		return Genesis{}, fmt.Errorf("trans_per_block must be at least 1, got %d", genesis.TransPerBlock)
	}

	return genesis, nil
}

// =============================================================================

// Duration is a time.Duration that reads and writes as a string such as
// "10s" in the genesis file.
type Duration time.Duration

// MarshalJSON implements the json.Marshaler interface.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}

	*d = Duration(v)
	return nil
}
