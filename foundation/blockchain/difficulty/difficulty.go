// Package difficulty adjusts the proof of work target so blocks are produced
// close to a target block time.
package difficulty

import "time"

// Controller inspects the timestamps of the most recent blocks and moves
// the difficulty by one step when blocks are arriving much faster or much
// slower than the target.
type Controller struct {
	Window   int           // Number of block intervals inspected.
	Target   time.Duration // Desired time between blocks.
	Interval int           // Retarget after every Interval mined blocks.
}

// Next returns the difficulty to use for the block after the last timestamp.
// The timestamps are the mined blocks, oldest first, in milliseconds since the
// epoch. The genesis block is not included.
func (c Controller) Next(current uint, timestamps []int64) uint {
	mined := len(timestamps)

	if c.Window <= 0 || c.Target <= 0 || mined < c.Window+1 {
		return current
	}

	if c.Interval > 1 && mined%c.Interval != 0 {
		return current
	}

	elapsed := timestamps[mined-1] - timestamps[mined-1-c.Window]
	expected := int64(c.Window) * c.Target.Milliseconds()

	switch {
	case elapsed < expected/2:
		return current + 1

	case elapsed > expected*2:
		if current > 1 {
			return current - 1
		}
	}

	return current
}
