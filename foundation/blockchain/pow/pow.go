// Package pow implements the proof of work search used to mine blocks. The
// nonce space is partitioned across a set of worker goroutines and the first
// worker to find a solution wins, cancelling the others.
package pow

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// hashLength is the number of hex characters in a valid hash.
const hashLength = 64

// reportEvery is the number of attempts a worker makes between progress
// events.
const reportEvery = 1_000_000

// ErrUnsolvable is returned when the difficulty asks for more leading zeros
// than a hash has characters.
var ErrUnsolvable = errors.New("difficulty exceeds hash length")

// EventHandler defines a function that is called when events
// occur during the search.
type EventHandler func(v string, args ...any)

// HashFunc returns the hash for the block being mined using the specified
// nonce. It is called concurrently from every worker.
type HashFunc func(nonce uint64) string

// Config controls how a search is performed.
type Config struct {
	Workers    int    // Number of goroutines searching. Defaults to NumCPU.
	CheckEvery uint64 // Attempts between cancellation checks. Defaults to 1000.
}

// Result represents the solution found by a search.
type Result struct {
	Nonce    uint64
	Hash     string
	Attempts uint64
}

// =============================================================================

// IsSolved checks the hash to make sure it complies with the POW rules. We
// need to match a difficulty number of leading 0's.
func IsSolved(difficulty uint, hash string) bool {
	if len(hash) != hashLength || difficulty > hashLength {
		return false
	}

	for i := range difficulty {
		if hash[i] != '0' {
			return false
		}
	}

	return true
}

// Search looks for a nonce, starting with the specified nonce, that produces
// a hash with the required number of leading zeros. When the starting nonce
// already solves the puzzle it is returned without any further work. The
// search runs until a solution is found or the context is cancelled. A
// context that is already cancelled stops the search before any work.
func Search(ctx context.Context, cfg Config, difficulty uint, start uint64, hashFn HashFunc, ev EventHandler) (Result, error) {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	hash := hashFn(start)
	if IsSolved(difficulty, hash) {
		return Result{Nonce: start, Hash: hash, Attempts: 1}, nil
	}

	if difficulty > hashLength {
		return Result{}, ErrUnsolvable
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	checkEvery := cfg.CheckEvery
	if checkEvery == 0 {
		checkEvery = 1000
	}

	ev("pow: Search: started: difficulty[%d] workers[%d] start[%d]", difficulty, workers, start)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var total atomic.Uint64
	total.Add(1)

	// Only the first solution is kept.
	solved := make(chan Result, 1)

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := range workers {
		go func(w int) {
			defer wg.Done()

			step := uint64(workers)
			nonce := start + 1 + uint64(w)

			var attempts uint64
			for {
				attempts++

				if attempts%checkEvery == 0 {
					total.Add(checkEvery)
					if ctx.Err() != nil {
						return
					}
				}

				if attempts%reportEvery == 0 {
					ev("pow: Search: worker[%d]: attempts[%d]", w, attempts)
				}

				hash := hashFn(nonce)
				if IsSolved(difficulty, hash) {
					total.Add(attempts % checkEvery)

					select {
					case solved <- Result{Nonce: nonce, Hash: hash}:
						cancel()
					default:
					}
					return
				}

				nonce += step
			}
		}(w)
	}

	wg.Wait()

	select {
	case res := <-solved:
		res.Attempts = total.Load()
		ev("pow: Search: SOLVED: nonce[%d] hash[%s] attempts[%d]", res.Nonce, res.Hash, res.Attempts)
		return res, nil

	default:
		ev("pow: Search: CANCELLED")
		return Result{}, ctx.Err()
	}
}
