package ledger_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/conscoin/blockchain/foundation/blockchain/database"
	"github.com/conscoin/blockchain/foundation/blockchain/genesis"
	"github.com/conscoin/blockchain/foundation/blockchain/ledger"
	"github.com/conscoin/blockchain/foundation/blockchain/pow"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	alice = database.Address("alice")
	bob   = database.Address("bob")
	carol = database.Address("carol")
)

func testGenesis() genesis.Genesis {
	gen := genesis.Default()
	gen.Difficulty = 1
	gen.RetargetWindow = 0

	return gen
}

func newLedger(t *testing.T, gen genesis.Genesis) *ledger.Ledger {
	ev := func(v string, args ...any) {
		t.Logf("\t\t"+v, args...)
	}

	return ledger.New(ledger.Config{
		Genesis:   gen,
		POW:       pow.Config{Workers: 2},
		EvHandler: ev,
	})
}

func mine(t *testing.T, l *ledger.Ledger, reward database.Address) database.Block {
	b, err := l.MineNext(context.Background(), reward)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to mine a block: %v", failed, err)
	}
	return b
}

// remine applies the change to a block and mines it again so the stored hash
// matches the new contents.
func remine(t *testing.T, bd database.BlockData, change func(b *database.Block)) database.BlockData {
	b := database.ToBlock(bd)
	change(&b)

	if err := b.Mine(context.Background(), bd.Difficulty, pow.Config{Workers: 1}, nil); err != nil {
		t.Fatalf("Should be able to mine the changed block: %s", err)
	}

	return database.NewBlockData(b)
}

// unsolve picks a nonce whose hash is consistent with the block but does not
// meet the block's difficulty.
func unsolve(bd database.BlockData) database.BlockData {
	b := database.ToBlock(bd)
	for b.Nonce = 0; ; b.Nonce++ {
		if h := b.CalculateHash(); !pow.IsSolved(b.Difficulty, h) {
			b.Hash = h
			break
		}
	}

	return database.NewBlockData(b)
}

// =============================================================================

func Test_EndToEnd(t *testing.T) {
	t.Log("Given the need to move value between accounts.")
	{
		t.Logf("\tTest 0:\tWhen alice mines, pays bob and mines again.")
		{
			l := newLedger(t, testGenesis())

			mine(t, l, alice)

			if err := l.AddTransaction(database.NewTransfer(alice, bob, 40)); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to add the transfer: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to add the transfer.", success)

			mine(t, l, alice)

			if bal := l.GetBalance(alice); bal != 160 {
				t.Fatalf("\t%s\tTest 0:\tShould have 160 for alice: got %d", failed, bal)
			}
			t.Logf("\t%s\tTest 0:\tShould have 160 for alice.", success)

			if bal := l.GetBalance(bob); bal != 40 {
				t.Fatalf("\t%s\tTest 0:\tShould have 40 for bob: got %d", failed, bal)
			}
			t.Logf("\t%s\tTest 0:\tShould have 40 for bob.", success)

			if h := l.Height(); h != 3 {
				t.Fatalf("\t%s\tTest 0:\tShould have 3 blocks: got %d", failed, h)
			}
			t.Logf("\t%s\tTest 0:\tShould have 3 blocks.", success)

			if n := len(l.Pending()); n != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould have an empty pool: got %d", failed, n)
			}
			t.Logf("\t%s\tTest 0:\tShould have an empty pool.", success)

			if !l.IsChainValid() {
				t.Fatalf("\t%s\tTest 0:\tShould have a valid chain.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould have a valid chain.", success)

			hist := l.GetTransactionHistory(bob)
			if len(hist) != 1 || hist[0].BlockIndex != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould have one history entry for bob in block 2: %+v", failed, hist)
			}
			t.Logf("\t%s\tTest 0:\tShould have one history entry for bob in block 2.", success)

			var total uint64
			for _, bal := range l.Balances() {
				total += bal
			}
			if total != 200 {
				t.Fatalf("\t%s\tTest 0:\tShould conserve value with two rewards minted: got %d", failed, total)
			}
			t.Logf("\t%s\tTest 0:\tShould conserve value with two rewards minted.", success)
		}
	}
}

func Test_Blocks(t *testing.T) {
	t.Log("Given the need to build a linked chain.")
	{
		t.Logf("\tTest 0:\tWhen mining several blocks.")
		{
			l := newLedger(t, testGenesis())
			for range 3 {
				mine(t, l, carol)
			}

			blocks := l.Blocks()
			for i := 1; i < len(blocks); i++ {
				if blocks[i].PrevHash != blocks[i-1].Hash {
					t.Fatalf("\t%s\tTest 0:\tShould link block %d to its parent.", failed, i)
				}
				if blocks[i].Index != uint64(i) {
					t.Fatalf("\t%s\tTest 0:\tShould have index %d: got %d", failed, i, blocks[i].Index)
				}
				last := blocks[i].Trans[len(blocks[i].Trans)-1]
				if _, ok := last.(database.Coinbase); !ok {
					t.Fatalf("\t%s\tTest 0:\tShould end block %d with a coinbase.", failed, i)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould link every block to its parent.", success)

			if blocks[0].PrevHash != database.GenesisPrevHash || len(blocks[0].Trans) != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould start with the genesis block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould start with the genesis block.", success)

			if _, err := l.BlockByIndex(10); !errors.Is(err, ledger.ErrBlockNotFound) {
				t.Fatalf("\t%s\tTest 0:\tShould not find block 10: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould not find block 10.", success)
		}
	}
}

func Test_AddTransaction(t *testing.T) {
	t.Log("Given the need to validate submitted transactions.")
	{
		l := newLedger(t, testGenesis())
		mine(t, l, alice)

		tests := []struct {
			name string
			tx   database.Tx
			err  error
		}{
			{"coinbase", database.NewCoinbase(alice, 100), ledger.ErrCoinbaseSubmission},
			{"empty from", database.NewTransfer("", bob, 1), ledger.ErrInvalidAddress},
			{"empty to", database.NewTransfer(alice, "", 1), ledger.ErrInvalidAddress},
			{"zero amount", database.NewTransfer(alice, bob, 0), ledger.ErrInvalidAmount},
			{"overdraft", database.NewTransfer(alice, bob, 101), ledger.ErrInsufficientFunds},
			{"no balance", database.NewTransfer(bob, alice, 1), ledger.ErrInsufficientFunds},
		}

		for testID, tt := range tests {
			t.Logf("\tTest %d:\tWhen submitting %s.", testID, tt.name)
			{
				err := l.AddTransaction(tt.tx)

				var ve *ledger.ValidationError
				if !errors.As(err, &ve) || !errors.Is(err, tt.err) {
					t.Fatalf("\t%s\tTest %d:\tShould get a validation error %q: %v", failed, testID, tt.err, err)
				}
				t.Logf("\t%s\tTest %d:\tShould get a validation error.", success, testID)

				if n := len(l.Pending()); n != 0 {
					t.Fatalf("\t%s\tTest %d:\tShould leave the pool unchanged: got %d", failed, testID, n)
				}
				t.Logf("\t%s\tTest %d:\tShould leave the pool unchanged.", success, testID)
			}
		}

		testID := len(tests)
		t.Logf("\tTest %d:\tWhen pending transfers already spend the balance.", testID)
		{
			if err := l.AddTransaction(database.NewTransfer(alice, bob, 60)); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould accept the first transfer: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould accept the first transfer.", success, testID)

			err := l.AddTransaction(database.NewTransfer(alice, carol, 60))
			if !errors.Is(err, ledger.ErrInsufficientFunds) {
				t.Fatalf("\t%s\tTest %d:\tShould reject the second transfer: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the second transfer.", success, testID)

			if n := len(l.Pending()); n != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould hold one pending transfer: got %d", failed, testID, n)
			}
			t.Logf("\t%s\tTest %d:\tShould hold one pending transfer.", success, testID)
		}
	}
}

func Test_Signatures(t *testing.T) {
	t.Log("Given the need to require signed transfers.")
	{
		pk, err := crypto.GenerateKey()
		if err != nil {
			t.Fatalf("Should be able to generate a private key: %s", err)
		}
		owner := database.PublicKeyToAddress(pk.PublicKey)

		gen := testGenesis()
		gen.RequireSignatures = true
		l := newLedger(t, gen)
		mine(t, l, owner)

		t.Logf("\tTest 0:\tWhen submitting an unsigned transfer.")
		{
			err := l.AddTransaction(database.NewTransfer(owner, bob, 10))
			if !errors.Is(err, ledger.ErrInvalidSignature) {
				t.Fatalf("\t%s\tTest 0:\tShould reject the transfer: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject the transfer.", success)
		}

		t.Logf("\tTest 1:\tWhen submitting a transfer signed by the sender.")
		{
			tx, err := database.NewTransfer(owner, bob, 10).Sign(pk)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to sign the transfer: %v", failed, err)
			}

			if err := l.AddTransaction(tx); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould accept the transfer: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould accept the transfer.", success)

			mine(t, l, owner)
			if err := l.ValidateChain(); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould have a valid chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould have a valid chain.", success)
		}

		t.Logf("\tTest 2:\tWhen submitting a transfer with a tampered amount.")
		{
			tx, err := database.NewTransfer(owner, bob, 10).Sign(pk)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to sign the transfer: %v", failed, err)
			}
			tx.Amount = 20

			if err := l.AddTransaction(tx); !errors.Is(err, ledger.ErrInvalidSignature) {
				t.Fatalf("\t%s\tTest 2:\tShould reject the transfer: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould reject the transfer.", success)
		}

		t.Logf("\tTest 3:\tWhen submitting a transfer signed by another account.")
		{
			other, err := crypto.GenerateKey()
			if err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to generate a private key: %v", failed, err)
			}

			tx, err := database.NewTransfer(owner, bob, 10).Sign(other)
			if err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to sign the transfer: %v", failed, err)
			}

			if err := l.AddTransaction(tx); !errors.Is(err, ledger.ErrInvalidSignature) {
				t.Fatalf("\t%s\tTest 3:\tShould reject the transfer: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould reject the transfer.", success)
		}
	}
}

func Test_MineCancel(t *testing.T) {
	t.Log("Given the need to cancel mining.")
	{
		t.Logf("\tTest 0:\tWhen the context times out before a solution is found.")
		{
			gen := testGenesis()
			gen.Difficulty = 40
			l := newLedger(t, gen)

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			_, err := l.MineNext(ctx, alice)
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("\t%s\tTest 0:\tShould stop with the context error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould stop with the context error.", success)

			if h := l.Height(); h != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould leave the chain unchanged: got %d blocks", failed, h)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the chain unchanged.", success)
		}

		t.Logf("\tTest 1:\tWhen the context is cancelled with transfers pending.")
		{
			l := newLedger(t, testGenesis())
			mine(t, l, alice)

			for _, to := range []database.Address{bob, carol} {
				if err := l.AddTransaction(database.NewTransfer(alice, to, 10)); err != nil {
					t.Fatalf("\t%s\tTest 1:\tShould be able to add the transfer: %v", failed, err)
				}
			}
			before := l.Pending()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if _, err := l.MineNext(ctx, alice); !errors.Is(err, context.Canceled) {
				t.Fatalf("\t%s\tTest 1:\tShould stop with the context error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould stop with the context error.", success)

			if h := l.Height(); h != 2 {
				t.Fatalf("\t%s\tTest 1:\tShould leave the chain unchanged: got %d blocks", failed, h)
			}
			t.Logf("\t%s\tTest 1:\tShould leave the chain unchanged.", success)

			after := l.Pending()
			if len(after) != len(before) {
				t.Fatalf("\t%s\tTest 1:\tShould return the transfers to the pool: got %d, exp %d", failed, len(after), len(before))
			}
			for i := range before {
				if after[i] != before[i] {
					t.Fatalf("\t%s\tTest 1:\tShould keep the pool order at %d.", failed, i)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould return the transfers to the pool in order.", success)
		}
	}
}

func Test_MineStale(t *testing.T) {
	t.Log("Given the need to discard a block mined on a replaced chain.")
	{
		t.Logf("\tTest 0:\tWhen a longer chain is synced while mining.")
		{
			long := newLedger(t, testGenesis())
			for range 3 {
				mine(t, long, alice)
			}

			var local *ledger.Ledger
			var armed atomic.Bool
			var syncErr error

			ev := func(v string, args ...any) {
				t.Logf("\t\t"+v, args...)
				if strings.HasPrefix(v, "database: Mine: MINING: started") && armed.CompareAndSwap(true, false) {
					syncErr = local.Sync(long.Export())
				}
			}

			local = ledger.New(ledger.Config{
				Genesis:   testGenesis(),
				POW:       pow.Config{Workers: 2},
				EvHandler: ev,
			})
			mine(t, local, alice)
			mine(t, local, bob)

			if err := local.AddTransaction(database.NewTransfer(alice, carol, 30)); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to add alice's transfer: %v", failed, err)
			}
			if err := local.AddTransaction(database.NewTransfer(bob, carol, 20)); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to add bob's transfer: %v", failed, err)
			}

			armed.Store(true)
			_, err := local.MineNext(context.Background(), carol)

			if syncErr != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to sync while mining: %v", failed, syncErr)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to sync while mining.", success)

			if !errors.Is(err, ledger.ErrStaleBlock) {
				t.Fatalf("\t%s\tTest 0:\tShould discard the stale block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould discard the stale block.", success)

			if local.Height() != long.Height() || local.LatestBlock().Hash != long.LatestBlock().Hash {
				t.Fatalf("\t%s\tTest 0:\tShould keep the synced chain: got %d blocks", failed, local.Height())
			}
			t.Logf("\t%s\tTest 0:\tShould keep the synced chain.", success)

			pending := local.Pending()
			if len(pending) != 1 || pending[0].From != alice || pending[0].Amount != 30 {
				t.Fatalf("\t%s\tTest 0:\tShould only return alice's transfer to the pool: %v", failed, pending)
			}
			t.Logf("\t%s\tTest 0:\tShould only return alice's transfer to the pool.", success)

			if !local.IsChainValid() {
				t.Fatalf("\t%s\tTest 0:\tShould have a valid chain.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould have a valid chain.", success)
		}
	}
}

func Test_Integrity(t *testing.T) {
	t.Log("Given the need to detect tampering.")
	{
		l := newLedger(t, testGenesis())
		mine(t, l, alice)
		if err := l.AddTransaction(database.NewTransfer(alice, bob, 40)); err != nil {
			t.Fatalf("Should be able to add the transfer: %s", err)
		}
		mine(t, l, alice)
		mine(t, l, bob)

		tests := []struct {
			name   string
			tamper func(cd *ledger.ChainData)
			index  uint64
			err    error
		}{
			{"an amount", func(cd *ledger.ChainData) { cd.Chain[2].Data[0].Amount = 90 }, 2, ledger.ErrHashMismatch},
			{"a previous hash", func(cd *ledger.ChainData) { cd.Chain[3].PrevHash = cd.Chain[1].Hash }, 3, ledger.ErrHashMismatch},
			{"the genesis block", func(cd *ledger.ChainData) { cd.Chain[0].Nonce = 1 }, 0, ledger.ErrGenesisMismatch},
			{"a block difficulty", func(cd *ledger.ChainData) { cd.Chain[1].Difficulty = 0 }, 1, ledger.ErrDifficulty},
			{"a relinked block", func(cd *ledger.ChainData) {
				cd.Chain[3] = remine(t, cd.Chain[3], func(b *database.Block) { b.PrevHash = cd.Chain[1].Hash })
			}, 3, ledger.ErrBrokenLink},
			{"an unsolved nonce", func(cd *ledger.ChainData) { cd.Chain[3] = unsolve(cd.Chain[3]) }, 3, ledger.ErrHashUnsolved},
			{"a skipped index", func(cd *ledger.ChainData) {
				cd.Chain[3] = remine(t, cd.Chain[3], func(b *database.Block) { b.Index = 4 })
			}, 4, ledger.ErrBlockIndex},
			{"an unfunded transfer", func(cd *ledger.ChainData) {
				cd.Chain[3] = remine(t, cd.Chain[3], func(b *database.Block) {
					b.Trans = append([]database.Tx{database.NewTransfer(bob, carol, 50)}, b.Trans...)
				})
			}, 3, ledger.ErrOverdraft},
			{"a coinbase moved first", func(cd *ledger.ChainData) {
				cd.Chain[2] = remine(t, cd.Chain[2], func(b *database.Block) { b.Trans[0], b.Trans[1] = b.Trans[1], b.Trans[0] })
			}, 2, ledger.ErrCoinbase},
			{"a coinbase reward", func(cd *ledger.ChainData) {
				cd.Chain[3] = remine(t, cd.Chain[3], func(b *database.Block) { b.Trans[len(b.Trans)-1] = database.NewCoinbase(bob, 50) })
			}, 3, ledger.ErrCoinbase},
			{"too many transactions", func(cd *ledger.ChainData) {
				cd.Chain[3] = remine(t, cd.Chain[3], func(b *database.Block) {
					var trans []database.Tx
					for range 10 {
						trans = append(trans, database.NewTransfer(alice, carol, 1))
					}
					b.Trans = append(trans, b.Trans...)
				})
			}, 3, ledger.ErrBlockSize},
		}

		for testID, tt := range tests {
			t.Logf("\tTest %d:\tWhen importing a chain with %s changed.", testID, tt.name)
			{
				cd := l.Export()
				tt.tamper(&cd)

				target := newLedger(t, testGenesis())
				err := target.Import(cd)

				var ie *ledger.IntegrityError
				if !errors.As(err, &ie) || !errors.Is(err, tt.err) {
					t.Fatalf("\t%s\tTest %d:\tShould get an integrity error %q: %v", failed, testID, tt.err, err)
				}
				t.Logf("\t%s\tTest %d:\tShould get an integrity error.", success, testID)

				if ie.Index != tt.index {
					t.Fatalf("\t%s\tTest %d:\tShould identify block %d: got %d", failed, testID, tt.index, ie.Index)
				}
				t.Logf("\t%s\tTest %d:\tShould identify block %d.", success, testID, tt.index)

				var imp *ledger.ImportError
				if !errors.As(err, &imp) {
					t.Fatalf("\t%s\tTest %d:\tShould be wrapped in an import error.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould be wrapped in an import error.", success, testID)

				if target.Height() != 1 || !target.IsChainValid() {
					t.Fatalf("\t%s\tTest %d:\tShould leave the ledger untouched.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould leave the ledger untouched.", success, testID)
			}
		}
	}
}

func Test_ImportExport(t *testing.T) {
	t.Log("Given the need to move a chain between ledgers.")
	{
		src := newLedger(t, testGenesis())
		mine(t, src, alice)
		if err := src.AddTransaction(database.NewTransfer(alice, bob, 25)); err != nil {
			t.Fatalf("Should be able to add the transfer: %s", err)
		}

		t.Logf("\tTest 0:\tWhen importing an exported chain.")
		{
			dst := newLedger(t, testGenesis())
			if err := dst.Import(src.Export()); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to import the chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to import the chain.", success)

			if dst.LatestBlock().Hash != src.LatestBlock().Hash {
				t.Fatalf("\t%s\tTest 0:\tShould have the same head.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould have the same head.", success)

			if n := len(dst.Pending()); n != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould carry the pending transfer: got %d", failed, n)
			}
			t.Logf("\t%s\tTest 0:\tShould carry the pending transfer.", success)
		}

		t.Logf("\tTest 1:\tWhen importing data with the wrong reward.")
		{
			cd := src.Export()
			cd.MiningReward = 5

			dst := newLedger(t, testGenesis())
			if err := dst.Import(cd); !errors.Is(err, ledger.ErrRewardMismatch) {
				t.Fatalf("\t%s\tTest 1:\tShould reject the data: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject the data.", success)
		}

		t.Logf("\tTest 2:\tWhen importing data with the wrong difficulty.")
		{
			cd := src.Export()
			cd.Difficulty = 7

			dst := newLedger(t, testGenesis())
			if err := dst.Import(cd); !errors.Is(err, ledger.ErrDifficultyMismatch) {
				t.Fatalf("\t%s\tTest 2:\tShould reject the data: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould reject the data.", success)
		}

		t.Logf("\tTest 3:\tWhen importing an empty chain.")
		{
			dst := newLedger(t, testGenesis())
			if err := dst.Import(ledger.ChainData{MiningReward: 100}); !errors.Is(err, ledger.ErrEmptyChain) {
				t.Fatalf("\t%s\tTest 3:\tShould reject the data: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould reject the data.", success)
		}

		t.Logf("\tTest 4:\tWhen importing a pending coinbase.")
		{
			cd := src.Export()
			cd.PendingTransactions = append(cd.PendingTransactions, database.NewCoinbase(carol, 100).Data())

			dst := newLedger(t, testGenesis())
			if err := dst.Import(cd); err != nil {
				t.Fatalf("\t%s\tTest 4:\tShould be able to import the chain: %v", failed, err)
			}

			for _, tx := range dst.Pending() {
				if tx.To == carol {
					t.Fatalf("\t%s\tTest 4:\tShould drop the pending coinbase.", failed)
				}
			}
			t.Logf("\t%s\tTest 4:\tShould drop the pending coinbase.", success)
		}
	}
}

func Test_Sync(t *testing.T) {
	t.Log("Given the need to sync with a longer chain.")
	{
		long := newLedger(t, testGenesis())
		for range 3 {
			mine(t, long, alice)
		}

		t.Logf("\tTest 0:\tWhen the supplied chain is longer.")
		{
			local := newLedger(t, testGenesis())
			mine(t, local, bob)
			if err := local.AddTransaction(database.NewTransfer(bob, carol, 30)); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to add the transfer: %v", failed, err)
			}

			if err := local.Sync(long.Export()); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to sync: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to sync.", success)

			if local.Height() != long.Height() || local.GetBalance(alice) != 300 {
				t.Fatalf("\t%s\tTest 0:\tShould adopt the longer chain.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould adopt the longer chain.", success)

			if n := len(local.Pending()); n != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould drop the transfer bob can no longer afford: got %d", failed, n)
			}
			t.Logf("\t%s\tTest 0:\tShould drop the transfer bob can no longer afford.", success)
		}

		t.Logf("\tTest 1:\tWhen the supplied chain is not longer.")
		{
			short := newLedger(t, testGenesis())
			mine(t, short, bob)

			err := long.Sync(short.Export())
			if !errors.Is(err, ledger.ErrChainNotLonger) {
				t.Fatalf("\t%s\tTest 1:\tShould reject the chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject the chain.", success)

			if long.Height() != 4 {
				t.Fatalf("\t%s\tTest 1:\tShould keep the local chain.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould keep the local chain.", success)
		}
	}
}

func Test_Retarget(t *testing.T) {
	t.Log("Given the need to adjust difficulty as blocks are mined.")
	{
		t.Logf("\tTest 0:\tWhen blocks arrive much faster than the target.")
		{
			gen := testGenesis()
			gen.RetargetWindow = 1
			gen.RetargetInterval = 1
			gen.TargetBlockTime = genesis.Duration(time.Hour)

			l := newLedger(t, gen)
			mine(t, l, alice)
			mine(t, l, alice)

			if d := l.Difficulty(); d != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould raise the difficulty to 2: got %d", failed, d)
			}
			t.Logf("\t%s\tTest 0:\tShould raise the difficulty to 2.", success)

			b := mine(t, l, alice)
			if b.Difficulty != 2 || !b.IsSolved(2) {
				t.Fatalf("\t%s\tTest 0:\tShould mine the next block at difficulty 2: got %d", failed, b.Difficulty)
			}
			t.Logf("\t%s\tTest 0:\tShould mine the next block at difficulty 2.", success)

			if err := l.ValidateChain(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould replay the difficulty when validating: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould replay the difficulty when validating.", success)

			dst := newLedger(t, gen)
			if err := dst.Import(l.Export()); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould import the retargeted chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould import the retargeted chain.", success)
		}
	}
}
