package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/conscoin/blockchain/app/services/node/handlers"
	"github.com/conscoin/blockchain/foundation/blockchain/database"
	"github.com/conscoin/blockchain/foundation/blockchain/genesis"
	"github.com/conscoin/blockchain/foundation/blockchain/ledger"
	"github.com/conscoin/blockchain/foundation/blockchain/pow"
	"github.com/conscoin/blockchain/foundation/blockchain/state"
	"github.com/conscoin/blockchain/foundation/blockchain/storage"
	"github.com/conscoin/blockchain/foundation/events"
	"github.com/conscoin/blockchain/foundation/nameservice"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func newMux(t *testing.T) http.Handler {
	gen := genesis.Default()
	gen.Difficulty = 1
	gen.RetargetWindow = 0

	st, err := state.New(state.Config{
		MinerAddress: "alice",
		Storage:      storage.NewMemory(),
		Genesis:      gen,
		POW:          pow.Config{Workers: 2},
	})
	if err != nil {
		t.Fatalf("Should be able to construct the state: %s", err)
	}

	ns, err := nameservice.New(t.TempDir())
	if err != nil {
		t.Fatalf("Should be able to construct the name service: %s", err)
	}

	return handlers.PublicMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		State:    st,
		NS:       ns,
		Evts:     events.New(),
	})
}

func call(mux http.Handler, method string, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	r := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	return w
}

// =============================================================================

func Test_Routes(t *testing.T) {
	mux := newMux(t)

	t.Log("Given the need to drive the node over HTTP.")
	{
		t.Logf("\tTest 0:\tWhen mining, sending and mining again.")
		{
			if w := call(mux, http.MethodPost, "/v1/mining/mine", nil); w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould mine a block: %d %s", failed, w.Code, w.Body)
			}
			t.Logf("\t%s\tTest 0:\tShould mine a block.", success)

			tx := database.NewTransfer("alice", "bob", 40).Data()
			if w := call(mux, http.MethodPost, "/v1/tx/submit", tx); w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould accept the transfer: %d %s", failed, w.Code, w.Body)
			}
			t.Logf("\t%s\tTest 0:\tShould accept the transfer.", success)

			w := call(mux, http.MethodGet, "/v1/tx/uncommitted/list", nil)
			var pool []database.TxData
			if err := json.NewDecoder(w.Body).Decode(&pool); err != nil || len(pool) != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould list one pending transfer: %v %d", failed, err, len(pool))
			}
			t.Logf("\t%s\tTest 0:\tShould list one pending transfer.", success)

			if w := call(mux, http.MethodPost, "/v1/mining/mine", nil); w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould mine a block: %d %s", failed, w.Code, w.Body)
			}

			for address, exp := range map[string]uint64{"alice": 160, "bob": 40} {
				w := call(mux, http.MethodGet, "/v1/balances/"+address, nil)

				var bal struct {
					Balance uint64 `json:"balance"`
				}
				if err := json.NewDecoder(w.Body).Decode(&bal); err != nil || bal.Balance != exp {
					t.Fatalf("\t%s\tTest 0:\tShould have %d for %s: got %d %v", failed, exp, address, bal.Balance, err)
				}
				t.Logf("\t%s\tTest 0:\tShould have %d for %s.", success, exp, address)
			}

			w = call(mux, http.MethodGet, "/v1/chain/validate", nil)
			var v struct {
				Valid bool `json:"valid"`
			}
			if err := json.NewDecoder(w.Body).Decode(&v); err != nil || !v.Valid {
				t.Fatalf("\t%s\tTest 0:\tShould report a valid chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould report a valid chain.", success)
		}

		t.Logf("\tTest 1:\tWhen making bad requests.")
		{
			tests := []struct {
				name   string
				method string
				path   string
				body   any
				status int
			}{
				{"an unaffordable transfer", http.MethodPost, "/v1/tx/submit", database.NewTransfer("bob", "carol", 1000).Data(), http.StatusPaymentRequired},
				{"a coinbase", http.MethodPost, "/v1/tx/submit", database.NewCoinbase("bob", 100).Data(), http.StatusBadRequest},
				{"a missing recipient", http.MethodPost, "/v1/tx/submit", map[string]any{"fromAddress": "bob", "amount": 1}, http.StatusBadRequest},
				{"a missing block", http.MethodGet, "/v1/blocks/99", nil, http.StatusNotFound},
				{"a bad block index", http.MethodGet, "/v1/blocks/abc", nil, http.StatusBadRequest},
				{"a shorter chain", http.MethodPost, "/v1/chain/sync", ledger.ChainData{MiningReward: 100}, http.StatusConflict},
			}

			for _, tt := range tests {
				w := call(mux, tt.method, tt.path, tt.body)
				if w.Code != tt.status {
					t.Fatalf("\t%s\tTest 1:\tShould get %d for %s: got %d %s", failed, tt.status, tt.name, w.Code, w.Body)
				}
				t.Logf("\t%s\tTest 1:\tShould get %d for %s.", success, tt.status, tt.name)
			}
		}

		t.Logf("\tTest 2:\tWhen reading blocks.")
		{
			w := call(mux, http.MethodGet, "/v1/blocks/list", nil)

			var blocks []database.BlockData
			if err := json.NewDecoder(w.Body).Decode(&blocks); err != nil || len(blocks) != 3 {
				t.Fatalf("\t%s\tTest 2:\tShould list three blocks: %v %d", failed, err, len(blocks))
			}
			t.Logf("\t%s\tTest 2:\tShould list three blocks.", success)

			w = call(mux, http.MethodGet, "/v1/blocks/latest", nil)

			var head database.BlockData
			if err := json.NewDecoder(w.Body).Decode(&head); err != nil || head.Index != 2 {
				t.Fatalf("\t%s\tTest 2:\tShould return the head block: %v %d", failed, err, head.Index)
			}
			t.Logf("\t%s\tTest 2:\tShould return the head block.", success)
		}
	}
}
