// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/conscoin/blockchain/business/sys/validate"
	"github.com/conscoin/blockchain/business/web/errs"
	"github.com/conscoin/blockchain/foundation/blockchain/database"
	"github.com/conscoin/blockchain/foundation/blockchain/ledger"
	"github.com/conscoin/blockchain/foundation/blockchain/state"
	"github.com/conscoin/blockchain/foundation/events"
	"github.com/conscoin/blockchain/foundation/nameservice"
	"github.com/conscoin/blockchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// The upgrade wrote the response so record it for the logger.
	web.SetStatusCode(ctx, http.StatusSwitchingProtocols)

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}

		case <-ctx.Done():
			return nil
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen, err := h.State.QueryBlock(0)
	if err != nil {
		return errs.FromLedger(err)
	}

	info := genesisInfo{
		Genesis:      h.State.RetrieveGenesis(),
		GenesisBlock: database.NewBlockData(gen),
		Difficulty:   h.State.RetrieveDifficulty(),
		MinerAddress: h.State.RetrieveMinerAddress(),
	}

	return web.Respond(ctx, w, info, http.StatusOK)
}

// Chain returns the full export of the ledger. Another node can post this
// document to its sync endpoint.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Export(), http.StatusOK)
}

// ValidateChain replays the chain and reports whether it is valid.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := validity{Valid: true}
	if err := h.State.ValidateChain(); err != nil {
		resp = validity{Valid: false, Error: err.Error()}
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Sync replaces the local chain with the posted chain when it is valid and
// longer than the local chain.
func (h Handlers) Sync(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var data ledger.ChainData
	if err := web.Decode(r, &data); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := h.State.Sync(data); err != nil {
		return errs.FromLedger(err)
	}

	resp := struct {
		Status string `json:"status"`
		Blocks int    `json:"blocks"`
	}{
		Status: "chain replaced",
		Blocks: len(data.Chain),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Blocks returns a range of blocks. The from and to query parameters are
// optional and default to the whole chain.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	from, err := queryIndex(r, "from", 0)
	if err != nil {
		return err
	}

	to, err := queryIndex(r, "to", state.QueryLatest)
	if err != nil {
		return err
	}

	blocks := h.State.QueryBlocks(from, to)

	return web.Respond(ctx, w, toBlockDatas(blocks), http.StatusOK)
}

// BlockByIndex returns a single block. The index "latest" returns the head
// of the chain.
func (h Handlers) BlockByIndex(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index := state.QueryLatest

	if param := web.Param(r, "index"); param != "latest" {
		n, err := strconv.ParseUint(param, 10, 64)
		if err != nil {
			return errs.NewTrusted(fmt.Errorf("invalid block index %q", param), http.StatusBadRequest)
		}
		index = n
	}

	block, err := h.State.QueryBlock(index)
	if err != nil {
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, database.NewBlockData(block), http.StatusOK)
}

// Balances returns the balance of every address seen on the chain.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	all := h.State.QueryBalances()

	bals := make([]balance, 0, len(all))
	for address, amount := range all {
		bals = append(bals, balance{
			Address: address,
			Name:    h.NS.Lookup(address),
			Balance: amount,
		})
	}

	sort.Slice(bals, func(i, j int) bool {
		return bals[i].Address < bals[j].Address
	})

	resp := balances{
		LatestBlock: h.State.RetrieveLatestBlock().Hash,
		Uncommitted: h.State.QueryMempoolLength(),
		Balances:    bals,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Balance returns the balance for an address. A known account name can be
// used in place of the address.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address, err := h.address(r)
	if err != nil {
		return err
	}

	resp := balance{
		Address: address,
		Name:    h.NS.Lookup(address),
		Balance: h.State.QueryBalance(address),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// History returns every transaction sent or received by an address.
func (h Handlers) History(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address, err := h.address(r)
	if err != nil {
		return err
	}

	hist := toHistory(h.NS, h.State.QueryHistory(address))

	return web.Respond(ctx, w, hist, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions, oldest first.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pool := h.State.RetrieveMempool()

	trans := make([]database.TxData, len(pool))
	for i, tx := range pool {
		trans[i] = tx.Data()
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// SubmitTransaction adds a new transfer to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var ntx newTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(ntx); err != nil {
		return fmt.Errorf("validating data: %w", err)
	}

	tx := toTx(ntx)

	h.Log.Infow("submit tran", "traceid", v.TraceID, "tx", tx)
	if err := h.State.SubmitTransaction(tx); err != nil {
		return errs.FromLedger(err)
	}

	resp := struct {
		Status string          `json:"status"`
		Tx     database.TxData `json:"transaction"`
	}{
		Status: "transaction added to mempool",
		Tx:     tx.Data(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mine mines the next block. The block is credited to the node's miner
// address unless the body names a reward address. Mining stops if the client
// goes away.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req mineReq
	if err := web.DecodeOptional(r, &req); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	reward := req.RewardAddress
	if reward == "" {
		reward = h.State.RetrieveMinerAddress()
	}

	block, err := h.State.MineNewBlockFor(ctx, reward)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return errs.NewTrusted(err, http.StatusServiceUnavailable)
		}
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, database.NewBlockData(block), http.StatusOK)
}

// =============================================================================

// address reads the address parameter, resolving account names.
func (h Handlers) address(r *http.Request) (database.Address, error) {
	address := h.NS.Resolve(web.Param(r, "address"))
	if !address.IsAddress() {
		return "", errs.NewTrusted(database.ErrInvalidAddress, http.StatusBadRequest)
	}
	return address, nil
}

// queryIndex reads an optional block index from the query string.
func queryIndex(r *http.Request, key string, def uint64) (uint64, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def, nil
	}

	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errs.NewTrusted(fmt.Errorf("invalid %s index %q", key, s), http.StatusBadRequest)
	}

	return n, nil
}
