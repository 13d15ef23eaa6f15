// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/ardanlabs/ledger/business/sys/metrics"
	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints clients call.
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
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Mine forges a new block from the pending transactions and rewards the
// node's miner.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	block, err := h.State.Mine(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return errs.NewTrusted(err, http.StatusServiceUnavailable)
		}
		return err
	}

	metrics.AddBlocks(ctx)

	h.Log.Infow("mined block", "traceid", v.TraceID, "index", block.Index, "proof", block.Proof, "trans", len(block.Transactions))

	resp := minedBlock{
		Message:      "New Block Forged",
		Index:        block.Index,
		Timestamp:    block.Timestamp,
		Transactions: block.Transactions,
		Proof:        block.Proof,
		PreviousHash: block.PreviousHash,
		Hash:         block.Hash(),
		Reward:       block.Transactions[len(block.Transactions)-1],
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitTransaction adds a new transaction to the pending pool and reports
// the index of the block expected to hold it.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var nt newTx
	if err := web.Decode(r, &nt); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(nt); err != nil {
		return err
	}

	tx, err := database.NewTx(nt.Sender, nt.Recipient, *nt.Amount)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("submit tran", "traceid", v.TraceID, "tx", tx)

	index, err := h.State.SubmitTransaction(tx)
	if err != nil {
		if errors.Is(err, database.ErrMalformedTx) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return err
	}

	resp := txReceipt{
		Message: "Transaction will be added to Block " + strconv.FormatUint(index, 10),
		Index:   index,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Chain returns the full chain held by the node.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, database.NewChainData(h.State.RetrieveChain()), http.StatusOK)
}

// RegisterNodes adds peers to the set of known nodes.
func (h Handlers) RegisterNodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var rn registerNodes
	if err := web.Decode(r, &rn); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(rn); err != nil {
		return err
	}

	peers, err := h.State.RegisterPeers(rn.Nodes)
	if err != nil {
		if errors.Is(err, peer.ErrInvalidPeer) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return err
	}

	hosts := make([]string, len(peers))
	for i, pr := range peers {
		hosts[i] = pr.Host
	}

	resp := registered{
		Message:    "New nodes have been added",
		TotalNodes: hosts,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// ResolveNodes runs the consensus algorithm against the known nodes.
func (h Handlers) ResolveNodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	replaced, chain, err := h.State.ResolveConflicts(ctx)
	if err != nil {
		return err
	}

	resp := resolved{
		Message:  "Our chain is authoritative",
		Replaced: replaced,
		Chain:    chain,
	}
	if replaced {
		resp.Message = "Our chain was replaced"
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Pending returns the transactions waiting to be mined.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pending := h.State.RetrievePending()

	trans := make([]tx, len(pending))
	for i, tran := range pending {
		trans[i] = h.toTx(tran)
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Genesis returns the consensus parameters of the node.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveGenesis(), http.StatusOK)
}

// Block returns a single block by index. The index "latest" returns the tip.
func (h Handlers) Block(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index := state.QueryLatest

	if param := web.Param(r, "index"); param != "latest" {
		n, err := strconv.ParseUint(param, 10, 64)
		if err != nil {
			return errs.NewTrusted(errors.New("invalid block index"), http.StatusBadRequest)
		}
		index = n
	}

	block, err := h.State.QueryBlock(index)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return err
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// BlocksByAccount returns the blocks holding transactions for the account.
// The account can be given by name if the name service knows it.
func (h Handlers) BlocksByAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	identity := web.Param(r, "account")
	if acct, exists := h.NS.Account(identity); exists {
		identity = acct
	}

	blocks := h.State.QueryBlocksByAccount(identity)
	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Accounts returns the accounts known to the name service.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	names := h.NS.Copy()

	accts := make([]account, 0, len(names))
	for acct, name := range names {
		accts = append(accts, account{Account: acct, Name: name})
	}
	sort.Slice(accts, func(i, j int) bool { return accts[i].Name < accts[j].Name })

	return web.Respond(ctx, w, accts, http.StatusOK)
}

// toTx decorates a transaction with the names of the parties.
func (h Handlers) toTx(tran database.Tx) tx {
	return tx{
		Sender:        tran.Sender,
		SenderName:    h.name(tran.Sender),
		Recipient:     tran.Recipient,
		RecipientName: h.name(tran.Recipient),
		Amount:        tran.Amount,
	}
}

// name returns the registered name for the identity or empty.
func (h Handlers) name(identity string) string {
	if name := h.NS.Lookup(identity); name != identity {
		return name
	}
	return ""
}
