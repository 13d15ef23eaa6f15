package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/app/services/node/handlers"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/database/storage/memory"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// difficulty keeps mining fast in these tests.
const difficulty = 2

// =============================================================================

type unreachable struct{}

func (unreachable) FetchChain(ctx context.Context, pr peer.Peer) ([]database.Block, error) {
	return nil, errors.New("connection refused")
}

func (unreachable) FetchStatus(ctx context.Context, pr peer.Peer) (peer.PeerStatus, error) {
	return peer.PeerStatus{}, errors.New("connection refused")
}

// =============================================================================

func Test_PublicAPI(t *testing.T) {
	st, public, private := newMuxes(t)

	t.Log("Given the need to drive the ledger over the public API.")
	{
		t.Logf("\tTest 0:\tWhen submitting a valid transaction.")
		{
			w := call(public, http.MethodPost, "/v1/transactions/new", `{"sender":"alice","recipient":"bob","amount":5}`)
			if w.Code != http.StatusCreated {
				t.Fatalf("\t%s\tTest 0:\tShould receive a 201, got %d: %s", failed, w.Code, w.Body)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a 201.", success)

			var resp struct {
				Message string `json:"message"`
				Index   uint64 `json:"index"`
			}
			decode(t, w, &resp)

			if resp.Message != "Transaction will be added to Block 2" || resp.Index != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould be promised block 2, got %q.", failed, resp.Message)
			}
			t.Logf("\t%s\tTest 0:\tShould be promised block 2.", success)
		}

		t.Logf("\tTest 1:\tWhen submitting transactions with bad input.")
		{
			bodies := []string{
				`{"sender":"alice","recipient":"bob"}`,
				`{"sender":"","recipient":"bob","amount":1}`,
				`{"sender":"alice","recipient":"bob","amount":1,"fee":2}`,
				`not json`,
			}

			for _, body := range bodies {
				w := call(public, http.MethodPost, "/v1/transactions/new", body)
				if w.Code != http.StatusBadRequest {
					t.Fatalf("\t%s\tTest 1:\tShould receive a 400 for %s, got %d.", failed, body, w.Code)
				}

				var er errs.Response
				decode(t, w, &er)
				if er.Error == "" {
					t.Fatalf("\t%s\tTest 1:\tShould receive an error message for %s.", failed, body)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould receive a 400 with an error for each.", success)

			if n := st.QueryPendingLength(); n != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould leave one pending transaction, got %d.", failed, n)
			}
			t.Logf("\t%s\tTest 1:\tShould leave the pending pool untouched.", success)
		}

		t.Logf("\tTest 2:\tWhen listing the pending pool.")
		{
			w := call(public, http.MethodGet, "/v1/tx/pending", "")

			var trans []database.Tx
			decode(t, w, &trans)

			if len(trans) != 1 || trans[0].Sender != "alice" || trans[0].Amount != 5 {
				t.Fatalf("\t%s\tTest 2:\tShould list the alice transaction, got %v.", failed, trans)
			}
			t.Logf("\t%s\tTest 2:\tShould list the alice transaction.", success)
		}

		t.Logf("\tTest 3:\tWhen mining a block.")
		{
			w := call(public, http.MethodGet, "/v1/mine", "")
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 3:\tShould receive a 200, got %d: %s", failed, w.Code, w.Body)
			}

			var resp struct {
				Message      string        `json:"message"`
				Index        uint64        `json:"index"`
				Transactions []database.Tx `json:"transactions"`
				Proof        uint64        `json:"proof"`
				PreviousHash string        `json:"previous_hash"`
				Reward       database.Tx   `json:"reward"`
			}
			decode(t, w, &resp)

			if resp.Message != "New Block Forged" || resp.Index != 2 {
				t.Fatalf("\t%s\tTest 3:\tShould forge block 2, got %q %d.", failed, resp.Message, resp.Index)
			}
			t.Logf("\t%s\tTest 3:\tShould forge block 2.", success)

			if !database.ValidProof(difficulty, database.GenesisProof, resp.Proof) {
				t.Fatalf("\t%s\tTest 3:\tShould carry a valid proof, got %d.", failed, resp.Proof)
			}
			t.Logf("\t%s\tTest 3:\tShould carry a valid proof.", success)

			if len(resp.Transactions) != 2 || !resp.Reward.IsReward() || resp.Reward.Recipient != "miner" {
				t.Fatalf("\t%s\tTest 3:\tShould hold the transaction and the reward, got %v.", failed, resp.Transactions)
			}
			t.Logf("\t%s\tTest 3:\tShould hold the transaction and the reward.", success)
		}

		t.Logf("\tTest 4:\tWhen reading the chain.")
		{
			w := call(public, http.MethodGet, "/v1/chain", "")

			var cd database.ChainData
			decode(t, w, &cd)

			if cd.Length != 2 || len(cd.Chain) != 2 {
				t.Fatalf("\t%s\tTest 4:\tShould get a chain of 2, got %d.", failed, cd.Length)
			}
			if !database.IsValidChain(cd.Chain, difficulty) {
				t.Fatalf("\t%s\tTest 4:\tShould get a valid chain.", failed)
			}
			t.Logf("\t%s\tTest 4:\tShould get the valid chain of 2.", success)
		}

		t.Logf("\tTest 5:\tWhen reading single blocks.")
		{
			paths := map[string]int{
				"/v1/blocks/1":      http.StatusOK,
				"/v1/blocks/latest": http.StatusOK,
				"/v1/blocks/99":     http.StatusNotFound,
				"/v1/blocks/abc":    http.StatusBadRequest,
			}

			for path, code := range paths {
				if w := call(public, http.MethodGet, path, ""); w.Code != code {
					t.Fatalf("\t%s\tTest 5:\tShould receive %d for %s, got %d.", failed, code, path, w.Code)
				}
			}
			t.Logf("\t%s\tTest 5:\tShould receive the expected codes.", success)
		}

		t.Logf("\tTest 6:\tWhen registering nodes.")
		{
			if w := call(public, http.MethodPost, "/v1/nodes/register", `{"nodes":[]}`); w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 6:\tShould reject an empty list, got %d.", failed, w.Code)
			}
			if w := call(public, http.MethodPost, "/v1/nodes/register", `{"nodes":["bad host"]}`); w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 6:\tShould reject a bad address, got %d.", failed, w.Code)
			}
			t.Logf("\t%s\tTest 6:\tShould reject bad input.", success)

			w := call(public, http.MethodPost, "/v1/nodes/register", `{"nodes":["http://node1:9080","node2:9080","node1:9080"]}`)
			if w.Code != http.StatusCreated {
				t.Fatalf("\t%s\tTest 6:\tShould receive a 201, got %d: %s", failed, w.Code, w.Body)
			}

			var resp struct {
				Message    string   `json:"message"`
				TotalNodes []string `json:"total_nodes"`
			}
			decode(t, w, &resp)

			if resp.Message != "New nodes have been added" || strings.Join(resp.TotalNodes, ",") != "node1:9080,node2:9080" {
				t.Fatalf("\t%s\tTest 6:\tShould list both nodes once, got %v.", failed, resp.TotalNodes)
			}
			t.Logf("\t%s\tTest 6:\tShould list both nodes once.", success)
		}

		t.Logf("\tTest 7:\tWhen resolving against unreachable nodes.")
		{
			w := call(public, http.MethodGet, "/v1/nodes/resolve", "")

			var resp struct {
				Message  string           `json:"message"`
				Replaced bool             `json:"replaced"`
				Chain    []database.Block `json:"chain"`
			}
			decode(t, w, &resp)

			if resp.Replaced || resp.Message != "Our chain is authoritative" || len(resp.Chain) != 2 {
				t.Fatalf("\t%s\tTest 7:\tShould keep the local chain, got %q.", failed, resp.Message)
			}
			t.Logf("\t%s\tTest 7:\tShould keep the local chain.", success)
		}

		t.Logf("\tTest 8:\tWhen a peer asks for the chain and status.")
		{
			var cd database.ChainData
			decode(t, call(private, http.MethodGet, "/v1/node/chain", ""), &cd)

			if cd.Length != 2 {
				t.Fatalf("\t%s\tTest 8:\tShould serve the chain, got %d.", failed, cd.Length)
			}
			t.Logf("\t%s\tTest 8:\tShould serve the chain.", success)

			var status peer.PeerStatus
			decode(t, call(private, http.MethodGet, "/v1/node/status", ""), &status)

			if status.Length != 2 || status.LatestBlockIndex != 2 || status.LatestBlockHash != st.RetrieveLatestBlock().Hash() {
				t.Fatalf("\t%s\tTest 8:\tShould serve the status, got %+v.", failed, status)
			}
			t.Logf("\t%s\tTest 8:\tShould serve the status.", success)
		}
	}
}

func Test_DebugMux(t *testing.T) {
	st, _, _ := newMuxes(t)
	mux := handlers.DebugMux("test", zap.NewNop().Sugar(), st)

	t.Log("Given the need to check the health of the node.")
	{
		for testID, path := range []string{"/debug/readiness", "/debug/liveness"} {
			t.Logf("\tTest %d:\tWhen calling %s.", testID, path)
			{
				if w := call(mux, http.MethodGet, path, ""); w.Code != http.StatusOK {
					t.Fatalf("\t%s\tTest %d:\tShould receive a 200, got %d.", failed, testID, w.Code)
				}
				t.Logf("\t%s\tTest %d:\tShould receive a 200.", success, testID)
			}
		}
	}
}

// =============================================================================

func newMuxes(t *testing.T) (*state.State, http.Handler, http.Handler) {
	t.Helper()

	storage, err := memory.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct storage: %v", failed, err)
	}

	gen := genesis.Default()
	gen.Difficulty = difficulty

	st, err := state.New(state.Config{
		MinerAccount: "miner",
		Host:         "localhost:9080",
		Genesis:      gen,
		Storage:      storage,
		Fetcher:      unreachable{},
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct state: %v", failed, err)
	}

	ns, err := nameservice.New(t.TempDir())
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct name service: %v", failed, err)
	}

	cfg := handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		State:    st,
		NS:       ns,
		Evts:     events.New(),
	}

	return st, handlers.PublicMux(cfg), handlers.PrivateMux(cfg)
}

func call(h http.Handler, method string, path string, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()

	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("\t%s\tShould be able to decode the response %d: %v", failed, w.Code, err)
	}
}
