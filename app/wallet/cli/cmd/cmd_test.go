package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Commands(t *testing.T) {
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = nil
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&got)
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/transactions/new":
			if got["sender"] == "" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"data validation error","fields":{"sender":"sender is a required field"}}`))
				return
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"message":"Transaction will be added to Block 2","index":2}`))

		case "/v1/nodes/register":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"message":"New nodes have been added","total_nodes":["node1:9080"]}`))

		case "/v1/mine":
			w.Write([]byte(`{"message":"New Block Forged","index":2}`))

		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"not found"}`))
		}
	}))
	defer srv.Close()

	type table struct {
		name   string
		args   []string
		output string
		fail   bool
	}

	tt := []table{
		{name: "send", args: []string{"send", "--url", srv.URL, "--from", "alice", "--to", "bob", "--amount", "5"}, output: "Transaction will be added to Block 2"},
		{name: "register", args: []string{"register", "--url", srv.URL, "node1:9080"}, output: "New nodes have been added"},
		{name: "mine", args: []string{"mine", "--url", srv.URL}, output: "New Block Forged"},
		{name: "chain-missing", args: []string{"chain", "--url", srv.URL}, fail: true},
	}

	t.Log("Given the need to drive a node from the command line.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen running %q.", testID, tst.name)
			{
				f := func(t *testing.T) {
					var out bytes.Buffer
					rootCmd.SetOut(&out)
					rootCmd.SetErr(&out)
					rootCmd.SetArgs(tst.args)

					err := rootCmd.Execute()
					if tst.fail {
						if err == nil {
							t.Fatalf("\t%s\tTest %d:\tShould fail.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould fail.", success, testID)
						return
					}

					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould run the command: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould run the command.", success, testID)

					if !strings.Contains(out.String(), tst.output) {
						t.Fatalf("\t%s\tTest %d:\tShould print %q, got %q.", failed, testID, tst.output, out.String())
					}
					t.Logf("\t%s\tTest %d:\tShould print the node's message.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}

	t.Logf("\tTest %d:\tWhen the sent transaction is checked.", len(tt))
	{
		rootCmd.SetArgs([]string{"send", "--url", srv.URL, "--from", "carol", "--to", "dave", "--amount", "1.5"})
		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("\t%s\tShould run the command: %v", failed, err)
		}

		if got["sender"] != "carol" || got["recipient"] != "dave" || got["amount"] != 1.5 {
			t.Fatalf("\t%s\tShould post the transaction fields, got %v.", failed, got)
		}
		t.Logf("\t%s\tShould post the transaction fields.", success)
	}
}
