package validate_test

import (
	"testing"

	"github.com/ardanlabs/ledger/business/sys/validate"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

type newTx struct {
	Sender    string   `json:"sender" validate:"required"`
	Recipient string   `json:"recipient" validate:"required"`
	Amount    *float64 `json:"amount" validate:"required"`
}

type register struct {
	Nodes []string `json:"nodes" validate:"required,min=1,dive,required"`
}

func Test_Check(t *testing.T) {
	amount := 5.0
	zero := 0.0

	type table struct {
		name   string
		val    any
		fields []string
	}

	tt := []table{
		{name: "valid-tx", val: newTx{Sender: "alice", Recipient: "bob", Amount: &amount}},
		{name: "zero-amount", val: newTx{Sender: "alice", Recipient: "bob", Amount: &zero}},
		{name: "missing-all", val: newTx{}, fields: []string{"sender", "recipient", "amount"}},
		{name: "missing-recipient", val: newTx{Sender: "alice", Amount: &amount}, fields: []string{"recipient"}},
		{name: "valid-nodes", val: register{Nodes: []string{"node1:9080"}}},
		{name: "no-nodes", val: register{}, fields: []string{"nodes"}},
		{name: "empty-node", val: register{Nodes: []string{"node1:9080", ""}}, fields: []string{"nodes[1]"}},
	}

	t.Log("Given the need to validate request models.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen checking %q.", testID, tst.name)
			{
				f := func(t *testing.T) {
					err := validate.Check(tst.val)

					if len(tst.fields) == 0 {
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould pass validation: %v", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould pass validation.", success, testID)
						return
					}

					if !validate.IsFieldErrors(err) {
						t.Fatalf("\t%s\tTest %d:\tShould get field errors, got %v.", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould get field errors.", success, testID)

					fields := validate.GetFieldErrors(err).Fields()
					if len(fields) != len(tst.fields) {
						t.Fatalf("\t%s\tTest %d:\tShould get %d fields, got %v.", failed, testID, len(tst.fields), fields)
					}
					for _, name := range tst.fields {
						if _, exists := fields[name]; !exists {
							t.Fatalf("\t%s\tTest %d:\tShould get an error for %q, got %v.", failed, testID, name, fields)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould get an error for each bad field.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
