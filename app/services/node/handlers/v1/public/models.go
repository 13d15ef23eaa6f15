package public

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// newTx is the payload clients post to submit a transaction. Amount is a
// pointer so a missing amount can be told apart from a zero amount.
type newTx struct {
	Sender    string   `json:"sender" validate:"required"`
	Recipient string   `json:"recipient" validate:"required"`
	Amount    *float64 `json:"amount" validate:"required"`
}

type txReceipt struct {
	Message string `json:"message"`
	Index   uint64 `json:"index"`
}

type minedBlock struct {
	Message      string        `json:"message"`
	Index        uint64        `json:"index"`
	Timestamp    float64       `json:"timestamp"`
	Transactions []database.Tx `json:"transactions"`
	Proof        uint64        `json:"proof"`
	PreviousHash string        `json:"previous_hash"`
	Hash         string        `json:"hash"`
	Reward       database.Tx   `json:"reward"`
}

type registerNodes struct {
	Nodes []string `json:"nodes" validate:"required,min=1,dive,required"`
}

type registered struct {
	Message    string   `json:"message"`
	TotalNodes []string `json:"total_nodes"`
}

type resolved struct {
	Message  string           `json:"message"`
	Replaced bool             `json:"replaced"`
	Chain    []database.Block `json:"chain"`
}

type tx struct {
	Sender        string  `json:"sender"`
	SenderName    string  `json:"sender_name,omitempty"`
	Recipient     string  `json:"recipient"`
	RecipientName string  `json:"recipient_name,omitempty"`
	Amount        float64 `json:"amount"`
}

type account struct {
	Account string `json:"account"`
	Name    string `json:"name"`
}
