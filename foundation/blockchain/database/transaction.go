package database

import (
	"errors"
	"fmt"
	"math"
)

// RewardSender is the sentinel authority used as the sender of the
// transaction that pays a miner for a block.
const RewardSender = "0"

// ErrMalformedTx is returned when a transaction is missing information
// required for it to be placed in the pending pool.
var ErrMalformedTx = errors.New("malformed transaction")

// =============================================================================

// Tx is the transactional information between two parties. The sender and
// recipient are opaque identities, there is no signature or balance involved.
type Tx struct {
	Sender    string  `json:"sender"`    // Identity sending the amount.
	Recipient string  `json:"recipient"` // Identity receiving the amount.
	Amount    float64 `json:"amount"`    // Value moved by this transaction.
}

// NewTx constructs a new transaction.
func NewTx(sender string, recipient string, amount float64) (Tx, error) {
	tx := Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	}

	if err := tx.Validate(); err != nil {
		return Tx{}, err
	}

	return tx, nil
}

// NewRewardTx constructs the transaction crediting the miner of a block.
func NewRewardTx(miner string, reward float64) Tx {
	return Tx{
		Sender:    RewardSender,
		Recipient: miner,
		Amount:    reward,
	}
}

// Validate checks the transaction has every field needed to be hashed into
// a block. Amounts are not bounded, but they must have a JSON representation.
func (tx Tx) Validate() error {
	if tx.Sender == "" {
		return fmt.Errorf("%w: sender is required", ErrMalformedTx)
	}

	if tx.Recipient == "" {
		return fmt.Errorf("%w: recipient is required", ErrMalformedTx)
	}

	if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) {
		return fmt.Errorf("%w: amount %v is not a number", ErrMalformedTx, tx.Amount)
	}

	return nil
}

// IsReward reports whether the transaction was minted by the chain.
func (tx Tx) IsReward() bool {
	return tx.Sender == RewardSender
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%v", tx.Sender, tx.Recipient, tx.Amount)
}
