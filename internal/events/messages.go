package events

import (
	"encoding/json"
	"time"
)

// Actions carried by ledger events.
const (
	ActionCreated = "created"
	ActionEdited  = "edited"
	ActionDeleted = "deleted"
	ActionVoided  = "voided"
)

// TransactionEvent describes one committed transaction mutation together
// with the account balance after the commit. Consumers use it to mirror the
// ledger elsewhere; the service publishes it only after the store commit, so
// an event never describes a rolled-back write.
type TransactionEvent struct {
	Action        string  `json:"action"`
	TransactionID string  `json:"transaction_id"`
	BankAccountID string  `json:"bank_account_id"`
	Amount        float64 `json:"amount"`
	Balance       float64 `json:"balance"`
	ActorID       string  `json:"actor_id"`
	Timestamp     int64   `json:"timestamp"`
}

// NewTransactionEvent builds an event stamped with the current time.
func NewTransactionEvent(action, transactionID, accountID string, amount, balance float64, actorID string) TransactionEvent {
	return TransactionEvent{
		Action:        action,
		TransactionID: transactionID,
		BankAccountID: accountID,
		Amount:        amount,
		Balance:       balance,
		ActorID:       actorID,
		Timestamp:     time.Now().Unix(),
	}
}

// ToJSON serializes the event for publishing.
func (e TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
