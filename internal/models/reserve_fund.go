package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a reserve fund movement
type TransactionType string

const (
	TypeDeposit    TransactionType = "DEPOSIT"
	TypeWithdrawal TransactionType = "WITHDRAWAL"
	TypeTransfer   TransactionType = "TRANSFER"
	TypeAllocation TransactionType = "ALLOCATION"
	TypeAdjustment TransactionType = "ADJUSTMENT"
	TypeInterest   TransactionType = "INTEREST"
	TypeFee        TransactionType = "FEE"
	TypeRefund     TransactionType = "REFUND"
)

// IsCredit reports whether the type adds to the reserve
func (t TransactionType) IsCredit() bool {
	return t == TypeDeposit || t == TypeInterest || t == TypeRefund
}

// IsDebit reports whether the type takes from the reserve
func (t TransactionType) IsDebit() bool {
	return t == TypeWithdrawal || t == TypeFee
}

func (t TransactionType) Valid() bool {
	switch t {
	case TypeDeposit, TypeWithdrawal, TypeTransfer, TypeAllocation,
		TypeAdjustment, TypeInterest, TypeFee, TypeRefund:
		return true
	}
	return false
}

// FundStatus is the lifecycle state of a reserve fund record
type FundStatus string

const (
	StatusActive    FundStatus = "ACTIVE"
	StatusPending   FundStatus = "PENDING"
	StatusFrozen    FundStatus = "FROZEN"
	StatusBlocked   FundStatus = "BLOCKED"
	StatusCompleted FundStatus = "COMPLETED"
	StatusFailed    FundStatus = "FAILED"
	StatusCancelled FundStatus = "CANCELLED"
)

// CanBeModified reports whether the record is in a mutable state
func (s FundStatus) CanBeModified() bool {
	return s == StatusActive || s == StatusPending
}

// IsTerminal reports whether the record has reached a final state
func (s FundStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

func (s FundStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPending, StatusFrozen, StatusBlocked,
		StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// ReserveFund is a single movement on a user's reserve balance.
// Amount is always positive; direction is carried by TransactionType and
// the signed Balance contribution. A user's total balance is the sum of
// Balance across all of the user's records.
type ReserveFund struct {
	ID                 int64           `json:"id" db:"id"`
	Reference          string          `json:"reference" db:"reference"`
	UserID             int64           `json:"userId" db:"user_id"`
	Amount             decimal.Decimal `json:"amount" db:"amount"`
	Balance            decimal.Decimal `json:"balance" db:"balance"`
	Currency           string          `json:"currency" db:"currency"`
	TransactionType    TransactionType `json:"transactionType" db:"transaction_type"`
	Status             FundStatus      `json:"status" db:"status"`
	Description        string          `json:"description,omitempty" db:"description"`
	SourceAccount      string          `json:"sourceAccount,omitempty" db:"source_account"`
	DestinationAccount string          `json:"destinationAccount,omitempty" db:"destination_account"`
	CreatedAt          time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt          *time.Time      `json:"updatedAt,omitempty" db:"updated_at"`
	CreatedBy          string          `json:"createdBy,omitempty" db:"created_by"`
	UpdatedBy          string          `json:"updatedBy,omitempty" db:"updated_by"`
}
