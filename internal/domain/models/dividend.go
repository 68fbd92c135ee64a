package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DividendTerm describes one declared dividend event. DeclaredAmount is the
// per-share amount in Currency. ScripIssuePrice is zero when no scrip
// alternative is offered. Uncertain marks declarations that are announced but
// not yet confirmed by the issuer.
type DividendTerm struct {
	ExDate          time.Time       `json:"ex_date"`
	PayDate         time.Time       `json:"pay_date"`
	Currency        string          `json:"currency" validate:"required,len=3"`
	DeclaredAmount  decimal.Decimal `json:"declared_amount"`
	ScripIssuePrice decimal.Decimal `json:"scrip_issue_price,omitempty"`
	Uncertain       bool            `json:"uncertainty_flag"`
}

func (t DividendTerm) Validate() error {
	if len(t.Currency) != 3 {
		return &ValidationError{Field: "dividend_term.currency", Reason: "currency must be an ISO code"}
	}
	if t.ExDate.After(t.PayDate) {
		return &ValidationError{Field: "dividend_term.ex_date", Reason: "ex_date must not be after pay_date"}
	}
	if t.DeclaredAmount.IsNegative() {
		return &ValidationError{Field: "dividend_term.declared_amount", Reason: "declared amount must not be negative"}
	}
	if t.ScripIssuePrice.IsNegative() {
		return &ValidationError{Field: "dividend_term.scrip_issue_price", Reason: "scrip issue price must not be negative"}
	}
	return nil
}

// SettlementDays is the number of days between ex-date and pay-date, used for
// carry accrual on borrow-funded positions.
func (t DividendTerm) SettlementDays() float64 {
	return t.PayDate.Sub(t.ExDate).Hours() / 24
}
