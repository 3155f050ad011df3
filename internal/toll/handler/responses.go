package handler

import (
	"github.com/shopspring/decimal"

	"tollgate/internal/toll"
)

// ProcessResponse is the HTTP response body for POST /toll/process. Monetary
// fields marshal as decimal strings and appear only when the status carries
// them.
type ProcessResponse struct {
	Status   string           `json:"status"`
	Amount   *decimal.Decimal `json:"amount_charged,omitempty"`
	Required *decimal.Decimal `json:"amount_required,omitempty"`
	Balance  *decimal.Decimal `json:"account_balance,omitempty"`
	Message  string           `json:"message,omitempty"`
	Details  string           `json:"details,omitempty"`
}

func FromResult(res toll.DecisionResult) ProcessResponse {
	return ProcessResponse{
		Status:   string(res.Status),
		Amount:   res.Amount,
		Required: res.Required,
		Balance:  res.Balance,
		Message:  res.Message,
		Details:  res.Details,
	}
}
