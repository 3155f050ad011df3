package toll

import "github.com/shopspring/decimal"

// Status is the terminal outcome of one toll decision.
type Status string

const (
	StatusInvalidPlaza      Status = "INVALID_PLAZA"
	StatusUnmatched         Status = "UNMATCHED"
	StatusUnmatchedPlate    Status = "UNMATCHED_PLATE"
	StatusUnknownTag        Status = "UNKNOWN_TAG"
	StatusLicenseMissing    Status = "LICENSE_MISSING"
	StatusTagMissing        Status = "TAG_MISSING"
	StatusStolen            Status = "STOLEN"
	StatusBlacklisted       Status = "BLACKLISTED"
	StatusNoRate            Status = "NO_RATE"
	StatusAccountMissing    Status = "ACCOUNT_MISSING"
	StatusTollPaid          Status = "TOLL_PAID"
	StatusPendingToll       Status = "PENDING_TOLL"
	StatusInsufficientFunds Status = "INSUFFICIENT_FUNDS"
	StatusError             Status = "ERROR"
)

// Request identifies one observed crossing. At least one of Plate and TagID
// must be set.
type Request struct {
	PlazaID string
	Plate   string
	TagID   string
}

// DecisionResult is what the transport collaborator receives. Monetary
// fields are populated per status: Amount for TOLL_PAID, Required for the
// shortfall statuses, Balance whenever an account was consulted.
type DecisionResult struct {
	Status   Status
	Amount   *decimal.Decimal
	Required *decimal.Decimal
	Balance  *decimal.Decimal
	Message  string
	Details  string
}
