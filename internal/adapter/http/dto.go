package http

import (
	"strconv"

	"brewlend-backend/internal/domain/order"
	"brewlend-backend/internal/usecase/interest"
)

// Wire shapes for the query surface. Every monetary amount crosses the
// boundary as a decimal-string integer so arbitrary precision survives
// transport.

type orderDTO struct {
	OrderID           string `json:"orderId"`
	Borrower          string `json:"borrower"`
	Lender            string `json:"lender"`
	NFTContract       string `json:"nftContract"`
	TokenID           string `json:"tokenId"`
	LoanAmount        string `json:"loanAmount"`
	InterestRate      string `json:"interestRate"`
	Duration          string `json:"duration"`
	CreatedAt         string `json:"createdAt"`
	FundedAt          string `json:"fundedAt"`
	RepaymentDeadline string `json:"repaymentDeadline"`
	Status            string `json:"status"`
	StatusLabel       string `json:"statusLabel"`

	// Pre-rendered display strings so clients don't reimplement token math.
	LoanAmountDisplay   string `json:"loanAmountDisplay"`
	InterestRateDisplay string `json:"interestRateDisplay"`
	DurationDisplay     string `json:"durationDisplay"`
}

func toOrderDTO(o *order.Order) orderDTO {
	return orderDTO{
		OrderID:           strconv.FormatUint(o.OrderID, 10),
		Borrower:          order.CanonicalAddress(o.Borrower),
		Lender:            order.CanonicalAddress(o.Lender),
		NFTContract:       order.CanonicalAddress(o.Collateral.Contract),
		TokenID:           strconv.FormatUint(o.Collateral.TokenID, 10),
		LoanAmount:        o.Principal.String(),
		InterestRate:      strconv.FormatUint(o.InterestRateBps, 10),
		Duration:          strconv.FormatUint(o.DurationSeconds, 10),
		CreatedAt:         strconv.FormatInt(o.CreatedAt, 10),
		FundedAt:          strconv.FormatInt(o.FundedAt, 10),
		RepaymentDeadline: strconv.FormatInt(o.RepaymentDeadline, 10),
		Status:            strconv.Itoa(int(o.Status)),
		StatusLabel:       o.Status.String(),

		LoanAmountDisplay:   order.FormatAmount(o.Principal),
		InterestRateDisplay: order.FormatRateBps(o.InterestRateBps),
		DurationDisplay:     order.FormatDuration(o.DurationSeconds),
	}
}

func toOrderDTOs(orders []order.Order) []orderDTO {
	out := make([]orderDTO, len(orders))
	for i := range orders {
		out[i] = toOrderDTO(&orders[i])
	}
	return out
}

type repaymentDTO struct {
	LoanAmount      string `json:"loanAmount"`
	InterestAmount  string `json:"interestAmount"`
	RepaymentAmount string `json:"repaymentAmount"`
	PlatformFee     string `json:"platformFee"`
	TotalRepayment  string `json:"totalRepayment"`
	Source          string `json:"source"`
}

func toRepaymentDTO(bd *interest.Breakdown, src order.Source) repaymentDTO {
	return repaymentDTO{
		LoanAmount:      bd.Principal.String(),
		InterestAmount:  bd.Interest.String(),
		RepaymentAmount: bd.PrincipalPlusInterest.String(),
		PlatformFee:     bd.PlatformFee.String(),
		TotalRepayment:  bd.TotalDue.String(),
		Source:          string(src),
	}
}

type actionResponse struct {
	OrderID   string        `json:"orderId"`
	Action    string        `json:"action"`
	TxHash    string        `json:"txHash"`
	Repayment *repaymentDTO `json:"repayment,omitempty"`
}
