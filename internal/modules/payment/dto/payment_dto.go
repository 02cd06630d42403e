package dto

import "anoa.com/desainhub/internal/entity"

type PaymentSummaryResponse struct {
	TotalIncome     int64 `json:"total_income"`
	PendingAmount   int64 `json:"pending_amount"`
	ConfirmedAmount int64 `json:"confirmed_amount"`
	PaymentCount    int64 `json:"payment_count"`
}

type PaymentListResponse struct {
	Data []entity.Payment `json:"data"`
}
