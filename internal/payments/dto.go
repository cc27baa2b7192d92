package payments

import "time"

type ProcessPaymentRequest struct {
	BookingIDs    []string `json:"booking_ids" binding:"required,min=1"`
	PaymentMethod string   `json:"payment_method" binding:"required"`

	// Method details, all optional depending on the instrument.
	CardLastFourDigits string `json:"card_last_four_digits,omitempty"`
	CardType           string `json:"card_type,omitempty"`
	BankName           string `json:"bank_name,omitempty"`
	UpiID              string `json:"upi_id,omitempty"`
	WalletName         string `json:"wallet_name,omitempty"`
}

type UpdatePaymentRequest struct {
	CardLastFourDigits string `json:"card_last_four_digits,omitempty"`
	CardType           string `json:"card_type,omitempty"`
	BankName           string `json:"bank_name,omitempty"`
	UpiID              string `json:"upi_id,omitempty"`
	WalletName         string `json:"wallet_name,omitempty"`
}

// PaymentResult is the outcome of a charge attempt. Success false with a nil
// error means the gateway declined, which is a normal business outcome.
type PaymentResult struct {
	TransactionID string        `json:"transaction_id"`
	Reference     string        `json:"reference"`
	BookingIDs    []string      `json:"booking_ids"`
	Status        PaymentStatus `json:"status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Amount        float64       `json:"amount"`
	Message       string        `json:"message"`
	Success       bool          `json:"success"`
	ProcessedAt   time.Time     `json:"processed_at"`
}

type PaymentResponse struct {
	ID                   string        `json:"id"`
	TransactionID        string        `json:"transaction_id"`
	Status               PaymentStatus `json:"status"`
	PaymentMethod        PaymentMethod `json:"payment_method"`
	TransactionReference string        `json:"transaction_reference"`
	TotalPrice           float64       `json:"total_price"`
	PaymentDate          time.Time     `json:"payment_date"`
	Message              string        `json:"message"`
	Success              bool          `json:"success"`
}

func ToPaymentResponse(p *Payment) PaymentResponse {
	return PaymentResponse{
		ID:                   p.ID.String(),
		TransactionID:        p.TransactionID.String(),
		Status:               p.Status,
		PaymentMethod:        p.PaymentMethod,
		TransactionReference: p.TransactionReference,
		TotalPrice:           p.TotalPrice,
		PaymentDate:          p.PaymentDate,
		Message:              p.GatewayResponseMessage,
		Success:              p.Status == PaymentCompleted,
	}
}
