package payments

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction is one charge attempt against the gateway. A transaction may
// settle several bookings at once; the per-booking split lives in
// TransactionBooking rows.
type Transaction struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	ScheduleID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"schedule_id"`
	TotalAmount   float64           `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	PaymentMethod PaymentMethod     `gorm:"type:varchar(20);not null" json:"payment_method"`
	Reference     string            `gorm:"type:varchar(64);not null;uniqueIndex" json:"reference"`
	Status        TransactionStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Active        bool              `gorm:"not null" json:"active"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	Bookings []TransactionBooking `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"bookings,omitempty"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (Transaction) TableName() string {
	return "transactions"
}

// TransactionBooking assigns a slice of a transaction's amount to one
// booking. The amounts of a transaction's rows always sum to its total.
type TransactionBooking struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	TransactionID uuid.UUID         `gorm:"type:uuid;not null;index" json:"transaction_id"`
	BookingID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"booking_id"`
	Amount        float64           `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status        TransactionStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
}

func (tb *TransactionBooking) BeforeCreate(tx *gorm.DB) error {
	if tb.ID == uuid.Nil {
		tb.ID = uuid.New()
	}
	return nil
}

func (TransactionBooking) TableName() string {
	return "transaction_bookings"
}

// Payment is the instrument-level record for a transaction: what was paid
// with, what the gateway answered, and the method details the user supplied.
// Rows are soft-deleted so settled history survives user cleanup.
type Payment struct {
	ID                     uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	TransactionID          uuid.UUID     `gorm:"type:uuid;not null;index" json:"transaction_id"`
	UserID                 uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	TotalPrice             float64       `gorm:"type:decimal(10,2);not null" json:"total_price"`
	PaymentMethod          PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	Status                 PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	TransactionReference   string        `gorm:"type:varchar(64);not null" json:"transaction_reference"`
	GatewayTransactionID   string        `gorm:"type:varchar(64)" json:"gateway_transaction_id,omitempty"`
	GatewayResponseCode    string        `gorm:"type:varchar(32)" json:"gateway_response_code,omitempty"`
	GatewayResponseMessage string        `gorm:"type:varchar(255)" json:"gateway_response_message,omitempty"`
	FailureReason          string        `gorm:"type:varchar(255)" json:"failure_reason,omitempty"`
	PaymentDate            time.Time     `gorm:"not null" json:"payment_date"`
	CardLastFourDigits     string        `gorm:"type:varchar(4)" json:"card_last_four_digits,omitempty"`
	CardType               string        `gorm:"type:varchar(20)" json:"card_type,omitempty"`
	BankName               string        `gorm:"type:varchar(100)" json:"bank_name,omitempty"`
	UpiID                  string        `gorm:"type:varchar(100)" json:"upi_id,omitempty"`
	WalletName             string        `gorm:"type:varchar(50)" json:"wallet_name,omitempty"`
	Deleted                bool          `gorm:"not null;default:false" json:"-"`
	CreatedAt              time.Time     `json:"created_at"`
	UpdatedAt              time.Time     `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Payment) TableName() string {
	return "payments"
}
