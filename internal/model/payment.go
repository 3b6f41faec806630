package model

import "time"

// PaymentMethod is how a pilgrim paid for a package.
type PaymentMethod string

const (
	// MethodTransfer is a manual bank transfer confirmed by an uploaded proof.
	MethodTransfer PaymentMethod = "transfer"
	// MethodGateway is paid through the payment gateway and confirmed by its notification.
	MethodGateway PaymentMethod = "gateway"
)

// Payment is one installment or full payment towards a travel package.
type Payment struct {
	ID            string        `json:"id"`
	OrderID       string        `json:"order_id"`
	UserID        string        `json:"user_id"`
	PackageID     string        `json:"package_id"`
	Amount        int64         `json:"amount"`
	Method        PaymentMethod `json:"method"`
	ProofPath     string        `json:"proof_path,omitempty"`
	ProofURL      string        `json:"proof_url,omitempty"`
	Status        ReviewStatus  `json:"status"`
	GatewayStatus string        `json:"gateway_status,omitempty"`
	Note          string        `json:"note,omitempty"`
	ReviewedBy    string        `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time    `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
