// Package gateway is a client for a Midtrans-compatible payment gateway:
// Snap transaction creation, status polling and notification signatures.
package gateway

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"umrahportal/internal/model"
)

// Item is one line of a Snap transaction.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// Customer identifies the payer on the gateway's hosted page.
type Customer struct {
	FirstName string `json:"first_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// TransactionRequest asks the gateway to open a Snap payment page.
type TransactionRequest struct {
	OrderID     string
	GrossAmount int64
	Customer    Customer
	Items       []Item
}

// Transaction is the Snap token and hosted page URL returned by CreateTransaction.
type Transaction struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// Notification is the body POSTed by the gateway to the webhook. Status
// polling returns the same shape, so it doubles as TransactionStatus.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	TransactionID     string `json:"transaction_id"`
	TransactionTime   string `json:"transaction_time"`
	StatusMessage     string `json:"status_message"`
}

// TransactionStatus is the result of a status poll.
type TransactionStatus = Notification

// Signature computes hex(sha512(order_id + status_code + gross_amount + server_key)).
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// VerifySignature checks n.SignatureKey against serverKey in constant time.
func VerifySignature(n Notification, serverKey string) bool {
	if serverKey == "" || n.SignatureKey == "" {
		return false
	}
	want := Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	got := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

// MapStatus maps a gateway transaction status onto the portal's review status.
// Unknown statuses stay pending so a later notification can settle them.
func MapStatus(transactionStatus, fraudStatus string) model.ReviewStatus {
	switch strings.ToLower(transactionStatus) {
	case "settlement":
		return model.StatusApproved
	case "capture":
		switch strings.ToLower(fraudStatus) {
		case "challenge":
			return model.StatusPending
		case "deny":
			return model.StatusRejected
		default:
			return model.StatusApproved
		}
	case "deny", "cancel", "expire", "failure":
		return model.StatusRejected
	default:
		return model.StatusPending
	}
}
