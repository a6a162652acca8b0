package domain

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
	StatusPending Status = "PENDING"
)

// Callback is one payment-status notification from the gateway. It is
// untrusted until the signature verifies.
type Callback struct {
	ReferenceID   string `json:"reference_id"`
	MerchantID    string `json:"merchant_id"`
	Amount        int64  `json:"amount"`
	Fee           int64  `json:"fee"`
	Status        string `json:"status"`
	PaidAt        string `json:"paid_at"`
	Signature     string `json:"signature"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
}

// Order is the gateway's answer to an order-creation request. It lives only
// until the reply message is sent; the gateway is the system of record.
type Order struct {
	ReferenceID    string
	Amount         int64
	Channel        string
	PayURL         string
	QRLink         string
	ReceivedAmount int64
}
