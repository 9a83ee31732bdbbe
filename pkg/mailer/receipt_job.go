package mailer

// ReceiptJob is the JSON payload put on the RabbitMQ receipts queue after a
// settlement completes. The receipt worker renders and sends it.
type ReceiptJob struct {
	To         string   `json:"to"`
	PaymentID  string   `json:"payment_id"`
	Amount     float64  `json:"amount"`
	ClassNames []string `json:"class_names,omitempty"`
	ClassIDs   []string `json:"class_ids"`
}
