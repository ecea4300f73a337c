package payment

import "github.com/oklog/ulid/v2"

// ReceiptPrefix starts every receipt token handed to the gateway.
const ReceiptPrefix = "rcpt_"

// NewReceipt returns a receipt token that is unique within the process and
// sortable by creation time. ulid.Make is monotonic and safe for concurrent use.
func NewReceipt() string {
	return ReceiptPrefix + ulid.Make().String()
}
