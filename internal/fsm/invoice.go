package fsm

// Status constants used by the invoice state machine.
const (
	InvoiceDraft     = "draft"
	InvoiceSent      = "sent"
	InvoicePaid      = "paid"
	InvoiceOverdue   = "overdue"
	InvoiceCancelled = "cancelled"
)

var invoiceTransitions = map[string]map[string]struct{}{
	InvoiceDraft: {
		InvoiceSent:      {},
		InvoiceCancelled: {},
	},
	InvoiceSent: {
		InvoicePaid:      {},
		InvoiceOverdue:   {},
		InvoiceCancelled: {},
	},
	InvoiceOverdue: {
		InvoicePaid:      {},
		InvoiceCancelled: {},
	},
	InvoicePaid:      {},
	InvoiceCancelled: {},
}

// InvoiceCanTransition reports whether an invoice may move from one status
// to another. Self-transitions are rejected for the same reason as on
// projects.
func InvoiceCanTransition(from, to string) bool {
	if from == to {
		return false
	}
	allowed, ok := invoiceTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// IsInvoiceStatus reports whether s is a known invoice status.
func IsInvoiceStatus(s string) bool {
	_, ok := invoiceTransitions[s]
	return ok
}

// InvoiceIsTerminal reports whether no outgoing transitions remain.
func InvoiceIsTerminal(status string) bool {
	return len(invoiceTransitions[status]) == 0
}
