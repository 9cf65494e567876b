package model

// Status is the workflow state shared by receipts, deliveries and transfers.
// All three follow the same shape: DRAFT → [intermediate] → terminal, with
// CANCELED reachable from any non-terminal state and no way out of a terminal
// state.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusReady     Status = "READY"
	StatusInTransit Status = "IN_TRANSIT"
	StatusDone      Status = "DONE"
	StatusCompleted Status = "COMPLETED"
	StatusCanceled  Status = "CANCELED"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCompleted || s == StatusCanceled
}

// TransitionTable maps a current status to the set of statuses it may move to.
// A status absent from the table (or with an empty slice) is terminal.
type TransitionTable map[Status][]Status

// Allowed reports whether the table permits moving from → to.
func (t TransitionTable) Allowed(from, to Status) bool {
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Sources returns every status from which the table permits moving to `to`.
// Used to build guarded UPDATE predicates (WHERE status IN (...)).
func (t TransitionTable) Sources(to Status) []Status {
	var out []Status
	for from, nexts := range t {
		for _, s := range nexts {
			if s == to {
				out = append(out, from)
				break
			}
		}
	}
	return out
}

var (
	// ReceiptTransitions: DRAFT → READY → DONE, CANCELED from any open state.
	ReceiptTransitions = TransitionTable{
		StatusDraft: {StatusReady, StatusCanceled},
		StatusReady: {StatusDone, StatusCanceled},
	}

	// DeliveryTransitions: DRAFT → DONE, CANCELED from DRAFT.
	DeliveryTransitions = TransitionTable{
		StatusDraft: {StatusDone, StatusCanceled},
	}

	// TransferTransitions: DRAFT → IN_TRANSIT → COMPLETED, completion also
	// allowed straight from DRAFT, CANCELED from any open state.
	TransferTransitions = TransitionTable{
		StatusDraft:     {StatusInTransit, StatusCompleted, StatusCanceled},
		StatusInTransit: {StatusCompleted, StatusCanceled},
	}
)

// MovementType tags a stock movement with the workflow that caused it.
type MovementType string

const (
	MovementReceipt    MovementType = "RECEIPT"
	MovementDelivery   MovementType = "DELIVERY"
	MovementTransfer   MovementType = "TRANSFER"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// OperationType controls the stock direction of a delivery.
type OperationType string

const (
	OperationDecrement OperationType = "DECREMENT"
	OperationIncrement OperationType = "INCREMENT"
)
