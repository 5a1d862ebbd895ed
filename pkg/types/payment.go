package types

// PaymentState is the lifecycle state of a payment.
type PaymentState string

const (
	PaymentStatePending    PaymentState = "pending"
	PaymentStateApproved   PaymentState = "approved"
	PaymentStateCompleted  PaymentState = "completed"
	PaymentStateFailed     PaymentState = "failed"
	PaymentStateRefunded   PaymentState = "refunded"
	PaymentStateAuthorized PaymentState = "authorized"
	PaymentStateVoided     PaymentState = "voided"
)

var PaymentStates = []PaymentState{
	PaymentStatePending,
	PaymentStateApproved,
	PaymentStateCompleted,
	PaymentStateFailed,
	PaymentStateRefunded,
	PaymentStateAuthorized,
	PaymentStateVoided,
}

// Captured reports whether funds have been taken and not returned.
func (s PaymentState) Captured() bool {
	return s == PaymentStateApproved || s == PaymentStateCompleted
}

// TransactionIntent records which provider operation produced a payment transaction.
type TransactionIntent string

const (
	TransactionIntentSale   TransactionIntent = "sale"
	TransactionIntentRefund TransactionIntent = "refund"
	TransactionIntentVoid   TransactionIntent = "void"
)

type CampaignState string

const (
	CampaignStateActive     CampaignState = "active"
	CampaignStateCollecting CampaignState = "collecting"
	CampaignStateCollected  CampaignState = "collected"
)

type PaymentProvider string

const (
	PaymentProviderGateway PaymentProvider = "gateway"
)
