package gateway

import "github.com/fatflowers/pledge/pkg/payload"

// SaleID reads transactions[0].related_resources[0].sale.id from a stored
// provider response. Missing or malformed paths report ok=false.
func SaleID(raw []byte) (string, bool) {
	return payload.StringFromRaw(raw, "transactions", 0, "related_resources", 0, "sale", "id")
}

// AuthorizationID reads transactions[0].related_resources[0].authorization.id.
func AuthorizationID(raw []byte) (string, bool) {
	return payload.StringFromRaw(raw, "transactions", 0, "related_resources", 0, "authorization", "id")
}
