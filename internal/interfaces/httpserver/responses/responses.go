// Package responses contains the HTTP response helpers shared by the
// handler surface. Entity payloads serialize the domain types directly; the
// UI consumes the store's shapes as-is.
package responses

// OKResponse is the generic acknowledgment body.
type OKResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id,omitempty"`
}

// NewOKResponse acknowledges a mutation, optionally echoing the affected id.
func NewOKResponse(id string) OKResponse {
	return OKResponse{OK: true, ID: id}
}
