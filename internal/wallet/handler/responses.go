package handler

// ResolveResponse is the HTTP response for POST /wallet/resolve. Address is
// empty when the identity has no linked wallet.
type ResolveResponse struct {
	Identity string `json:"identity"`
	Address  string `json:"address,omitempty"`
	Found    bool   `json:"found"`
}
