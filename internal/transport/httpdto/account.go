package httpdto

// CreateAccountRequest is used for POST /v1/accounts
type CreateAccountRequest struct {
	Name string `json:"name"`
}

// DisplayNameResponse is returned by GET /v1/accounts/display-name
type DisplayNameResponse struct {
	DisplayName string `json:"displayName"`
}
