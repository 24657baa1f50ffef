package account

// Account is the local messenger account created during onboarding
type Account struct {
	PublicKey   string `json:"publicKey"`
	DisplayName string `json:"displayName"`
	CreatedDate int64  `json:"createdDate"`
}
