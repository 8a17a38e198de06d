package domain

// User identity comes from the external auth provider's token.
// We never store credentials.
type User struct {
	Id          UserId
	DisplayName string
	Admin       bool
}
