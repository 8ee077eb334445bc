package constants

// Context keys set by the auth middleware
const (
	ContextUserID = "userID"
	ContextUser   = "user"
)

// Error messages
const (
	ErrItemNotFound        = "Item not found"
	ErrUnexpected          = "Unexpected error"
	ErrInvalidID           = "Invalid id"
	ErrInvalidInput        = "Invalid input"
	ErrNothingToUpdate     = "No fields to update"
	ErrAccessDenied        = "Access denied"
	ErrInvalidToken        = "Invalid token"
	ErrEmailExists         = "Email already exists"
	ErrEmailPasswordNeeded = "Email and password are required"
	ErrInvalidLogin        = "Invalid email or password"
	ErrBodyTooLarge        = "Request body too large"
)
