package ports

// Metrics records domain outcomes. Implementations must be safe for
// concurrent use.
type Metrics interface {
	LoginAttempted(accepted bool)
	RegistrationAttempted(duplicate bool)
	MessageSent()
	// MessageRead is called only when a message goes from unread to read.
	MessageRead()
}
