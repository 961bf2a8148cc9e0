package events

// Event type codes published on the bus.
const (
	TypeUserRegistered    = "USER_REGISTERED"
	TypeEnquiryReceived   = "NEW_ENQUIRY"
	TypeAccountRolledBack = "ACCOUNT_ROLLED_BACK"
)

// NewUserRegistered is emitted once a user account exists in every backend.
func NewUserRegistered(userID, username string, consultingType int) Event {
	return New(TypeUserRegistered, map[string]interface{}{
		"user_id":         userID,
		"username":        username,
		"consulting_type": consultingType,
	})
}

// NewEnquiryReceived is emitted when a session's first enquiry message has
// been committed.
func NewEnquiryReceived(sessionID, groupID string, agencyID int64) Event {
	return New(TypeEnquiryReceived, map[string]interface{}{
		"session_id": sessionID,
		"group_id":   groupID,
		"agency_id":  agencyID,
	})
}

// NewAccountRolledBack is emitted after a failed registration workflow has
// been compensated. Consumers use it for alerting, not for cleanup.
func NewAccountRolledBack(userID string, reason string) Event {
	return New(TypeAccountRolledBack, map[string]interface{}{
		"user_id": userID,
		"reason":  reason,
	})
}
