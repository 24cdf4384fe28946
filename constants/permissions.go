package constants

// Organization permissions
const (
	// Admin permissions
	PermSuperAdminFull = "guest-messaging.super-admin.full-permit"
	PermManagerFull    = "guest-messaging.manager.full-permit"

	// Messaging permissions
	PermInboxRead = "guest-messaging.inbox.read"
	PermInboxSend = "guest-messaging.inbox.send"

	// Special permissions
	PermAny = "any"
)

// Permission groups for convenience
var (
	InboxReadPermissions = []string{
		PermSuperAdminFull,
		PermManagerFull,
		PermInboxRead,
	}

	InboxSendPermissions = []string{
		PermSuperAdminFull,
		PermManagerFull,
		PermInboxSend,
	}
)
