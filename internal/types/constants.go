package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// Membership roles. RoleOwner is never stored as a membership row and is
// never a valid invitation role.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Invitation statuses. Accepted and declined are terminal; cancelled rows are
// soft-deleted and only visible to the retention sweeper.
const (
	InvitationPending   = "pending"
	InvitationAccepted  = "accepted"
	InvitationDeclined  = "declined"
	InvitationCancelled = "cancelled"
)

// StatusFilterAll matches every invitation status in list queries.
const StatusFilterAll = "all"

func ValidInvitationRole(role string) bool {
	return role == RoleAdmin || role == RoleEditor
}

func ValidStatusFilter(status string) bool {
	switch status {
	case "", StatusFilterAll, InvitationPending, InvitationAccepted, InvitationDeclined:
		return true
	}
	return false
}

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
