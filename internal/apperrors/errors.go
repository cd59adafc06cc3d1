package apperrors

import "net/http"

// Kind classifies a failed precondition so handlers can map it to a stable
// HTTP status without inspecting individual errors.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindForbidden
	KindConflict
	KindValidation
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrBusinessProfileNotFound = New(KindNotFound, "business profile not found")
	ErrUserNotFound            = New(KindNotFound, "user not found")
	ErrInvitationNotFound      = New(KindNotFound, "invitation not found")
	ErrMemberNotFound          = New(KindNotFound, "member not found")

	ErrNotProfileOwner      = New(KindForbidden, "only the profile owner can perform this action")
	ErrInvitationNotForUser = New(KindForbidden, "invitation is addressed to another user")
	ErrCannotRemoveOwner    = New(KindForbidden, "cannot remove the profile owner")

	ErrUserAlreadyMember       = New(KindConflict, "user is already a member of this profile")
	ErrPendingInvitationExists = New(KindConflict, "a pending invitation already exists for this user")

	// Terminal-state failures answer 400, matching the accept/decline contract.
	ErrInvitationAlreadyAccepted = New(KindValidation, "invitation has already been accepted")
	ErrInvitationAlreadyDeclined = New(KindValidation, "invitation has already been declined")
	ErrInvitationNotPending      = New(KindValidation, "invitation is not pending")

	ErrInvalidRole          = New(KindValidation, "role must be admin or editor")
	ErrInvalidStatusFilter  = New(KindValidation, "status filter must be pending, accepted, declined or all")
	ErrMemberNotEditor      = New(KindValidation, "can only promote members with editor role")
	ErrMemberNotAdmin       = New(KindValidation, "can only demote members with admin role")
	ErrProfileAlreadyActive = New(KindValidation, "business profile is already active")
)
