package types

import "fmt"

// APIError is an error that maps directly to an HTTP response. The global
// fiber error handler renders it; services return the sentinels below (or
// wrap them) so handlers never match on message strings.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// NewAPIError builds a one-off APIError for cases not covered by a sentinel.
func NewAPIError(code int, message, errType string) *APIError {
	return &APIError{Code: code, Message: message, Type: errType}
}

// Sentinel errors for the linking and role subsystem. Compared with
// errors.Is; the stored Code drives the HTTP status.
var (
	ErrInvitationNotFound = &APIError{Code: 404, Message: "Invitation not found", Type: "link.invitation.notfound"}
	ErrInvitationExpired  = &APIError{Code: 400, Message: "Invitation has expired", Type: "link.invitation.expired"}
	ErrInvitationUsed     = &APIError{Code: 400, Message: "Invitation has already been used", Type: "link.invitation.used"}
	ErrNotInviter         = &APIError{Code: 403, Message: "Only the invitation creator can cancel it", Type: "link.invitation.forbidden"}

	ErrUserNotFound = &APIError{Code: 404, Message: "User not found", Type: "user.notfound"}
	ErrLinkNotFound = &APIError{Code: 404, Message: "Link not found", Type: "link.notfound"}

	ErrInvalidRolePair    = &APIError{Code: 400, Message: "Caregiver can only link carereceiver and vice versa", Type: "link.role.invalid"}
	ErrNotCarereceivers   = &APIError{Code: 400, Message: "Both inviter and invitee must be carereceiver at the time of acceptance", Type: "link.role.invalid"}
	ErrAlreadyWatched     = &APIError{Code: 400, Message: "Invitee already has a linked caregiver", Type: "link.role.invalid"}
	ErrCaregiverOccupied  = &APIError{Code: 400, Message: "Caregiver can only link to one carereceiver", Type: "link.role.invalid"}
	ErrSelfLink           = &APIError{Code: 400, Message: "Cannot link to yourself", Type: "link.role.invalid"}
	ErrLinkAlreadyExists  = &APIError{Code: 400, Message: "Link already exists", Type: "link.duplicate"}
	ErrHasActiveLinks     = &APIError{Code: 400, Message: "Cannot change role while linked to another user", Type: "role.active_links"}
	ErrNoLinkedCarereceiver = &APIError{Code: 400, Message: "No linked carereceiver found for caregiver", Type: "authz.no_carereceiver"}

	ErrEmailRegistered = &APIError{Code: 400, Message: "Email already registered", Type: "auth.email.duplicate"}
	ErrBadCredentials  = &APIError{Code: 401, Message: "Incorrect email or password", Type: "auth.credentials"}
)
