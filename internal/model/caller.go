package model

// Role is the platform role carried in the caller's access token.  The
// booking engine only distinguishes operators and organizers from every
// other role; the remaining roles (participant, judge, sponsor, ...) are
// treated as plain guests who may only act on their own bookings.
type Role string

const (
	RoleAdmin       Role = "admin"       // platform operator
	RoleOrganizer   Role = "organizer"   // event organizer
	RoleParticipant Role = "participant" // registered attendee
)

// Caller is the authenticated identity attached to every request by the
// JWT middleware.
//
// Fields:
//  UserID – the token subject (users.id of the wider platform).
//  Role   – the role claim.
type Caller struct {
	UserID uint64
	Role   Role
}

// IsOperator reports whether the caller is the platform operator.
func (c Caller) IsOperator() bool { return c.Role == RoleAdmin }

// IsStaff reports whether the caller may manage bookings they do not own.
func (c Caller) IsStaff() bool { return c.Role == RoleAdmin || c.Role == RoleOrganizer }

// CanAccess reports whether the caller may read or act on a resource
// owned by ownerID.
func (c Caller) CanAccess(ownerID uint64) bool {
	return c.IsStaff() || (c.UserID != 0 && c.UserID == ownerID)
}
