package domain

// User is a storefront account. Admins are regular users with
// RoleAdmin; the identity provider only tells us who they are, the
// role lives here.
type User struct {
	ID        UserID
	Email     string
	Name      string
	Role      UserRole
	CreatedAt Timestamp

	// ReferralCode is this user's own shareable code.
	// ReferredBy is the code they signed up with, if any.
	ReferralCode string
	ReferredBy   string
}
