package entity

type UserRole string

const (
	RoleCustomer   UserRole = "customer"
	RoleAdmin      UserRole = "admin"
	RoleSuperadmin UserRole = "superadmin"
)

// User is a storefront account. Customers authenticate by phone OTP only;
// back-office accounts (admin/superadmin) additionally carry an email and
// password hash for the admin login.
type User struct {
	Base
	PhoneNumber     string   `db:"phone_number"`
	Name            *string  `db:"name"`
	Email           *string  `db:"email"`
	PasswordHash    *string  `db:"password"`
	Role            UserRole `db:"role"`
	ProfileComplete bool     `db:"profile_complete"`
}

func (u *User) IsBackoffice() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperadmin
}
