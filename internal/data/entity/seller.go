package entity

// Seller is a marketplace seller account, authenticated by phone OTP through
// the seller portal. ProfileComplete mirrors whether onboarding (shop name,
// contact email) has finished; the storefront uses it to branch between the
// login and registration UX.
type Seller struct {
	Base
	PhoneNumber     string  `db:"phone_number"`
	Name            *string `db:"name"`
	ShopName        *string `db:"shop_name"`
	Email           *string `db:"email"`
	ProfileComplete bool    `db:"profile_complete"`
}
