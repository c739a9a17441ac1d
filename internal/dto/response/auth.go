package response

import (
	"time"

	"marketplace-backend/internal/data/entity"
)

// SendOTPResponse is returned by both send-otp endpoints. The seller fields
// are only populated for the seller portal flow so the storefront can branch
// between login and onboarding without a second round trip.
type SendOTPResponse struct {
	ExpiresAt               time.Time `json:"expiresAt"`
	IsExistingUser          *bool     `json:"isExistingUser,omitempty"`
	IsProfileComplete       *bool     `json:"isProfileComplete,omitempty"`
	IsExistingSeller        *bool     `json:"isExistingSeller,omitempty"`
	IsSellerProfileComplete *bool     `json:"isSellerProfileComplete,omitempty"`
	SendWarning             string    `json:"sendWarning,omitempty"`
}

type VerifyOTPResponse struct {
	Verified  bool    `json:"verified"`
	IsNewUser bool    `json:"isNewUser"`
	UserID    *string `json:"userId"`
}

type VerifySellerOTPResponse struct {
	Verified    bool    `json:"verified"`
	IsNewSeller bool    `json:"isNewSeller"`
	SellerID    *string `json:"sellerId"`
}

type ProfileResponse struct {
	ID              string  `json:"id"`
	Audience        string  `json:"audience"`
	PhoneNumber     string  `json:"phoneNumber"`
	Name            *string `json:"name,omitempty"`
	Email           *string `json:"email,omitempty"`
	ShopName        *string `json:"shopName,omitempty"`
	Role            string  `json:"role,omitempty"`
	ProfileComplete bool    `json:"profileComplete"`
}

// Helper converters
func UserToProfile(user *entity.User) *ProfileResponse {
	return &ProfileResponse{
		ID:              user.ID.String(),
		Audience:        "user",
		PhoneNumber:     user.PhoneNumber,
		Name:            user.Name,
		Email:           user.Email,
		Role:            string(user.Role),
		ProfileComplete: user.ProfileComplete,
	}
}

func SellerToProfile(seller *entity.Seller) *ProfileResponse {
	return &ProfileResponse{
		ID:              seller.ID.String(),
		Audience:        "seller",
		PhoneNumber:     seller.PhoneNumber,
		Name:            seller.Name,
		Email:           seller.Email,
		ShopName:        seller.ShopName,
		ProfileComplete: seller.ProfileComplete,
	}
}
