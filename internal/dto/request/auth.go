package request

type SendOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,min=7,max=20"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required,min=7,max=20"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}
