package dto

// ==================== AUTHENTICATION REQUEST DTOs ====================

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email" example:"user@example.com"`
	NickName string `json:"nickName" validate:"required,min=3,max=30,nickname" example:"py_learner"`
	Password string `json:"password" validate:"required,strong_password" example:"SecurePass123"`
}

func (r RegisterRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LoginRequest struct {
	Login    string `json:"login" validate:"required" example:"user@example.com"` // email or nickname
	Password string `json:"password" validate:"required" example:"SecurePass123"`
}

func (l LoginRequest) Validate() error {
	return GetValidator().Struct(l)
}

// ==================== AUTHENTICATION RESPONSE DTOs ====================

type RegisterResponse struct {
	ID       string `json:"id" example:"0198b2ac-71ab-7def-8000-2f4a1c9e6b10"`
	Email    string `json:"email" example:"user@example.com"`
	NickName string `json:"nickName" example:"py_learner"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string `json:"refreshToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresIn    int64  `json:"expiresIn" example:"86400"`
}
