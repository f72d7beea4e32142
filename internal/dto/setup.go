package dto

// SetupAdminRequest provisions the first admin account.
type SetupAdminRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	SetupToken string `json:"setupToken"`
}

// SetupAdminResponse confirms the provisioned account.
type SetupAdminResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
