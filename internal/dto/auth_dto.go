package dto

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AdminProfileResponse is what /auth/me returns for the admin principal.
type AdminProfileResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	Principal string `json:"principal"`
}

type CreateUserRequest struct {
	Email     string   `json:"email" validate:"required,email,max=255"`
	Password  string   `json:"password" validate:"required,min=8,max=72"`
	FirstName string   `json:"first_name" validate:"max=255"`
	LastName  string   `json:"last_name" validate:"max=255"`
	Location  string   `json:"location" validate:"max=255"`
	Interests []string `json:"interests"`
	IsAdmin   bool     `json:"is_admin"`
}

type UpdateProfileRequest struct {
	FirstName       *string   `json:"first_name" validate:"omitempty,max=255"`
	LastName        *string   `json:"last_name" validate:"omitempty,max=255"`
	ProfileImageURL *string   `json:"profile_image_url" validate:"omitempty,url,max=500"`
	Bio             *string   `json:"bio" validate:"omitempty,max=2000"`
	Phone           *string   `json:"phone" validate:"omitempty,max=50"`
	Location        *string   `json:"location" validate:"omitempty,max=255"`
	Interests       *[]string `json:"interests"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   bool              `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
