package auth

// registration request payload
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=student teacher"`
}

// login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// TokenPair carries both freshly issued tokens out of the session manager.
// Only the access token goes into the response body; the refresh token is
// delivered exclusively through the cookie.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AccessTokenResponse is the body returned by register, login and refresh.
type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}
