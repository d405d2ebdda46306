package auth

// LoginInput represents the request body for operator authentication.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
