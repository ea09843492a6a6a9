package auth

type signupRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signupResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}

type loginResponse struct {
	Message   string `json:"message"`
	AuthToken string `json:"authToken"`
}

type verifyResponse struct {
	CurrentUser Claims `json:"currentUser"`
}
