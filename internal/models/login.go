package models

// LoginRequest is the POST /login body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the POST /login reply. SocioID is only present on
// success; Message only on failure.
type LoginResponse struct {
	Success bool   `json:"success"`
	SocioID int64  `json:"socioId,omitempty"`
	Message string `json:"message,omitempty"`
}
