package domain

// RegisterRequest is the payload for POST /user/register.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the payload for POST /user/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the payload for PUT /user/update-profile.
// Every field is optional; empty fields leave the stored value unchanged.
type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the payload for PUT /user/update-password.
// Field names follow the frontend contract.
type ChangePasswordRequest struct {
	PrevPassword string `json:"prevPassword" binding:"required"`
	NewPassword  string `json:"newPassword" binding:"required"`
}

// StatusResponse is the generic success/failure envelope.
type StatusResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// LoginResponse carries the bearer token issued on successful login.
type LoginResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ProfilePayload is the mutable subset of the user echoed by
// update-profile. The password hash never appears here.
type ProfilePayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateProfileResponse is the success body of PUT /user/update-profile.
type UpdateProfileResponse struct {
	Status  bool           `json:"status"`
	Message string         `json:"message"`
	User    ProfilePayload `json:"user"`
}

// ErrorResponse is the failure envelope. Error carries low-level detail for
// operators on 500s and is omitted otherwise.
type ErrorResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
