package api

// MessageResponse is the body of logout and of every error except theme errors.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse is the body of a successful POST /login.
type LoginResponse struct {
	Message     string `json:"message"`
	RedirectURL string `json:"redirect_url"`
}

// ThemeRequest is the request body for POST /settings/theme.
type ThemeRequest struct {
	Theme string `json:"theme"`
}

// ThemeResponse is the body of POST /settings/theme; Status is "ok" or "error".
type ThemeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ApplicationResponse describes one application the caller may use.
type ApplicationResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

const (
	msgLoginOK        = "Logged in successfully."
	msgBadCredentials = "Access denied. Invalid username or password."
	msgIPNotAllowed   = "Access denied. IP address not authorized."
	msgLogoutOK       = "Logged out successfully."
	msgThemeOK        = "Theme updated successfully."
	msgThemeInvalid   = "Invalid theme."
	msgBadRequest     = "Invalid request."
	msgInternal       = "Internal server error."
)
