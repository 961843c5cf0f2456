package constants

// HTTP Header Names
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
)

// Bearer token settings
const (
	AuthSchemeBearer = "Bearer"
)

// Common HTTP Error Messages
const (
	MsgUnauthorized  = "Unauthorized"
	MsgBadRequest    = "Invalid request format"
	MsgInternalError = "Internal server error"
)

// Operation result messages, kept byte-for-byte compatible with the
// responses clients already depend on.
const (
	MsgLoggedOut        = "Successfully logged out"
	MsgPasswordChanged  = "Password Changed"
	MsgResetEmailSent   = "Email for new password request sent"
	MsgInvalidToken     = "Invalid token"
	MsgUserNotFound     = "User not found"
	MsgEmailNotFound    = "Email not found"
	MsgWrongCredentials = "Wrong email and password"
	MsgEmailNotVerified = "Your email is not confirmed, we resent you a new email"
	MsgAccountDisabled  = "Your account is disabled"
)
