package constants

// Standard Response Field Keys
const (
	ResponseFieldMessage  = "message"
	ResponseFieldDetails  = "details"
	ResponseFieldIsActive = "is_active"
)

// BuildErrorResponse builds the standard error body used across handlers.
func BuildErrorResponse(message string, details any) map[string]any {
	resp := map[string]any{
		ResponseFieldMessage: message,
	}
	if details != nil {
		resp[ResponseFieldDetails] = details
	}
	return resp
}

// BuildSuccessResponse builds a plain confirmation body.
func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
	}
}
