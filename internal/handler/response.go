package handler

// ErrorResponse is the uniform error envelope. Code is a stable
// machine-readable identifier ("not_found", "db_not_ready"); Message is
// free-form and may change between releases.
type ErrorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: errorBody{Code: code, Message: message}}
}
