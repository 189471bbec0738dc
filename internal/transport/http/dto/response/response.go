package response

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Коды ошибок API
const (
	CodeInvalidRequest = "invalid_request"
	CodeNoImages       = "no_images"
	CodeNotFound       = "not_found"
	CodeInternal       = "internal_error"
)

type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func SuccessResponse(data interface{}) Response {
	return Response{
		Status: StatusSuccess,
		Data:   data,
	}
}

// InvalidRequest ответ на форму, не прошедшую разбор или валидацию
func InvalidRequest(details string) ErrorResponse {
	return ErrorResponse{
		Status:  StatusError,
		Error:   CodeInvalidRequest,
		Details: details,
	}
}
