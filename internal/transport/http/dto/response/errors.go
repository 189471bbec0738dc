package response

var (
	ErrNoImages = ErrorResponse{
		Status:  StatusError,
		Error:   CodeNoImages,
		Details: "Please upload at least one image.",
	}

	ErrCreationNotFound = ErrorResponse{
		Status:  StatusError,
		Error:   CodeNotFound,
		Details: "Slideshow not found.",
	}

	ErrInternal = ErrorResponse{
		Status: StatusError,
		Error:  CodeInternal,
	}
)
