package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Error: "authentication_failed",
	}

	ErrUserAlreadyExists = ErrorResponse{
		Error:   "user_already_exists",
		Details: "User with this email already exists",
	}

	ErrNotFound = ErrorResponse{
		Error: "not_found",
	}

	ErrForbidden = ErrorResponse{
		Error: "forbidden",
	}

	ErrInternal = ErrorResponse{
		Error:   "internal_error",
		Details: "Internal server error",
	}
)
