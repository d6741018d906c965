package response

import "adriarent/internal/catalog"

// Response is the uniform envelope every endpoint returns. Data always holds
// the entity (or entity array) itself; Meta is present on paginated
// collections, Stats on owner-scoped catalog pages, Totals on the admin one.
type Response struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Meta    *catalog.Meta  `json:"meta,omitempty"`
	Stats   *catalog.Stats `json:"stats,omitempty"`
	Totals  any            `json:"totals,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func Success(data any) Response {
	return Response{Success: true, Data: data}
}

func Page(data any, meta catalog.Meta) Response {
	return Response{Success: true, Data: data, Meta: &meta}
}

func Error(code, details string) ErrorResponse {
	return ErrorResponse{Error: code, Details: details}
}
