package api

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

// DetailResponse carries a business outcome such as "already processed"
// or "insufficient credit". These are not errors.
type DetailResponse struct {
	Detail string `json:"detail" example:"already processed"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
