package api

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

type CountResponse struct {
	Message string `json:"message" example:"created 6 time slots"`
	Count   int    `json:"count" example:"6"`
}
