package models

// Response is the envelope written by every API route
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthCheckResponse is returned by the health route
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
