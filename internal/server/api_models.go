package server

import "github.com/kamalkashyapp/fanout/internal/dispatch"

// DispatchRequest is the payload for both the synchronous /dispatch endpoint
// and batch job creation. In mock mode targets are built against the
// configured demoserver; custom mode requires an explicit target list.
type DispatchRequest struct {
	Subject string                `json:"subject,omitempty" example:"demo-subject"`
	Mode    string                `json:"mode,omitempty" example:"mock"`
	Targets []dispatch.Descriptor `json:"targets,omitempty"`
	// Timeout bounds the whole batch, in seconds.
	Timeout float64 `json:"timeout,omitempty" example:"10"`
}

// DispatchResponse reports one outcome per requested target, in input order.
type DispatchResponse struct {
	Requested int                `json:"requested" example:"3"`
	Results   []dispatch.Outcome `json:"results"`
}

// HealthResponse is returned by the root endpoint.
type HealthResponse struct {
	Status  bool   `json:"status" example:"true"`
	Message string `json:"message" example:"fanout dispatch API"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"not found"`
}
