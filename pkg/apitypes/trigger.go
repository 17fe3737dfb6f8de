// Package apitypes holds the wire types shared by the HTTP server and the
// CLI client.
package apitypes

import "time"

// CallStartServer is the only operation the trigger endpoint recognizes.
const CallStartServer = "startserver"

// TriggerRequest is the POST /trigger body. Call must equal "startserver",
// compared case-insensitively.
type TriggerRequest struct {
	Call string `json:"call"`
}

// ExecutionPayload carries the raw outcome of one relayed command.
type ExecutionPayload struct {
	ExecutedAt time.Time `json:"executed_at"`
	ReturnCode int       `json:"returncode"`
	Stdout     string    `json:"stdout"`
	Stderr     string    `json:"stderr"`
}

// TriggerResponse is the trigger contract payload. Token stays null unless
// the operator explicitly opted into exposing it; Startserver is null when
// the workflow short-circuited before the second command.
type TriggerResponse struct {
	Status       string            `json:"status"`
	Call         string            `json:"call"`
	TokenPreview string            `json:"token_preview"`
	Token        *string           `json:"token"`
	LogPath      string            `json:"log_path"`
	Initsend     *ExecutionPayload `json:"initsend"`
	Startserver  *ExecutionPayload `json:"startserver"`
}

// HealthResponse is the GET /healthz liveness payload.
type HealthResponse struct {
	Status string `json:"status"`
}

// RootResponse is the GET / usage payload.
type RootResponse struct {
	Message string `json:"message"`
	Health  string `json:"health"`
}
