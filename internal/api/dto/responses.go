package dto

import (
	"time"

	"sentinel/internal/health"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type ValidationErrorResponse struct {
	Error   string              `json:"error"`
	Details map[string][]string `json:"details,omitempty"`
}

type TokenResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
	Usage   string `json:"usage"`
}

func NewTokenResponse(token string) TokenResponse {
	return TokenResponse{
		Token:   token,
		Message: "Token generated successfully",
		Usage:   "Use this token in Authorization header: Bearer <token>",
	}
}

type HealthStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func NewHealthStatus(s health.Status) HealthStatus {
	return HealthStatus{Status: s.Status, Message: s.Message, Timestamp: s.Timestamp.UTC().Format(time.RFC3339Nano)}
}

func NewPingResponse(p health.Ping) HealthStatus {
	return HealthStatus{Status: p.Status, Message: p.Message, Timestamp: p.Timestamp.UTC().Format(time.RFC3339Nano)}
}
