package dto

import (
	"time"

	"sentinel/internal/blacklist"
)

// TimestampLayout renders fecha_creacion.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// BlacklistRequest only binds the three client-supplied fields. Pointers
// distinguish a missing field from an empty one.
type BlacklistRequest struct {
	Email         *string `json:"email" validate:"required,min=1,max=255,email"`
	AppUUID       *string `json:"app_uuid" validate:"required,min=1,max=36"`
	BlockedReason *string `json:"blocked_reason" validate:"required,min=1,max=1000"`
}

func (r BlacklistRequest) Input() blacklist.AddEntryInput {
	return blacklist.AddEntryInput{
		Email:         deref(r.Email),
		AppID:         deref(r.AppUUID),
		BlockedReason: deref(r.BlockedReason),
	}
}

type BlacklistResponse struct {
	Mensaje       string `json:"mensaje"`
	Email         string `json:"email"`
	AppUUID       string `json:"app_uuid"`
	BlockedReason string `json:"blocked_reason"`
	FechaCreacion string `json:"fecha_creacion"`
}

func NewBlacklistResponse(res *blacklist.AddResult) BlacklistResponse {
	return BlacklistResponse{
		Mensaje:       "Email " + res.Email + " agregado a la lista negra",
		Email:         res.Email,
		AppUUID:       res.AppID,
		BlockedReason: res.BlockedReason,
		FechaCreacion: formatTimestamp(res.CreatedAt),
	}
}

// BlacklistCheckResponse omits the entry fields for a negative lookup.
type BlacklistCheckResponse struct {
	Blacklisted   bool   `json:"blacklisted"`
	Email         string `json:"email"`
	BlockedReason string `json:"blocked_reason,omitempty"`
	AppUUID       string `json:"app_uuid,omitempty"`
	FechaCreacion string `json:"fecha_creacion,omitempty"`
}

func NewBlacklistCheckResponse(res *blacklist.CheckResult) BlacklistCheckResponse {
	if !res.Blacklisted {
		return BlacklistCheckResponse{Blacklisted: false, Email: res.Email}
	}
	return BlacklistCheckResponse{
		Blacklisted:   true,
		Email:         res.Email,
		BlockedReason: res.BlockedReason,
		AppUUID:       res.AppID,
		FechaCreacion: formatTimestamp(res.CreatedAt),
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
