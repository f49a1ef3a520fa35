package domain

import "time"

// BlacklistEntry is a blocked email address registered by a client application.
type BlacklistEntry struct {
	ID uint `gorm:"primaryKey;autoIncrement"`

	// Email is stored with its original casing and is unique across the table.
	Email string `gorm:"size:255;not null;uniqueIndex:idx_blacklist_email"`

	// AppID identifies the application that reported the address.
	AppID string `gorm:"column:app_uuid;size:36;not null"`

	BlockedReason string `gorm:"type:text;not null"`

	// IP is the origin of the admitting request, nil when it could not be resolved.
	IP *string `gorm:"column:ip;size:45"`

	CreatedAt time.Time `gorm:"not null"`
}

func (BlacklistEntry) TableName() string {
	return "blacklist"
}

// OriginIP returns the recorded origin or an empty string.
func (e *BlacklistEntry) OriginIP() string {
	if e == nil || e.IP == nil {
		return ""
	}
	return *e.IP
}
