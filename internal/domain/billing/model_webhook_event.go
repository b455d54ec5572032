package billing

import "time"

// WebhookEvent records provider event ids that have already been applied.
// The relay short-circuits on a duplicate id instead of mutating the
// tenant twice, so redelivered events are safe.
type WebhookEvent struct {
	ID         uint   `gorm:"primaryKey"`
	EventID    string `gorm:"uniqueIndex;not null"`
	EventType  string `gorm:"type:varchar(40)"`
	SchoolID   uint   `gorm:"index"`
	ReceivedAt time.Time
}
