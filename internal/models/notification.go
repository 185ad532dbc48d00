package models

import "time"

type NotificationType string

const (
	NotificationWatering    NotificationType = "watering"
	NotificationFertilizing NotificationType = "fertilizing"
	NotificationRepotting   NotificationType = "repotting"
)

// Notification is a reminder created by the scheduler. Notifications are
// never deleted; the only mutation is the read acknowledgement.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	PlantID   string           `json:"plant_id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
