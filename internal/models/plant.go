package models

import "time"

// Plant is a plant tracked by a user. CareGuide is nil until a guide has
// been generated; DaysGrowing is derived on read and never stored.
type Plant struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	PlantName      string     `json:"plant_name"`
	ScientificName string     `json:"scientific_name,omitempty"`
	Family         string     `json:"family,omitempty"`
	ImageURL       string     `json:"image_url,omitempty"`
	Difficulty     string     `json:"difficulty,omitempty"`
	IdentifiedVia  string     `json:"identified_via,omitempty"`
	CareGuide      *CareGuide `json:"care_guide,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DaysGrowing    int        `json:"days_growing"`
}

// DaysGrowing returns the whole number of days between the plant's
// creation and now. Never negative.
func DaysGrowing(createdAt, now time.Time) int {
	days := int(now.Sub(createdAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
