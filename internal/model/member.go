package model

import "time"

// TeamMember is a reviewer profile checked against every submission.
// SensitivityFactor weighs how much the member cares about healthy food,
// on a 1-10 scale (5 is neutral).
type TeamMember struct {
	UpdatedAt         time.Time `json:"updated_at"`
	Name              string    `json:"name"`
	Allergies         []string  `json:"allergies"`
	ID                int64     `json:"id"`
	SensitivityFactor float64   `json:"sensitivity_factor"`
}
