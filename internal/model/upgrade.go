package model

import "time"

// UpgradeRequest asks an admin to move a user to another role,
// typically a calon jamaah who has paid and wants jamaah access.
type UpgradeRequest struct {
	ID         string       `json:"id"`
	UserID     string       `json:"user_id"`
	PackageID  string       `json:"package_id,omitempty"`
	FromRole   Role         `json:"from_role"`
	ToRole     Role         `json:"to_role"`
	Status     ReviewStatus `json:"status"`
	Note       string       `json:"note,omitempty"`
	ReviewedBy string       `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time   `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}
