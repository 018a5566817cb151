package domain

import "time"

// Video is a catalog entry pointing at media stored on the external host.
type Video struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	PublicID  string    `json:"public_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Tags      []string  `json:"tags"`
	Duration  float64   `json:"duration,omitempty"`
	Format    string    `json:"format,omitempty"`
	Size      int64     `json:"size,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanBeDeletedBy reports whether p may remove the video: its owner or an admin.
func (v *Video) CanBeDeletedBy(p Principal) bool {
	return p.IsAdmin() || (p.Subject != "" && p.Subject == v.UserID)
}
