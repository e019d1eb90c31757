package models

import (
	"strings"
	"time"
)

// Profile stores per-user presentation data. Exactly one Profile exists per
// User; it is created in the same transaction as the user itself.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Initials derives up to two display initials from the user's name parts.
// When the user has no first or last name it falls back to the first two
// characters of the username, uppercased.
func (p *Profile) Initials() string {
	parts := strings.Fields(strings.TrimSpace(p.User.FirstName + " " + p.User.LastName))
	if len(parts) == 0 {
		name := []rune(p.User.Username)
		if len(name) > 2 {
			name = name[:2]
		}
		return strings.ToUpper(string(name))
	}

	var b strings.Builder
	for _, part := range parts {
		b.WriteString(strings.ToUpper(string([]rune(part)[0])))
		if b.Len() >= 2 {
			break
		}
	}
	return b.String()
}
