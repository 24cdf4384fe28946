package guest

import (
	"strings"
	"time"
)

// Guest represents a canonical guest profile. It may be created after the
// reservations that reference it, and its phone is the preferred identity key
// for display once a communication resolves to it.
type Guest struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string `gorm:"type:varchar(255)" json:"first_name"`
	LastName  string `gorm:"type:varchar(255)" json:"last_name"`

	// Combined name fallback kept for rows imported before the name split.
	Name string `gorm:"type:varchar(255)" json:"name"`

	Phone string `gorm:"type:varchar(40);index" json:"phone"`
	Email string `gorm:"type:varchar(255)" json:"email"`

	// Optional cross-reference to a CMS user account.
	WPUserID uint `gorm:"default:0;index" json:"wp_user_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DisplayName returns "FirstName LastName", falling back to the stored
// combined Name when the split fields are empty.
func (g *Guest) DisplayName() string {
	full := strings.TrimSpace(strings.TrimSpace(g.FirstName) + " " + strings.TrimSpace(g.LastName))
	if full != "" {
		return full
	}
	return strings.TrimSpace(g.Name)
}
