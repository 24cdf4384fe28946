package reservation

import (
	"time"
)

// Reservation represents a booking record with a point-in-time guest snapshot.
// The snapshot fields (GuestName, GuestPhone, GuestEmail) capture what the guest
// entered at booking time and are never rewritten when the canonical guest
// profile changes later.
type Reservation struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Legacy inline guest reference. Older rows carry only this.
	GuestID uint `gorm:"default:0;index" json:"guest_id"`

	// Optional link to the canonical guest profile, zero when never linked.
	GuestRecordID uint `gorm:"default:0;index" json:"guest_record_id"`

	GuestName  string `gorm:"type:varchar(255)" json:"guest_name"`
	GuestPhone string `gorm:"type:varchar(40);index" json:"guest_phone"`
	GuestEmail string `gorm:"type:varchar(255)" json:"guest_email"`

	PropertyName string `gorm:"type:varchar(255)" json:"property_name"`

	Checkin  time.Time `json:"checkin"`
	Checkout time.Time `json:"checkout"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
