package setting

import (
	"time"
)

// Setting is a key/value row. The migration runner stores its data-version
// marker here; small operational flags can share the table.
type Setting struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Key       string    `gorm:"column:setting_key;type:varchar(255);not null;unique" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
