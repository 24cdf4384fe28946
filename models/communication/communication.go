package communication

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Communication represents one logged message on a channel. Rows are created
// at ingestion time, possibly unresolved, and the resolution fields may be
// rewritten later by the migration sweep.
type Communication struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Channel   Channel   `gorm:"type:varchar(20);not null;index" json:"channel"`
	Direction Direction `gorm:"type:varchar(10);not null" json:"direction"`

	// Raw endpoint numbers exactly as the channel adapter delivered them.
	FromNumber string `gorm:"type:varchar(40);not null" json:"from_number"`
	ToNumber   string `gorm:"type:varchar(40);not null" json:"to_number"`

	// Normalized forms, empty until a resolution has run.
	FromNumberE164 string `gorm:"type:varchar(40)" json:"from_number_e164"`
	ToNumberE164   string `gorm:"type:varchar(40)" json:"to_number_e164"`

	// Resolved identity, zero when unresolved.
	ReservationID uint `gorm:"default:0;index" json:"reservation_id"`
	GuestID       uint `gorm:"default:0;index" json:"guest_id"`

	ThreadKey string `gorm:"type:varchar(255);index" json:"thread_key"`

	Message string `gorm:"type:text" json:"message"`

	// Provider message id, used as idempotency key when the channel supplies one.
	ExternalID *string `gorm:"type:varchar(255)" json:"external_id,omitempty"`

	SentAt time.Time  `gorm:"not null;index" json:"sent_at"`
	ReadAt *time.Time `json:"read_at,omitempty"` // nil means unread

	ResponseData ResponseData `gorm:"type:text" json:"response_data"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsUnread reports whether an inbound message has not been read yet.
func (c *Communication) IsUnread() bool {
	return c.Direction == DirectionInbound && (c.ReadAt == nil || c.ReadAt.IsZero())
}

// MatchContext is the result of one resolution attempt. It is embedded into
// ResponseData for auditability and overwritten whenever resolution re-runs.
type MatchContext struct {
	Matched           bool        `json:"matched"`
	Status            MatchStatus `json:"status"`
	ReservationID     uint        `json:"reservation_id"`
	GuestID           uint        `json:"guest_id"`
	GuestNumberE164   string      `json:"guest_number_e164"`
	ServiceNumberE164 string      `json:"service_number_e164"`
	ThreadKey         string      `json:"thread_key"`
}

// ResponseData is the structured metadata blob stored alongside each message.
// Stored as a JSON text column so it works identically on PostgreSQL and the
// SQLite test databases.
type ResponseData struct {
	Provider string            `json:"provider,omitempty"`
	Status   string            `json:"status,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
	Context  *MatchContext     `json:"context,omitempty"`
}

// Scan implements the Scanner interface for database deserialization
func (rd *ResponseData) Scan(value interface{}) error {
	if value == nil {
		*rd = ResponseData{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	if len(bytes) == 0 {
		*rd = ResponseData{}
		return nil
	}

	return json.Unmarshal(bytes, rd)
}

// Value implements the driver Valuer interface for database serialization
func (rd ResponseData) Value() (driver.Value, error) {
	data, err := json.Marshal(rd)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
