package communication

import (
	"errors"
	"fmt"
	"time"

	commModel "guest-messaging/models/communication"

	"gorm.io/gorm"
)

// ErrDuplicateExternalID is returned by Create when the channel already
// logged a message with the same external id.
var ErrDuplicateExternalID = errors.New("communication with this external id already exists")

// Store handles persistence of communication log rows
type Store struct {
	DB *gorm.DB
}

// NewStore creates a new communication store
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// Resolution carries the fields the migration sweep and live ingestion are
// allowed to rewrite. Message body and timestamps are never part of it.
type Resolution struct {
	ReservationID  uint
	GuestID        uint
	ThreadKey      string
	FromNumberE164 string
	ToNumberE164   string
	Context        *commModel.MatchContext
}

// ThreadHead is one aggregated conversation row: the canonical (most recent)
// message of a thread plus its counters.
type ThreadHead struct {
	Canonical    commModel.Communication
	MessageCount int64
	UnreadCount  int64
}

// Create inserts a communication row. When the row carries an external id the
// (channel, external_id) pair is treated as an idempotency key and a
// duplicate surfaces ErrDuplicateExternalID.
func (s *Store) Create(row *commModel.Communication) error {
	if row.ExternalID != nil && *row.ExternalID != "" {
		existing, err := s.FindByExternalID(row.Channel, *row.ExternalID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: %s", ErrDuplicateExternalID, *row.ExternalID)
		}
	}

	if row.SentAt.IsZero() {
		row.SentAt = time.Now().UTC()
	}

	if err := s.DB.Create(row).Error; err != nil {
		return fmt.Errorf("failed to create communication: %w", err)
	}
	return nil
}

// FindByExternalID looks up a row by its provider message id, nil when absent.
func (s *Store) FindByExternalID(channel commModel.Channel, externalID string) (*commModel.Communication, error) {
	var row commModel.Communication
	err := s.DB.Where("channel = ? AND external_id = ?", channel, externalID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find communication by external id: %w", err)
	}
	return &row, nil
}

// GetByID fetches one row by primary key, nil when absent.
func (s *Store) GetByID(id uint) (*commModel.Communication, error) {
	var row commModel.Communication
	if err := s.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find communication %d: %w", id, err)
	}
	return &row, nil
}

// UpdateResolution rewrites only the resolution fields of a row. Used by live
// ingestion and the migration sweep; normal read paths never mutate rows.
func (s *Store) UpdateResolution(id uint, res Resolution) error {
	updates := map[string]interface{}{
		"reservation_id":   res.ReservationID,
		"guest_id":         res.GuestID,
		"thread_key":       res.ThreadKey,
		"from_number_e164": res.FromNumberE164,
		"to_number_e164":   res.ToNumberE164,
	}

	if res.Context != nil {
		var row commModel.Communication
		if err := s.DB.Select("id", "response_data").First(&row, id).Error; err != nil {
			return fmt.Errorf("failed to load communication %d for resolution update: %w", id, err)
		}
		data := row.ResponseData
		data.Context = res.Context
		updates["response_data"] = data
	}

	result := s.DB.Model(&commModel.Communication{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update resolution for communication %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("communication %d not found", id)
	}
	return nil
}

// FindBatch returns up to limit rows with id > afterID in ascending id order.
// The cursor ordering is what makes the migration sweep resumable.
func (s *Store) FindBatch(afterID uint, limit int) ([]commModel.Communication, error) {
	if limit < 1 {
		limit = 1
	}
	var rows []commModel.Communication
	err := s.DB.Where("id > ?", afterID).Order("id ASC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch communication batch after id %d: %w", afterID, err)
	}
	return rows, nil
}

// ThreadHeads returns the canonical message of every thread, optionally
// filtered by channel, together with message and unread counters. The
// canonical message is the latest by (sent_at, id); the LEFT JOIN
// formulation keeps it portable between PostgreSQL and the SQLite test
// databases.
func (s *Store) ThreadHeads(channel commModel.Channel) ([]ThreadHead, error) {
	var canonical []commModel.Communication
	err := s.DB.Raw(`
		SELECT c1.* FROM communications c1
		LEFT JOIN communications c2
		  ON c1.thread_key = c2.thread_key
		 AND (c2.sent_at > c1.sent_at OR (c2.sent_at = c1.sent_at AND c2.id > c1.id))
		WHERE c2.id IS NULL AND (? = '' OR c1.channel = ?)`,
		string(channel), string(channel)).Scan(&canonical).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load thread heads: %w", err)
	}

	counts, err := s.threadCounts(channel)
	if err != nil {
		return nil, err
	}
	unread, err := s.unreadCounts(channel)
	if err != nil {
		return nil, err
	}

	heads := make([]ThreadHead, len(canonical))
	for i, row := range canonical {
		heads[i] = ThreadHead{
			Canonical:    row,
			MessageCount: counts[row.ThreadKey],
			UnreadCount:  unread[row.ThreadKey],
		}
	}
	return heads, nil
}

func (s *Store) threadCounts(channel commModel.Channel) (map[string]int64, error) {
	return s.countsByThread(`
		SELECT thread_key, COUNT(*) AS total FROM communications
		WHERE (? = '' OR channel = ?)
		GROUP BY thread_key`, channel)
}

func (s *Store) unreadCounts(channel commModel.Channel) (map[string]int64, error) {
	return s.countsByThread(`
		SELECT thread_key, COUNT(*) AS total FROM communications
		WHERE direction = 'inbound' AND read_at IS NULL AND (? = '' OR channel = ?)
		GROUP BY thread_key`, channel)
}

func (s *Store) countsByThread(query string, channel commModel.Channel) (map[string]int64, error) {
	var rows []struct {
		ThreadKey string
		Total     int64
	}
	if err := s.DB.Raw(query, string(channel), string(channel)).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate thread counts: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.ThreadKey] = r.Total
	}
	return out, nil
}

// ThreadMessages returns every message of a thread, oldest first.
func (s *Store) ThreadMessages(threadKey string) ([]commModel.Communication, error) {
	var rows []commModel.Communication
	err := s.DB.Where("thread_key = ?", threadKey).Order("sent_at ASC, id ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load messages for thread %s: %w", threadKey, err)
	}
	return rows, nil
}

// MarkThreadRead stamps read_at on every unread inbound message of a thread
// and returns how many rows were touched.
func (s *Store) MarkThreadRead(threadKey string) (int64, error) {
	result := s.DB.Model(&commModel.Communication{}).
		Where("thread_key = ? AND direction = ? AND read_at IS NULL", threadKey, commModel.DirectionInbound).
		Update("read_at", time.Now().UTC())
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark thread %s read: %w", threadKey, result.Error)
	}
	return result.RowsAffected, nil
}
