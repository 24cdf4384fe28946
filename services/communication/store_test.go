package communication

import (
	"errors"
	"testing"
	"time"

	commModel "guest-messaging/models/communication"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&commModel.Communication{}))
	return NewStore(db)
}

func strPtr(s string) *string { return &s }

func inboundRow(threadKey, message string, sentAt time.Time) commModel.Communication {
	return commModel.Communication{
		Channel:    commModel.ChannelSMS,
		Direction:  commModel.DirectionInbound,
		FromNumber: "+15551230001",
		ToNumber:   "+15559990000",
		ThreadKey:  threadKey,
		Message:    message,
		SentAt:     sentAt,
	}
}

func TestCreateDefaultsSentAt(t *testing.T) {
	store := newTestStore(t)

	row := inboundRow("endpoints:+15551230001:+15559990000:sms", "hello", time.Time{})
	require.NoError(t, store.Create(&row))
	require.NotZero(t, row.ID)
	require.False(t, row.SentAt.IsZero())
}

func TestCreateDuplicateExternalID(t *testing.T) {
	store := newTestStore(t)

	first := inboundRow("t1", "hello", time.Now().UTC())
	first.ExternalID = strPtr("SM-100")
	require.NoError(t, store.Create(&first))

	dup := inboundRow("t1", "hello again", time.Now().UTC())
	dup.ExternalID = strPtr("SM-100")
	err := store.Create(&dup)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDuplicateExternalID))

	found, err := store.FindByExternalID(commModel.ChannelSMS, "SM-100")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, first.ID, found.ID)
	require.Equal(t, "hello", found.Message)
}

func TestFindByExternalIDAbsent(t *testing.T) {
	store := newTestStore(t)

	found, err := store.FindByExternalID(commModel.ChannelSMS, "nope")
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestUpdateResolutionTouchesOnlyResolutionFields(t *testing.T) {
	store := newTestStore(t)

	sentAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	row := inboundRow("endpoints:+15551230001:+15559990000:sms", "original body", sentAt)
	row.ResponseData = commModel.ResponseData{Provider: "sms-webhook", Status: "received"}
	require.NoError(t, store.Create(&row))

	mctx := commModel.MatchContext{
		Matched:           true,
		Status:            commModel.MatchStatusMatched,
		ReservationID:     701,
		GuestID:           8001,
		GuestNumberE164:   "+15551230001",
		ServiceNumberE164: "+15559990000",
		ThreadKey:         "guest:8001:reservation:701:sms",
	}
	require.NoError(t, store.UpdateResolution(row.ID, Resolution{
		ReservationID:  701,
		GuestID:        8001,
		ThreadKey:      "guest:8001:reservation:701:sms",
		FromNumberE164: "+15551230001",
		ToNumberE164:   "+15559990000",
		Context:        &mctx,
	}))

	got, err := store.GetByID(row.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	require.Equal(t, uint(701), got.ReservationID)
	require.Equal(t, uint(8001), got.GuestID)
	require.Equal(t, "guest:8001:reservation:701:sms", got.ThreadKey)
	require.Equal(t, "+15551230001", got.FromNumberE164)

	// Message, timestamps and provider metadata stay untouched.
	require.Equal(t, "original body", got.Message)
	require.Equal(t, sentAt.Unix(), got.SentAt.Unix())
	require.Equal(t, "sms-webhook", got.ResponseData.Provider)
	require.Equal(t, "received", got.ResponseData.Status)
	require.NotNil(t, got.ResponseData.Context)
	require.Equal(t, commModel.MatchStatusMatched, got.ResponseData.Context.Status)
}

func TestUpdateResolutionMissingRow(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateResolution(999, Resolution{ThreadKey: "t"})
	require.Error(t, err)
}

func TestFindBatchCursorOrdering(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		row := inboundRow("t1", "msg", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.Create(&row))
	}

	first, err := store.FindBatch(0, 3)
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.Equal(t, uint(1), first[0].ID)
	require.Equal(t, uint(3), first[2].ID)

	second, err := store.FindBatch(first[2].ID, 3)
	require.NoError(t, err)
	require.Len(t, second, 2)
	require.Equal(t, uint(4), second[0].ID)

	third, err := store.FindBatch(second[1].ID, 3)
	require.NoError(t, err)
	require.Empty(t, third)
}

func TestThreadHeadsPicksLatestPerThread(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	a1 := inboundRow("thread-a", "a first", base)
	require.NoError(t, store.Create(&a1))
	a2 := inboundRow("thread-a", "a latest", base.Add(time.Hour))
	require.NoError(t, store.Create(&a2))

	b1 := inboundRow("thread-b", "b only", base.Add(30*time.Minute))
	now := time.Now().UTC()
	b1.ReadAt = &now
	require.NoError(t, store.Create(&b1))

	heads, err := store.ThreadHeads(commModel.ChannelSMS)
	require.NoError(t, err)
	require.Len(t, heads, 2)

	byKey := map[string]ThreadHead{}
	for _, h := range heads {
		byKey[h.Canonical.ThreadKey] = h
	}

	require.Equal(t, "a latest", byKey["thread-a"].Canonical.Message)
	require.Equal(t, int64(2), byKey["thread-a"].MessageCount)
	require.Equal(t, int64(2), byKey["thread-a"].UnreadCount)

	require.Equal(t, int64(1), byKey["thread-b"].MessageCount)
	require.Equal(t, int64(0), byKey["thread-b"].UnreadCount)
}

func TestThreadHeadsTieBreakOnID(t *testing.T) {
	store := newTestStore(t)

	sameInstant := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := inboundRow("thread-a", "earlier id", sameInstant)
	require.NoError(t, store.Create(&first))
	second := inboundRow("thread-a", "later id", sameInstant)
	require.NoError(t, store.Create(&second))

	heads, err := store.ThreadHeads("")
	require.NoError(t, err)
	require.Len(t, heads, 1)
	require.Equal(t, "later id", heads[0].Canonical.Message)
}

func TestThreadMessagesChronological(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	second := inboundRow("t1", "second", base.Add(time.Minute))
	require.NoError(t, store.Create(&second))
	first := inboundRow("t1", "first", base)
	require.NoError(t, store.Create(&first))
	other := inboundRow("t2", "other thread", base)
	require.NoError(t, store.Create(&other))

	messages, err := store.ThreadMessages("t1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, "first", messages[0].Message)
	require.Equal(t, "second", messages[1].Message)
}

func TestMarkThreadRead(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	unread := inboundRow("t1", "unread inbound", base)
	require.NoError(t, store.Create(&unread))

	already := inboundRow("t1", "already read", base.Add(time.Minute))
	readAt := base.Add(2 * time.Minute)
	already.ReadAt = &readAt
	require.NoError(t, store.Create(&already))

	outbound := inboundRow("t1", "our reply", base.Add(3*time.Minute))
	outbound.Direction = commModel.DirectionOutbound
	require.NoError(t, store.Create(&outbound))

	updated, err := store.MarkThreadRead("t1")
	require.NoError(t, err)
	require.Equal(t, int64(1), updated)

	messages, err := store.ThreadMessages("t1")
	require.NoError(t, err)
	for _, m := range messages {
		require.False(t, m.IsUnread())
	}

	// Second call is a no-op.
	updated, err = store.MarkThreadRead("t1")
	require.NoError(t, err)
	require.Zero(t, updated)
}
