package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKeySegment(t *testing.T) {
	assert.Equal(t, "alice_bob", SanitizeKeySegment("alice:bob"))
	assert.Equal(t, "plain", SanitizeKeySegment("plain"))
}

func TestDailyCounterKeyBucketsByCalendarDay(t *testing.T) {
	morning := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	nextDay := time.Date(2026, 3, 11, 1, 0, 0, 0, time.UTC)

	assert.Equal(t,
		DailyCounterKey("user-1", EventDailyCheckin, morning),
		DailyCounterKey("user-1", EventDailyCheckin, evening),
	)
	assert.NotEqual(t,
		DailyCounterKey("user-1", EventDailyCheckin, morning),
		DailyCounterKey("user-1", EventDailyCheckin, nextDay),
	)
}

func TestDailyCounterKeyResistsDelimiterInjection(t *testing.T) {
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// A crafted user id must not collide with another user's counter.
	crafted := DailyCounterKey("user:daily_checkin", "weird", day)
	victim := DailyCounterKey("user", EventDailyCheckin, day)
	assert.NotEqual(t, crafted, victim)
}

func TestPeriodCounterKeyBucketsByISOWeek(t *testing.T) {
	// Mon 2026-03-09 and Sun 2026-03-15 share ISO week 11.
	monday := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 3, 15, 22, 0, 0, 0, time.UTC)
	nextMonday := time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC)

	assert.Equal(t,
		PeriodCounterKey("user-1", EventPeerSupport, monday),
		PeriodCounterKey("user-1", EventPeerSupport, sunday),
	)
	assert.NotEqual(t,
		PeriodCounterKey("user-1", EventPeerSupport, sunday),
		PeriodCounterKey("user-1", EventPeerSupport, nextMonday),
	)
}

func TestConfirmationKeyIsDirectional(t *testing.T) {
	a := ConfirmationKey("mentor-1", "mentee-1", EventMenteeGraduation, "grad-1")
	b := ConfirmationKey("mentee-1", "mentor-1", EventMenteeGraduation, "grad-1")
	assert.NotEqual(t, a, b)
}
