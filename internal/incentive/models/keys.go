package models

import (
	"fmt"
	"strings"
	"time"

	id "github.com/ICELANF/behavioral-health-project-sub001/pkg/domain"
)

// SanitizeKeySegment escapes delimiter characters in counter key segments
// to prevent key collision attacks where user-controlled identifiers
// containing ':' could manipulate adjacent counters.
//
// Example: a user id "alice:bob" becomes "alice_bob", so it can never be
// read as two separate key segments.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// DailyCounterKey buckets daily-cap counts by calendar day. The date in
// the key makes correctness independent of the entry's TTL.
func DailyCounterKey(userID id.UserID, eventType EventType, t time.Time) string {
	return fmt.Sprintf("points:daily:%s:%s:%s",
		SanitizeKeySegment(userID.String()),
		SanitizeKeySegment(string(eventType)),
		t.Format("2006-01-02"),
	)
}

// PeriodCounterKey buckets time-decay counts by ISO week.
func PeriodCounterKey(userID id.UserID, eventType EventType, t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("points:period:%s:%s:%d-W%02d",
		SanitizeKeySegment(userID.String()),
		SanitizeKeySegment(string(eventType)),
		year, week,
	)
}

// HourlyAnomalyKey tracks trailing-hour activity for anomaly detection.
// The window is enforced by the counter's TTL, not a calendar bucket.
func HourlyAnomalyKey(userID id.UserID, eventType EventType) string {
	return fmt.Sprintf("points:anomaly:hourly:%s:%s",
		SanitizeKeySegment(userID.String()),
		SanitizeKeySegment(string(eventType)),
	)
}

// BurstAnomalyKey tracks short-burst activity for anomaly detection.
func BurstAnomalyKey(userID id.UserID, eventType EventType) string {
	return fmt.Sprintf("points:anomaly:burst:%s:%s",
		SanitizeKeySegment(userID.String()),
		SanitizeKeySegment(string(eventType)),
	)
}

// ConfirmationKey identifies one pending confirmation: the requester, the
// counterpart expected to confirm, the event, and the concrete behavior
// instance.
func ConfirmationKey(requester, counterpart id.UserID, eventType EventType, behaviorID id.BehaviorID) string {
	return fmt.Sprintf("confirm:%s:%s:%s:%s",
		SanitizeKeySegment(requester.String()),
		SanitizeKeySegment(counterpart.String()),
		SanitizeKeySegment(string(eventType)),
		SanitizeKeySegment(behaviorID.String()),
	)
}
