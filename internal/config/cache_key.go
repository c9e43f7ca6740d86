package config

import (
	"fmt"
	"time"
)

// cacheKeys centralizes every Redis key and channel name used by the app.
type cacheKeys struct{}

// CacheKey is the shared key builder instance.
var CacheKey = cacheKeys{}

// UserSessionKey stores the active JWT JTI for a user (single-device policy).
func (cacheKeys) UserSessionKey(userID int) string {
	return fmt.Sprintf("session:user:%d", userID)
}

// DailyRecapKey stores the per-class attendance status counts for one day.
func (cacheKeys) DailyRecapKey(day time.Time) string {
	return fmt.Sprintf("recap:daily:%s", day.Format("2006-01-02"))
}

// ClassLiveChannel is the pub/sub channel for live attendance events of a class.
func (cacheKeys) ClassLiveChannel(classID int) string {
	return fmt.Sprintf("live:class:%d", classID)
}
