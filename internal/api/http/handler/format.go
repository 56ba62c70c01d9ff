package handler

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

var ruMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Second, Format: "только что", DivBy: time.Second},
	{D: time.Minute, Format: "%d сек. %s", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "1 мин. %s", DivBy: 1},
	{D: time.Hour, Format: "%d мин. %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 ч. %s", DivBy: 1},
	{D: humanize.Day, Format: "%d ч. %s", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "1 дн. %s", DivBy: 1},
	{D: humanize.Week, Format: "%d дн. %s", DivBy: humanize.Day},
	{D: 2 * humanize.Week, Format: "1 нед. %s", DivBy: 1},
	{D: humanize.Month, Format: "%d нед. %s", DivBy: humanize.Week},
	{D: 2 * humanize.Month, Format: "1 мес. %s", DivBy: 1},
	{D: humanize.Year, Format: "%d мес. %s", DivBy: humanize.Month},
	{D: 2 * humanize.Year, Format: "1 г. %s", DivBy: 1},
	{D: humanize.LongTime, Format: "%d г. %s", DivBy: humanize.Year},
	{D: math.MaxInt64, Format: "очень давно", DivBy: 1},
}

// relativeTime formats then relative to now, e.g. "5 мин. назад".
func relativeTime(then, now time.Time) string {
	return humanize.CustomRelTime(then, now, "назад", "спустя", ruMagnitudes)
}

func groupHref(groupID int64) string {
	return fmt.Sprintf("/group/%d?from=archive", groupID)
}

func groupAvatar(groupID int64) string {
	return fmt.Sprintf("https://avatars.dicebear.com/api/identicon/%d.svg", groupID)
}
