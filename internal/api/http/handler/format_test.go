package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		then time.Time
		want string
	}{
		{now, "только что"},
		{now.Add(-30 * time.Second), "30 сек. назад"},
		{now.Add(-90 * time.Second), "1 мин. назад"},
		{now.Add(-5 * time.Minute), "5 мин. назад"},
		{now.Add(-3 * time.Hour), "3 ч. назад"},
		{now.Add(-3 * 24 * time.Hour), "3 дн. назад"},
		{now.Add(5 * time.Minute), "5 мин. спустя"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, relativeTime(tt.then, now))
		})
	}
}

func TestGroupLinks(t *testing.T) {
	assert.Equal(t, "/group/3?from=archive", groupHref(3))
	assert.Equal(t, "https://avatars.dicebear.com/api/identicon/3.svg", groupAvatar(3))
}
