package uiutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatting(t *testing.T) {
	sp := time.FixedZone("BRT", -3*3600)
	ts := time.Date(2026, 4, 15, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, "15/04/2026", FormatDate(ts, sp))
	assert.Equal(t, "15/04/2026 11:30", FormatDateTime(ts, sp))
	assert.Equal(t, "11:30", FormatTime(ts, sp))
	assert.Equal(t, "15 de abril de 2026", LongDate(ts, nil))
	assert.Equal(t, "Quarta", Weekday(ts))
	assert.Empty(t, FormatDate(time.Time{}, sp))
}

func TestFriendlyRelativeTime(t *testing.T) {
	now := time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{-time.Hour, "agora"},
		{30 * time.Second, "agora"},
		{time.Minute, "há 1 minuto"},
		{5 * time.Minute, "há 5 minutos"},
		{3 * time.Hour, "há 3 horas"},
		{24 * time.Hour, "há 1 dia"},
		{10 * 24 * time.Hour, "05/04/2026"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FriendlyRelativeTime(now.Add(-tt.ago), now, time.UTC))
	}
}

func TestTruncateAndInitials(t *testing.T) {
	assert.Equal(t, "curto", TruncateWithEllipsis("curto", 10))
	assert.Equal(t, "abc…", TruncateWithEllipsis("abcdefgh", 4))
	assert.Equal(t, "…", TruncateWithEllipsis("abc", 1))

	assert.Equal(t, "AS", Initials("ana souza lima"))
	assert.Equal(t, "É", Initials("élida"))
	assert.Empty(t, Initials("  "))
}
