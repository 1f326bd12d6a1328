package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	sent []int64
	err  error
}

func (c *captureSender) SendMessage(_ context.Context, chatID int64, _ string) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, chatID)
	return nil
}

type staticLister struct{ users []int64 }

func (s *staticLister) ActiveUsers() []int64 { return s.users }

func TestReminderNudgesActiveUsers(t *testing.T) {
	sender := &captureSender{}
	s, err := New("10 9 * * *", "checklist time", time.UTC, sender, &staticLister{users: []int64{1, 2, 3}})
	require.NoError(t, err)

	s.run()
	assert.Equal(t, []int64{1, 2, 3}, sender.sent)
}

func TestReminderIgnoresSendFailures(t *testing.T) {
	sender := &captureSender{err: errors.New("blocked")}
	s, err := New("10 9 * * *", "checklist time", time.UTC, sender, &staticLister{users: []int64{1}})
	require.NoError(t, err)

	// Must not panic or abort on a failed send.
	s.run()
	assert.Empty(t, sender.sent)
}

func TestReminderRejectsBadSpec(t *testing.T) {
	_, err := New("not a cron spec", "x", time.UTC, &captureSender{}, &staticLister{})
	assert.Error(t, err)
}
