package page

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationAutoDismiss(t *testing.T) {
	center := NewCenter(50 * time.Millisecond)

	center.Show("imported", LevelSuccess)
	require.NotNil(t, center.Current())

	assert.Eventually(t, func() bool {
		return center.Current() == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNotificationManualDismiss(t *testing.T) {
	center := NewCenter(time.Hour)

	center.Show("imported", LevelSuccess)
	require.NotNil(t, center.Current())

	center.Dismiss()
	assert.Nil(t, center.Current())
}

func TestNotificationReplacement(t *testing.T) {
	center := NewCenter(time.Hour)

	center.Show("first", LevelInfo)
	center.Show("second", LevelError)

	current := center.Current()
	require.NotNil(t, current)
	assert.Equal(t, "second", current.Message)
	assert.Equal(t, LevelError, current.Level)
}

func TestNotificationReplacementRestartsTimer(t *testing.T) {
	center := NewCenter(80 * time.Millisecond)

	center.Show("first", LevelInfo)
	time.Sleep(50 * time.Millisecond)

	// The replacement gets a full TTL of its own; the first timer must
	// not take it down early.
	center.Show("second", LevelInfo)
	time.Sleep(50 * time.Millisecond)

	current := center.Current()
	require.NotNil(t, current)
	assert.Equal(t, "second", current.Message)

	assert.Eventually(t, func() bool {
		return center.Current() == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDismissIsSafeWhenNothingShown(t *testing.T) {
	center := NewCenter(time.Hour)
	center.Dismiss()
	assert.Nil(t, center.Current())
}
