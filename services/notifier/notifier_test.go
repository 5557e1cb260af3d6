package notifier

import (
	"bytes"
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nepremwatch/internal/scraper"
	"nepremwatch/pkg/errors"
)

var sampleListings = []scraper.Listing{
	{
		URL:         "https://www.nepremicnine.net/oglas-1/",
		Title:       "Trisobno stanovanje",
		PriceAmount: "285000.00",
		Location:    "Ljubljana Center",
	},
	{
		URL:   "https://www.nepremicnine.net/oglas-2/",
		Title: "Hiša Kranj",
	},
}

func TestStdoutNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewStdout(&buf)

	require.NoError(t, n.Notify(context.Background(), sampleListings))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"Trisobno stanovanje | 285000.00 | Ljubljana Center | https://www.nepremicnine.net/oglas-1/",
		lines[0])
	assert.Equal(t,
		"Hiša Kranj | https://www.nepremicnine.net/oglas-2/",
		lines[1], "empty price and location segments are left out")
}

func TestSMTPNotifierIncompleteConfig(t *testing.T) {
	dialed := false
	n := NewSMTP(SMTPConfig{Host: "smtp.example.com", User: "user"})
	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		dialed = true
		return nil
	}

	err := n.Notify(context.Background(), sampleListings)

	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
	assert.Contains(t, err.Error(), "SMTP_PASS")
	assert.False(t, dialed, "no send attempt with incomplete credentials")
}

func TestSMTPNotifierMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	n := NewSMTP(SMTPConfig{
		Host: "smtp.example.com",
		User: "user",
		Pass: "pass",
		From: "watch@example.com",
		To:   "me@example.com",
	})
	n.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, n.Notify(context.Background(), sampleListings))

	assert.Equal(t, "smtp.example.com:587", gotAddr, "default port applies")
	assert.Equal(t, "watch@example.com", gotFrom)
	assert.Equal(t, []string{"me@example.com"}, gotTo)

	msg := string(gotMsg)
	assert.Contains(t, msg, "Subject: 2 new listing(s) on nepremicnine.net")
	assert.Contains(t, msg,
		"Trisobno stanovanje | 285000.00 | Ljubljana Center | https://www.nepremicnine.net/oglas-1/")
	assert.Contains(t, msg,
		"Hiša Kranj |  |  | https://www.nepremicnine.net/oglas-2/",
		"mail lines always carry all four segments")
}

func TestSMTPNotifierSendFailure(t *testing.T) {
	n := NewSMTP(SMTPConfig{
		Host: "smtp.example.com",
		User: "user",
		Pass: "pass",
		From: "watch@example.com",
		To:   "me@example.com",
	})
	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		return assert.AnError
	}

	err := n.Notify(context.Background(), sampleListings)
	require.Error(t, err)
	assert.True(t, errors.IsNotify(err))
}

// TestRedisNotifier runs against a local redis when one is reachable
func TestRedisNotifier(t *testing.T) {
	n := NewRedis(RedisConfig{Addr: "localhost:6379", Stream: "nepremwatch:test"})
	defer n.Close()

	ctx := context.Background()
	if err := n.Ping(ctx); err != nil {
		t.Skipf("redis not available: %v", err)
	}

	assert.NoError(t, n.Notify(ctx, sampleListings))
}
