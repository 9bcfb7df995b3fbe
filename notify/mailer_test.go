package notify

import (
	"bytes"
	"context"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := LogMailer{BaseURL: "http://desk.local", Logger: log.New(&buf, "", 0)}

	err := m.SendPasswordReset(context.Background(), "ada@example.com", "tok en", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "ada@example.com")
	assert.Contains(t, buf.String(), "http://desk.local/reset-password?token=tok+en")
	assert.Contains(t, buf.String(), "2026-01-02T03:04:05Z")
}
