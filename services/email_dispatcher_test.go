package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"studyTrackerAPI/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProvider struct {
	mu   sync.Mutex
	sent []EmailJob
	done chan struct{}
}

func (p *recordingProvider) SendEmail(ctx context.Context, to, subject, body string) error {
	p.mu.Lock()
	p.sent = append(p.sent, EmailJob{To: to, Subject: subject, Body: body})
	p.mu.Unlock()
	p.done <- struct{}{}
	return nil
}

func TestEmailDispatcher_SendVerification(t *testing.T) {
	provider := &recordingProvider{done: make(chan struct{}, 1)}
	d := NewEmailDispatcher(provider, "https://study.example.com/")
	defer d.Stop()

	d.SendVerification("alice@example.com", "alice", "tok en")

	select {
	case <-provider.done:
	case <-time.After(2 * time.Second):
		t.Fatal("email was not sent")
	}

	provider.mu.Lock()
	defer provider.mu.Unlock()
	require.Len(t, provider.sent, 1)
	job := provider.sent[0]
	assert.Equal(t, "alice@example.com", job.To)
	assert.Contains(t, job.Body, "https://study.example.com/verify-email?token=tok+en")
	assert.Contains(t, job.Body, "alice")
}

func TestEmailDispatcher_EscapesUsername(t *testing.T) {
	provider := &recordingProvider{done: make(chan struct{}, 1)}
	d := NewEmailDispatcher(provider, "http://localhost")
	defer d.Stop()

	d.SendVerification("x@example.com", "<script>", "t")
	<-provider.done

	provider.mu.Lock()
	defer provider.mu.Unlock()
	assert.NotContains(t, provider.sent[0].Body, "<script>")
}

func TestSMTPProvider_Message(t *testing.T) {
	p := NewSMTPProvider(config.MailConfig{From: "noreply@example.com", FromName: "Study Tracker"})

	msg := string(p.message("alice@example.com", "请验证您的邮箱地址", "<p>hi</p>"))

	assert.Contains(t, msg, "From: Study Tracker <noreply@example.com>\r\n")
	assert.Contains(t, msg, "To: alice@example.com\r\n")
	assert.Contains(t, msg, "Subject: =?utf-8?q?")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n<p>hi</p>"))
}
