package mailer

import (
	"net/smtp"
	"strings"
	"testing"
)

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func captureMailer(t *testing.T) (*Mailer, *capturedMail) {
	t.Helper()
	cap := &capturedMail{}
	m := New("smtp.example.com", "587", "sender", "pass", "no-reply@example.com", "https://app.example.com")
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		cap.addr = addr
		cap.from = from
		cap.to = to
		cap.msg = string(msg)
		return nil
	}
	return m, cap
}

func TestSendResetLink(t *testing.T) {
	m, cap := captureMailer(t)
	if err := m.SendResetLink("student@example.com", "tok-123"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if cap.addr != "smtp.example.com:587" {
		t.Errorf("unexpected addr: %s", cap.addr)
	}
	if len(cap.to) != 1 || cap.to[0] != "student@example.com" {
		t.Errorf("unexpected recipients: %v", cap.to)
	}
	if !strings.Contains(cap.msg, "https://app.example.com/reset-password?token=tok-123") {
		t.Errorf("reset link missing from body:\n%s", cap.msg)
	}
	if !strings.Contains(cap.msg, "Subject: Reset Your Password") {
		t.Errorf("subject missing:\n%s", cap.msg)
	}
}

func TestSendCheckoutReminder(t *testing.T) {
	m, cap := captureMailer(t)
	if err := m.SendCheckoutReminder("student@example.com", "Asha"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if !strings.Contains(cap.msg, "Hi Asha") {
		t.Errorf("greeting missing:\n%s", cap.msg)
	}
}

func TestUnconfiguredMailerIsNoop(t *testing.T) {
	m := New("", "", "", "", "", "")
	if m.Enabled() {
		t.Error("mailer without host should report disabled")
	}
	if err := m.SendCheckoutReminder("a@b.c", "A"); err != nil {
		t.Errorf("no-op send should not error, got %v", err)
	}
}
