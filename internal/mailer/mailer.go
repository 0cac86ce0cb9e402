// Package mailer sends the transactional emails: password-reset links and
// the evening checkout reminder.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends mail over SMTP with STARTTLS (port 587 style auth). A Mailer
// with an empty Host is a no-op sender for dev environments.
type Mailer struct {
	Host string
	Port string
	User string
	Pass string
	From string

	// ResetBaseURL is the public frontend origin the reset link points at.
	ResetBaseURL string

	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New creates a mailer.
func New(host, port, user, pass, from, resetBaseURL string) *Mailer {
	return &Mailer{
		Host:         host,
		Port:         port,
		User:         user,
		Pass:         pass,
		From:         from,
		ResetBaseURL: resetBaseURL,
		send:         smtp.SendMail,
	}
}

// Enabled reports whether SMTP is configured.
func (m *Mailer) Enabled() bool {
	return m != nil && m.Host != ""
}

func (m *Mailer) sendHTML(to, subject, html string) error {
	if !m.Enabled() {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)

	var a smtp.Auth
	if m.User != "" {
		a = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}
	if err := m.send(m.Host+":"+m.Port, a, m.From, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// SendResetLink mails a password-reset link valid for 30 minutes.
func (m *Mailer) SendResetLink(to, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.ResetBaseURL, token)
	html := fmt.Sprintf(`<html><body style="font-family: Arial; padding: 20px;">
<h2>Password Reset</h2>
<p>This link expires in 30 minutes.</p>
<a href="%s">Click here to reset</a>
</body></html>`, link)
	return m.sendHTML(to, "Reset Your Password - StudentApp", html)
}

// SendCheckoutReminder warns a student whose session is still open.
func (m *Mailer) SendCheckoutReminder(to, name string) error {
	html := fmt.Sprintf("<p>Hi %s, your study session is still in progress. Please check out before 10:00 PM or it will be closed automatically.</p>", name)
	return m.sendHTML(to, "Action Required: You forgot to Checkout!", html)
}
