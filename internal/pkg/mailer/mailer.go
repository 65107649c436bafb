package mailer

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
)

// Mailer delivers notification emails over implicit-TLS SMTP. When no
// host is configured, sends are simulated so the declaration workflow
// stays usable in development.
type Mailer struct {
	host     string
	port     string
	username string
	password string
}

func New(host, port, user, pass string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: user,
		password: pass,
	}
}

// Configured reports whether real delivery is possible.
func (m *Mailer) Configured() bool { return m.host != "" }

func (m *Mailer) Send(to, subject, body string) error {
	if !m.Configured() {
		// Simulated send; the caller still records the attempt.
		return nil
	}

	from := m.username
	msg := []byte(
		fmt.Sprintf("From: %s\r\n", from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	serverAddr := m.host + ":" + m.port

	// Implicit TLS for port 465
	conn, err := tls.Dial("tcp", serverAddr, &tls.Config{ServerName: m.host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return err
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := client.Auth(auth); err != nil {
		return err
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}
