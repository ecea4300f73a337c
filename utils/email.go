package utils

import (
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds email configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// BookingMail is what the confirmation mail shows.
type BookingMail struct {
	To           string
	Username     string
	ListingTitle string
	OrderID      string
	PaymentID    string
	Amount       string
	Currency     string
}

// Mailer sends transactional mail.
type Mailer interface {
	SendBookingConfirmation(m BookingMail) error
}

// NopMailer is used when SMTP is not configured.
type NopMailer struct{}

func (NopMailer) SendBookingConfirmation(BookingMail) error { return nil }

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer delivers through an SMTP relay.
type SMTPMailer struct {
	from   string
	dialer sender
}

func NewSMTPMailer(cfg EmailConfig) *SMTPMailer {
	if cfg.Port == 0 {
		cfg.Port = 587 // Default SMTP port
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPMailer{
		from:   from,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

var bookingTemplate = template.Must(template.New("booking").Parse(`
		<h2>Your Wanderlust booking is confirmed</h2>
		<p>Hi {{.Username}},</p>
		<p>We received your payment{{if .ListingTitle}} for <strong>{{.ListingTitle}}</strong>{{end}}.</p>
		<table>
			<tr><td>Amount</td><td>{{.Currency}} {{.Amount}}</td></tr>
			<tr><td>Order</td><td>{{.OrderID}}</td></tr>
			<tr><td>Payment</td><td>{{.PaymentID}}</td></tr>
		</table>
		<p>Happy travels!</p>
	`))

func (s *SMTPMailer) SendBookingConfirmation(b BookingMail) error {
	var body strings.Builder
	if err := bookingTemplate.Execute(&body, b); err != nil {
		return fmt.Errorf("failed to render email: %v", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", b.To)
	m.SetHeader("Subject", "Your Wanderlust booking is confirmed")
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
