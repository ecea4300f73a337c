package utils

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	sent []*gomail.Message
	err  error
}

func (s *captureSender) DialAndSend(m ...*gomail.Message) error {
	s.sent = append(s.sent, m...)
	return s.err
}

func TestSMTPMailerBookingConfirmation(t *testing.T) {
	cs := &captureSender{}
	m := NewSMTPMailer(EmailConfig{Host: "smtp.example.com", Username: "noreply@example.com"})
	m.dialer = cs

	err := m.SendBookingConfirmation(BookingMail{
		To:           "guest@example.com",
		Username:     "guest",
		ListingTitle: "Beach <House>",
		OrderID:      "order_1",
		PaymentID:    "pay_1",
		Amount:       "12.50",
		Currency:     "INR",
	})
	require.NoError(t, err)
	require.Len(t, cs.sent, 1)

	msg := cs.sent[0]
	assert.Equal(t, []string{"guest@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"noreply@example.com"}, msg.GetHeader("From"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "order_1")
}

func TestBookingTemplateEscapes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bookingTemplate.Execute(&buf, BookingMail{ListingTitle: "Beach <House>"}))
	assert.Contains(t, buf.String(), "Beach &lt;House&gt;")
}

func TestSMTPMailerError(t *testing.T) {
	m := NewSMTPMailer(EmailConfig{Host: "smtp.example.com"})
	m.dialer = &captureSender{err: errors.New("connection refused")}
	assert.Error(t, m.SendBookingConfirmation(BookingMail{To: "x@example.com"}))
}
