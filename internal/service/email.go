package service

import (
	"context"
	"fmt"

	"fixo-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, toName, subject, plainText string) error {
	if s.apiKey == "" {
		// Local setups without an API key skip delivery.
		logger.Debug("Email delivery skipped, no API key", "to", to, "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendBookingConfirmation(ctx context.Context, email, name, serviceName, date string) error {
	subject := fmt.Sprintf("Booking Received: %s", serviceName)
	body := fmt.Sprintf("Hello %s,\n\nWe received your booking for %s on %s. We will notify you once a provider is confirmed.\n\nThe Fixo Team", name, serviceName, date)
	return s.send(email, name, subject, body)
}

func (s *emailService) SendBookingStatusUpdate(ctx context.Context, email, name, serviceName, status string) error {
	subject := fmt.Sprintf("Booking Update: %s", serviceName)
	body := fmt.Sprintf("Hello %s,\n\nYour booking for %s is now %s.\n\nThe Fixo Team", name, serviceName, status)
	return s.send(email, name, subject, body)
}

func (s *emailService) SendProviderAssignment(ctx context.Context, email, name, serviceName, address, date string) error {
	subject := fmt.Sprintf("New Job: %s", serviceName)
	body := fmt.Sprintf("Hello %s,\n\nYou have been assigned a %s job on %s at:\n%s\n\nPlease confirm the booking in the app.\n\nThe Fixo Team", name, serviceName, date, address)
	return s.send(email, name, subject, body)
}

func (s *emailService) SendBookingReminder(ctx context.Context, email, name, serviceName, date string) error {
	subject := fmt.Sprintf("Reminder: %s tomorrow", serviceName)
	body := fmt.Sprintf("Hello %s,\n\nThis is a reminder for your %s booking on %s.\n\nThe Fixo Team", name, serviceName, date)
	return s.send(email, name, subject, body)
}

func (s *emailService) SendPropertyBookingNotification(ctx context.Context, email, name, propertyTitle, status string) error {
	subject := fmt.Sprintf("Rental Update: %s", propertyTitle)
	body := fmt.Sprintf("Hello %s,\n\nThe rental request for %s was %s.\n\nThe Fixo Team", name, propertyTitle, status)
	return s.send(email, name, subject, body)
}
