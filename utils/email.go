package utils

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"go-storefront/models"
)

// EmailService sends transactional mail through SendGrid.
type EmailService struct {
	client *sendgrid.Client
	sender string
}

// NewEmailService returns a SendGrid-backed mailer.
func NewEmailService(apiKey, sender string) *EmailService {
	return &EmailService{
		client: sendgrid.NewSendClient(apiKey),
		sender: sender,
	}
}

// SendEmail sends a basic HTML email to the given recipient.
func (es *EmailService) SendEmail(toEmail, toName, subject, htmlContent string) error {
	from := mail.NewEmail("Storefront", es.sender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, htmlContent, htmlContent)

	resp, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("send email: sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// SendOrderConfirmation mails the customer after a successful COD checkout.
func (es *EmailService) SendOrderConfirmation(toEmail, toName string, order models.Order) error {
	subject := "Order Confirmation"
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Thank you for your purchase! Your order (ID: %s) has been placed successfully.<br><br>Total Amount: <strong>$%.2f</strong><br>Payment Method: <strong>%s</strong><br><br>Thank you for shopping with us!",
		toName,
		order.ID.Hex(),
		order.Amount,
		order.PaymentType,
	)
	return es.SendEmail(toEmail, toName, subject, htmlContent)
}
