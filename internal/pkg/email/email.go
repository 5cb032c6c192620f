package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/teachhq/teach-backend/internal/app/models"
)

// EmailService defines the interface for registration notification emails
type EmailService interface {
	SendRegistrationConfirmation(toEmail string, event *models.Event, occurrence *models.Occurrence) error
	SendCancellationNotice(toEmail string, event *models.Event, occurrence *models.Occurrence) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

// SendRegistrationConfirmation sends a confirmation email after a successful registration
func (s *EmailServiceImpl) SendRegistrationConfirmation(toEmail string, event *models.Event, occurrence *models.Occurrence) error {
	// If username or password is empty, log the email instead (for development only)
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("eventTitle", event.Title).
			Time("occurrenceDate", occurrence.Date).
			Msg("SMTP credentials not configured - registration confirmation not sent.")

		// Return success for development purposes
		return nil
	}
	subject := fmt.Sprintf("Registration Confirmed: %s - TEACH", event.Title)
	return s.sendHTMLEmail(toEmail, subject, registrationConfirmationBody(event, occurrence))
}

// SendCancellationNotice sends a notice after a registration has been cancelled
func (s *EmailServiceImpl) SendCancellationNotice(toEmail string, event *models.Event, occurrence *models.Occurrence) error {
	// If username or password is empty, log the email instead (for development only)
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("eventTitle", event.Title).
			Time("occurrenceDate", occurrence.Date).
			Msg("SMTP credentials not configured - cancellation notice not sent.")

		// Return success for development purposes
		return nil
	}
	subject := fmt.Sprintf("Registration Cancelled: %s - TEACH", event.Title)
	return s.sendHTMLEmail(toEmail, subject, cancellationNoticeBody(event, occurrence))
}

// registrationConfirmationBody renders the confirmation email. StartTime and
// EndTime are already "15:04" wall-clock strings on the occurrence.
func registrationConfirmationBody(event *models.Event, occurrence *models.Occurrence) string {
	return fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">You're registered!</h2>
				<p>Your spot for the following session has been confirmed:</p>

				<div style="background-color: #f5f5f5; padding: 16px; border-radius: 4px; margin: 20px 0;">
					<p style="margin: 4px 0;"><strong>%s</strong></p>
					<p style="margin: 4px 0;">%s</p>
					<p style="margin: 4px 0;">%s &ndash; %s</p>
				</div>

				<p>You can review or cancel your registration from the event page at any time before the session starts.</p>

				<p>Best regards,<br>The TEACH Team</p>
			</div>
		</body>
		</html>
	`, event.Title,
		occurrence.Date.Format("Monday, January 2, 2006"),
		occurrence.StartTime,
		occurrence.EndTime)
}

// cancellationNoticeBody renders the cancellation email
func cancellationNoticeBody(event *models.Event, occurrence *models.Occurrence) string {
	return fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Registration cancelled</h2>
				<p>Your registration for the following session has been cancelled:</p>

				<div style="background-color: #f5f5f5; padding: 16px; border-radius: 4px; margin: 20px 0;">
					<p style="margin: 4px 0;"><strong>%s</strong></p>
					<p style="margin: 4px 0;">%s</p>
					<p style="margin: 4px 0;">%s &ndash; %s</p>
				</div>

				<p>If this was a mistake, you can register again from the event page as long as seats are available.</p>

				<p>Best regards,<br>The TEACH Team</p>
			</div>
		</body>
		</html>
	`, event.Title,
		occurrence.Date.Format("Monday, January 2, 2006"),
		occurrence.StartTime,
		occurrence.EndTime)
}

// sendHTMLEmail sends an HTML email
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	// Set up authentication information
	auth := smtp.PlainAuth(
		"",
		s.config.Username,
		s.config.Password,
		s.config.Host,
	)

	// Set up email headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = toEmail
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"
	headers["Date"] = time.Now().Format(time.RFC1123Z)

	// Construct message
	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	// Connect to the server, set up a connection
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	// Use TLS if configured
	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			InsecureSkipVerify: true,
			ServerName:         s.config.Host,
		}

		// Connect to the SMTP server with TLS
		conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
		if err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.Host)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to create SMTP client")
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
		defer client.Quit()

		// Authenticate
		if err = client.Auth(auth); err != nil {
			s.logger.Error().Err(err).Msg("SMTP authentication failed")
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}

		// Set the sender and recipient
		if err = client.Mail(s.config.FromEmail); err != nil {
			return fmt.Errorf("failed to set sender: %w", err)
		}
		if err = client.Rcpt(toEmail); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}

		// Send the email body
		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("failed to get data writer: %w", err)
		}
		_, err = w.Write([]byte(message))
		if err != nil {
			return fmt.Errorf("failed to write email message: %w", err)
		}
		err = w.Close()
		if err != nil {
			return fmt.Errorf("failed to close data writer: %w", err)
		}

		return nil
	}

	// Simple SMTP without TLS
	err := smtp.SendMail(
		serverAddress,
		auth,
		s.config.FromEmail,
		[]string{toEmail},
		[]byte(message),
	)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
