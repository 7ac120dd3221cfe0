// Package sender содержит сервис рассылки писем участникам:
// потребляет события из очереди уведомлений и отправляет их по SMTP.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/radiocomunidad/radio-community/internal/lib/sl"
	"github.com/radiocomunidad/radio-community/internal/lib/smtp"
	"github.com/radiocomunidad/radio-community/internal/models"
)

// Service реализует отправку писем по событиям уведомлений.
type Service struct {
	transport Transport
	log       *slog.Logger
}

// Transport описывает SMTP транспорт.
type Transport interface {
	Connect() (smtp.Client, error)
	GetSMTPUser() string
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, transport Transport) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// SendWelcome отправляет новому участнику письмо с временными учётными данными.
func (s *Service) SendWelcome(body []byte) error {
	var message models.WelcomeMessage
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal welcome message", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Bienvenido a Radio Comunidad"
	bodyText := fmt.Sprintf(`Hola, %s!

Tu membresia ya esta activa y tenes derecho a voto en la comunidad.

Usuario: %s
Contrasena temporal: %s

Te recomendamos cambiar la contrasena despues del primer ingreso.`,
		message.Name, message.Email, message.TempPassword)

	return s.sendEmail(to, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("welcome email sent", sl.Email(to[0]))
	return nil
}
