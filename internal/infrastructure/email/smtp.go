package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/instructionsmailer"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/config"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/utils/logutil"
)

// sender is the part of gomail.Dialer the mailer uses.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// SMTPConfigFrom converts the loaded email section.
func SMTPConfigFrom(cfg config.EmailConfig) SMTPConfig {
	return SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUser,
		Password:    cfg.SMTPPassword,
		FromAddress: cfg.FromAddress,
		FromName:    cfg.FromName,
	}
}

// SMTPInstructionsMailer delivers the awaiting-payment email over SMTP.
type SMTPInstructionsMailer struct {
	config SMTPConfig
	dialer sender
	logger logger.Interface
}

func NewSMTPInstructionsMailer(cfg SMTPConfig, log logger.Interface) *SMTPInstructionsMailer {
	return &SMTPInstructionsMailer{
		config: cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: log,
	}
}

func (s *SMTPInstructionsMailer) SendInstructions(ctx context.Context, msg instructionsmailer.InstructionsEmail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return fmt.Errorf("recipient address is required")
	}

	if err := s.dialer.DialAndSend(s.buildMessage(msg)); err != nil {
		s.logger.Errorw("failed to send instructions email", "to", logutil.MaskEmail(msg.To), "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infow("instructions email sent", "to", logutil.MaskEmail(msg.To), "subject", msg.Subject)
	return nil
}

func (s *SMTPInstructionsMailer) buildMessage(msg instructionsmailer.InstructionsEmail) *gomail.Message {
	m := gomail.NewMessage()
	if s.config.FromName != "" {
		m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	} else {
		m.SetHeader("From", s.config.FromAddress)
	}
	if msg.ToName != "" {
		m.SetAddressHeader("To", msg.To, msg.ToName)
	} else {
		m.SetHeader("To", msg.To)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.TextBody)
	if msg.HTMLBody != "" {
		m.AddAlternative("text/html", msg.HTMLBody)
	}
	return m
}

// LogInstructionsMailer stands in when no SMTP host is configured. The email
// is logged and reported as delivered.
type LogInstructionsMailer struct {
	logger logger.Interface
}

func NewLogInstructionsMailer(log logger.Interface) *LogInstructionsMailer {
	return &LogInstructionsMailer{logger: log}
}

func (l *LogInstructionsMailer) SendInstructions(ctx context.Context, msg instructionsmailer.InstructionsEmail) error {
	l.logger.Warnw("smtp not configured, instructions email not delivered",
		"to", logutil.MaskEmail(msg.To),
		"subject", msg.Subject)
	return nil
}

// NewInstructionsMailer picks the SMTP mailer when a host is configured.
func NewInstructionsMailer(cfg config.EmailConfig, log logger.Interface) instructionsmailer.InstructionsMailer {
	if !cfg.IsConfigured() {
		return NewLogInstructionsMailer(log)
	}
	return NewSMTPInstructionsMailer(SMTPConfigFrom(cfg), log)
}
