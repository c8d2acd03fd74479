package email

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/shazamohamed705/layatofk-master88-sub001/internal/config"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/entity"
)

// Mailer sends the best-effort moderation notification when a listing
// is submitted. Failures never block a submit.
type Mailer struct {
	cfg    *config.SMTPConfig
	logger *zap.Logger
}

func NewMailer(cfg *config.SMTPConfig, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

func (m *Mailer) NotifyListingSubmitted(rec *entity.CompletedListing) error {
	if m.cfg.Host == "" || m.cfg.SenderEmail == "" || m.cfg.ModerationEmail == "" {
		m.logger.Warn("SMTP configuration incomplete, moderation email not sent",
			zap.String("host", m.cfg.Host))
		return fmt.Errorf("smtp configuration is incomplete")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.SenderEmail)
	msg.SetHeader("To", m.cfg.ModerationEmail)
	msg.SetHeader("Subject", fmt.Sprintf("New listing submitted: %s", rec.Title))
	msg.SetBody("text/plain", fmt.Sprintf(
		"A new listing was submitted.\n\nTitle: %s\nCategory: %s (%s)\nPrice: %s\nWhatsApp: %s\nImages: %d\nSubmitted at: %s\n",
		rec.Title, rec.CategoryName, rec.CategoryID, rec.Price, rec.Whatsapp, rec.ImagesCount,
		rec.CreatedAt.Format("2006-01-02 15:04:05"),
	))

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		m.logger.Error("Failed to send moderation email", zap.Error(err), zap.String("title", rec.Title))
		return fmt.Errorf("failed to send moderation email: %w", err)
	}

	m.logger.Info("Moderation email sent", zap.String("to", m.cfg.ModerationEmail), zap.String("title", rec.Title))
	return nil
}
