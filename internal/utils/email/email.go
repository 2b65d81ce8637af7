package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/finsight/finsight-service/internal/config"
	"github.com/finsight/finsight-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendRiskDigest mails a plain-text digest of the user's current risk report
func (s *Sender) SendRiskDigest(to, username string, report *models.RiskReport) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Your weekly financial risk digest (%s risk)", report.RiskLevel)

	var body strings.Builder
	fmt.Fprintf(&body, "Dear %s,\n\n", username)
	fmt.Fprintf(&body, "Overall risk score: %.2f (%s)\n", report.OverallRiskScore, report.RiskLevel)
	fmt.Fprintf(&body, "Estimated credit score: %d\n", report.CreditRisk.EstimatedCreditScore)
	fmt.Fprintf(&body, "Emergency fund coverage: %.1f months\n", report.LiquidityRisk.EmergencyFundMonths)
	fmt.Fprintf(&body, "Spending volatility: %.2f\n\n", report.MarketRisk.SpendingVolatility)

	if len(report.Forecast) > 0 {
		fmt.Fprintf(&body, "Next %d months of projected spending:\n", len(report.Forecast))
		for i, v := range report.Forecast {
			fmt.Fprintf(&body, "  Month +%d: %.2f\n", i+1, v)
		}
		body.WriteString("\n")
	}

	if len(report.Recommendations) > 0 {
		body.WriteString("Recommendations:\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&body, "  - %s\n", rec)
		}
		body.WriteString("\n")
	}
	body.WriteString("Best regards,\nFinsight")
	e.Text = []byte(body.String())

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
