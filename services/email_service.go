package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/mashkanta-plus/leads-backend/config"
	apperrors "github.com/mashkanta-plus/leads-backend/errors"
	"github.com/mashkanta-plus/leads-backend/logger"
	"github.com/mashkanta-plus/leads-backend/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"
)

type EmailMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

// EmailService sends the owner a Hebrew HTML notification for each persisted
// lead via Resend. It implements types.NotificationSender.
type EmailService struct {
	config *config.EmailConfig
	sheets *config.SheetsConfig
	client *resend.Client
	// sheetsService provides the business-timezone timestamp shown in the mail
	sheetsService *SheetsService
	metrics       *EmailMetrics
}

func NewEmailService(cfg *config.EmailConfig, sheetsCfg *config.SheetsConfig, sheetsService *SheetsService) *EmailService {
	return NewEmailServiceWithRegistry(cfg, sheetsCfg, sheetsService, prometheus.DefaultRegisterer)
}

func NewEmailServiceWithRegistry(cfg *config.EmailConfig, sheetsCfg *config.SheetsConfig, sheetsService *SheetsService, reg prometheus.Registerer) *EmailService {
	logger.GetLogger().Infow("Initializing email service",
		"from", cfg.FromAddress,
		"owner", logger.MaskEmail(cfg.OwnerAddress))

	client := resend.NewClient(cfg.ResendAPIKey)
	metrics := &EmailMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "leads_email_send_duration_seconds",
			Help:    "Time taken to send lead notification emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leads_email_errors_total",
			Help: "Total number of lead notification email errors",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leads_emails_sent_total",
			Help: "Total number of lead notification emails sent",
		}),
	}

	reg.MustRegister(metrics.sendLatency)
	reg.MustRegister(metrics.errorCount)
	reg.MustRegister(metrics.sentCount)

	return &EmailService{
		config:        cfg,
		sheets:        sheetsCfg,
		client:        client,
		sheetsService: sheetsService,
		metrics:       metrics,
	}
}

// SendLeadNotification renders the RTL notification template and sends it to
// the configured owner address. Errors are returned for the caller to log;
// the intake handler deliberately discards them after logging.
func (s *EmailService) SendLeadNotification(ctx context.Context, lead types.Lead) error {
	startTime := time.Now()
	log := logger.GetLogger()
	defer func() {
		s.metrics.sendLatency.Observe(time.Since(startTime).Seconds())
	}()

	if !s.config.Configured() {
		s.metrics.errorCount.Inc()
		return apperrors.MissingConfiguration("resend email")
	}

	email := lead.Email
	if email == "" {
		email = "לא צוין"
	}

	data := types.EmailData{
		To:      s.config.OwnerAddress,
		Subject: fmt.Sprintf("ליד חדש: %s - %s", lead.Name, lead.MortgageType.Label()),
		TemplateData: map[string]interface{}{
			"Name":           lead.Name,
			"Email":          email,
			"Phone":          lead.Phone,
			"MortgageLabel":  lead.MortgageType.Label(),
			"Timestamp":      s.sheetsService.Timestamp(),
			"SpreadsheetURL": s.sheets.SpreadsheetURL(),
		},
	}

	tmpl, err := template.New("lead_notification").Parse(leadNotificationTemplate)
	if err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to parse notification template", "error", err)
		return apperrors.EmailFailure(err)
	}

	var htmlContent bytes.Buffer
	if err := tmpl.Execute(&htmlContent, data.TemplateData); err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to execute notification template", "error", err)
		return apperrors.EmailFailure(err)
	}

	from := s.config.FromAddress
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress)
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      []string{data.To},
		Subject: data.Subject,
		Html:    htmlContent.String(),
	}

	_, err = s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to send lead notification",
			"error", err,
			"to", logger.MaskEmail(data.To))
		return classifyResendError(err)
	}

	s.metrics.sentCount.Inc()
	log.Infow("Lead notification sent",
		"to", logger.MaskEmail(data.To),
		"mortgage_type", lead.MortgageType)

	return nil
}

// classifyResendError maps a Resend failure to the upstream error taxonomy.
func classifyResendError(err error) *apperrors.AppError {
	msg := err.Error()

	if strings.Contains(msg, "API key") || strings.Contains(msg, "Unauthorized") {
		return apperrors.EmailUnauthorized(err)
	}
	if strings.Contains(msg, "domain") || strings.Contains(msg, "from") {
		return apperrors.EmailDomainUnverified(err)
	}
	return apperrors.EmailFailure(err)
}

// leadNotificationTemplate is the fixed right-to-left owner notification.
// Lead fields are inserted through html/template, which escapes them.
const leadNotificationTemplate = `<!DOCTYPE html>
<html dir="rtl" lang="he">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>ליד חדש - {{.Name}}</title>
</head>
<body style="font-family: Arial, sans-serif; direction: rtl; text-align: right; background-color: #f5f5f5; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; padding: 30px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
    <h1 style="color: #333; margin-bottom: 30px; border-bottom: 2px solid #4CAF50; padding-bottom: 10px;">
      ליד חדש התקבל
    </h1>

    <div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px; margin-bottom: 20px;">
      <h2 style="color: #555; margin-top: 0;">פרטי הליד:</h2>

      <table style="width: 100%; border-collapse: collapse;">
        <tr>
          <td style="padding: 10px; font-weight: bold; color: #333; width: 40%;">שם:</td>
          <td style="padding: 10px; color: #666;">{{.Name}}</td>
        </tr>
        <tr>
          <td style="padding: 10px; font-weight: bold; color: #333;">אימייל:</td>
          <td style="padding: 10px; color: #666;">{{.Email}}</td>
        </tr>
        <tr>
          <td style="padding: 10px; font-weight: bold; color: #333;">טלפון:</td>
          <td style="padding: 10px; color: #666;">{{.Phone}}</td>
        </tr>
        <tr>
          <td style="padding: 10px; font-weight: bold; color: #333;">סוג משכנתא:</td>
          <td style="padding: 10px; color: #666;">{{.MortgageLabel}}</td>
        </tr>
        <tr>
          <td style="padding: 10px; font-weight: bold; color: #333;">תאריך ושעה:</td>
          <td style="padding: 10px; color: #666;">{{.Timestamp}}</td>
        </tr>
      </table>
    </div>

    {{if .SpreadsheetURL}}
    <div style="text-align: center; margin-top: 30px;">
      <a href="{{.SpreadsheetURL}}"
         style="display: inline-block; background-color: #4CAF50; color: #ffffff; padding: 12px 30px; text-decoration: none; border-radius: 5px; font-weight: bold;">
        צפה בגיליון האלקטרוני
      </a>
    </div>
    {{end}}

    <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; color: #999; font-size: 12px; text-align: center;">
      <p>אימייל זה נשלח אוטומטית ממערכת איסוף לידים</p>
    </div>
  </div>
</body>
</html>`
