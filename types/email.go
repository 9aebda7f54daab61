package types

import "context"

// NotificationSender sends the owner notification for a persisted lead.
type NotificationSender interface {
	SendLeadNotification(ctx context.Context, lead Lead) error
}

// LeadWriter appends a validated lead to the external spreadsheet.
type LeadWriter interface {
	AppendLead(ctx context.Context, lead Lead) error
}

// EmailData carries a rendered notification through the email service.
type EmailData struct {
	To           string
	Subject      string
	TemplateData map[string]interface{}
}
