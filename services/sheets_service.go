package services

import (
	"context"
	"strings"
	"time"

	"github.com/mashkanta-plus/leads-backend/config"
	apperrors "github.com/mashkanta-plus/leads-backend/errors"
	"github.com/mashkanta-plus/leads-backend/logger"
	"github.com/mashkanta-plus/leads-backend/types"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	sheetsScope = "https://www.googleapis.com/auth/spreadsheets"

	headerRange = "A1:E1"
	appendRange = "A:E"

	timestampLayout = "02/01/2006 15:04:05"
)

// headerRow is the fixed Hebrew header written once to an empty sheet.
var headerRow = []interface{}{"תאריך ושעה", "שם", "אימייל", "טלפון", "סוג משכנתא"}

// SheetsService appends leads to a Google Sheets spreadsheet using
// service-account credentials. It implements types.LeadWriter.
type SheetsService struct {
	cfg      *config.SheetsConfig
	location *time.Location
	// opts overrides the JWT-authenticated client; used by tests to point the
	// client at a fake upstream.
	opts []option.ClientOption
}

// NewSheetsService creates a SheetsService. Extra client options replace the
// default service-account transport entirely.
func NewSheetsService(cfg *config.SheetsConfig, opts ...option.ClientOption) *SheetsService {
	location, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		logger.GetLogger().Warnw("Failed to load business timezone, falling back to UTC", "error", err)
		location = time.UTC
	}

	return &SheetsService{
		cfg:      cfg,
		location: location,
		opts:     opts,
	}
}

// Timestamp returns the current time in the business timezone, formatted the
// way the spreadsheet and notification email display it.
func (s *SheetsService) Timestamp() string {
	return time.Now().In(s.location).Format(timestampLayout)
}

// AppendLead writes one row [timestamp, name, email, phone, typeLabel] to the
// spreadsheet, lazily writing the header row when the sheet is empty.
//
// The header check-then-append is not transactionally guarded: two concurrent
// first-ever writes can both observe an empty header and both append one.
// First-write concurrency is effectively zero for this workload, so the race
// is accepted rather than guarded.
func (s *SheetsService) AppendLead(ctx context.Context, lead types.Lead) error {
	svc, err := s.service(ctx)
	if err != nil {
		return err
	}

	log := logger.GetLogger()

	if err := s.ensureHeader(ctx, svc); err != nil {
		return err
	}

	row := []interface{}{
		s.Timestamp(),
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.MortgageType.Label(),
	}

	_, err = svc.Spreadsheets.Values.
		Append(s.cfg.SpreadsheetID, appendRange, &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		log.Errorw("Failed to append lead to spreadsheet",
			"error", err,
			"spreadsheet_id", logger.MaskSensitiveString(s.cfg.SpreadsheetID, 4, 4),
			"phone", logger.MaskPhone(lead.Phone))
		return classifySheetsError(err)
	}

	log.Infow("Lead appended to spreadsheet",
		"phone", logger.MaskPhone(lead.Phone),
		"mortgage_type", lead.MortgageType)

	return nil
}

// service builds an authenticated Sheets client, or fails with a
// configuration error when any credential is missing.
func (s *SheetsService) service(ctx context.Context) (*sheets.Service, error) {
	if !s.cfg.Configured() {
		return nil, apperrors.MissingConfiguration("google sheets")
	}

	if len(s.opts) > 0 {
		svc, err := sheets.NewService(ctx, s.opts...)
		if err != nil {
			return nil, apperrors.SheetsFailure(err)
		}
		return svc, nil
	}

	conf := &jwt.Config{
		Email:      s.cfg.ServiceAccountEmail,
		PrivateKey: []byte(s.cfg.PrivateKey),
		Scopes:     []string{sheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, apperrors.SheetsFailure(err)
	}
	return svc, nil
}

// ensureHeader reads the first row and appends the Hebrew header when absent.
func (s *SheetsService) ensureHeader(ctx context.Context, svc *sheets.Service) error {
	firstRow, err := svc.Spreadsheets.Values.
		Get(s.cfg.SpreadsheetID, headerRange).
		Context(ctx).
		Do()
	if err != nil {
		return classifySheetsError(err)
	}

	if len(firstRow.Values) > 0 {
		return nil
	}

	_, err = svc.Spreadsheets.Values.
		Append(s.cfg.SpreadsheetID, "A1", &sheets.ValueRange{Values: [][]interface{}{headerRow}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return classifySheetsError(err)
	}

	logger.GetLogger().Infow("Spreadsheet header row written")
	return nil
}

// classifySheetsError maps a Google API failure to the upstream error
// taxonomy so the handler can surface a class-specific localized message.
func classifySheetsError(err error) *apperrors.AppError {
	gErr, ok := err.(*googleapi.Error)
	if !ok {
		return apperrors.SheetsFailure(err)
	}

	switch gErr.Code {
	case 403:
		msg := gErr.Message
		if strings.Contains(msg, "API has not been used") || strings.Contains(msg, "is disabled") {
			return apperrors.SheetsAPIDisabled(err)
		}
		return apperrors.SheetsPermissionDenied(err)
	case 404:
		return apperrors.SheetsNotFound(err)
	case 400:
		return apperrors.SheetsBadRequest(err)
	default:
		return apperrors.SheetsFailure(err)
	}
}
