package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/mashkanta-plus/leads-backend/errors"
	"github.com/mashkanta-plus/leads-backend/internal/security"
	"github.com/mashkanta-plus/leads-backend/logger"
	"github.com/mashkanta-plus/leads-backend/types"
)

// LeadHandler handles lead submissions from the landing page form.
type LeadHandler struct {
	writer   types.LeadWriter
	notifier types.NotificationSender
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(writer types.LeadWriter, notifier types.NotificationSender) *LeadHandler {
	return &LeadHandler{
		writer:   writer,
		notifier: notifier,
	}
}

// SubmitLead godoc
// @Summary      Submit a lead
// @Description  Validates a lead, appends it to the spreadsheet and notifies the owner
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        body  body      types.LeadCreate  true  "Lead payload"
// @Success      200   {object}  types.APIResponse
// @Failure      400   {object}  types.APIResponse
// @Failure      429   {object}  types.APIResponse
// @Failure      500   {object}  types.APIResponse
// @Router       /api/leads [post]
func (h *LeadHandler) SubmitLead(c *gin.Context) {
	log := logger.GetLogger()

	var req types.LeadCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	lead, appErr := buildLead(c, req)
	if appErr != nil {
		_ = c.Error(appErr)
		return
	}

	// Persistence is the source of truth; a failed append loses the lead and
	// fails the request.
	if err := h.writer.AppendLead(c.Request.Context(), lead); err != nil {
		_ = c.Error(err)
		return
	}

	// Notification is best-effort: the lead is already saved, so a send
	// failure is logged and the request still succeeds.
	if err := h.notifier.SendLeadNotification(c.Request.Context(), lead); err != nil {
		log.Errorw("Lead notification failed",
			"error", err,
			"phone", logger.MaskPhone(lead.Phone))
	}

	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Message: types.LeadSavedMessage,
	})
}

// buildLead sanitizes and validates the raw payload into a Lead. The Lead is
// only constructed when every required check passes, so no partially valid
// lead can reach an external call.
func buildLead(c *gin.Context, req types.LeadCreate) (types.Lead, *apperrors.AppError) {
	log := logger.GetLogger()

	rawName := req.Name
	if rawName == "" {
		// Legacy form versions submit the name as fullName.
		rawName = req.FullName
	}

	if security.ContainsDangerousContent(rawName) || security.ContainsDangerousContent(req.Email) {
		log.Warnw("Suspicious content in lead submission",
			"ip", c.ClientIP(),
			"path", c.Request.URL.Path)
	}

	name := security.SanitizeName(rawName)
	if name == "" {
		return types.Lead{}, apperrors.ValidationFailed("שם הוא שדה חובה", "name is required")
	}

	phone := security.SanitizePhone(req.Phone)
	if phone == "" {
		return types.Lead{}, apperrors.ValidationFailed("טלפון הוא שדה חובה", "phone is required")
	}

	mortgageType := types.MortgageType(req.MortgageType)
	if !mortgageType.Valid() {
		return types.Lead{}, apperrors.ValidationFailed("סוג משכנתא לא תקין", "invalid mortgage type")
	}

	return types.Lead{
		Name:         name,
		Email:        security.SanitizeEmail(req.Email),
		Phone:        phone,
		MortgageType: mortgageType,
	}, nil
}
