package types

// APIResponse is the unified response format for the lead intake API.
// Message carries the localized (Hebrew) user-facing text; Error carries an
// English diagnostic string and is omitted on success.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Localized success message returned when a lead has been persisted.
const LeadSavedMessage = "הליד נשמר בהצלחה"
