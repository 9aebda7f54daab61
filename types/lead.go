package types

// MortgageType enumerates the mortgage products a lead may ask about.
type MortgageType string

const (
	MortgageTypeNew       MortgageType = "new"
	MortgageTypeRefinance MortgageType = "refinance"
	MortgageTypeReverse   MortgageType = "reverse"
)

// mortgageTypeLabels maps each product to its Hebrew display label, used in
// the spreadsheet row and the notification email.
var mortgageTypeLabels = map[MortgageType]string{
	MortgageTypeNew:       "משכנתא חדשה",
	MortgageTypeRefinance: "מחזור משכנתא",
	MortgageTypeReverse:   "משכנתא הפוכה",
}

// Valid reports whether the value is one of the three known products.
func (m MortgageType) Valid() bool {
	_, ok := mortgageTypeLabels[m]
	return ok
}

// Label returns the Hebrew display label. Unknown values fall back to the raw
// string so a row is never written with an empty type column.
func (m MortgageType) Label() string {
	if label, ok := mortgageTypeLabels[m]; ok {
		return label
	}
	return string(m)
}

// LeadCreate is the raw intake payload as submitted by the landing page.
// FullName is a legacy alias for Name kept for older form versions.
type LeadCreate struct {
	Name         string `json:"name"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	MortgageType string `json:"mortgageType"`
}

// Lead is a fully validated, sanitized lead. Instances only exist after every
// field check has passed; a partially valid lead is never constructed.
type Lead struct {
	Name         string
	Email        string
	Phone        string
	MortgageType MortgageType
}
