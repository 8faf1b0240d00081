package monday

import "sort"

// Target sections a board can feed. Each maps to one destination table.
const (
	SectionPipeline    = "pipeline"
	SectionPreApproval = "preapproval"
	SectionFunded      = "funded"
)

// SourceMonday tags rows whose last write came from the sync engine.
const SourceMonday = "monday"

// Per-section whitelists of internal fields a column mapping may target.
// The sections deliberately do not share one set; overlapping names
// (loan_amount, rate) are separate fields on separate tables.
var sectionFields = map[string]map[string]bool{
	SectionPipeline: {
		"client_name":       true,
		"stage":             true,
		"loan_amount":       true,
		"rate":              true,
		"loan_type":         true,
		"lender":            true,
		"loan_officer_name": true,
		"application_date":  true,
		"lock_date":         true,
		"closing_date":      true,
		"notes":             true,
	},
	SectionPreApproval: {
		"client_name":       true,
		"status":            true,
		"loan_amount":       true,
		"rate":              true,
		"loan_type":         true,
		"loan_officer_name": true,
		"pre_approval_date": true,
		"expiration_date":   true,
		"notes":             true,
	},
	SectionFunded: {
		"client_name":       true,
		"loan_amount":       true,
		"rate":              true,
		"loan_type":         true,
		"lender":            true,
		"loan_officer_name": true,
		"funded_date":       true,
		"notes":             true,
	},
}

// FieldLabels holds display labels for every internal field across sections.
var FieldLabels = map[string]string{
	"client_name":       "Client Name",
	"stage":             "Stage",
	"status":            "Status",
	"loan_amount":       "Loan Amount",
	"rate":              "Rate",
	"loan_type":         "Loan Type",
	"lender":            "Lender",
	"loan_officer_name": "Loan Officer",
	"application_date":  "Application Date",
	"lock_date":         "Lock Date",
	"closing_date":      "Closing Date",
	"pre_approval_date": "Pre-Approval Date",
	"expiration_date":   "Expiration Date",
	"funded_date":       "Funded Date",
	"notes":             "Notes",
}

// defaultTitleMap is the best-effort dictionary used to auto-derive a column
// mapping from external column titles when an admin has not configured one.
// Keys are lowercase trimmed titles.
var defaultTitleMap = map[string]string{
	"name":             "client_name",
	"client":           "client_name",
	"client name":      "client_name",
	"borrower":         "client_name",
	"stage":            "stage",
	"status":           "status",
	"loan amount":      "loan_amount",
	"amount":           "loan_amount",
	"purchase price":   "loan_amount",
	"rate":             "rate",
	"interest rate":    "rate",
	"loan type":        "loan_type",
	"program":          "loan_type",
	"lender":           "lender",
	"loan officer":     "loan_officer_name",
	"lo":               "loan_officer_name",
	"officer":          "loan_officer_name",
	"application date": "application_date",
	"app date":         "application_date",
	"lock date":        "lock_date",
	"rate lock":        "lock_date",
	"closing date":     "closing_date",
	"close date":       "closing_date",
	"pre-approval date": "pre_approval_date",
	"preapproval date":  "pre_approval_date",
	"expiration date":   "expiration_date",
	"expires":           "expiration_date",
	"funded date":       "funded_date",
	"funding date":      "funded_date",
	"notes":             "notes",
	"comments":          "notes",
}

// dateFields are parsed as Monday date column values (JSON {"date": ...}).
var dateFields = map[string]bool{
	"application_date":  true,
	"lock_date":         true,
	"closing_date":      true,
	"pre_approval_date": true,
	"expiration_date":   true,
	"funded_date":       true,
}

// ValidSection reports whether s names a known target section.
func ValidSection(s string) bool {
	_, ok := sectionFields[s]
	return ok
}

// AllowedField reports whether field may be mapped for the given section.
func AllowedField(section, field string) bool {
	return sectionFields[section][field]
}

// SectionFieldList returns the whitelist for a section, alphabetical, paired
// with labels, for the admin mapping UI.
func SectionFieldList(section string) []map[string]string {
	fields, ok := sectionFields[section]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(fields))
	for f := range fields {
		names = append(names, f)
	}
	sort.Strings(names)

	out := make([]map[string]string, 0, len(names))
	for _, f := range names {
		out = append(out, map[string]string{"field": f, "label": FieldLabels[f]})
	}
	return out
}
