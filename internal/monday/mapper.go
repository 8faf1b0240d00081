package monday

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// MappedRow is one item converted to internal field values. A nil pointer
// with its field touched means "explicitly cleared"; untouched fields are
// absent and must not overwrite stored data.
type MappedRow struct {
	MondayItemID string
	ClientName   string

	Stage           *string // also carries preapproval "status"
	LoanAmount      *float64
	Rate            *string
	LoanType        *string
	Lender          *string
	LoanOfficerName *string
	LoanOfficerID   *int
	ApplicationDate *string
	LockDate        *string
	ClosingDate     *string
	PreApprovalDate *string
	ExpirationDate  *string
	FundedDate      *string
	Notes           *string

	touched map[string]bool
}

func (r *MappedRow) touch(field string) {
	if r.touched == nil {
		r.touched = make(map[string]bool)
	}
	r.touched[field] = true
}

// Touched reports whether a column value (or seeded default) supplied this
// field during mapping.
func (r *MappedRow) Touched(field string) bool {
	return r.touched[field]
}

// Mapper converts fetched items into rows. The title dictionary and section
// whitelists are injected so the mapper stays testable in isolation.
type Mapper struct {
	TitleMap map[string]string
}

func NewMapper() *Mapper {
	return &Mapper{TitleMap: defaultTitleMap}
}

// MapItemToRow converts one item using a columnID->field map and a
// lowercase-name->user-id directory. Conversion never fails: unparseable
// numbers and dates become nil, blank display texts are skipped entirely.
func (m *Mapper) MapItemToRow(item Item, columnMap map[string]string, nameToUserID map[string]int, section string) MappedRow {
	row := MappedRow{
		MondayItemID: item.ID,
		ClientName:   strings.TrimSpace(item.Name),
	}
	if row.ClientName == "" {
		row.ClientName = "Unnamed"
	}

	// Group title seeds the stage; an explicitly mapped column overrides it.
	if g := strings.TrimSpace(item.GroupTitle); g != "" {
		row.Stage = &g
		row.touch("stage")
	}

	for _, cv := range item.ColumnValues {
		field, ok := columnMap[cv.ID]
		if !ok {
			continue
		}

		text := strings.TrimSpace(cv.Text)
		if text == "" {
			// Blank means "no information", never "clear this field".
			continue
		}

		switch {
		case field == "loan_amount":
			row.LoanAmount = parseMoney(text)
			row.touch("loan_amount")

		case field == "loan_officer_name":
			row.LoanOfficerName = &text
			row.touch("loan_officer_name")
			if id, ok := nameToUserID[strings.ToLower(text)]; ok {
				row.LoanOfficerID = &id
				row.touch("loan_officer_id")
			}

		case dateFields[field]:
			parsed := parseDateValue(cv.Value, text)
			row.setDate(field, parsed)
			row.touch(field)

		default:
			row.setText(field, text)
			row.touch(field)
		}
	}

	// Schema-fill defaults. Zero loan amount applies to the pipeline section
	// only; other sections keep NULL when no amount was supplied.
	if section == SectionPipeline && !row.Touched("loan_amount") {
		zero := 0.0
		row.LoanAmount = &zero
		row.touch("loan_amount")
	}
	if !row.Touched("stage") {
		unknown := "Unknown"
		row.Stage = &unknown
		row.touch("stage")
	}

	return row
}

func (r *MappedRow) setDate(field string, value *string) {
	switch field {
	case "application_date":
		r.ApplicationDate = value
	case "lock_date":
		r.LockDate = value
	case "closing_date":
		r.ClosingDate = value
	case "pre_approval_date":
		r.PreApprovalDate = value
	case "expiration_date":
		r.ExpirationDate = value
	case "funded_date":
		r.FundedDate = value
	}
}

func (r *MappedRow) setText(field, text string) {
	switch field {
	case "client_name":
		r.ClientName = text
	case "stage", "status":
		r.Stage = &text
	case "rate":
		r.Rate = &text
	case "loan_type":
		r.LoanType = &text
	case "lender":
		r.Lender = &text
	case "notes":
		r.Notes = &text
	}
}

// parseMoney strips currency formatting and parses a decimal amount.
// Returns nil on failure; the sync is best-effort and never throws over a
// malformed cell.
func parseMoney(text string) *float64 {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '$', ',', ' ', '\t':
			return -1
		}
		return r
	}, text)

	if cleaned == "" {
		return nil
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &f
}

// parseDateValue extracts a date from a Monday date column. The raw value is
// JSON like {"date":"2026-01-15","time":null}; when it doesn't parse, the
// display text is tried as the date itself. Returns nil unless the result is
// a real calendar date.
func parseDateValue(rawValue, text string) *string {
	candidate := text

	if rawValue != "" {
		var v struct {
			Date string `json:"date"`
		}
		if err := json.Unmarshal([]byte(rawValue), &v); err == nil && v.Date != "" {
			candidate = v.Date
		}
	}

	candidate = strings.TrimSpace(candidate)
	if _, err := time.Parse("2006-01-02", candidate); err != nil {
		return nil
	}
	return &candidate
}

// AutoMapColumns derives a column mapping for a board by matching column
// titles against the default dictionary. Unmatched columns are dropped
// silently; a partial mapping is an accepted outcome.
func (m *Mapper) AutoMapColumns(ctx context.Context, client BoardFetcher, token, boardID string) ([]ColumnMapping, error) {
	columns, err := client.FetchBoardColumns(ctx, token, boardID)
	if err != nil {
		return nil, err
	}

	var mappings []ColumnMapping
	for _, col := range columns {
		field, ok := m.TitleMap[strings.ToLower(strings.TrimSpace(col.Title))]
		if !ok {
			continue
		}
		mappings = append(mappings, ColumnMapping{
			BoardID:       boardID,
			ColumnID:      col.ID,
			PipelineField: field,
			IsVisible:     true,
		})
	}
	return mappings, nil
}
