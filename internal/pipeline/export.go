package pipeline

import (
	"bytes"

	"github.com/iancoleman/orderedmap"
	"github.com/xuri/excelize/v2"
)

// ExportPipelineXLSX renders the active pipeline as a spreadsheet for the
// weekly office meeting download.
func (s *PipelineService) ExportPipelineXLSX() (*bytes.Buffer, error) {
	loans, err := s.GetPipelineLoans()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Pipeline"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E2E8F0"}},
	})

	columns := pipelineColumns()
	header := make([]excelize.Cell, 0, len(columns.Keys()))
	for _, key := range columns.Keys() {
		header = append(header, excelize.Cell{Value: key, StyleID: headerStyle})
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return nil, err
	}

	cell, _ := excelize.CoordinatesToCellName(1, 1)
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := sw.SetRow(cell, row); err != nil {
		return nil, err
	}

	for i, loan := range loans {
		values := make([]interface{}, 0, len(columns.Keys()))
		for _, key := range columns.Keys() {
			extract, _ := columns.Get(key)
			values = append(values, extract.(func(PipelineLoan) interface{})(loan))
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, values); err != nil {
			return nil, err
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// pipelineColumns fixes the export column order; orderedmap keeps header
// order and extractor together.
func pipelineColumns() *orderedmap.OrderedMap {
	om := orderedmap.New()
	om.Set("Client", func(l PipelineLoan) interface{} { return l.ClientName })
	om.Set("Stage", func(l PipelineLoan) interface{} { return l.Stage })
	om.Set("Loan Amount", func(l PipelineLoan) interface{} {
		if l.LoanAmount == nil {
			return ""
		}
		return *l.LoanAmount
	})
	om.Set("Rate", func(l PipelineLoan) interface{} { return deref(l.Rate) })
	om.Set("Loan Type", func(l PipelineLoan) interface{} { return deref(l.LoanType) })
	om.Set("Lender", func(l PipelineLoan) interface{} { return deref(l.Lender) })
	om.Set("Loan Officer", func(l PipelineLoan) interface{} { return deref(l.LoanOfficerName) })
	om.Set("Application Date", func(l PipelineLoan) interface{} { return deref(l.ApplicationDate) })
	om.Set("Lock Date", func(l PipelineLoan) interface{} { return deref(l.LockDate) })
	om.Set("Closing Date", func(l PipelineLoan) interface{} { return deref(l.ClosingDate) })
	om.Set("Source", func(l PipelineLoan) interface{} { return l.SourceSystem })
	om.Set("Last Synced", func(l PipelineLoan) interface{} {
		if l.LastSyncedAt == nil {
			return ""
		}
		return l.LastSyncedAt.Format("2006-01-02 15:04")
	})
	return om
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
