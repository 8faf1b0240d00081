package pipeline

import "bytes"

type PipelineServiceAPI interface {
	GetPipelineLoans() ([]PipelineLoan, error)
	GetPreApprovals() ([]PreApproval, error)
	GetFundedLoans() ([]FundedLoan, error)
	CreatePipelineLoan(loan PipelineLoan) (*PipelineLoan, error)
	UpdatePipelineLoan(id int, updates map[string]interface{}) (*PipelineLoan, error)
	DeletePipelineLoan(id int) error
	ExportPipelineXLSX() (*bytes.Buffer, error)
}
