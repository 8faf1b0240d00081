package pipeline

import (
	"errors"

	"gorm.io/gorm"
)

type PipelineService struct {
	DB *gorm.DB
}

func (s *PipelineService) GetPipelineLoans() ([]PipelineLoan, error) {
	var loans []PipelineLoan
	result := s.DB.Order("updated_at DESC").Find(&loans)
	if result.Error != nil {
		return nil, result.Error
	}
	return loans, nil
}

func (s *PipelineService) GetPreApprovals() ([]PreApproval, error) {
	var rows []PreApproval
	result := s.DB.Order("updated_at DESC").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

func (s *PipelineService) GetFundedLoans() ([]FundedLoan, error) {
	var rows []FundedLoan
	result := s.DB.Order("funded_date DESC").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

func (s *PipelineService) CreatePipelineLoan(loan PipelineLoan) (*PipelineLoan, error) {
	if loan.ClientName == "" {
		return nil, errors.New("client_name is required")
	}
	if loan.SourceSystem == "" {
		loan.SourceSystem = "manual"
	}
	if err := s.DB.Create(&loan).Error; err != nil {
		return nil, err
	}
	return &loan, nil
}

func (s *PipelineService) UpdatePipelineLoan(id int, updates map[string]interface{}) (*PipelineLoan, error) {
	var loan PipelineLoan
	if err := s.DB.Where("id = ?", id).First(&loan).Error; err != nil {
		return nil, err
	}

	// Manual edits must not masquerade as sync writes.
	delete(updates, "id")
	delete(updates, "monday_item_id")
	delete(updates, "source_system")
	delete(updates, "last_synced_at")

	if err := s.DB.Model(&loan).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &loan, nil
}

func (s *PipelineService) DeletePipelineLoan(id int) error {
	result := s.DB.Where("id = ?", id).Delete(&PipelineLoan{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
