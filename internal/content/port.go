package content

import "context"

type ContentServiceAPI interface {
	Generate(ctx context.Context, req GenerateRequest, userID uint) (*GenerateResponse, error)
	History(limit int) ([]GeneratedContent, error)
}
