package content

import (
	"context"
	"fmt"
	"strings"

	"mortgage-office-api/internal/pipeline"

	"google.golang.org/genai"
	"gorm.io/gorm"
)

type ContentService struct {
	DB     *gorm.DB
	Client *genai.Client
}

// Generate writes a piece of office content and saves it as a draft. Client
// updates are grounded in the loan's current pipeline row; the other kinds
// work from the topic alone.
func (cs *ContentService) Generate(ctx context.Context, req GenerateRequest, userID uint) (*GenerateResponse, error) {
	kind := strings.ToLower(strings.TrimSpace(req.Kind))

	var prompt string
	switch kind {
	case KindClientUpdate:
		if req.LoanID == nil {
			return nil, fmt.Errorf("loan_id is required for client updates")
		}
		var loan pipeline.PipelineLoan
		if err := cs.DB.First(&loan, *req.LoanID).Error; err != nil {
			return nil, fmt.Errorf("loan not found")
		}
		prompt = clientUpdatePrompt(loan, req.Tone)

	case KindSocialPost:
		if strings.TrimSpace(req.Topic) == "" {
			return nil, fmt.Errorf("topic is required for social posts")
		}
		prompt = "Write a short, friendly social media post for a mortgage office about: " + req.Topic +
			". No hashtag spam, at most two hashtags. Do not invent rates or numbers."

	case KindRateAlert:
		if strings.TrimSpace(req.Topic) == "" {
			return nil, fmt.Errorf("topic is required for rate alerts")
		}
		prompt = "Write a brief client-facing rate alert email for a mortgage office. Context: " + req.Topic +
			". Keep it factual, include a call to action to reach out, and do not invent specific numbers."

	default:
		return nil, fmt.Errorf("unsupported content kind: %s", req.Kind)
	}

	if req.Tone != "" && kind != KindClientUpdate {
		prompt += " Tone: " + req.Tone + "."
	}

	genResp, err := cs.Client.Models.GenerateContent(ctx, generationModel, []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("generation error: %w", err)
	}

	var text string
	if len(genResp.Candidates) > 0 {
		for _, candidate := range genResp.Candidates {
			if candidate.Content != nil {
				for _, part := range candidate.Content.Parts {
					if part.Text != "" {
						text = part.Text
						break
					}
				}
			}
		}
	}
	if text == "" {
		return nil, fmt.Errorf("no response from Gemini")
	}

	draft := GeneratedContent{
		Kind:      kind,
		LoanID:    req.LoanID,
		Topic:     req.Topic,
		Text:      text,
		CreatedBy: userID,
	}
	if err := cs.DB.Create(&draft).Error; err != nil {
		return nil, err
	}

	return &GenerateResponse{ID: draft.ID, Kind: kind, Text: text}, nil
}

// History lists saved drafts, newest first.
func (cs *ContentService) History(limit int) ([]GeneratedContent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var drafts []GeneratedContent
	if err := cs.DB.Order("created_at DESC").Limit(limit).Find(&drafts).Error; err != nil {
		return nil, err
	}
	return drafts, nil
}

func clientUpdatePrompt(loan pipeline.PipelineLoan, tone string) string {
	var b strings.Builder
	b.WriteString("Write a short status update email to a mortgage client. Facts:\n")
	fmt.Fprintf(&b, "- Client: %s\n", loan.ClientName)
	fmt.Fprintf(&b, "- Current stage: %s\n", loan.Stage)
	if loan.LoanType != nil {
		fmt.Fprintf(&b, "- Loan type: %s\n", *loan.LoanType)
	}
	if loan.ClosingDate != nil {
		fmt.Fprintf(&b, "- Expected closing date: %s\n", *loan.ClosingDate)
	}
	if loan.LoanOfficerName != nil {
		fmt.Fprintf(&b, "- Loan officer: %s\n", *loan.LoanOfficerName)
	}
	b.WriteString("Use only these facts. Do not mention rates or amounts.")
	if tone != "" {
		b.WriteString(" Tone: " + tone + ".")
	}
	return b.String()
}
