package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	mondayAPIURL     = "https://api.monday.com/v2"
	mondayAPIVersion = "2024-10"
	itemsPageSize    = 500
	maxErrorBodyLen  = 200
)

// SafetyViolationError is returned when a caller tries to send a mutation.
// The integration is contractually read-only against Monday; this guard is
// the last line of defense and is never downgraded to a generic error.
type SafetyViolationError struct {
	Query string
}

func (e *SafetyViolationError) Error() string {
	return "safety violation: mutation queries are not permitted against the Monday API"
}

// Client speaks Monday's GraphQL endpoint. Read-only by contract.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL: mondayAPIURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// ExecuteQuery posts one GraphQL query. A query containing "mutation" in any
// case is rejected before any network call with a *SafetyViolationError.
func (c *Client) ExecuteQuery(ctx context.Context, token, query string, variables map[string]interface{}) (json.RawMessage, error) {
	if strings.Contains(strings.ToLower(query), "mutation") {
		return nil, &SafetyViolationError{Query: query}
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	req.Header.Set("API-Version", mondayAPIVersion)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("monday API returned status %d: %s", resp.StatusCode, truncate(string(respBody), maxErrorBodyLen))
	}

	var gql graphQLResponse
	if err := json.Unmarshal(respBody, &gql); err != nil {
		return nil, fmt.Errorf("failed to parse monday response: %w", err)
	}
	if len(gql.Errors) > 0 {
		return nil, errors.New(gql.Errors[0].Message)
	}

	return gql.Data, nil
}

type itemsPage struct {
	Cursor string `json:"cursor"`
	Items  []struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Group *struct {
			Title string `json:"title"`
		} `json:"group"`
		ColumnValues []ColumnValue `json:"column_values"`
	} `json:"items"`
}

const firstPageQuery = `query ($boardId: [ID!], $limit: Int) {
	boards(ids: $boardId) {
		items_page(limit: $limit) {
			cursor
			items {
				id
				name
				group { title }
				column_values { id text value }
			}
		}
	}
}`

const nextPageQuery = `query ($cursor: String!, $limit: Int!) {
	next_items_page(cursor: $cursor, limit: $limit) {
		cursor
		items {
			id
			name
			group { title }
			column_values { id text value }
		}
	}
}`

// FetchAllItems pulls every item on a board, following the page cursor until
// the API stops returning one. An empty page terminates pagination
// unconditionally, so a cursor that never clears cannot loop forever.
func (c *Client) FetchAllItems(ctx context.Context, token, boardID string) ([]Item, error) {
	data, err := c.ExecuteQuery(ctx, token, firstPageQuery, map[string]interface{}{
		"boardId": []string{boardID},
		"limit":   itemsPageSize,
	})
	if err != nil {
		return nil, err
	}

	var first struct {
		Boards []struct {
			ItemsPage itemsPage `json:"items_page"`
		} `json:"boards"`
	}
	if err := json.Unmarshal(data, &first); err != nil {
		return nil, fmt.Errorf("failed to parse items page: %w", err)
	}
	if len(first.Boards) == 0 {
		return nil, fmt.Errorf("board %s not found", boardID)
	}

	page := first.Boards[0].ItemsPage
	items := pageToItems(page)

	cursor := page.Cursor
	for cursor != "" && len(page.Items) > 0 {
		data, err := c.ExecuteQuery(ctx, token, nextPageQuery, map[string]interface{}{
			"cursor": cursor,
			"limit":  itemsPageSize,
		})
		if err != nil {
			return nil, err
		}

		var next struct {
			NextItemsPage itemsPage `json:"next_items_page"`
		}
		if err := json.Unmarshal(data, &next); err != nil {
			return nil, fmt.Errorf("failed to parse items page: %w", err)
		}

		page = next.NextItemsPage
		items = append(items, pageToItems(page)...)
		cursor = page.Cursor
	}

	return items, nil
}

const columnsQuery = `query ($boardId: [ID!]) {
	boards(ids: $boardId) {
		columns { id title type }
	}
}`

// FetchBoardColumns lists a board's columns for title-based auto-mapping.
func (c *Client) FetchBoardColumns(ctx context.Context, token, boardID string) ([]Column, error) {
	data, err := c.ExecuteQuery(ctx, token, columnsQuery, map[string]interface{}{
		"boardId": []string{boardID},
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Boards []struct {
			Columns []Column `json:"columns"`
		} `json:"boards"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse board columns: %w", err)
	}
	if len(resp.Boards) == 0 {
		return nil, fmt.Errorf("board %s not found", boardID)
	}

	return resp.Boards[0].Columns, nil
}

func pageToItems(page itemsPage) []Item {
	items := make([]Item, 0, len(page.Items))
	for _, it := range page.Items {
		item := Item{
			ID:           it.ID,
			Name:         it.Name,
			ColumnValues: it.ColumnValues,
		}
		if it.Group != nil {
			item.GroupTitle = it.Group.Title
		}
		items = append(items, item)
	}
	return items
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
