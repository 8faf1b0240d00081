package monday

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(handler http.Handler) (*Client, func()) {
	srv := httptest.NewServer(handler)
	c := NewClient()
	c.BaseURL = srv.URL
	return c, srv.Close
}

func TestExecuteQuery_RejectsMutations_WithoutNetworkCall(t *testing.T) {
	called := false
	c, close := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer close()

	queries := []string{
		"mutation { delete_item (item_id: 1) { id } }",
		"MUTATION { create_item { id } }",
		"query { boards { id } } # Mutation hidden in comment",
	}

	for _, q := range queries {
		_, err := c.ExecuteQuery(context.Background(), "token", q, nil)

		var sv *SafetyViolationError
		if !errors.As(err, &sv) {
			t.Fatalf("query %q: expected SafetyViolationError, got %v", q, err)
		}
	}

	if called {
		t.Fatalf("mutation query reached the network")
	}
}

func TestExecuteQuery_SetsAuthAndVersionHeaders(t *testing.T) {
	c, close := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "my-token" {
			t.Errorf("Authorization=%q", got)
		}
		if got := r.Header.Get("API-Version"); got == "" {
			t.Errorf("missing API-Version header")
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": map[string]interface{}{}})
	}))
	defer close()

	if _, err := c.ExecuteQuery(context.Background(), "my-token", "query { boards { id } }", nil); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestExecuteQuery_Non2xx_IncludesStatusAndTruncatedBody(t *testing.T) {
	longBody := strings.Repeat("x", 500)
	c, close := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(longBody))
	}))
	defer close()

	_, err := c.ExecuteQuery(context.Background(), "t", "query { boards { id } }", nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Fatalf("error should carry status code: %v", err)
	}
	if len(err.Error()) > 300 {
		t.Fatalf("body not truncated: %d chars", len(err.Error()))
	}
}

func TestExecuteQuery_GraphQLError_SurfacesFirstMessage(t *testing.T) {
	c, close := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"errors": []map[string]string{
				{"message": "board not accessible"},
				{"message": "second error"},
			},
		})
	}))
	defer close()

	_, err := c.ExecuteQuery(context.Background(), "t", "query { boards { id } }", nil)
	if err == nil || err.Error() != "board not accessible" {
		t.Fatalf("expected first graphql error, got %v", err)
	}
}

func itemsPageJSON(wrap string, cursor string, items ...map[string]interface{}) map[string]interface{} {
	page := map[string]interface{}{"cursor": cursor, "items": items}
	if wrap == "first" {
		return map[string]interface{}{
			"data": map[string]interface{}{
				"boards": []map[string]interface{}{{"items_page": page}},
			},
		}
	}
	return map[string]interface{}{
		"data": map[string]interface{}{"next_items_page": page},
	}
}

func TestFetchAllItems_EmptyPageTerminates_DespiteCursor(t *testing.T) {
	calls := 0
	c, close := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch calls {
		case 1:
			json.NewEncoder(w).Encode(itemsPageJSON("first", "cursor-1",
				map[string]interface{}{"id": "1", "name": "Jane Doe"},
				map[string]interface{}{"id": "2", "name": "John Roe"},
			))
		default:
			// same cursor again, but an empty page: pagination must stop here
			json.NewEncoder(w).Encode(itemsPageJSON("next", "cursor-1"))
		}
	}))
	defer close()

	items, err := c.FetchAllItems(context.Background(), "t", "123")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected exactly first page's 2 items, got %d", len(items))
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls (first page + terminating empty page), got %d", calls)
	}
}

func TestFetchAllItems_FollowsCursorAcrossPages(t *testing.T) {
	calls := 0
	c, close := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch calls {
		case 1:
			json.NewEncoder(w).Encode(itemsPageJSON("first", "cursor-1",
				map[string]interface{}{"id": "1", "name": "A"},
			))
		case 2:
			json.NewEncoder(w).Encode(itemsPageJSON("next", "",
				map[string]interface{}{"id": "2", "name": "B"},
			))
		default:
			t.Errorf("unexpected extra call %d", calls)
			json.NewEncoder(w).Encode(itemsPageJSON("next", ""))
		}
	}))
	defer close()

	items, err := c.FetchAllItems(context.Background(), "t", "123")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(items) != 2 || items[0].ID != "1" || items[1].ID != "2" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestFetchAllItems_ParsesGroupAndColumns(t *testing.T) {
	c, close := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"boards": []map[string]interface{}{{
					"items_page": map[string]interface{}{
						"cursor": "",
						"items": []map[string]interface{}{{
							"id":    "7",
							"name":  "Jane Doe",
							"group": map[string]string{"title": "Underwriting"},
							"column_values": []map[string]string{
								{"id": "c1", "text": "250000", "value": `"250000"`},
							},
						}},
					},
				}},
			},
		})
	}))
	defer close()

	items, err := c.FetchAllItems(context.Background(), "t", "123")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].GroupTitle != "Underwriting" {
		t.Fatalf("group title not parsed: %q", items[0].GroupTitle)
	}
	if len(items[0].ColumnValues) != 1 || items[0].ColumnValues[0].ID != "c1" {
		t.Fatalf("column values not parsed: %+v", items[0].ColumnValues)
	}
}

func TestFetchBoardColumns_ParsesColumns(t *testing.T) {
	c, close := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"boards": []map[string]interface{}{{
					"columns": []map[string]string{
						{"id": "c1", "title": "Loan Amount", "type": "numbers"},
						{"id": "c2", "title": "Stage", "type": "status"},
					},
				}},
			},
		})
	}))
	defer close()

	cols, err := c.FetchBoardColumns(context.Background(), "t", "123")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(cols) != 2 || cols[0].Title != "Loan Amount" {
		t.Fatalf("unexpected columns: %+v", cols)
	}
}
