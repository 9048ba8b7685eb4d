package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iWorld-y/usecase_radar/pkg/search"
)

func TestSearch_RequestShape(t *testing.T) {
	var received searchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(searchResponse{
			Results: []searchResult{
				{Title: "t1", URL: "https://example.com/1", Content: "Acme makes widgets.", Score: 0.9},
				{Title: "t2", URL: "https://example.com/2", Content: "Acme is profitable.", Score: 0.8},
			},
		})
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	resp, err := client.Search(context.Background(), &search.Request{
		Query:       "Acme Corp company overview",
		SearchDepth: "advanced",
		MaxResults:  3,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	// api_key 随请求体提交
	if received.APIKey != "test-key" {
		t.Errorf("api_key = %q, want test-key", received.APIKey)
	}
	if received.SearchDepth != "advanced" {
		t.Errorf("search_depth = %q, want advanced", received.SearchDepth)
	}
	if received.MaxResults != 3 {
		t.Errorf("max_results = %d, want 3", received.MaxResults)
	}

	if len(resp.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(resp.Results))
	}
	if resp.Results[0].Content != "Acme makes widgets." {
		t.Errorf("results[0].Content = %q", resp.Results[0].Content)
	}
}

func TestSearch_Defaults(t *testing.T) {
	var received searchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer server.Close()

	client := NewClientWithBaseURL("k", server.URL)
	if _, err := client.Search(context.Background(), &search.Request{Query: "q"}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if received.SearchDepth != "basic" {
		t.Errorf("default search_depth = %q, want basic", received.SearchDepth)
	}
	if received.MaxResults != 5 {
		t.Errorf("default max_results = %d, want 5", received.MaxResults)
	}
}

// 非 200 状态是可恢复的失败，返回错误交由聚合器降级
func TestSearch_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("k", server.URL)
	if _, err := client.Search(context.Background(), &search.Request{Query: "q"}); err == nil {
		t.Error("Search() expected error on non-200 status")
	}
}
