//go:build integration

package github

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/takeruhukushima/publiccodelooks/pkg/integrations"
)

func liveClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		t.Skip("GITHUB_TOKEN not set, skipping integration test")
	}
	return NewClient(Options{Token: token, Timeout: 30 * time.Second})
}

func TestSearchCode_Integration(t *testing.T) {
	client := liveClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.SearchCode(ctx, SearchRequest{
		Query:   "filename:publiccode.yml in:path",
		Page:    1,
		PerPage: 5,
		Sort:    SortIndexed,
		Order:   "desc",
	})
	if err != nil {
		t.Fatalf("SearchCode() error: %v", err)
	}
	if resp.TotalCount == 0 {
		t.Error("expected a nonzero total_count")
	}
	if len(resp.Items) > 5 {
		t.Errorf("got %d items, want at most 5", len(resp.Items))
	}
}

func TestRepo_Integration(t *testing.T) {
	client := liveClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tests := []struct {
		name    string
		owner   string
		repo    string
		wantErr bool
	}{
		{"golang/go", "golang", "go", false},
		{"nonexistent", "nonexistent-owner-12345", "nonexistent-repo", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := client.Repo(ctx, tt.owner, tt.repo)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Repo(%q, %q) error = %v, wantErr %v", tt.owner, tt.repo, err, tt.wantErr)
			}
			if tt.wantErr {
				if !integrations.IsNotFound(err) {
					t.Errorf("error = %v, want ErrNotFound", err)
				}
				return
			}
			if repo.DefaultBranch == "" {
				t.Error("DefaultBranch should not be empty")
			}
		})
	}
}
