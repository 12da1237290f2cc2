package mcptools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/github/repos/angular/angular-cli", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"angular-cli","starsCount":26000,"forksCount":null,"issuesCount":310,"openIssuesCount":280,"extra":true}`))
	})
	mux.HandleFunc("/github/repos/broken/repo", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	mux.HandleFunc("/npm/registry/", func(w http.ResponseWriter, r *http.Request) {
		// The scope separator must arrive escaped so the name stays one segment.
		name := strings.TrimPrefix(r.URL.EscapedPath(), "/npm/registry/")
		if name != "%40angular%2Fcli" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "@angular/cli",
			"description": "CLI tool for Angular",
			"dist-tags": {"latest": "19.1.0", "next": "20.0.0-rc.1"},
			"time": {"created": "2017-01-01T00:00:00Z", "modified": "2025-01-10T00:00:00Z"},
			"repository": {"url": "git+https://github.com/angular/angular-cli.git"}
		}`))
	})
	mux.HandleFunc("/", http.NotFound)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] is %T, want TextContent", res.Content[0])
	}
	return text.Text
}

func TestGitHubStats(t *testing.T) {
	upstream := newUpstream(t)
	tools := NewTools(NewRegistry(upstream.URL, 5*time.Second), nil)
	ctx := context.Background()

	res, err := tools.HandleGitHubStats(ctx, callTool("get-github-stats", map[string]any{"owner": "angular", "repo": "angular-cli"}))
	if err != nil {
		t.Fatalf("HandleGitHubStats() err=%v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	stats, ok := res.StructuredContent.(GitHubStats)
	if !ok {
		t.Fatalf("structured content is %T", res.StructuredContent)
	}
	if stats.StarsCount != 26000 || stats.ForksCount != nil || stats.IssuesCount == nil || *stats.IssuesCount != 310 {
		t.Fatalf("stats = %+v", stats)
	}
	if !strings.Contains(resultText(t, res), `"forksCount": null`) {
		t.Fatalf("text = %s", resultText(t, res))
	}

	cases := []struct {
		owner, repo string
		want        string
	}{
		{"nobody", "nothing", "Error: Repository nobody/nothing not found"},
		{"broken", "repo", "Error: HTTP error! status: 502"},
	}
	for _, tc := range cases {
		res, err := tools.HandleGitHubStats(ctx, callTool("get-github-stats", map[string]any{"owner": tc.owner, "repo": tc.repo}))
		if err != nil {
			t.Fatalf("HandleGitHubStats(%s/%s) err=%v", tc.owner, tc.repo, err)
		}
		if !res.IsError || resultText(t, res) != tc.want {
			t.Fatalf("HandleGitHubStats(%s/%s) = %q, want %q", tc.owner, tc.repo, resultText(t, res), tc.want)
		}
	}
}

func TestGitHubStatsRequiresArguments(t *testing.T) {
	tools := NewTools(NewRegistry("http://127.0.0.1:0", time.Second), nil)
	res, err := tools.HandleGitHubStats(context.Background(), callTool("get-github-stats", map[string]any{"owner": "angular"}))
	if err != nil {
		t.Fatalf("HandleGitHubStats() err=%v", err)
	}
	if !res.IsError {
		t.Fatal("missing repo should produce an error result")
	}
}

func TestPackageInfo(t *testing.T) {
	upstream := newUpstream(t)
	tools := NewTools(NewRegistry(upstream.URL, 5*time.Second), nil)
	ctx := context.Background()

	res, err := tools.HandlePackageInfo(ctx, callTool("get-npm-package-info", map[string]any{"packageName": "@angular/cli"}))
	if err != nil {
		t.Fatalf("HandlePackageInfo() err=%v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	info, ok := res.StructuredContent.(PackageInfo)
	if !ok {
		t.Fatalf("structured content is %T", res.StructuredContent)
	}
	want := PackageInfo{
		Name:          "@angular/cli",
		Description:   "CLI tool for Angular",
		LatestVersion: "19.1.0",
		Created:       "2017-01-01T00:00:00Z",
		Modified:      "2025-01-10T00:00:00Z",
		RepositoryURL: "git+https://github.com/angular/angular-cli.git",
	}
	if info != want {
		t.Fatalf("info = %+v, want %+v", info, want)
	}
	if strings.Contains(resultText(t, res), "homepage") {
		t.Fatal("absent homepage should be omitted")
	}

	res, err = tools.HandlePackageInfo(ctx, callTool("get-npm-package-info", map[string]any{"packageName": "left-pad-2"}))
	if err != nil {
		t.Fatalf("HandlePackageInfo() err=%v", err)
	}
	if got := resultText(t, res); !res.IsError || got != `Error: Package "left-pad-2" not found` {
		t.Fatalf("not found result = %q", got)
	}
}

func TestNewServerRegistersTools(t *testing.T) {
	s := NewServer(NewTools(NewRegistry("", time.Second), nil))
	resp := s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	for _, name := range []string{"get-github-stats", "get-npm-package-info"} {
		if !strings.Contains(string(raw), `"name":"`+name+`"`) {
			t.Fatalf("tool %s not listed in %s", name, raw)
		}
	}
}

func TestEscapeComponent(t *testing.T) {
	for in, want := range map[string]string{
		"@angular/cli": "%40angular%2Fcli",
		"left pad":     "left%20pad",
		"react":        "react",
		"a+b":          "a%2Bb",
	} {
		if got := escapeComponent(in); got != want {
			t.Errorf("escapeComponent(%q) = %q, want %q", in, got, want)
		}
	}
}
