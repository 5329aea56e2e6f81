package prerequisites

import (
	"strings"
	"testing"
)

func TestCheck_ToolFound(t *testing.T) {
	t.Parallel()
	// "go" is guaranteed in PATH wherever these tests run.
	results := Check([]Tool{{Name: "go", Required: true}})
	if len(results.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results.Results))
	}
	if !results.Results[0].Found {
		t.Error("expected go binary to be found")
	}
	if results.HasErrors() {
		t.Error("expected no errors")
	}
	if err := results.Error(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

func TestCheck_RequiredToolMissing(t *testing.T) {
	t.Parallel()
	results := Check([]Tool{{
		Name:       "definitely-not-a-real-binary-name",
		Required:   true,
		InstallURL: "https://example.com/install",
	}})
	if !results.HasErrors() {
		t.Fatal("expected errors for missing required tool")
	}
	err := results.Error()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "definitely-not-a-real-binary-name") {
		t.Errorf("error should name the missing tool: %v", err)
	}
	if !strings.Contains(err.Error(), "https://example.com/install") {
		t.Errorf("error should include the install URL: %v", err)
	}
}

func TestCheck_OptionalToolMissing(t *testing.T) {
	t.Parallel()
	results := Check([]Tool{{Name: "definitely-not-a-real-binary-name", Required: false}})
	if results.HasErrors() {
		t.Error("missing optional tools must not be errors")
	}
	if err := results.Error(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

func TestCheckAll_IncludesOptional(t *testing.T) {
	t.Parallel()
	results := CheckAll()
	if len(results.Results) != len(DefaultTools())+len(OptionalTools()) {
		t.Errorf("expected %d results, got %d", len(DefaultTools())+len(OptionalTools()), len(results.Results))
	}
}
