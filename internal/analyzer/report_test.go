package analyzer

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func testReport() *Report {
	return &Report{
		GeneratedAt:    time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Provider:       "groq",
		Model:          "stub-model",
		JobDescription: testJobDescription,
		Results: []*Result{
			{Repository: "alpha", Score: 3, Relevance: "Low", Rationale: "partial overlap"},
			{Repository: "beta", Score: 9, Relevance: "High", Rationale: "strong match"},
			{Repository: "gamma", Score: 3, Relevance: "Low", Rationale: "partial overlap"},
		},
	}
}

func TestReportSort(t *testing.T) {
	report := testReport()
	report.Sort()

	want := []string{"beta", "alpha", "gamma"}
	for i, name := range want {
		if report.Results[i].Repository != name {
			t.Errorf("position %d: expected %q, got %q", i, name, report.Results[i].Repository)
		}
	}
}

func TestReportTop(t *testing.T) {
	report := testReport()
	report.Sort()

	if top := report.Top(2); len(top) != 2 || top[0].Repository != "beta" {
		t.Errorf("unexpected top slice: %+v", top)
	}
	if top := report.Top(10); len(top) != 3 {
		t.Errorf("Top beyond length should return everything, got %d", len(top))
	}
}

func TestReportRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	report := testReport()
	report.Sort()

	if err := report.ToFile(path); err != nil {
		t.Fatalf("writing report: %v", err)
	}

	loaded, err := ReportFromFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}

	if !reflect.DeepEqual(report, loaded) {
		t.Errorf("roundtrip mismatch:\nwant %+v\ngot  %+v", report, loaded)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the report file, found %d entries", len(entries))
	}
}

func TestReportFieldNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	if err := testReport().ToFile(path); err != nil {
		t.Fatalf("writing report: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	for _, field := range []string{`"generatedAt"`, `"provider"`, `"jobDescription"`, `"results"`, `"repository"`, `"relevance"`, `"rationale"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("report JSON missing field %s", field)
		}
	}
}

func TestReportFromFileMissing(t *testing.T) {
	if _, err := ReportFromFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
