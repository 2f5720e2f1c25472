package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"verisure/internal/fusion"
	"verisure/internal/history"
	"verisure/internal/testsupport"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	cfgPath := filepath.Join(root, "config.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
frame_dir = %q

[logging]
format = "json"
level = "error"
`,
		filepath.Join(root, "data"),
		filepath.Join(root, "logs"),
		filepath.Join(root, "frames"))
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInferKind(t *testing.T) {
	cases := map[string]string{
		"photo.JPG": "image",
		"clip.mp4":  "video",
		"voice.wav": "audio",
	}
	for name, want := range cases {
		got, err := inferKind(name)
		if err != nil {
			t.Fatalf("inferKind(%s): %v", name, err)
		}
		if got != want {
			t.Fatalf("inferKind(%s) = %q, want %q", name, got, want)
		}
	}
	if _, err := inferKind("document.pdf"); err == nil {
		t.Fatal("expected error for unknown extension")
	}
}

func TestAnalyzeCommandJSONOutput(t *testing.T) {
	cfgPath := writeTestConfig(t)

	imgDir := t.TempDir()
	imgPath := filepath.Join(imgDir, "suspect.png")
	img := testsupport.UniformImage(512, 512, color.RGBA{R: 120, G: 120, B: 120, A: 255})
	if err := os.WriteFile(imgPath, testsupport.EncodePNG(t, img), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	out, err := runCommand(t, "analyze", imgPath, "--config", cfgPath, "--json", "--no-history")
	if err != nil {
		t.Fatalf("analyze: %v\n%s", err, out)
	}

	var result analyzeOutput
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if result.MediaType != "image" {
		t.Fatalf("media type = %q", result.MediaType)
	}
	if result.Verdict.Classification != fusion.ClassAIGenerated {
		t.Fatalf("classification = %q, want %q", result.Verdict.Classification, fusion.ClassAIGenerated)
	}
	if result.SHA256 == "" || len(result.AISignals) == 0 {
		t.Fatalf("output incomplete: %+v", result)
	}
}

func TestAnalyzeCommandRecordsHistory(t *testing.T) {
	cfgPath := writeTestConfig(t)

	imgDir := t.TempDir()
	imgPath := filepath.Join(imgDir, "gradient.png")
	if err := os.WriteFile(imgPath, testsupport.EncodePNG(t, testsupport.GradientImage(100, 80)), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	if out, err := runCommand(t, "analyze", imgPath, "--config", cfgPath, "--json"); err != nil {
		t.Fatalf("analyze: %v\n%s", err, out)
	}

	out, err := runCommand(t, "history", "--config", cfgPath, "--json")
	if err != nil {
		t.Fatalf("history: %v\n%s", err, out)
	}
	var records []history.Record
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode history: %v\n%s", err, out)
	}
	if len(records) != 1 || records[0].Filename != "gradient.png" {
		t.Fatalf("unexpected history: %+v", records)
	}
}

func TestAnalyzeCommandOpinionFile(t *testing.T) {
	cfgPath := writeTestConfig(t)

	dir := t.TempDir()
	imgPath := filepath.Join(dir, "flat.png")
	img := testsupport.UniformImage(512, 512, color.RGBA{R: 90, G: 90, B: 90, A: 255})
	if err := os.WriteFile(imgPath, testsupport.EncodePNG(t, img), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	opinionPath := filepath.Join(dir, "opinion.json")
	opinionJSON := `{"origin":{"classification":"Likely AI-Generated","confidence":"high"},"ai_signals":["uniform texture"]}`
	if err := os.WriteFile(opinionPath, []byte(opinionJSON), 0o644); err != nil {
		t.Fatalf("write opinion: %v", err)
	}

	out, err := runCommand(t, "analyze", imgPath, "--config", cfgPath, "--json", "--no-history", "--opinion", opinionPath)
	if err != nil {
		t.Fatalf("analyze: %v\n%s", err, out)
	}
	var result analyzeOutput
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	found := false
	for _, indicator := range result.Verdict.Indicators {
		if strings.Contains(indicator, "[AI OPINION]") {
			found = true
		}
	}
	if !found {
		t.Fatalf("opinion indicator missing: %+v", result.Verdict.Indicators)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	target := filepath.Join(dir, "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if out, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatalf("second init without --overwrite should fail\n%s", out)
	}

	out, err = runCommand(t, "config", "validate", "--config", target)
	if err != nil {
		t.Fatalf("config validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Fatalf("unexpected validate output: %s", out)
	}
}

func TestConfigShowMasksAPIKey(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := `[opinion]
api_key = "sk-secret-value"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := runCommand(t, "config", "show", "--config", cfgPath)
	if err != nil {
		t.Fatalf("config show: %v\n%s", err, out)
	}
	if strings.Contains(out, "sk-secret-value") {
		t.Fatal("api key leaked in output")
	}
	if !strings.Contains(out, "***") {
		t.Fatalf("masked key missing: %s", out)
	}
}
