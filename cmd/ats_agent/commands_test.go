package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-tailor/internal/types"
)

const cliResume = `Jane Doe
jane@example.com | (555) 123-4567

EXPERIENCE
Built Go services and gRPC APIs on Kubernetes.

EDUCATION
B.S. Computer Science

SKILLS
Go, Kubernetes, PostgreSQL
`

const cliProfile = `{
	"key_skills": ["Go", "Kubernetes"],
	"keywords": ["Terraform"]
}`

func TestCommands_FlagsValidation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errorString string
	}{
		{"score without resume", []string{"score", "--job-profile", "job.json"}, "required"},
		{"score without profile", []string{"score", "--resume", "r.txt"}, "required"},
		{"score bad format", []string{"score", "--resume", "r.txt", "--job-profile", "j.json", "--format", "yaml"}, "table or json"},
		{"batch without resumes", []string{"batch", "--job-profile", "j.json"}, "requires at least 1 arg"},
		{"format without input", []string{"format"}, "required"},
		{"analyze without source", []string{"analyze", "--out", "p.json"}, "job"},
		{"analyze with both sources", []string{"analyze", "--job", "a.txt", "--job-url", "https://x.io", "--out", "p.json"}, "none of the others"},
		{"fetch-job without url", []string{"fetch-job"}, "required"},
		{"fetch-job bad url", []string{"fetch-job", "--url", "not-a-url"}, "invalid URL"},
	}

	binaryPath := getBinaryPath(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := exec.Command(binaryPath, tt.args...).CombinedOutput()
			assert.Error(t, err)
			assert.Contains(t, string(output), tt.errorString)
		})
	}
}

func TestScoreCommand_JSON(t *testing.T) {
	binaryPath := getBinaryPath(t)
	dir := t.TempDir()
	resume := writeTestFile(t, dir, "resume.txt", cliResume)
	profile := writeTestFile(t, dir, "job.json", cliProfile)
	outFile := filepath.Join(dir, "out", "score.json")

	cmd := exec.Command(binaryPath, "score", "--resume", resume, "--job-profile", profile,
		"--format", "json", "--out", outFile)
	output, err := cmd.Output()
	require.NoError(t, err)

	var score types.ATSScore
	require.NoError(t, json.Unmarshal(output, &score))
	assert.ElementsMatch(t, []string{"Go", "Kubernetes"}, score.MatchedKeywords)
	assert.Equal(t, []string{"Terraform"}, score.MissingKeywords)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	var saved types.ATSScore
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, score.Overall, saved.Overall)
}

func TestScoreCommand_Exclude(t *testing.T) {
	binaryPath := getBinaryPath(t)
	dir := t.TempDir()
	resume := writeTestFile(t, dir, "resume.txt", cliResume)
	profile := writeTestFile(t, dir, "job.json", cliProfile)

	output, err := exec.Command(binaryPath, "score", "-r", resume, "-j", profile,
		"--exclude", "Terraform", "--format", "json").Output()
	require.NoError(t, err)

	var score types.ATSScore
	require.NoError(t, json.Unmarshal(output, &score))
	assert.Empty(t, score.MissingKeywords)
}

func TestScoreCommand_TableAndHistory(t *testing.T) {
	binaryPath := getBinaryPath(t)
	dir := t.TempDir()
	resume := writeTestFile(t, dir, "resume.txt", cliResume)
	profile := writeTestFile(t, dir, "job.json", cliProfile)
	env := append(os.Environ(), "ATS_HISTORY_PATH="+filepath.Join(dir, "history.db"))

	cmd := exec.Command(binaryPath, "score", "-r", resume, "-j", profile, "--history")
	cmd.Env = env
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "Command failed with output: %s", string(output))
	assert.Contains(t, string(output), "ATS score:")
	assert.Contains(t, string(output), "Missing (1): Terraform")

	cmd = exec.Command(binaryPath, "history")
	cmd.Env = env
	output, err = cmd.CombinedOutput()
	require.NoError(t, err, "Command failed with output: %s", string(output))
	assert.Contains(t, string(output), "legacy")
}

func TestBatchCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)
	dir := t.TempDir()
	strong := writeTestFile(t, dir, "strong.txt", cliResume)
	weak := writeTestFile(t, dir, "weak.txt", "I like turtles.")
	profile := writeTestFile(t, dir, "job.json", cliProfile)

	output, err := exec.Command(binaryPath, "batch", "-j", profile, "--format", "json", strong, weak).Output()
	require.NoError(t, err)

	var scores map[string]types.ATSScore
	require.NoError(t, json.Unmarshal(output, &scores))
	require.Contains(t, scores, "strong.txt")
	require.Contains(t, scores, "weak.txt")
	assert.Greater(t, scores["strong.txt"].Overall, scores["weak.txt"].Overall)
}

func TestFormatCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)
	dir := t.TempDir()
	in := writeTestFile(t, dir, "resume.txt", "Experience:\n\n\n\n• Shipped things\n")
	out := filepath.Join(dir, "formatted.txt")

	output, err := exec.Command(binaryPath, "format", "--in", in, "--out", out).CombinedOutput()
	require.NoError(t, err, "Command failed with output: %s", string(output))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "•")
	assert.NotContains(t, string(data), "Experience:")
	assert.NotContains(t, string(data), "\n\n\n")
}
