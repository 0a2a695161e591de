package pipeline

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-release/domain"
	"github.com/input-output-hk/catalyst-forge-release/errors"
	fsbilly "github.com/input-output-hk/catalyst-forge-release/fs/billy"
)

// timedRecord builds a step record spanning the given duration.
func timedRecord(name string, status domain.RunStatus, d time.Duration) domain.StepRecord {
	started := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	completed := started.Add(d)
	return domain.StepRecord{
		Name:        name,
		Status:      status,
		StartedAt:   &started,
		CompletedAt: &completed,
	}
}

func sampleReport() *domain.RunReport {
	started := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	completed := started.Add(4 * time.Second)
	return &domain.RunReport{
		ID:     "f3a85f64-5717-4562-b3fc-2c963f66afa6",
		Status: domain.RunStatusSuccess,
		Trigger: domain.TriggerEvent{
			ID:          "9b2d7c1e-0f7e-4f43-8a3f-54a1a6dcd1c1",
			Kind:        domain.TriggerKindTagPush,
			Ref:         "refs/tags/v2.3.0",
			Tag:         "v2.3.0",
			TriggeredAt: started,
		},
		StartedAt:   &started,
		CompletedAt: &completed,
		Steps: []domain.StepRecord{
			timedRecord(StepCheckout, domain.RunStatusSuccess, 1500*time.Millisecond),
			timedRecord(StepPublish, domain.RunStatusSuccess, 2*time.Second),
		},
		Version:       "2.3.0",
		TagName:       "v2.3.0",
		ArtifactCount: 2,
		ReleaseURL:    "https://github.com/acme/widget/releases/tag/v2.3.0",
	}
}

func TestWriteReport_RoundTrips(t *testing.T) {
	fsys := fsbilly.NewInMemoryFS()
	report := sampleReport()

	require.NoError(t, WriteReport(fsys, "runs/report.json", report))

	data, err := fsys.ReadFile("runs/report.json")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))

	var decoded domain.RunReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.ID, decoded.ID)
	assert.Equal(t, report.Status, decoded.Status)
	assert.Equal(t, report.TagName, decoded.TagName)
	assert.Equal(t, report.ArtifactCount, decoded.ArtifactCount)
	require.Len(t, decoded.Steps, 2)
	assert.Equal(t, StepCheckout, decoded.Steps[0].Name)
}

func TestWriteReport_EmptyPath(t *testing.T) {
	err := WriteReport(fsbilly.NewInMemoryFS(), "", sampleReport())

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}

func TestSummarize_SuccessfulRun(t *testing.T) {
	out := Summarize(sampleReport())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], StepCheckout)
	assert.Contains(t, lines[0], "SUCCESS")
	assert.Contains(t, lines[0], "(1.5s)")
	assert.Contains(t, lines[1], StepPublish)
	assert.Equal(t, "run SUCCESS: v2.3.0 at https://github.com/acme/widget/releases/tag/v2.3.0", lines[2])
}

func TestSummarize_FailedRun(t *testing.T) {
	failed := timedRecord(StepBuild, domain.RunStatusFailed, 300*time.Millisecond)
	failed.Error = "build tool exited with status 1"

	report := &domain.RunReport{
		Status: domain.RunStatusFailed,
		Steps: []domain.StepRecord{
			timedRecord(StepCheckout, domain.RunStatusSuccess, time.Second),
			failed,
			{Name: StepPublish, Status: domain.RunStatusSkipped},
		},
	}

	out := Summarize(report)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "FAILED")
	assert.Contains(t, lines[1], "build tool exited with status 1")
	assert.Contains(t, lines[2], "SKIPPED")
	assert.NotContains(t, lines[2], "(", "skipped steps carry no duration")
	assert.Equal(t, "run FAILED", lines[3])
}

func TestSummarize_DryRunVerdict(t *testing.T) {
	report := sampleReport()
	report.ReleaseURL = ""

	out := Summarize(report)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "run SUCCESS: v2.3.0", lines[len(lines)-1])
}
