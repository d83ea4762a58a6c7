package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdl-tools/logical/internal/docker"
	"github.com/hdl-tools/logical/internal/model"
)

func TestPrintPruneResult(t *testing.T) {
	t.Cleanup(func() { jsonOutput = false })

	removed := []docker.ContainerInfo{
		{
			ID:    "0123456789abcdef0123",
			Name:  "logical-task-test-1",
			State: "exited",
			Labels: map[string]string{
				docker.LabelTarget: "test",
				docker.LabelRunID:  "20261019T091203.000-42",
			},
		},
	}

	tests := []struct {
		name    string
		json    bool
		removed []docker.ContainerInfo
		want    string
	}{
		{
			name:    "text",
			removed: removed,
			want:    "Removed 0123456789ab (target test, state exited)\n",
		},
		{
			name: "text empty",
			want: "No containers to remove.\n",
		},
		{
			name: "json empty",
			json: true,
			want: "{\n  \"removed\": []\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonOutput = tt.json
			var out bytes.Buffer
			require.NoError(t, printPruneResult(&out, tt.removed))
			assert.Equal(t, tt.want, out.String())
		})
	}

	t.Run("json", func(t *testing.T) {
		jsonOutput = true
		var out bytes.Buffer
		require.NoError(t, printPruneResult(&out, removed))

		var doc struct {
			Removed []pruneContainerJSON `json:"removed"`
		}
		require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
		require.Len(t, doc.Removed, 1)
		assert.Equal(t, pruneContainerJSON{
			ID:     "0123456789abcdef0123",
			Name:   "logical-task-test-1",
			Target: "test",
			RunID:  "20261019T091203.000-42",
			State:  "exited",
		}, doc.Removed[0])
	})
}

func TestPrintHistoryText(t *testing.T) {
	started := time.Date(2026, 10, 19, 9, 12, 3, 0, time.Local)
	records := []model.RunRecord{
		{Target: "test", Command: "go test ./...", ExitCode: 1, StartedAt: started.Add(2 * time.Second), DurationMS: 61000, Executor: "container"},
		{Target: "clippy", Command: "go vet ./...", ExitCode: 0, StartedAt: started, DurationMS: 1249, Executor: "host"},
	}

	var out bytes.Buffer
	printHistoryText(&out, records)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"STARTED", "TARGET", "EXIT", "DURATION", "EXECUTOR", "COMMAND"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"2026-10-19", "09:12:05", "test", "1", "1m1s", "container", "go", "test", "./..."}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2026-10-19", "09:12:03", "clippy", "0", "1.2s", "host", "go", "vet", "./..."}, strings.Fields(lines[2]))

	// Columns line up across rows.
	assert.Equal(t, strings.Index(lines[0], "TARGET"), strings.Index(lines[1], "test"))
	assert.Equal(t, strings.Index(lines[0], "COMMAND"), strings.Index(lines[2], "go vet"))
}

func TestPrintHistoryJSON_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printHistoryJSON(&out, nil))
	assert.Equal(t, "{\n  \"steps\": []\n}\n", out.String())
}
