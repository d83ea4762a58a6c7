package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdl-tools/logical/internal/model"
)

func TestObserve(t *testing.T) {
	m := New()

	require.NoError(t, m.Observe(model.StepResult{Target: "clippy", ExitCode: 0, Duration: 2 * time.Second}))
	require.NoError(t, m.Observe(model.StepResult{Target: "test", ExitCode: 1, Duration: 4 * time.Second}))
	require.NoError(t, m.Observe(model.StepResult{Target: "test", ExitCode: 127, Err: errors.New("not found")}))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("clippy", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("test", ResultFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("test", ResultError)))
	assert.Equal(t, 127.0, testutil.ToFloat64(m.LastExitCode.WithLabelValues("test")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.LastExitCode.WithLabelValues("clippy")))

	// Two histogram series (clippy, test).
	assert.Equal(t, 2, testutil.CollectAndCount(m.Duration))
}

// TestRegistry_Isolated checks two Metrics never share collectors.
func TestRegistry_Isolated(t *testing.T) {
	a, b := New(), New()
	require.NoError(t, a.Observe(model.StepResult{Target: "build"}))

	assert.Equal(t, 1, testutil.CollectAndCount(a.RunsTotal))
	assert.Equal(t, 0, testutil.CollectAndCount(b.RunsTotal))
	assert.NotSame(t, a.Registry(), b.Registry())
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	require.NoError(t, m.Observe(model.StepResult{Target: "format", Duration: 300 * time.Millisecond}))

	path := filepath.Join(t.TempDir(), "logical_task.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `logical_task_runs_total{result="success",target="format"} 1`)
	assert.Contains(t, text, "# TYPE logical_task_duration_seconds histogram")
	assert.Contains(t, text, `logical_task_last_exit_code{target="format"} 0`)

	err = m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	assert.Error(t, err)
}
