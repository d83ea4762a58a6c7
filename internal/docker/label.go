package docker

import (
	"fmt"
	"strings"
	"time"
)

// Label keys mark containers started by the runner. They are the only
// record of a step container, so a crashed run can still be cleaned up
// with `logical-task prune`.
//
// All keys share the "logical-task." prefix to avoid collisions with
// labels set by other tools.
const (
	// LabelPrefix is the common prefix for all runner labels.
	LabelPrefix = "logical-task."

	// LabelManagedBy identifies containers owned by the runner.
	// Value: always ManagedByValue.
	LabelManagedBy = LabelPrefix + "managed-by"

	// LabelTarget stores the name of the target the container runs.
	LabelTarget = LabelPrefix + "target"

	// LabelRunID stores the identifier of the CLI invocation.
	LabelRunID = LabelPrefix + "run-id"

	// LabelWorkspace stores the absolute host path mounted into the
	// container.
	LabelWorkspace = LabelPrefix + "workspace"

	// LabelCreatedAt stores the RFC3339 creation timestamp.
	LabelCreatedAt = LabelPrefix + "created-at"
)

// ManagedByValue is the constant value for the LabelManagedBy label.
const ManagedByValue = "logical-task"

// StepLabels is the metadata attached to a step container.
type StepLabels struct {
	Target    string
	RunID     string
	Workspace string
	CreatedAt time.Time
}

// BuildLabels constructs the Docker label map for a step container.
func BuildLabels(s StepLabels) map[string]string {
	return map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelTarget:    s.Target,
		LabelRunID:     s.RunID,
		LabelWorkspace: s.Workspace,
		// UTC keeps the label independent of the host's timezone.
		LabelCreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ParseLabels is the inverse of BuildLabels. Missing required labels are
// reported together in one error.
func ParseLabels(labels map[string]string) (StepLabels, error) {
	requiredKeys := []string{
		LabelManagedBy,
		LabelTarget,
		LabelRunID,
		LabelWorkspace,
		LabelCreatedAt,
	}

	var missing []string
	for _, key := range requiredKeys {
		if _, ok := labels[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return StepLabels{}, fmt.Errorf("missing required Docker labels: %s", strings.Join(missing, ", "))
	}

	if labels[LabelManagedBy] != ManagedByValue {
		return StepLabels{}, fmt.Errorf(
			"label %s has unexpected value %q (expected %q)",
			LabelManagedBy, labels[LabelManagedBy], ManagedByValue,
		)
	}

	createdAt, err := time.Parse(time.RFC3339, labels[LabelCreatedAt])
	if err != nil {
		return StepLabels{}, fmt.Errorf("invalid label %s: %w", LabelCreatedAt, err)
	}

	return StepLabels{
		Target:    labels[LabelTarget],
		RunID:     labels[LabelRunID],
		Workspace: labels[LabelWorkspace],
		CreatedAt: createdAt,
	}, nil
}

// FilterLabels returns the label filter that selects runner-owned
// containers.
func FilterLabels() map[string]string {
	return map[string]string{
		LabelManagedBy: ManagedByValue,
	}
}
