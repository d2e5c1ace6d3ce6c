package gate

import (
	"fmt"
	"reflect"
)

// RequireArtifacts checks that every listed stage produced an artifact.
func RequireArtifacts(name string, stageIDs ...string) Check {
	return func(artifacts map[string]any) []Result {
		var missing []string
		for _, id := range stageIDs {
			if _, ok := artifacts[id]; !ok {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			return []Result{{
				Name:     name,
				Severity: SeverityError,
				Message:  fmt.Sprintf("missing artifacts: %v", missing),
				Details:  map[string]any{"missing": missing},
			}}
		}
		return []Result{{
			Name:     name,
			Passed:   true,
			Severity: SeverityInfo,
			Message:  "all required artifacts present",
		}}
	}
}

// ContentNotEmpty checks that a stage's artifact carries non-empty content:
// either a non-empty string, or a mapping whose "content" key is one.
func ContentNotEmpty(name, stageID string) Check {
	return func(artifacts map[string]any) []Result {
		value, ok := artifacts[stageID]
		if !ok {
			return InsufficientData(name, fmt.Sprintf("artifact %s not produced", stageID))
		}

		content, ok := extractContent(value)
		if !ok {
			return []Result{{
				Name:     name,
				Severity: SeverityError,
				Message:  fmt.Sprintf("artifact %s has no inspectable content", stageID),
			}}
		}
		if content == "" {
			return []Result{{
				Name:     name,
				Severity: SeverityError,
				Message:  fmt.Sprintf("artifact %s has empty content", stageID),
			}}
		}
		return []Result{{
			Name:     name,
			Passed:   true,
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("artifact %s has content", stageID),
		}}
	}
}

// FieldsMatch checks that a field carried forward between two artifacts is
// structurally identical in both. Either artifact being absent yields
// insufficient data, not a failure.
func FieldsMatch(name, stageA, fieldA, stageB, fieldB string) Check {
	return func(artifacts map[string]any) []Result {
		left, okA := lookupField(artifacts, stageA, fieldA)
		right, okB := lookupField(artifacts, stageB, fieldB)
		if !okA || !okB {
			return InsufficientData(name, fmt.Sprintf("need %s.%s and %s.%s", stageA, fieldA, stageB, fieldB))
		}

		if !reflect.DeepEqual(left, right) {
			return []Result{{
				Name:     name,
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s.%s does not match %s.%s", stageA, fieldA, stageB, fieldB),
				Details:  map[string]any{"left": left, "right": right},
			}}
		}
		return []Result{{
			Name:     name,
			Passed:   true,
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("%s.%s matches %s.%s", stageA, fieldA, stageB, fieldB),
		}}
	}
}

// MaxContentLength warns when a stage's content exceeds a soft limit.
func MaxContentLength(name, stageID string, limit int) Check {
	return func(artifacts map[string]any) []Result {
		value, ok := artifacts[stageID]
		if !ok {
			return InsufficientData(name, fmt.Sprintf("artifact %s not produced", stageID))
		}
		content, ok := extractContent(value)
		if !ok {
			return InsufficientData(name, fmt.Sprintf("artifact %s has no inspectable content", stageID))
		}
		if len(content) > limit {
			return []Result{{
				Name:     name,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("artifact %s content length %d exceeds %d", stageID, len(content), limit),
				Details:  map[string]any{"length": len(content), "limit": limit},
			}}
		}
		return []Result{{
			Name:     name,
			Passed:   true,
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("artifact %s within length limit", stageID),
		}}
	}
}

func extractContent(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case map[string]any:
		if s, ok := v["content"].(string); ok {
			return s, true
		}
	}
	return "", false
}

func lookupField(artifacts map[string]any, stageID, field string) (any, bool) {
	value, ok := artifacts[stageID]
	if !ok {
		return nil, false
	}
	m, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m[field]
	return v, ok
}
