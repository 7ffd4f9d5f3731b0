package backend

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Tiliavir/sitelog/internal/model"
)

// DecodeProjects normalizes the project-assignment responses the backend is
// known to produce:
//
//	[{...}, ...]                          bare array of projects
//	{"projects": [{...}, ...]}            wrapped projects
//	{"assignments": [{"project": {...}}]} assignment records with a nested project
//	{"assignments": [{...}, ...]}         assignment records that are projects themselves
//	null                                  no projects
//
// Any other shape is an error.
func DecodeProjects(body []byte) ([]model.Project, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []model.Project{}, nil
	}

	switch body[0] {
	case '[':
		var projects []model.Project
		if err := json.Unmarshal(body, &projects); err != nil {
			return nil, fmt.Errorf("decoding project list: %w", err)
		}
		return nonNil(projects), nil
	case '{':
	default:
		return nil, fmt.Errorf("unrecognised project response: %.40q", body)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding project response: %w", err)
	}

	if raw, ok := envelope["projects"]; ok {
		var projects []model.Project
		if err := json.Unmarshal(raw, &projects); err != nil {
			return nil, fmt.Errorf("decoding projects: %w", err)
		}
		return nonNil(projects), nil
	}

	if raw, ok := envelope["assignments"]; ok {
		var assignments []json.RawMessage
		if err := json.Unmarshal(raw, &assignments); err != nil {
			return nil, fmt.Errorf("decoding assignments: %w", err)
		}
		projects := make([]model.Project, 0, len(assignments))
		for i, a := range assignments {
			p, err := decodeAssignment(a)
			if err != nil {
				return nil, fmt.Errorf("decoding assignment %d: %w", i, err)
			}
			projects = append(projects, p)
		}
		return projects, nil
	}

	return nil, fmt.Errorf("unrecognised project response: no \"projects\" or \"assignments\" field")
}

func decodeAssignment(raw json.RawMessage) (model.Project, error) {
	var nested struct {
		Project *model.Project `json:"project"`
	}
	if err := json.Unmarshal(raw, &nested); err != nil {
		return model.Project{}, err
	}
	if nested.Project != nil {
		return *nested.Project, nil
	}
	var p model.Project
	err := json.Unmarshal(raw, &p)
	return p, err
}

func nonNil(p []model.Project) []model.Project {
	if p == nil {
		return []model.Project{}
	}
	return p
}
