package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedJob marks a job payload that does not have the expected shape.
var ErrMalformedJob = errors.New("malformed job record")

// JobID is a job identifier as served by the jobs API. The API may send it as
// a JSON string or number; it is kept as text and used verbatim in URLs.
type JobID string

func (id *JobID) UnmarshalJSON(data []byte) error {
	s, err := scalarText(data)
	if err != nil {
		return fmt.Errorf("job id: %w", err)
	}
	*id = JobID(s)
	return nil
}

func (id JobID) String() string {
	return string(id)
}

// Salary is display text; the API sends either "$120,000" or 120000.
type Salary string

func (s *Salary) UnmarshalJSON(data []byte) error {
	text, err := scalarText(data)
	if err != nil {
		return fmt.Errorf("salary: %w", err)
	}
	*s = Salary(text)
	return nil
}

func (s Salary) String() string {
	return string(s)
}

// Job is one job record. The core never mutates it.
type Job struct {
	ID       JobID  `json:"id"`
	Title    string `json:"title"`
	Salary   Salary `json:"salary"`
	Location string `json:"location"`
}

// jobPayload detects absent fields, which a plain Job would zero silently.
type jobPayload struct {
	ID       *JobID  `json:"id"`
	Title    *string `json:"title"`
	Salary   *Salary `json:"salary"`
	Location *string `json:"location"`
}

func (p jobPayload) toJob() (Job, error) {
	var missing []string
	if p.ID == nil || strings.TrimSpace(p.ID.String()) == "" {
		missing = append(missing, "id")
	}
	if p.Title == nil {
		missing = append(missing, "title")
	}
	if p.Salary == nil {
		missing = append(missing, "salary")
	}
	if p.Location == nil {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return Job{}, fmt.Errorf("%w: missing %s", ErrMalformedJob, strings.Join(missing, ", "))
	}
	return Job{
		ID:       *p.ID,
		Title:    *p.Title,
		Salary:   *p.Salary,
		Location: *p.Location,
	}, nil
}

// DecodeJob parses and validates a single job record.
func DecodeJob(data []byte) (*Job, error) {
	var p jobPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJob, err)
	}
	job, err := p.toJob()
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// DecodeJobs parses and validates a job collection, preserving order.
func DecodeJobs(data []byte) ([]Job, error) {
	var ps []jobPayload
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJob, err)
	}
	if ps == nil {
		return nil, fmt.Errorf("%w: expected an array, got null", ErrMalformedJob)
	}

	jobs := make([]Job, 0, len(ps))
	for i, p := range ps {
		job, err := p.toJob()
		if err != nil {
			return nil, fmt.Errorf("job at index %d: %w", i, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// scalarText accepts a JSON string or number and returns it as text.
func scalarText(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "", errors.New("empty value")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	default:
		return "", fmt.Errorf("expected string or number, got %s", data)
	}
}
