package devapi

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sunil-gumatimath/react-router/internal/model"
)

//go:embed fixtures/jobs.yaml
var defaultFixture []byte

var ErrInvalidFixture = errors.New("invalid fixture")

type fixture struct {
	Jobs []fixtureJob `yaml:"jobs"`
}

type fixtureJob struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Salary   string `yaml:"salary"`
	Location string `yaml:"location"`
}

// DefaultJobs returns the embedded fixture.
func DefaultJobs() ([]model.Job, error) {
	return ParseFixture(defaultFixture)
}

// LoadFixture reads a fixture file; an empty path selects the embedded one.
func LoadFixture(path string) ([]model.Job, error) {
	if path == "" {
		return DefaultJobs()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes YAML fixture data. Every job needs an id, a title and a
// location, and ids must be unique.
func ParseFixture(data []byte) ([]model.Job, error) {
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFixture, err)
	}

	seen := make(map[string]bool, len(f.Jobs))
	jobs := make([]model.Job, 0, len(f.Jobs))
	for i, j := range f.Jobs {
		switch {
		case j.ID == "":
			return nil, fmt.Errorf("%w: job at index %d has no id", ErrInvalidFixture, i)
		case seen[j.ID]:
			return nil, fmt.Errorf("%w: duplicate job id %q", ErrInvalidFixture, j.ID)
		case j.Title == "" || j.Location == "":
			return nil, fmt.Errorf("%w: job %q needs a title and a location", ErrInvalidFixture, j.ID)
		}
		seen[j.ID] = true
		jobs = append(jobs, model.Job{
			ID:       model.JobID(j.ID),
			Title:    j.Title,
			Salary:   model.Salary(j.Salary),
			Location: j.Location,
		})
	}
	return jobs, nil
}
