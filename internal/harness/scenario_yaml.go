package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kuitang/sitecheck/internal/errs"
)

// scenarioFile is the YAML document shape for user-supplied scenarios.
type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadScenarioFile reads and validates scenario definitions from a YAML file.
// The file replaces the built-in scenarios entirely.
//
//	scenarios:
//	  - name: all-pages
//	    steps:
//	      - goto: {path: /, ready: networkidle}
//	      - assert:
//	          target: {role: heading, name: "OSM Phone Number Validation"}
//	      - capture: {checkpoint: 01-main-page}
func LoadScenarioFile(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidArgument,
			fmt.Sprintf("reading scenario file %s", path), err)
	}

	var doc scenarioFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.InvalidArgument,
			fmt.Sprintf("parsing scenario file %s", path), err)
	}

	if err := ValidateScenarios(doc.Scenarios); err != nil {
		return nil, err
	}
	return doc.Scenarios, nil
}

// SelectScenario filters the list down to the named scenario.
func SelectScenario(scenarios []Scenario, name string) ([]Scenario, error) {
	for _, sc := range scenarios {
		if sc.Name == name {
			return []Scenario{sc}, nil
		}
	}
	return nil, errs.New(errs.InvalidArgument, fmt.Sprintf("no scenario named %q", name))
}
