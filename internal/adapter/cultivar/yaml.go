// Package cultivar loads cultivar stage-duration tables and observed
// crop-model timing from their on-disk formats.
package cultivar

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/agroclim/maize-stress/internal/domain"
)

// fileSchema is the YAML shape of a cultivar parameter file:
//
//	cultivars:
//	  - name: KSC704
//	    base_temp: 8
//	    stages:
//	      emergence:  {days: 8}
//	      vegetative: {gdd: 780}
//	      ...
type fileSchema struct {
	Cultivars []cultivarSchema `yaml:"cultivars" validate:"required,min=1,dive"`
}

type cultivarSchema struct {
	Name     string                    `yaml:"name" validate:"required"`
	BaseTemp float64                   `yaml:"base_temp" validate:"gte=0,lte=20"`
	Stages   map[string]durationSchema `yaml:"stages" validate:"required"`
}

type durationSchema struct {
	Days int     `yaml:"days" validate:"gte=0"`
	GDD  float64 `yaml:"gdd" validate:"gte=0"`
}

var validate = validator.New()

// LoadFile reads and validates a cultivar parameter file.
func LoadFile(path string) ([]domain.Cultivar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cultivar file: %w", err)
	}
	cultivars, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cultivars, nil
}

// Parse decodes a cultivar parameter document. Every growth stage must have
// exactly one of days/gdd set; a thermal entry requires a positive base
// temperature; every stage of the biological sequence must be present.
func Parse(data []byte) ([]domain.Cultivar, error) {
	var schema fileSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := validate.Struct(&schema); err != nil {
		return nil, fmt.Errorf("invalid cultivar table: %w", err)
	}

	out := make([]domain.Cultivar, 0, len(schema.Cultivars))
	seen := make(map[string]bool, len(schema.Cultivars))
	for _, cs := range schema.Cultivars {
		if seen[cs.Name] {
			return nil, fmt.Errorf("duplicate cultivar %q", cs.Name)
		}
		seen[cs.Name] = true

		c, err := convert(cs)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func convert(cs cultivarSchema) (domain.Cultivar, error) {
	c := domain.Cultivar{
		Name:      cs.Name,
		BaseTemp:  cs.BaseTemp,
		Durations: make(map[domain.Stage]domain.StageDuration, len(cs.Stages)),
	}

	for name, ds := range cs.Stages {
		stage, err := domain.ParseStage(name)
		if err != nil {
			return domain.Cultivar{}, fmt.Errorf("cultivar %s: %w", cs.Name, err)
		}
		switch {
		case ds.Days > 0 && ds.GDD > 0:
			return domain.Cultivar{}, fmt.Errorf("cultivar %s: stage %s sets both days and gdd", cs.Name, stage)
		case ds.GDD > 0 && cs.BaseTemp <= 0:
			return domain.Cultivar{}, fmt.Errorf("cultivar %s: thermal stage %s requires a positive base_temp", cs.Name, stage)
		}
		c.Durations[stage] = domain.StageDuration{Days: ds.Days, GDD: ds.GDD}
	}

	for _, stage := range domain.Stages() {
		d, ok := c.Durations[stage]
		if !ok || (d.Days <= 0 && !d.Thermal()) {
			return domain.Cultivar{}, &domain.MissingStageError{Cultivar: cs.Name, Stage: stage}
		}
	}
	return c, nil
}
