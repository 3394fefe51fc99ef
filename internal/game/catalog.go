package game

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed achievements.yaml
var catalogYAML []byte

// Metric names the aggregate each achievement predicate is checked against.
type Metric string

const (
	MetricCompleted Metric = "completed"
	MetricStreak    Metric = "streak"
	MetricPoints    Metric = "points"
	MetricEarly     Metric = "early"
)

type Achievement struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon"`
	Metric      Metric `yaml:"metric" json:"-"`
	Threshold   int    `yaml:"threshold" json:"-"`
	Points      int    `yaml:"points" json:"points"`
}

// Snapshot is the aggregate state a predicate sees. Predicates never query
// the store themselves.
type Snapshot struct {
	CompletedCount int
	Streak         int
	Points         int
	EarlyCount     int
}

func (a Achievement) Satisfied(s Snapshot) bool {
	switch a.Metric {
	case MetricCompleted:
		return s.CompletedCount >= a.Threshold
	case MetricStreak:
		return s.Streak >= a.Threshold
	case MetricPoints:
		return s.Points >= a.Threshold
	case MetricEarly:
		return s.EarlyCount >= a.Threshold
	}
	return false
}

// Catalog is the fixed achievement table, in evaluation order. Loaded once at
// startup from the embedded file and never mutated.
var Catalog = loadCatalog()

func loadCatalog() []Achievement {
	var parsed struct {
		Achievements []Achievement `yaml:"achievements"`
	}
	if err := yaml.Unmarshal(catalogYAML, &parsed); err != nil {
		panic(fmt.Sprintf("bad achievement catalog: %v", err))
	}
	for _, a := range parsed.Achievements {
		if a.ID == "" || a.Threshold <= 0 || a.Points <= 0 {
			panic(fmt.Sprintf("bad achievement catalog entry: %+v", a))
		}
	}
	return parsed.Achievements
}
