// Package fixture loads YAML project fixtures for the cmd/tessera
// demonstration CLI and converts them into store entities. It exists so
// internal/model stays free of presentation-layer struct tags.
package fixture

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"tessera/internal/model"
	"tessera/internal/store"
)

// Doc is the on-disk fixture shape: a small project (tasks, resources)
// plus an optional tolerance/BOM section, all by string ID so a YAML
// author never has to hand-type UUIDs. A fixture carries no calendar;
// Populate always installs a standard Monday-Friday calendar.
type Doc struct {
	Resources []ResourceDoc `yaml:"resources"`
	Tasks     []TaskDoc     `yaml:"tasks"`

	Components []ComponentDoc `yaml:"components"`
	Features   []FeatureDoc   `yaml:"features"`
	Mates      []MateDoc      `yaml:"mates"`
	Stackups   []StackupDoc   `yaml:"stackups"`

	Assemblies  []AssemblyDoc    `yaml:"assemblies"`
	Quotes      []QuoteDoc       `yaml:"quotes"`
	Containment []ContainmentDoc `yaml:"containment"`
}

type ResourceDoc struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Role            string   `yaml:"role"`
	BillRatePerHour *float64 `yaml:"bill_rate_per_hour"`
	AvailabilityPct float64  `yaml:"availability_pct"`
}

type DependencyDoc struct {
	PredecessorID string  `yaml:"predecessor_id"`
	Type          string  `yaml:"type"` // FS, SS, FF, SF
	LagDays       float64 `yaml:"lag_days"`
}

type AssignmentDoc struct {
	ResourceID        string  `yaml:"resource_id"`
	AllocationPercent float64 `yaml:"allocation_percent"`
}

type TaskDoc struct {
	ID                 string          `yaml:"id"`
	Name               string          `yaml:"name"`
	TaskType           string          `yaml:"task_type"` // EffortDriven, FixedDuration, FixedWork, Milestone
	EstimatedHours     *float64        `yaml:"estimated_hours"`
	DurationDays       *float64        `yaml:"duration_days"`
	WorkUnits          *float64        `yaml:"work_units"`
	ProgressPercentage float64         `yaml:"progress_percentage"`
	ActualCost         *float64        `yaml:"actual_cost"`
	Assignments        []AssignmentDoc `yaml:"assignments"`
	Dependencies       []DependencyDoc `yaml:"dependencies"`
}

type ComponentDoc struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	PartNumber string `yaml:"part_number"`
}

type FeatureDoc struct {
	ID               string  `yaml:"id"`
	ComponentID      string  `yaml:"component_id"`
	Category         string  `yaml:"category"` // External, Internal
	Nominal          float64 `yaml:"nominal"`
	Plus             float64 `yaml:"plus"`
	Minus            float64 `yaml:"minus"`
	DistributionKind string  `yaml:"distribution"` // Normal, Uniform, Triangular, LogNormal, Beta
}

type MateDoc struct {
	ID             string `yaml:"id"`
	ShaftFeatureID string `yaml:"shaft_feature_id"`
	HoleFeatureID  string `yaml:"hole_feature_id"`
}

type ContributionDoc struct {
	FeatureID string  `yaml:"feature_id"`
	Direction float64 `yaml:"direction"`
	HalfCount bool    `yaml:"half_count"`
}

type StackupDoc struct {
	ID    string            `yaml:"id"`
	Name  string            `yaml:"name"`
	Chain []ContributionDoc `yaml:"chain"`
	USL   *float64          `yaml:"usl"`
	LSL   *float64          `yaml:"lsl"`
}

type AssemblyDoc struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type PricePointDoc struct {
	Quantity  uint32  `yaml:"quantity"`
	UnitPrice float64 `yaml:"unit_price"`
}

type QuoteDoc struct {
	ID          string          `yaml:"id"`
	ComponentID string          `yaml:"component_id"`
	Prices      []PricePointDoc `yaml:"prices"`
}

type ContainmentDoc struct {
	ParentID   string `yaml:"parent_id"`
	ChildID    string `yaml:"child_id"`
	IsAssembly bool   `yaml:"is_assembly"` // true: child is an Assembly; false: a Component
	Quantity   uint32 `yaml:"quantity"`
}

// Load reads and parses a YAML fixture file.
func Load(path string) (Doc, error) {
	var doc Doc
	bts, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("read fixture %q: %w", path, err)
	}
	if err := yaml.Unmarshal(bts, &doc); err != nil {
		return doc, fmt.Errorf("parse fixture %q: %w", path, err)
	}
	return doc, nil
}

// Populate loads every entity in doc into s, keyed by the fixture's plain
// string IDs (cast directly to model.ID; fixtures are trusted local
// input, not externally-supplied identifiers).
func Populate(s *store.InMemoryStore, doc Doc) error {
	s.PutCalendar(model.NewStandardCalendar("standard"))

	for _, r := range doc.Resources {
		s.PutResource(model.Resource{
			ID:              model.ID(r.ID),
			Name:            r.Name,
			Role:            r.Role,
			BillRatePerHour: r.BillRatePerHour,
			AvailabilityPct: orDefault(r.AvailabilityPct, 100),
		})
	}

	for _, td := range doc.Tasks {
		taskType, err := parseTaskType(td.TaskType)
		if err != nil {
			return err
		}
		deps := make([]model.TaskDependency, 0, len(td.Dependencies))
		for _, d := range td.Dependencies {
			depType, err := parseDependencyType(d.Type)
			if err != nil {
				return err
			}
			deps = append(deps, model.TaskDependency{
				PredecessorID: model.ID(d.PredecessorID),
				Type:          depType,
				LagDays:       d.LagDays,
			})
		}
		assignments := make([]model.ResourceAssignment, 0, len(td.Assignments))
		for _, a := range td.Assignments {
			assignments = append(assignments, model.ResourceAssignment{
				ResourceID:        model.ID(a.ResourceID),
				AllocationPercent: a.AllocationPercent,
			})
		}
		s.PutTask(model.Task{
			ID:                 model.ID(td.ID),
			Name:               td.Name,
			TaskType:           taskType,
			EstimatedHours:     td.EstimatedHours,
			DurationDays:       td.DurationDays,
			WorkUnits:          td.WorkUnits,
			ProgressPercentage: td.ProgressPercentage,
			ActualCost:         td.ActualCost,
			Assignments:        assignments,
			Dependencies:       deps,
		})
	}

	for _, c := range doc.Components {
		s.PutComponent(model.Component{ID: model.ID(c.ID), Name: c.Name, PartNumber: c.PartNumber})
	}

	for _, f := range doc.Features {
		category, err := parseFeatureCategory(f.Category)
		if err != nil {
			return err
		}
		kind := parseDistributionKind(f.DistributionKind)
		s.PutFeature(model.Feature{
			ID:              model.ID(f.ID),
			ComponentID:     model.ID(f.ComponentID),
			FeatureCategory: category,
			Nominal:         f.Nominal,
			Plus:            f.Plus,
			Minus:           f.Minus,
			Distribution:    model.Distribution{Kind: kind},
		})
	}

	for _, m := range doc.Mates {
		s.PutMate(model.Mate{ID: model.ID(m.ID), ShaftFeatureID: model.ID(m.ShaftFeatureID), HoleFeatureID: model.ID(m.HoleFeatureID)})
	}

	for _, sd := range doc.Stackups {
		chain := make([]model.FeatureContribution, 0, len(sd.Chain))
		for _, c := range sd.Chain {
			chain = append(chain, model.FeatureContribution{
				FeatureID: model.ID(c.FeatureID),
				Direction: c.Direction,
				HalfCount: c.HalfCount,
			})
		}
		s.PutStackup(model.Stackup{ID: model.ID(sd.ID), Name: sd.Name, Chain: chain, USL: sd.USL, LSL: sd.LSL})
	}

	for _, a := range doc.Assemblies {
		s.PutAssembly(model.Assembly{ID: model.ID(a.ID), Name: a.Name})
	}

	for _, q := range doc.Quotes {
		prices := make([]model.QuantityPrice, 0, len(q.Prices))
		for _, p := range q.Prices {
			prices = append(prices, model.QuantityPrice{Quantity: p.Quantity, UnitPrice: p.UnitPrice})
		}
		s.PutQuote(model.Quote{ID: model.ID(q.ID), ComponentID: model.ID(q.ComponentID), QuoteDate: time.Now(), Prices: prices})
	}

	for _, c := range doc.Containment {
		kind := model.AssemblyToComponent
		if c.IsAssembly {
			kind = model.AssemblyToAssembly
		}
		s.PutContainmentLink(model.ContainmentLink{
			ParentID: model.ID(c.ParentID), ChildID: model.ID(c.ChildID), Kind: kind, Quantity: c.Quantity,
		})
	}

	return nil
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func parseTaskType(s string) (model.TaskType, error) {
	switch s {
	case "", "EffortDriven":
		return model.EffortDriven, nil
	case "FixedDuration":
		return model.FixedDuration, nil
	case "FixedWork":
		return model.FixedWork, nil
	case "Milestone":
		return model.MilestoneTask, nil
	default:
		return 0, fmt.Errorf("unknown task_type %q", s)
	}
}

func parseDependencyType(s string) (model.DependencyType, error) {
	switch s {
	case "", "FS":
		return model.FinishToStart, nil
	case "SS":
		return model.StartToStart, nil
	case "FF":
		return model.FinishToFinish, nil
	case "SF":
		return model.StartToFinish, nil
	default:
		return 0, fmt.Errorf("unknown dependency type %q", s)
	}
}

func parseFeatureCategory(s string) (model.FeatureCategory, error) {
	switch s {
	case "", "External":
		return model.External, nil
	case "Internal":
		return model.Internal, nil
	default:
		return 0, fmt.Errorf("unknown feature category %q", s)
	}
}

func parseDistributionKind(s string) model.DistributionKind {
	switch s {
	case "Uniform":
		return model.Uniform
	case "Triangular":
		return model.Triangular
	case "LogNormal":
		return model.LogNormal
	case "Beta":
		return model.Beta
	default:
		return model.Normal
	}
}
