package workload

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ossim/ossim/sim/cpu"
	"github.com/ossim/ossim/sim/disk"
	"github.com/ossim/ossim/sim/paging"
)

// Kind names the simulator family a scenario targets.
type Kind string

const (
	KindDisk   Kind = "disk"
	KindPaging Kind = "paging"
	KindCPU    Kind = "cpu"
)

// validKinds maps accepted scenario kinds.
var validKinds = map[Kind]bool{
	KindDisk:   true,
	KindPaging: true,
	KindCPU:    true,
}

// IsValidKind reports whether name is a recognized scenario kind.
func IsValidKind(name string) bool {
	return validKinds[Kind(name)]
}

// CurrentVersion is the scenario format version written by this package.
const CurrentVersion = "1"

// ScenarioSpec is the top-level scenario configuration.
// Loaded from YAML via LoadScenario(path) or decoded from a JSON request body.
// Exactly one of Disk, Paging or CPU must be set, matching Kind.
type ScenarioSpec struct {
	Version     string   `yaml:"version" json:"version,omitempty"`
	Name        string   `yaml:"name,omitempty" json:"name,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Kind        Kind     `yaml:"kind" json:"kind"`
	Algorithm   string   `yaml:"algorithm,omitempty" json:"algorithm,omitempty"`
	Algorithms  []string `yaml:"algorithms,omitempty" json:"algorithms,omitempty"` // comparison set; empty = all

	Disk   *disk.Input `yaml:"disk,omitempty" json:"disk,omitempty"`
	Paging *PagingSpec `yaml:"paging,omitempty" json:"paging,omitempty"`
	CPU    *CPUSpec    `yaml:"cpu,omitempty" json:"cpu,omitempty"`
}

// PagingSpec is the page replacement input. Pages are labels so that
// numeric and symbolic reference strings share one format.
type PagingSpec struct {
	ReferenceString []string `yaml:"reference_string" json:"reference_string"`
	FrameCount      int      `yaml:"frame_count" json:"frame_count"`
}

// CPUSpec is the CPU scheduling input.
type CPUSpec struct {
	Processes []cpu.Process `yaml:"processes" json:"processes"`
	Options   cpu.Options   `yaml:"options,omitempty" json:"options,omitempty"`
}

// LoadScenario reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (*ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes a YAML scenario document with strict field checking.
func ParseScenario(data []byte) (*ScenarioSpec, error) {
	var spec ScenarioSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if spec.Version == "" {
		logrus.Debugf("scenario %q has no version; assuming %s", spec.Name, CurrentVersion)
		spec.Version = CurrentVersion
	}
	return &spec, nil
}

// Validate checks that the scenario is internally consistent.
// Range checks that depend on the algorithm (tracks, bursts, quantum) are left
// to the engines, which report them as sim.InvalidInputError.
func (s *ScenarioSpec) Validate() error {
	if s.Version != "" && s.Version != CurrentVersion {
		return fmt.Errorf("unsupported scenario version %q; valid: %s", s.Version, CurrentVersion)
	}
	if !validKinds[s.Kind] {
		return fmt.Errorf("unknown kind %q; valid: disk, paging, cpu", s.Kind)
	}
	for i, name := range s.Algorithms {
		if err := validateAlgorithm(s.Kind, fmt.Sprintf("algorithms[%d]", i), name); err != nil {
			return err
		}
	}
	if s.Algorithm != "" {
		if err := validateAlgorithm(s.Kind, "algorithm", s.Algorithm); err != nil {
			return err
		}
	}

	sections := 0
	for _, set := range []bool{s.Disk != nil, s.Paging != nil, s.CPU != nil} {
		if set {
			sections++
		}
	}
	if sections != 1 {
		return fmt.Errorf("exactly one of disk, paging, cpu must be set, got %d", sections)
	}

	switch s.Kind {
	case KindDisk:
		if s.Disk == nil {
			return fmt.Errorf("kind disk requires a disk section")
		}
	case KindPaging:
		if s.Paging == nil {
			return fmt.Errorf("kind paging requires a paging section")
		}
		return validatePaging(s.Paging)
	case KindCPU:
		if s.CPU == nil {
			return fmt.Errorf("kind cpu requires a cpu section")
		}
		return validateCPU(s.CPU)
	}
	return nil
}

// SelectedAlgorithms returns the algorithms a comparison should run:
// the explicit list, else the single algorithm, else every algorithm of the kind.
func (s *ScenarioSpec) SelectedAlgorithms() []string {
	if len(s.Algorithms) > 0 {
		return append([]string(nil), s.Algorithms...)
	}
	if s.Algorithm != "" {
		return []string{s.Algorithm}
	}
	return AlgorithmNames(s.Kind)
}

// AlgorithmNames lists every algorithm of a kind in presentation order.
func AlgorithmNames(kind Kind) []string {
	var names []string
	switch kind {
	case KindDisk:
		for _, a := range disk.Algorithms() {
			names = append(names, string(a))
		}
	case KindPaging:
		for _, a := range paging.Algorithms() {
			names = append(names, string(a))
		}
	case KindCPU:
		for _, a := range cpu.Algorithms() {
			names = append(names, string(a))
		}
	}
	return names
}

func validateAlgorithm(kind Kind, field, name string) error {
	var ok bool
	switch kind {
	case KindDisk:
		ok = disk.IsValidAlgorithm(name)
	case KindPaging:
		ok = paging.IsValidAlgorithm(name)
	case KindCPU:
		ok = cpu.IsValidAlgorithm(name)
	}
	if !ok {
		return fmt.Errorf("%s: unknown %s algorithm %q; valid: %v", field, kind, name, AlgorithmNames(kind))
	}
	return nil
}

func validatePaging(p *PagingSpec) error {
	if p.FrameCount <= 0 {
		return fmt.Errorf("paging.frame_count must be positive, got %d", p.FrameCount)
	}
	for i, page := range p.ReferenceString {
		if page == "" {
			return fmt.Errorf("paging.reference_string[%d]: page label must not be empty", i)
		}
	}
	return nil
}

func validateCPU(c *CPUSpec) error {
	seen := make(map[string]bool, len(c.Processes))
	for i, p := range c.Processes {
		prefix := fmt.Sprintf("cpu.processes[%d]", i)
		if p.ID == "" {
			return fmt.Errorf("%s.id must not be empty", prefix)
		}
		if seen[p.ID] {
			return fmt.Errorf("%s.id %q is duplicated", prefix, p.ID)
		}
		seen[p.ID] = true
		if p.ArrivalTime < 0 {
			return fmt.Errorf("%s.arrival must be non-negative, got %d", prefix, p.ArrivalTime)
		}
		if p.BurstTime <= 0 {
			return fmt.Errorf("%s.burst must be positive, got %d", prefix, p.BurstTime)
		}
	}
	if c.Options.Quantum < 0 {
		return fmt.Errorf("cpu.options.quantum must be non-negative, got %d", c.Options.Quantum)
	}
	if math.IsNaN(c.Options.AgeWeight) || math.IsInf(c.Options.AgeWeight, 0) || c.Options.AgeWeight < 0 {
		return fmt.Errorf("cpu.options.age_weight must be a finite non-negative number, got %f", c.Options.AgeWeight)
	}
	return nil
}
