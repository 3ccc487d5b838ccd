package sim

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey is the seed of a reproducible random workload. Generating
// twice from the same key and parameters yields identical inputs.
type SimulationKey int64

// NewSimulationKey wraps a seed.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Subsystem names one independent random stream.
type Subsystem string

const (
	SubsystemDisk   Subsystem = "disk"   // disk request tracks and head position
	SubsystemPaging Subsystem = "paging" // page reference strings
	SubsystemCPU    Subsystem = "cpu"    // process arrivals, bursts and priorities
)

// PartitionedRNG hands out one seeded *rand.Rand per subsystem so that drawing
// a disk workload never shifts the values of a CPU workload from the same key.
// Each stream is seeded with key XOR fnv1a64(subsystem).
//
// Not safe for concurrent use.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[Subsystem]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, streams: make(map[Subsystem]*rand.Rand)}
}

// ForSubsystem returns the stream for s, creating it on first use.
// Repeated calls return the same instance.
func (p *PartitionedRNG) ForSubsystem(s Subsystem) *rand.Rand {
	r, ok := p.streams[s]
	if !ok {
		r = rand.New(rand.NewSource(deriveSeed(p.key, s)))
		p.streams[s] = r
	}
	return r
}

// Key returns the key the streams derive from.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func deriveSeed(key SimulationKey, s Subsystem) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(key) ^ int64(h.Sum64())
}
