package workload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateScenario_Deterministic(t *testing.T) {
	for _, kind := range []Kind{KindDisk, KindPaging, KindCPU} {
		t.Run(string(kind), func(t *testing.T) {
			// GIVEN the same config twice
			cfg := GenerateConfig{Kind: kind, Seed: 42, Count: 12}

			// WHEN generated
			a, err := GenerateScenario(cfg)
			require.NoError(t, err)
			b, err := GenerateScenario(cfg)
			require.NoError(t, err)

			// THEN the scenarios are identical and valid
			assert.Equal(t, a, b)
			assert.NoError(t, a.Validate())
		})
	}
}

func TestGenerateScenario_DifferentSeedsDiffer(t *testing.T) {
	a, err := GenerateScenario(GenerateConfig{Kind: KindDisk, Seed: 1, Count: 20})
	require.NoError(t, err)
	b, err := GenerateScenario(GenerateConfig{Kind: KindDisk, Seed: 2, Count: 20})
	require.NoError(t, err)
	assert.NotEqual(t, a.Disk.Requests, b.Disk.Requests)
}

func TestGenerateScenario_RespectsRanges(t *testing.T) {
	disk, err := GenerateScenario(GenerateConfig{Kind: KindDisk, Seed: 3, Count: 50, MaxTrack: 20})
	require.NoError(t, err)
	require.Len(t, disk.Disk.Requests, 50)
	for _, r := range disk.Disk.Requests {
		assert.GreaterOrEqual(t, r, 0)
		assert.LessOrEqual(t, r, 20)
	}
	assert.LessOrEqual(t, disk.Disk.InitialPosition, 20)

	cpuSpec, err := GenerateScenario(GenerateConfig{Kind: KindCPU, Seed: 3, Count: 30, MaxBurst: 4, MaxArrival: 5})
	require.NoError(t, err)
	for _, p := range cpuSpec.CPU.Processes {
		assert.GreaterOrEqual(t, p.BurstTime, int64(1))
		assert.LessOrEqual(t, p.BurstTime, int64(4))
		assert.LessOrEqual(t, p.ArrivalTime, int64(5))
	}

	pagingSpec, err := GenerateScenario(GenerateConfig{Kind: KindPaging, Seed: 3, PageRange: 2, FrameCount: 4})
	require.NoError(t, err)
	assert.Len(t, pagingSpec.Paging.ReferenceString, defaultCount)
	assert.Equal(t, 4, pagingSpec.Paging.FrameCount)
	for _, p := range pagingSpec.Paging.ReferenceString {
		assert.Contains(t, []string{"0", "1"}, p)
	}
}

func TestGenerateScenario_InvalidConfig(t *testing.T) {
	_, err := GenerateScenario(GenerateConfig{Kind: "tape"})
	assert.ErrorContains(t, err, "unknown kind")

	_, err = GenerateScenario(GenerateConfig{Kind: KindDisk, Count: -1})
	assert.ErrorContains(t, err, "count")

	_, err = GenerateScenario(GenerateConfig{Kind: KindDisk, MaxTrack: -5})
	assert.Error(t, err)
}
