package paging

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossim/ossim/sim"
)

func pages[T comparable](ps ...T) []Frame[T] {
	out := make([]Frame[T], len(ps))
	for i, p := range ps {
		out[i] = Page(p)
	}
	return out
}

var silberschatz = []int{7, 0, 1, 2, 0, 3, 0, 4, 2, 3, 0, 3, 2, 1, 2, 0, 1, 7, 0, 1}

func TestSimulate_FIFO_ShortString(t *testing.T) {
	// GIVEN the reference string 1 3 0 3 5 6 3 and three frames
	res, err := Simulate(FIFO, []int{1, 3, 0, 3, 5, 6, 3}, 3)
	require.NoError(t, err)

	// THEN only the repeated 3 hits while it is still resident; 5 evicts 1,
	// 6 evicts 3 and the final 3 evicts 0
	assert.Equal(t, 6, res.PageFaults)
	assert.Equal(t, 1, res.Hits)
	assert.Equal(t, pages(5, 6, 3), res.FinalFrames())
	faults := make([]bool, len(res.Steps))
	for i, s := range res.Steps {
		faults[i] = s.Fault
	}
	assert.Equal(t, []bool{true, true, true, false, true, true, true}, faults)
}

func TestSimulate_Optimal_NoWorseThanFIFOOnShortString(t *testing.T) {
	refs := []int{1, 3, 0, 3, 5, 6, 3}
	fifo, err := Simulate(FIFO, refs, 3)
	require.NoError(t, err)
	opt, err := Simulate(Optimal, refs, 3)
	require.NoError(t, err)

	assert.Equal(t, 5, opt.PageFaults)
	assert.LessOrEqual(t, opt.PageFaults, fifo.PageFaults)
	assert.Equal(t, pages(6, 3, 0), opt.FinalFrames())
}

func TestSimulate_TextbookFaultCounts(t *testing.T) {
	tests := []struct {
		algorithm Algorithm
		faults    int
	}{
		{FIFO, 15},
		{LRU, 12},
		{Optimal, 9},
	}
	for _, tt := range tests {
		t.Run(string(tt.algorithm), func(t *testing.T) {
			res, err := Simulate(tt.algorithm, silberschatz, 3)
			require.NoError(t, err)
			assert.Equal(t, tt.faults, res.PageFaults)
			assert.InDelta(t, float64(20-tt.faults)/20, res.HitRatio, 1e-12)
		})
	}
}

func TestSimulate_FIFO_BeladysAnomaly(t *testing.T) {
	// GIVEN the classic anomaly string
	refs := []int{1, 2, 3, 4, 1, 2, 5, 1, 2, 3, 4, 5}

	three, err := Simulate(FIFO, refs, 3)
	require.NoError(t, err)
	four, err := Simulate(FIFO, refs, 4)
	require.NoError(t, err)

	// THEN adding a frame increases FIFO's faults
	assert.Equal(t, 9, three.PageFaults)
	assert.Equal(t, 10, four.PageFaults)
}

func TestSimulate_Optimal_TieGoesToSmallestSlot(t *testing.T) {
	// GIVEN every resident page never recurs
	res, err := Simulate(Optimal, []int{1, 2, 3, 4}, 3)
	require.NoError(t, err)
	last := res.Steps[3]
	assert.Equal(t, 0, last.Slot)
	require.NotNil(t, last.Victim)
	assert.Equal(t, 1, *last.Victim)

	// GIVEN page 1 recurs but 2 and 3 do not
	res, err = Simulate(Optimal, []int{1, 2, 3, 4, 1}, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Steps[3].Slot)
	require.NotNil(t, res.Steps[3].Victim)
	assert.Equal(t, 2, *res.Steps[3].Victim)
	assert.Equal(t, pages(1, 4, 3), res.FinalFrames())
}

func TestSimulate_LRU_HitRefreshesRecency(t *testing.T) {
	// GIVEN 1 is touched again before the fault on 4
	res, err := Simulate(LRU, []int{1, 2, 3, 1, 4}, 3)
	require.NoError(t, err)

	// THEN 2, not 1, is evicted
	assert.True(t, res.Steps[4].Replaced)
	require.NotNil(t, res.Steps[4].Victim)
	assert.Equal(t, 2, *res.Steps[4].Victim)
	assert.Equal(t, pages(1, 4, 3), res.FinalFrames())
}

func TestSimulate_Clock_GivesSecondChance(t *testing.T) {
	refs := []int{1, 2, 3, 4, 2, 5}

	clock, err := Simulate(Clock, refs, 3)
	require.NoError(t, err)
	fifo, err := Simulate(FIFO, refs, 3)
	require.NoError(t, err)

	// THEN the recently referenced 2 survives under Clock but not under FIFO
	assert.Equal(t, pages(4, 2, 5), clock.FinalFrames())
	assert.Equal(t, pages(4, 5, 3), fifo.FinalFrames())
	assert.Equal(t, 5, clock.PageFaults)
}

func TestSimulate_StepSnapshotsAreIndependent(t *testing.T) {
	res, err := Simulate(FIFO, []int{1, 2}, 2)
	require.NoError(t, err)

	// THEN the first snapshot still shows one empty frame
	assert.Equal(t, []Frame[int]{Page(1), {}}, res.Steps[0].Frames)
	assert.Equal(t, pages(1, 2), res.Steps[1].Frames)
}

func TestSimulate_StringPages(t *testing.T) {
	res, err := Simulate(LRU, []string{"A", "B", "A"}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, res.PageFaults)
	assert.InDelta(t, 1.0/3.0, res.HitRatio, 1e-12)
	assert.Equal(t, "lru: faults=2 hits=1 [A B]", res.String())
}

func TestSimulate_EmptyReferenceString(t *testing.T) {
	for _, a := range Algorithms() {
		res, err := Simulate(a, []int{}, 3)
		require.NoError(t, err)
		assert.Empty(t, res.Steps)
		assert.Zero(t, res.PageFaults)
		assert.Zero(t, res.HitRatio)
		assert.Len(t, res.FinalFrames(), 3)
	}
}

func TestSimulate_Invariants(t *testing.T) {
	strings := [][]int{
		silberschatz,
		{1, 2, 3, 4, 1, 2, 5, 1, 2, 3, 4, 5},
		{1, 1, 1, 1},
		{5, 4, 3, 2, 1, 5, 4, 3, 2, 1},
		{0, 1, 2, 0, 1, 3, 0, 3, 1, 2, 1},
	}
	for _, refs := range strings {
		for frames := 1; frames <= 5; frames++ {
			byAlgo := map[Algorithm]int{}
			for _, a := range Algorithms() {
				res, err := Simulate(a, refs, frames)
				require.NoError(t, err)
				byAlgo[a] = res.PageFaults

				require.Len(t, res.Steps, len(refs))
				assert.GreaterOrEqual(t, res.PageFaults, 0)
				assert.LessOrEqual(t, res.PageFaults, len(refs))
				assert.Equal(t, len(refs), res.PageFaults+res.Hits)

				faults := 0
				for i, s := range res.Steps {
					if s.Fault {
						faults++
					}
					assert.Equal(t, refs[i], s.Page)
					assert.Len(t, s.Frames, frames)
					// the referenced page is resident in the reported slot
					assert.Equal(t, Page(refs[i]), s.Frames[s.Slot])
					// no duplicate resident pages
					seen := map[int]bool{}
					for _, f := range s.Frames {
						if !f.Occupied {
							continue
						}
						assert.False(t, seen[f.Page], "%s: duplicate page %d at step %d", a, f.Page, i)
						seen[f.Page] = true
					}
				}
				assert.Equal(t, res.PageFaults, faults)

				again, err := Simulate(a, refs, frames)
				require.NoError(t, err)
				assert.Equal(t, res, again)
			}
			// Optimal is never beaten
			for _, a := range Algorithms() {
				assert.LessOrEqual(t, byAlgo[Optimal], byAlgo[a], "%v frames=%d vs %s", refs, frames, a)
			}
		}
	}
}

func TestSimulate_InvalidInput(t *testing.T) {
	_, err := Simulate(FIFO, []int{1}, 0)
	assert.True(t, sim.IsInvalidInput(err))
	assert.EqualError(t, err, "invalid input: frameCount must be >= 1, got 0")

	_, err = Simulate("lfu", []int{1}, 3)
	assert.True(t, sim.IsInvalidInput(err))
}

func TestFrame_MarshalJSON(t *testing.T) {
	data, err := json.Marshal([]Frame[int]{Page(1), {}, Page(0)})
	require.NoError(t, err)
	assert.JSONEq(t, `[1, null, 0]`, string(data))
}

func TestFrame_UnmarshalJSON(t *testing.T) {
	var frames []Frame[string]
	require.NoError(t, json.Unmarshal([]byte(`["7", null, "0"]`), &frames))
	assert.Equal(t, []Frame[string]{Page("7"), {}, Page("0")}, frames)
}

func TestStep_JSON_VictimOnlyWhenReplaced(t *testing.T) {
	// GIVEN a run with a fill, a hit and an eviction
	res, err := Simulate(FIFO, []string{"a", "a", "b"}, 1)
	require.NoError(t, err)

	// WHEN each step is encoded
	fill, err := json.Marshal(res.Steps[0])
	require.NoError(t, err)
	hit, err := json.Marshal(res.Steps[1])
	require.NoError(t, err)
	evict, err := json.Marshal(res.Steps[2])
	require.NoError(t, err)

	// THEN only the eviction carries a victim
	assert.NotContains(t, string(fill), "victim")
	assert.NotContains(t, string(hit), "victim")
	assert.Contains(t, string(evict), `"victim":"a"`)

	var decoded Step[string]
	require.NoError(t, json.Unmarshal(evict, &decoded))
	require.NotNil(t, decoded.Victim)
	assert.Equal(t, "a", *decoded.Victim)
}
