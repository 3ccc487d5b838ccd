package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossim/ossim/sim"
)

// classic is the four-process textbook workload.
func classic() []Process {
	return []Process{
		{ID: "P1", ArrivalTime: 0, BurstTime: 5, Priority: 3},
		{ID: "P2", ArrivalTime: 1, BurstTime: 3, Priority: 1},
		{ID: "P3", ArrivalTime: 2, BurstTime: 8, Priority: 4},
		{ID: "P4", ArrivalTime: 3, BurstTime: 2, Priority: 2},
	}
}

func TestSimulate_FCFS_Classic(t *testing.T) {
	// GIVEN four processes arriving one tick apart
	// WHEN scheduled FCFS
	res, err := Simulate(FCFS, classic(), Options{})
	require.NoError(t, err)

	// THEN they run back to back in arrival order
	assert.Equal(t, []Interval{
		{"P1", 0, 5}, {"P2", 5, 8}, {"P3", 8, 16}, {"P4", 16, 18},
	}, res.Schedule)
	assert.Equal(t, ProcessMetrics{ArrivalTime: 1, BurstTime: 3, StartTime: 5, CompletionTime: 8, WaitingTime: 4, TurnaroundTime: 7, ResponseTime: 4}, res.PerProcess["P2"])
	assert.Equal(t, int64(13), res.PerProcess["P4"].WaitingTime)
	assert.Equal(t, int64(15), res.PerProcess["P4"].TurnaroundTime)
	assert.InDelta(t, 5.75, res.AvgWaitingTime, 1e-9)
	assert.InDelta(t, 10.25, res.AvgTurnaroundTime, 1e-9)
	assert.Equal(t, int64(18), res.Makespan)
	assert.Zero(t, res.IdleTime)
	assert.InDelta(t, 1.0, res.Utilization, 1e-9)
	assert.Equal(t, 3, res.ContextSwitches)
}

func TestSimulate_SJF_Classic(t *testing.T) {
	res, err := Simulate(SJF, classic(), Options{})
	require.NoError(t, err)

	// P1 is alone at t=0 and is not preempted; at t=5 the shortest waiting job wins
	assert.Equal(t, []Interval{
		{"P1", 0, 5}, {"P4", 5, 7}, {"P2", 7, 10}, {"P3", 10, 18},
	}, res.Schedule)
	assert.InDelta(t, 4.0, res.AvgWaitingTime, 1e-9)
}

func TestSimulate_SRTF_Classic(t *testing.T) {
	res, err := Simulate(SRTF, classic(), Options{})
	require.NoError(t, err)

	// P2 preempts P1 on arrival and keeps the CPU while it stays shortest
	assert.Equal(t, []Interval{
		{"P1", 0, 1}, {"P2", 1, 4}, {"P4", 4, 6}, {"P1", 6, 10}, {"P3", 10, 18},
	}, res.Schedule)
	assert.InDelta(t, 3.5, res.AvgWaitingTime, 1e-9)
	assert.Equal(t, []string{"P2", "P4", "P1", "P3"}, res.Order)
}

func TestSimulate_RoundRobin_Classic(t *testing.T) {
	res, err := Simulate(RoundRobin, classic(), Options{Quantum: 2})
	require.NoError(t, err)

	// Arrivals during a slice queue ahead of the preempted process
	assert.Equal(t, []Interval{
		{"P1", 0, 2}, {"P2", 2, 4}, {"P3", 4, 6}, {"P1", 6, 8}, {"P4", 8, 10},
		{"P2", 10, 11}, {"P3", 11, 13}, {"P1", 13, 14}, {"P3", 14, 18},
	}, res.Schedule)
	assert.InDelta(t, 7.25, res.AvgWaitingTime, 1e-9)
	assert.Equal(t, int64(5), res.PerProcess["P4"].ResponseTime)
	assert.Equal(t, int64(2), res.Quantum)
}

func TestSimulate_RoundRobin_LoneProcessIsOneInterval(t *testing.T) {
	res, err := Simulate(RoundRobin, []Process{{ID: "A", BurstTime: 7}}, Options{Quantum: 2})
	require.NoError(t, err)
	assert.Equal(t, []Interval{{"A", 0, 7}}, res.Schedule)
	assert.Zero(t, res.ContextSwitches)
}

func TestSimulate_Priority_Classic(t *testing.T) {
	res, err := Simulate(Priority, classic(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []Interval{
		{"P1", 0, 5}, {"P2", 5, 8}, {"P4", 8, 10}, {"P3", 10, 18},
	}, res.Schedule)
}

func TestSimulate_Priority_AgingPreventsStarvation(t *testing.T) {
	procs := []Process{
		{ID: "L", ArrivalTime: 0, BurstTime: 2, Priority: 5},
		{ID: "H1", ArrivalTime: 0, BurstTime: 3, Priority: 1},
		{ID: "H2", ArrivalTime: 3, BurstTime: 3, Priority: 1},
	}

	// GIVEN no aging, the low-priority job waits behind both high-priority ones
	static, err := Simulate(Priority, procs, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"H1", "H2", "L"}, static.Order)

	// GIVEN aging, L's three ticks of waiting outrank the fresh H2
	aged, err := Simulate(Priority, procs, Options{AgeWeight: 2})
	require.NoError(t, err)
	assert.Equal(t, []Interval{{"H1", 0, 3}, {"L", 3, 5}, {"H2", 5, 8}}, aged.Schedule)
}

func TestSimulate_IdleGap(t *testing.T) {
	// GIVEN the second process arrives after the first finishes
	res, err := Simulate(FCFS, []Process{{ID: "A", BurstTime: 2}, {ID: "B", ArrivalTime: 5, BurstTime: 1}}, Options{})
	require.NoError(t, err)

	// THEN the CPU idles in the gap without an interval
	assert.Equal(t, []Interval{{"A", 0, 2}, {"B", 5, 6}}, res.Schedule)
	assert.Equal(t, int64(3), res.IdleTime)
	assert.InDelta(t, 0.5, res.Utilization, 1e-9)
	assert.Zero(t, res.PerProcess["B"].WaitingTime)
}

func TestSimulate_SimultaneousArrivalsKeepSubmissionOrder(t *testing.T) {
	procs := []Process{
		{ID: "B", ArrivalTime: 0, BurstTime: 2},
		{ID: "A", ArrivalTime: 0, BurstTime: 2},
		{ID: "C", ArrivalTime: 0, BurstTime: 2},
	}
	for _, a := range Algorithms() {
		res, err := Simulate(a, procs, Options{Quantum: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "A", "C"}, res.Order, a)
	}
}

func TestSimulate_Empty(t *testing.T) {
	res, err := Simulate(FCFS, nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Schedule)
	assert.Empty(t, res.PerProcess)
	assert.Zero(t, res.Makespan)
}

func TestSimulate_DoesNotMutateInput(t *testing.T) {
	procs := []Process{{ID: "late", ArrivalTime: 4, BurstTime: 1}, {ID: "early", BurstTime: 1}}
	_, err := Simulate(SRTF, procs, Options{})
	require.NoError(t, err)
	assert.Equal(t, "late", procs[0].ID)
}

func TestSimulate_Invariants(t *testing.T) {
	workloads := [][]Process{
		classic(),
		{{ID: "a", ArrivalTime: 3, BurstTime: 4}, {ID: "b", ArrivalTime: 0, BurstTime: 1}, {ID: "c", ArrivalTime: 10, BurstTime: 6}},
		{{ID: "x", BurstTime: 9, Priority: 2}, {ID: "y", ArrivalTime: 1, BurstTime: 1, Priority: 1}, {ID: "z", ArrivalTime: 1, BurstTime: 1, Priority: 1}},
	}
	for _, procs := range workloads {
		for _, a := range Algorithms() {
			res, err := Simulate(a, procs, Options{Quantum: 3, AgeWeight: 0.5})
			require.NoError(t, err)

			// intervals are positive, ordered and non-overlapping
			for i, iv := range res.Schedule {
				assert.Greater(t, iv.End, iv.Start, a)
				if i > 0 {
					assert.LessOrEqual(t, res.Schedule[i-1].End, iv.Start, a)
				}
			}

			// each process receives exactly its burst, never before arrival
			served := map[string]int64{}
			for _, iv := range res.Schedule {
				served[iv.ProcessID] += iv.End - iv.Start
			}
			for _, p := range procs {
				assert.Equal(t, p.BurstTime, served[p.ID], "%s %s", a, p.ID)
				m := res.PerProcess[p.ID]
				assert.GreaterOrEqual(t, m.StartTime, p.ArrivalTime)
				assert.Equal(t, m.TurnaroundTime-p.BurstTime, m.WaitingTime)
				assert.GreaterOrEqual(t, m.WaitingTime, int64(0))
			}

			again, err := Simulate(a, procs, Options{Quantum: 3, AgeWeight: 0.5})
			require.NoError(t, err)
			assert.Equal(t, res, again)
		}
	}
}

func TestSimulate_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		algorithm Algorithm
		procs     []Process
		opts      Options
		want      string
	}{
		{"zero burst", FCFS, []Process{{ID: "P1", BurstTime: 0}}, Options{}, "invalid input: process P1: burst time 0 must be > 0"},
		{"duplicate id", SJF, []Process{{ID: "P1", BurstTime: 1}, {ID: "P1", BurstTime: 2}}, Options{}, "invalid input: duplicate process id P1"},
		{"negative arrival", FCFS, []Process{{ID: "P1", ArrivalTime: -1, BurstTime: 1}}, Options{}, "invalid input: process P1: arrival time -1 must be >= 0"},
		{"empty id", FCFS, []Process{{BurstTime: 1}}, Options{}, "invalid input: processes[0]: id must not be empty"},
		{"rr without quantum", RoundRobin, []Process{{ID: "P1", BurstTime: 1}}, Options{}, "invalid input: round robin quantum must be > 0, got 0"},
		{"negative age weight", Priority, nil, Options{AgeWeight: -1}, "invalid input: age weight must be a finite number >= 0, got -1"},
		{"unknown algorithm", "mlfq", nil, Options{}, `invalid input: unknown cpu algorithm "mlfq"; valid: fcfs, sjf, srtf, rr, priority`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Simulate(tt.algorithm, tt.procs, tt.opts)
			assert.Nil(t, res)
			assert.True(t, sim.IsInvalidInput(err))
			assert.EqualError(t, err, tt.want)
		})
	}
}
