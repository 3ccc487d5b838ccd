package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ossim/ossim/sim/cpu"
	"github.com/ossim/ossim/sim/disk"
	"github.com/ossim/ossim/sim/workload"
)

var (
	// Disk scheduling flags
	diskAlgorithm string // Disk scheduling policy
	diskRequests  []int  // Track request queue
	diskHead      int    // Initial head position
	diskMaxTrack  int    // Highest track number
	diskDirection string // Initial sweep direction

	// Page replacement flags
	pagingAlgorithm string   // Page replacement policy
	pagingRefs      []string // Reference string
	pagingFrames    int      // Number of frames

	// CPU scheduling flags
	cpuAlgorithm string   // CPU scheduling policy
	cpuProcesses []string // Processes as id:arrival:burst[:priority]
	cpuQuantum   int64    // Round Robin time slice
	cpuAgeWeight float64  // Priority aging rate
)

// diskCmd simulates one disk scheduling run from flags
var diskCmd = &cobra.Command{
	Use:     "disk",
	Short:   "Simulate disk head scheduling",
	Example: "  ossim disk --algorithm sstf --requests 98,183,37,122,14,124,65,67 --head 53 --max-track 199",
	Run: func(cmd *cobra.Command, args []string) {
		spec := &workload.ScenarioSpec{
			Version:   workload.CurrentVersion,
			Kind:      workload.KindDisk,
			Algorithm: diskAlgorithm,
			Disk: &disk.Input{
				Requests:        diskRequests,
				InitialPosition: diskHead,
				MaxTrack:        diskMaxTrack,
				Direction:       disk.Direction(diskDirection),
			},
		}
		runAndPrint(spec, diskAlgorithm)
	},
}

// pagingCmd simulates one page replacement run from flags
var pagingCmd = &cobra.Command{
	Use:     "paging",
	Short:   "Simulate page replacement",
	Example: "  ossim paging --algorithm lru --refs 7,0,1,2,0,3,0,4 --frames 3",
	Run: func(cmd *cobra.Command, args []string) {
		spec := &workload.ScenarioSpec{
			Version:   workload.CurrentVersion,
			Kind:      workload.KindPaging,
			Algorithm: pagingAlgorithm,
			Paging:    &workload.PagingSpec{ReferenceString: pagingRefs, FrameCount: pagingFrames},
		}
		runAndPrint(spec, pagingAlgorithm)
	},
}

// cpuCmd simulates one CPU scheduling run from flags
var cpuCmd = &cobra.Command{
	Use:     "cpu",
	Short:   "Simulate CPU scheduling",
	Example: "  ossim cpu --algorithm rr --quantum 2 --process P1:0:5 --process P2:1:3 --process P3:2:8:1",
	Run: func(cmd *cobra.Command, args []string) {
		procs := make([]cpu.Process, 0, len(cpuProcesses))
		for _, raw := range cpuProcesses {
			p, err := parseProcess(raw)
			if err != nil {
				logrus.Fatalf("Invalid --process %q: %v", raw, err)
			}
			procs = append(procs, p)
		}
		quantum := cpuQuantum
		if cpu.Algorithm(cpuAlgorithm) == cpu.RoundRobin && !cmd.Flags().Changed("quantum") {
			logrus.Infof("No --quantum given; using %d", cpu.DefaultQuantum)
			quantum = cpu.DefaultQuantum
		}
		spec := &workload.ScenarioSpec{
			Version:   workload.CurrentVersion,
			Kind:      workload.KindCPU,
			Algorithm: cpuAlgorithm,
			CPU: &workload.CPUSpec{
				Processes: procs,
				Options:   cpu.Options{Quantum: quantum, AgeWeight: cpuAgeWeight},
			},
		}
		runAndPrint(spec, cpuAlgorithm)
	},
}

// runAndPrint runs one algorithm and writes the outcome to stdout.
func runAndPrint(spec *workload.ScenarioSpec, algorithm string) {
	outcome, err := newRunner().Run(spec, algorithm)
	if err != nil {
		logrus.Fatalf("Simulation failed: %v", err)
	}
	if err := writeOutcome(os.Stdout, outcome); err != nil {
		logrus.Fatalf("Failed to write output: %v", err)
	}
}

// parseProcess parses "id:arrival:burst[:priority]".
func parseProcess(raw string) (cpu.Process, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return cpu.Process{}, fmt.Errorf("expected id:arrival:burst[:priority]")
	}
	arrival, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return cpu.Process{}, fmt.Errorf("arrival: %w", err)
	}
	burst, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return cpu.Process{}, fmt.Errorf("burst: %w", err)
	}
	p := cpu.Process{ID: parts[0], ArrivalTime: arrival, BurstTime: burst}
	if len(parts) == 4 {
		if p.Priority, err = strconv.Atoi(parts[3]); err != nil {
			return cpu.Process{}, fmt.Errorf("priority: %w", err)
		}
	}
	return p, nil
}

func init() {
	diskCmd.Flags().StringVar(&diskAlgorithm, "algorithm", string(disk.FCFS), "Disk policy (fcfs, sstf, scan, c-scan, look, c-look)")
	diskCmd.Flags().IntSliceVar(&diskRequests, "requests", nil, "Comma-separated track requests")
	diskCmd.Flags().IntVar(&diskHead, "head", 0, "Initial head position")
	diskCmd.Flags().IntVar(&diskMaxTrack, "max-track", 199, "Highest track number")
	diskCmd.Flags().StringVar(&diskDirection, "direction", string(disk.Up), "Initial sweep direction (up, down)")

	pagingCmd.Flags().StringVar(&pagingAlgorithm, "algorithm", "fifo", "Page replacement policy (fifo, lru, optimal, clock)")
	pagingCmd.Flags().StringSliceVar(&pagingRefs, "refs", nil, "Comma-separated page reference string")
	pagingCmd.Flags().IntVar(&pagingFrames, "frames", 3, "Number of frames")
	_ = pagingCmd.MarkFlagRequired("refs")

	cpuCmd.Flags().StringVar(&cpuAlgorithm, "algorithm", string(cpu.FCFS), "CPU policy (fcfs, sjf, srtf, rr, priority)")
	cpuCmd.Flags().StringArrayVar(&cpuProcesses, "process", nil, "Process as id:arrival:burst[:priority]; repeat per process")
	cpuCmd.Flags().Int64Var(&cpuQuantum, "quantum", 0, "Round Robin time slice")
	cpuCmd.Flags().Float64Var(&cpuAgeWeight, "age-weight", 0, "Priority aging per time unit waited (priority only)")
	_ = cpuCmd.MarkFlagRequired("process")

	rootCmd.AddCommand(diskCmd, pagingCmd, cpuCmd)
}
