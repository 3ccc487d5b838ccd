package disk

import "sort"

// policy services every request in requests (a private copy the policy may
// reorder) starting from h.pos.
type policy func(h *head, requests []int, maxTrack int, dir Direction)

func policyFor(a Algorithm) (policy, bool) {
	switch a {
	case FCFS:
		return fcfs, true
	case SSTF:
		return sstf, true
	case SCAN:
		return scan, true
	case CSCAN:
		return cscan, true
	case LOOK:
		return look, true
	case CLOOK:
		return clook, true
	default:
		return nil, false
	}
}

// fcfs services requests in arrival order.
func fcfs(h *head, requests []int, _ int, _ Direction) {
	for _, r := range requests {
		h.service(r)
	}
}

// sstf repeatedly services the closest pending request. Ties go to the request
// that comes first in the remaining order.
func sstf(h *head, requests []int, _ int, _ Direction) {
	remaining := requests
	for len(remaining) > 0 {
		best := 0
		for i := 1; i < len(remaining); i++ {
			if abs(remaining[i]-h.pos) < abs(remaining[best]-h.pos) {
				best = i
			}
		}
		h.service(remaining[best])
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
}

// scan sweeps to the disk edge in dir, then reverses.
func scan(h *head, requests []int, maxTrack int, dir Direction) {
	ahead, behind := split(requests, h.pos, dir)
	serviceAll(h, ahead)
	if len(behind) == 0 {
		return
	}
	h.sweep(edge(dir, maxTrack))
	serviceAll(h, behind)
}

// cscan sweeps to the disk edge in dir, wraps to the opposite edge without
// charging the jump, and keeps sweeping in the same direction.
func cscan(h *head, requests []int, maxTrack int, dir Direction) {
	ahead, behind := split(requests, h.pos, dir)
	serviceAll(h, ahead)
	if len(behind) == 0 {
		return
	}
	h.sweep(edge(dir, maxTrack))
	h.wrap(edge(opposite(dir), maxTrack))
	reverse(behind)
	serviceAll(h, behind)
}

// look behaves like scan but reverses at the last request instead of the edge.
func look(h *head, requests []int, _ int, dir Direction) {
	ahead, behind := split(requests, h.pos, dir)
	serviceAll(h, ahead)
	serviceAll(h, behind)
}

// clook behaves like cscan but jumps from the last request in dir straight to
// the farthest request on the other side. The jump is not charged, the same
// as cscan's wrap.
func clook(h *head, requests []int, _ int, dir Direction) {
	ahead, behind := split(requests, h.pos, dir)
	serviceAll(h, ahead)
	if len(behind) == 0 {
		return
	}
	reverse(behind)
	h.jumpService(behind[0])
	serviceAll(h, behind[1:])
}

// split sorts requests and returns the ones ahead of pos in sweep order and the
// ones behind it in return-sweep order. Going up, a request at pos counts as
// ahead; going down, likewise.
//
//	up:   ahead ascending from pos, behind descending below pos
//	down: ahead descending from pos, behind ascending above pos
func split(requests []int, pos int, dir Direction) (ahead, behind []int) {
	sorted := append([]int(nil), requests...)
	sort.Ints(sorted)
	if dir == Down {
		i := sort.Search(len(sorted), func(i int) bool { return sorted[i] > pos })
		ahead = append(ahead, sorted[:i]...)
		reverse(ahead)
		behind = append(behind, sorted[i:]...)
		return ahead, behind
	}
	i := sort.SearchInts(sorted, pos)
	ahead = append(ahead, sorted[i:]...)
	behind = append(behind, sorted[:i]...)
	reverse(behind)
	return ahead, behind
}

func serviceAll(h *head, tracks []int) {
	for _, t := range tracks {
		h.service(t)
	}
}

func edge(dir Direction, maxTrack int) int {
	if dir == Down {
		return 0
	}
	return maxTrack
}

func opposite(dir Direction) Direction {
	if dir == Down {
		return Up
	}
	return Down
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
