package services

import "sort"

type Applicant struct {
	ApplicationID uint
	UserID        string
}

type Assignment struct {
	ApplicationID uint
	UserID        string
	SlotID        uint
	PanelID       uint
}

type Allocation struct {
	Assignments []Assignment
	Unallocated []Applicant
}

// Capacity is the number of distinct (slot, panel) pairs.
func Capacity(slots, panels int) int { return slots * panels }

type Pair struct {
	SlotID  uint
	PanelID uint
}

// OpenPairs lists the (slot, panel) pairs slot-major, filling every panel of
// the earliest slot before moving on, and skips pairs in taken.
func OpenPairs(slotIDs, panelIDs []uint, taken map[Pair]bool) []Pair {
	pairs := make([]Pair, 0, Capacity(len(slotIDs), len(panelIDs)))
	for _, slotID := range slotIDs {
		for _, panelID := range panelIDs {
			p := Pair{SlotID: slotID, PanelID: panelID}
			if !taken[p] {
				pairs = append(pairs, p)
			}
		}
	}
	return pairs
}

// Allocate hands every (slot, panel) pair, slot-major, to applicants in
// application id order.
func Allocate(slotIDs, panelIDs []uint, applicants []Applicant) (Allocation, error) {
	return AllocatePairs(OpenPairs(slotIDs, panelIDs, nil), applicants)
}

// AllocatePairs assigns pairs in order to applicants sorted by application id.
// When applicants outnumber pairs the first len(pairs) applicants are still
// assigned, the rest are returned in Unallocated and a *CapacityExceededError
// is reported.
func AllocatePairs(pairs []Pair, applicants []Applicant) (Allocation, error) {
	ordered := make([]Applicant, len(applicants))
	copy(ordered, applicants)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ApplicationID < ordered[j].ApplicationID
	})

	n := min(len(pairs), len(ordered))
	alloc := Allocation{Assignments: make([]Assignment, 0, n)}
	for i := 0; i < n; i++ {
		a := ordered[i]
		alloc.Assignments = append(alloc.Assignments, Assignment{
			ApplicationID: a.ApplicationID,
			UserID:        a.UserID,
			SlotID:        pairs[i].SlotID,
			PanelID:       pairs[i].PanelID,
		})
	}

	if n < len(ordered) {
		alloc.Unallocated = append([]Applicant(nil), ordered[n:]...)
		return alloc, &CapacityExceededError{
			Applicants: len(ordered),
			Capacity:   len(pairs),
			Overflow:   len(ordered) - len(pairs),
		}
	}
	return alloc, nil
}
