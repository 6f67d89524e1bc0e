package view

// Diff describes how to turn one snapshot into the next
type Diff struct {
	Generation int      `json:"generation"`
	Hash       string   `json:"hash"`
	Added      []Row    `json:"added"`
	Removed    []string `json:"removed"`  // row ids
	Modified   []Row    `json:"modified"` // rows whose display fields changed
	Order      []string `json:"order"`    // full row order after the change
	Full       bool     `json:"full"`     // Added holds the whole snapshot
}

// Empty reports whether applying the diff would change nothing
func (d *Diff) Empty() bool {
	return !d.Full && len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// ComputeDiff compares old against next. A nil old snapshot, or one from a
// different forest generation, produces a full diff.
func ComputeDiff(old, next *Snapshot) *Diff {
	if old == nil || old.Generation != next.Generation {
		return &Diff{
			Generation: next.Generation,
			Hash:       next.Hash,
			Added:      next.Rows,
			Removed:    []string{},
			Modified:   []Row{},
			Order:      next.IDs(),
			Full:       true,
		}
	}

	diff := &Diff{
		Generation: next.Generation,
		Hash:       next.Hash,
		Added:      []Row{},
		Removed:    []string{},
		Modified:   []Row{},
		Order:      next.IDs(),
	}
	if old.Hash == next.Hash {
		return diff
	}

	before := make(map[string]Row, len(old.Rows))
	for _, r := range old.Rows {
		before[r.ID] = r
	}
	after := make(map[string]bool, len(next.Rows))

	for _, r := range next.Rows {
		after[r.ID] = true
		prev, existed := before[r.ID]
		switch {
		case !existed:
			diff.Added = append(diff.Added, r)
		case prev != r:
			diff.Modified = append(diff.Modified, r)
		}
	}
	for _, r := range old.Rows {
		if !after[r.ID] {
			diff.Removed = append(diff.Removed, r.ID)
		}
	}

	return diff
}
