package ordering

// CheckPermutation reports a *MismatchError unless submitted holds every id
// of existing exactly once and nothing else. Missing ids keep the order of
// existing; foreign and duplicate ids keep the order of submitted.
func CheckPermutation(parentID int64, existing, submitted []int64) error {
	known := make(map[int64]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}

	seen := make(map[int64]int, len(submitted))
	var foreign, duplicate []int64
	for _, id := range submitted {
		seen[id]++
		switch {
		case !known[id]:
			if seen[id] == 1 {
				foreign = append(foreign, id)
			}
		case seen[id] == 2:
			duplicate = append(duplicate, id)
		}
	}

	var missing []int64
	for _, id := range existing {
		if seen[id] == 0 {
			missing = append(missing, id)
		}
	}

	if len(missing) == 0 && len(foreign) == 0 && len(duplicate) == 0 {
		return nil
	}
	return &MismatchError{
		ParentID:  parentID,
		Missing:   missing,
		Foreign:   foreign,
		Duplicate: duplicate,
	}
}
