package engine

import "github.com/d20tracker/d20-api/internal/entities"

// ApplyDelta adds delta to a participant's hit points, clamped to [0, max].
// memberIndex selects a group member and is ignored for other kinds.
// It returns false, leaving the participant untouched, when there is no
// valid target: a multi-member group without an index, an index out of
// range, or a participant that does not track hit points.
func ApplyDelta(p *entities.Participant, delta int, memberIndex *int) bool {
	if p.IsGroup() {
		idx := 0
		switch {
		case memberIndex != nil:
			idx = *memberIndex
		case p.Group.Count() > 1:
			return false
		}
		if idx < 0 || idx >= p.Group.Count() {
			return false
		}
		maxHP := p.Group.MaxHP
		p.Group.MemberHP[idx] = clamp(p.Group.MemberHP[idx]+delta, &maxHP)
		return true
	}

	hp := p.HitPoints()
	if hp == nil {
		return false
	}
	hp.Current = clamp(hp.Current+delta, hp.Max)
	return true
}

func clamp(v int, maxHP *int) int {
	if v < 0 {
		return 0
	}
	if maxHP != nil && v > *maxHP {
		return *maxHP
	}
	return v
}
