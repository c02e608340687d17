package testutils

import (
	"fmt"
	"sync"
)

// ScriptedRoller returns pre-set rolls in order and fails once they run out.
// It satisfies the rpg-toolkit dice.Roller interface.
type ScriptedRoller struct {
	mu    sync.Mutex
	rolls []int
	Calls []int
}

// NewScriptedRoller creates a roller that returns rolls in order
func NewScriptedRoller(rolls ...int) *ScriptedRoller {
	return &ScriptedRoller{rolls: rolls}
}

// Roll returns the next scripted value
func (r *ScriptedRoller) Roll(size int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Calls = append(r.Calls, size)
	if len(r.rolls) == 0 {
		return 0, fmt.Errorf("no scripted roll left for d%d", size)
	}
	v := r.rolls[0]
	r.rolls = r.rolls[1:]
	return v, nil
}

// RollN returns the next count scripted values
func (r *ScriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
