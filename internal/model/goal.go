package model

// DefaultGoalTarget is the target assigned to goals created without one
const DefaultGoalTarget = 10

// Goal is a bounded progress counter
type Goal struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Target  int    `json:"target"`
	Current int    `json:"current"`
}

// Progress returns current/target in [0, 1]
func (g *Goal) Progress() float64 {
	if g.Target <= 0 {
		return 0
	}
	return float64(g.Current) / float64(g.Target)
}

// Done returns true once the counter has reached its target
func (g *Goal) Done() bool {
	return g.Target > 0 && g.Current >= g.Target
}

// Clamp bounds n to [0, Target]
func (g *Goal) Clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > g.Target {
		return g.Target
	}
	return n
}
