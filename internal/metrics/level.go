package metrics

// xpPerLevel scales the XP needed to finish a level.
const xpPerLevel = 500

// LevelProgress describes progress through the current level.
type LevelProgress struct {
	XP                int     `json:"xp"`
	Level             int     `json:"level"`
	XPForNextLevel    int     `json:"xp_for_next_level"`
	XPProgressPercent float64 `json:"xp_progress_percent"`
}

// ComputeLevelProgress returns XP needed for the next level (level*500)
// and how far xp is toward it, clamped to [0, 100].
func ComputeLevelProgress(xp, level int) LevelProgress {
	next := level * xpPerLevel
	lp := LevelProgress{XP: xp, Level: level, XPForNextLevel: next}
	if next <= 0 {
		return lp
	}
	lp.XPProgressPercent = clampFloat(float64(xp)/float64(next)*100, 0, 100)
	return lp
}
