package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/blackwell-systems/disciplineos/internal/output"
	"github.com/blackwell-systems/disciplineos/internal/store"
)

// XP granted for completing things.
const (
	xpTaskCompleted = 10
	xpPerFocusBlock = 5 // per started 5 minutes of completed focus
)

// focusXP is the XP earned by a completed focus session.
func focusXP(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	return (minutes + 4) / 5 * xpPerFocusBlock
}

// award grants XP and reports level-ups. A failed award is logged but does
// not fail the command that earned it.
func (s *session) award(ctx context.Context, db *store.DB, amount int) {
	if amount <= 0 {
		return
	}
	before, err := db.Gamification(ctx)
	if err != nil {
		s.log.Warn("reading gamification failed", zap.Error(err))
	}
	after, err := db.AwardXP(ctx, amount)
	if err != nil {
		s.log.Warn("awarding xp failed", zap.Int("amount", amount), zap.Error(err))
		return
	}
	if flagJSON {
		return
	}
	s.printf(" %s\n", output.StyleAccent.Render(fmt.Sprintf("+%d XP", amount)))
	if after.Level > before.Level {
		s.printf(" %s\n", output.StyleSuccess.Render(fmt.Sprintf("Level up! You reached level %d", after.Level)))
	}
}
