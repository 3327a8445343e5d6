package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vietcom/vietcom-backend/models"
)

// GamificationService owns the leveling engine, the mission progress tracker
// and the badge sweep. Controllers call the Track* entry points after their
// own domain action has committed; everything here runs in its own
// transaction unless a tx is passed in explicitly.
type GamificationService struct {
	db *gorm.DB
}

// NewGamificationService creates a service bound to the given database handle.
func NewGamificationService(db *gorm.DB) *GamificationService {
	return &GamificationService{db: db}
}

// PointsRequiredForLevel returns the accumulated points needed to advance
// from the given level to the next one: 10 * 2^(level-1).
func PointsRequiredForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return 10 * (1 << uint(level-1))
}

// TotalPointsAtLevelStart returns the cumulative points needed to have
// already reached the given level: 0 for level 1, 10 * 2^(level-2) above.
// This intentionally recomputes only the immediately preceding threshold
// rather than summing all prior ones; displayed progress after a multi-level
// jump inherits that quirk and callers must not "fix" it.
func TotalPointsAtLevelStart(level int) int {
	if level <= 1 {
		return 0
	}
	return 10 * (1 << uint(level-2))
}

// ProgressToNextLevel returns the percentage of the way from the start of the
// user's current level to the next threshold, clamped to [0, 100].
func ProgressToNextLevel(user *models.User) float64 {
	start := TotalPointsAtLevelStart(user.Level)
	next := PointsRequiredForLevel(user.Level)
	denom := next - start
	if denom <= 0 {
		return 100
	}
	pct := float64(user.Points-start) / float64(denom) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// AwardPoints adds delta to the user's points under a row lock, then walks the
// level thresholds upward until the total no longer clears the current one.
// Points and level persist together. Negative deltas are applied as-is and
// never lower the level (deductions affect future progress only). After the
// save it re-checks threshold missions and sweeps badges so every caller gets
// those effects without a separate hook.
func (s *GamificationService) AwardPoints(tx *gorm.DB, userID uint, delta int) (*models.User, error) {
	var user models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
		return nil, err
	}

	user.Points += delta
	for user.Points >= PointsRequiredForLevel(user.Level) {
		user.Level++
	}

	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{"points": user.Points, "level": user.Level}).Error; err != nil {
		return nil, err
	}

	if err := s.CheckThresholdMissions(tx, &user); err != nil {
		return nil, err
	}
	if err := s.AutoAwardBadges(tx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// awardWithLedger applies a point award and its matching ledger entry inside
// the same transaction, so an observer never sees one without the other.
func (s *GamificationService) awardWithLedger(tx *gorm.DB, userID uint, delta int, action, description string) (*models.User, error) {
	user, err := s.AwardPoints(tx, userID, delta)
	if err != nil {
		return nil, err
	}
	entry := models.PointsEntry{
		UserID:      userID,
		Action:      action,
		Points:      delta,
		Description: description,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return user, nil
}
