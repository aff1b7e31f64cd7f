package repository

import (
	"time"

	"github.com/lshigami/Dunnarts/internal/model"
	"gorm.io/gorm"
)

// SubmitResult carries the final score fields written during the
// in_progress -> submitted transition.
type SubmitResult struct {
	SubmittedAt time.Time
	Correct     int
	Score       int
	Passed      bool
}

type AttemptRepository interface {
	// CreateWithQuestions persists the attempt and its fixed question set in
	// one transaction. A concurrent in_progress attempt for the same
	// (module_id, user_id) surfaces as gorm.ErrDuplicatedKey via the partial
	// unique index on attempts.
	CreateWithQuestions(attempt *model.Attempt) error
	FindByID(id uint) (*model.Attempt, error)
	FindByIDWithQuestions(id uint) (*model.Attempt, error)
	FindActive(moduleID, userID uint) (*model.Attempt, error)
	FindAllByModuleAndUser(moduleID, userID uint) ([]model.Attempt, error)
	// SaveAnswer writes one answer slot, guarded so it only lands while the
	// attempt is still in_progress. Returns the number of rows updated.
	SaveAnswer(attemptID, questionID uint, option string) (int64, error)
	// FinalizeSubmission writes the merged answer slots and flips the status
	// with a compare-and-set. Returns false, leaving no side effects, when the
	// attempt was not in_progress (a concurrent submit won).
	FinalizeSubmission(attemptID uint, answers map[uint]string, res SubmitResult) (bool, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) CreateWithQuestions(attempt *model.Attempt) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(attempt).Error
	})
}

func (r *attemptRepository) FindByID(id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	if err := r.db.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByIDWithQuestions(id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("attempt_questions.position ASC")
		}).
		Preload("Questions.Question").
		First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindActive(moduleID, userID uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.db.
		Where("module_id = ? AND user_id = ? AND status = ?", moduleID, userID, model.AttemptStatusInProgress).
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindAllByModuleAndUser(moduleID, userID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.
		Where("module_id = ? AND user_id = ?", moduleID, userID).
		Order("started_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) SaveAnswer(attemptID, questionID uint, option string) (int64, error) {
	// The subquery keeps the write inside the in_progress window; a submit
	// racing this update simply wins.
	openAttempt := r.db.Model(&model.Attempt{}).
		Select("id").
		Where("id = ? AND status = ?", attemptID, model.AttemptStatusInProgress)

	result := r.db.Model(&model.AttemptQuestion{}).
		Where("attempt_id = ? AND question_id = ?", attemptID, questionID).
		Where("attempt_id IN (?)", openAttempt).
		Update("selected_option", option)
	return result.RowsAffected, result.Error
}

func (r *attemptRepository) FinalizeSubmission(attemptID uint, answers map[uint]string, res SubmitResult) (bool, error) {
	transitioned := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Compare-and-set first: exactly one concurrent submit may pass.
		cas := tx.Model(&model.Attempt{}).
			Where("id = ? AND status = ?", attemptID, model.AttemptStatusInProgress).
			Updates(map[string]interface{}{
				"status":       model.AttemptStatusSubmitted,
				"submitted_at": res.SubmittedAt,
				"correct":      res.Correct,
				"score":        res.Score,
				"passed":       res.Passed,
			})
		if cas.Error != nil {
			return cas.Error
		}
		if cas.RowsAffected == 0 {
			return nil
		}
		transitioned = true

		for questionID, option := range answers {
			if err := tx.Model(&model.AttemptQuestion{}).
				Where("attempt_id = ? AND question_id = ?", attemptID, questionID).
				Update("selected_option", option).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return transitioned, nil
}
