package database

import (
	"strconv"
	"time"

	"github.com/rubychat/gamescan/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles preferences, the persisted watch list and diagnostics
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// GetSetting returns the stored value and whether the key exists
func (r *Repository) GetSetting(key string) (string, bool, error) {
	var setting models.Setting
	result := r.db.Where(&models.Setting{Key: key}).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(result.Error, "failed to get setting %s", key)
	}
	return setting.Value, true, nil
}

// SetSetting inserts or overwrites a setting
func (r *Repository) SetSetting(key, value string) error {
	setting := models.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting)
	if result.Error != nil {
		return errors.Wrapf(result.Error, "failed to save setting %s", key)
	}
	return nil
}

// ScannerEnabled returns the saved detection preference; false when never saved
func (r *Repository) ScannerEnabled() (bool, error) {
	value, ok, err := r.GetSetting(models.SettingScannerEnabled)
	if err != nil || !ok {
		return false, err
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.Wrapf(err, "invalid %s value %q", models.SettingScannerEnabled, value)
	}
	return enabled, nil
}

func (r *Repository) SetScannerEnabled(enabled bool) error {
	return r.SetSetting(models.SettingScannerEnabled, strconv.FormatBool(enabled))
}

// SaveWatchList replaces the stored watch list, keeping target and executable order
func (r *Repository) SaveWatchList(targets []models.DetectableTarget) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM watch_executables").Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM watch_targets").Error; err != nil {
			return err
		}

		for i, t := range targets {
			row := models.WatchTarget{
				TargetID: t.ID,
				Name:     t.Name,
				Position: i,
			}
			for j, exe := range t.Executables {
				row.Executables = append(row.Executables, models.WatchExecutable{
					Position: j,
					OS:       exe.OS,
					Name:     exe.Name,
				})
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to save watch list")
	}
	return nil
}

// LoadWatchList returns the stored watch list in its saved order
func (r *Repository) LoadWatchList() ([]models.DetectableTarget, error) {
	var rows []models.WatchTarget
	result := r.db.
		Preload("Executables", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("position ASC").
		Find(&rows)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to load watch list")
	}

	targets := make([]models.DetectableTarget, 0, len(rows))
	for _, row := range rows {
		targets = append(targets, row.ToTarget())
	}
	return targets, nil
}

// CreateErrorLog inserts a new error log into the database
func (r *Repository) CreateErrorLog(errorLog *models.ErrorLog) error {
	if errorLog.Timestamp.IsZero() {
		errorLog.Timestamp = time.Now()
	}
	result := r.db.Create(errorLog)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}

// RecentErrors returns up to limit error logs, newest first
func (r *Repository) RecentErrors(limit int) ([]models.ErrorLog, error) {
	var logs []models.ErrorLog
	result := r.db.Order("timestamp DESC").Limit(limit).Find(&logs)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query error logs")
	}
	return logs, nil
}

// DeleteErrorsBefore removes error logs older than before
func (r *Repository) DeleteErrorsBefore(before time.Time) (int64, error) {
	result := r.db.Unscoped().Where("timestamp < ?", before).Delete(&models.ErrorLog{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old error logs")
	}
	return result.RowsAffected, nil
}

// Clear removes the stored watch list and all error logs. Settings are kept.
func (r *Repository) Clear() error {
	for _, table := range []string{"watch_executables", "watch_targets", "error_logs"} {
		if result := r.db.Exec("DELETE FROM " + table); result.Error != nil {
			return errors.Wrapf(result.Error, "failed to clear %s", table)
		}
	}
	return nil
}
