package models

import (
	"time"
)

const (
	SettingScannerEnabled = "scanner.enabled"
)

type Setting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// WatchTarget is the persisted form of a DetectableTarget.
// Position keeps the watch-list order across restarts.
type WatchTarget struct {
	ID          uint              `gorm:"primaryKey" json:"-"`
	TargetID    string            `gorm:"not null;index" json:"id"`
	Name        string            `gorm:"not null" json:"name"`
	Position    int               `gorm:"not null;index" json:"position"`
	Executables []WatchExecutable `gorm:"constraint:OnDelete:CASCADE" json:"executables"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

type WatchExecutable struct {
	ID            uint   `gorm:"primaryKey" json:"-"`
	WatchTargetID uint   `gorm:"not null;index" json:"-"`
	Position      int    `gorm:"not null" json:"position"`
	OS            string `gorm:"not null" json:"os"`
	Name          string `gorm:"not null" json:"name"`
}

// ToTarget converts a stored row back into a DetectableTarget
func (w WatchTarget) ToTarget() DetectableTarget {
	t := DetectableTarget{ID: w.TargetID, Name: w.Name}
	for _, exe := range w.Executables {
		t.Executables = append(t.Executables, Executable{OS: exe.OS, Name: exe.Name})
	}
	return t
}
