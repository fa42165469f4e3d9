package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wricardo/mcp-training/propertygame/game/service"
	"github.com/wricardo/mcp-training/propertygame/logger"
)

// SessionRecord is the table row holding one persisted session.
type SessionRecord struct {
	ID         string `gorm:"primaryKey;size:64"`
	ConfigName string `gorm:"index"`
	GameOver   bool   `gorm:"default:false"`
	Payload    string `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (SessionRecord) TableName() string { return "game_sessions" }

// GameResultRecord is one finished game.
type GameResultRecord struct {
	ID            string `gorm:"primaryKey;size:36"`
	SessionID     string `gorm:"index;not null"`
	ConfigName    string
	WinnerID      int
	WinnerName    string
	WinnerFortune int
	Rounds        int
	TotalMoves    int
	Standings     string    `gorm:"type:jsonb"`
	FinishedAt    time.Time `gorm:"index"`
	CreatedAt     time.Time
}

func (GameResultRecord) TableName() string { return "game_results" }

// GormStore persists sessions and finished-game results in PostgreSQL.
type GormStore struct {
	db *gorm.DB
}

// gormWriter routes GORM's log output to the zap logger.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	logger.Log.Debugf(format, args...)
}

// NewGormStore connects to PostgreSQL and migrates the tables.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(gormWriter{}, gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return NewGormStoreFromDB(db)
}

// NewGormStoreFromDB wraps an open connection and migrates the tables.
func NewGormStoreFromDB(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&SessionRecord{}, &GameResultRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Save upserts the session row.
func (s *GormStore) Save(snapshot *service.Snapshot) error {
	data, err := encodeSnapshot(snapshot, false)
	if err != nil {
		return err
	}

	record := SessionRecord{
		ID:         snapshot.ID,
		ConfigName: snapshot.ConfigName,
		GameOver:   snapshot.Result != nil,
		Payload:    string(data),
		CreatedAt:  snapshot.CreatedAt,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"config_name", "game_over", "payload", "updated_at"}),
	}).Create(&record).Error
}

func (s *GormStore) Load(id string) (*service.Snapshot, error) {
	var record SessionRecord
	if err := s.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, err
	}
	return decodeSnapshot([]byte(record.Payload))
}

func (s *GormStore) Delete(id string) error {
	result := s.db.Where("id = ?", id).Delete(&SessionRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

func (s *GormStore) ListAll() ([]string, error) {
	var ids []string
	if err := s.db.Model(&SessionRecord{}).Order("created_at").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *GormStore) Exists(id string) bool {
	var count int64
	if err := s.db.Model(&SessionRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		logger.Log.Warnw("failed to check session", "session", id, "error", err)
		return false
	}
	return count > 0
}

// RecordResult stores a finished game.
func (s *GormStore) RecordResult(ctx context.Context, result *service.GameResult) error {
	standings, err := json.Marshal(result.Standings)
	if err != nil {
		return fmt.Errorf("failed to marshal standings: %w", err)
	}
	record := GameResultRecord{
		ID:            uuid.NewString(),
		SessionID:     result.SessionID,
		ConfigName:    result.ConfigName,
		WinnerID:      result.Winner.PlayerID,
		WinnerName:    result.Winner.Name,
		WinnerFortune: result.Winner.Fortune,
		Rounds:        result.Rounds,
		TotalMoves:    result.TotalMoves,
		Standings:     string(standings),
		FinishedAt:    result.FinishedAt,
	}
	return s.db.WithContext(ctx).Create(&record).Error
}

// RecentResults returns the latest finished games, newest first.
func (s *GormStore) RecentResults(ctx context.Context, limit int) ([]GameResultRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []GameResultRecord
	err := s.db.WithContext(ctx).Order("finished_at desc").Limit(limit).Find(&records).Error
	return records, err
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var (
	_ SessionPersistence     = (*GormStore)(nil)
	_ service.ResultRecorder = (*GormStore)(nil)
)
