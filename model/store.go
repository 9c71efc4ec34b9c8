package model

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
)

// Store is the conversation store: sessions and their messages.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Install creates or migrates the sessions and messages tables.
func (s *Store) Install() error {
	if err := s.db.AutoMigrate(&Session{}, &Message{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// stamp returns the current time at the precision the columns keep.
func (s *Store) stamp() time.Time {
	return s.now().Truncate(time.Microsecond)
}

// FindSessionByUser returns the earliest session owned by userID.
func (s *Store) FindSessionByUser(ctx context.Context, userID string) (*Session, error) {
	var session Session
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return &session, nil
}

func (s *Store) CreateSession(ctx context.Context, userID string) (*Session, error) {
	session := &Session{UserID: userID, CreatedAt: s.stamp()}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSessionExists
		}
		// not every driver translates unique violations
		if _, findErr := s.FindSessionByUser(ctx, userID); findErr == nil {
			return nil, ErrSessionExists
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// ResolveSession finds the user's session or creates it. Concurrent
// calls for the same user converge on one row through the unique index
// on user_id. created is true only for the call whose insert won.
func (s *Store) ResolveSession(ctx context.Context, userID string) (session *Session, created bool, err error) {
	session, err = s.FindSessionByUser(ctx, userID)
	if err == nil {
		return session, false, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, false, err
	}

	candidate := &Session{UserID: userID, CreatedAt: s.stamp()}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(candidate)
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to create session: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return candidate, true, nil
	}

	// another request inserted first
	session, err = s.FindSessionByUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return session, false, nil
}

// ListMessages returns the whole history of a session, oldest first.
func (s *Store) ListMessages(ctx context.Context, sessionID UUID) ([]Message, error) {
	var messages []Message
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// ListRecentMessages returns at most limit of the newest messages of a
// session, oldest first. A limit of zero or less returns everything.
func (s *Store) ListRecentMessages(ctx context.Context, sessionID UUID, limit int) ([]Message, error) {
	if limit <= 0 {
		return s.ListMessages(ctx, sessionID)
	}
	var messages []Message
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	slices.Reverse(messages)
	return messages, nil
}

// AppendMessages inserts turns in one transaction. Each message is
// stamped one microsecond after the previous one so that created_at
// order matches the order of turns.
func (s *Store) AppendMessages(ctx context.Context, sessionID UUID, turns []Turn) ([]Message, error) {
	if len(turns) == 0 {
		return nil, nil
	}
	base := s.stamp()
	messages := make([]Message, len(turns))
	for i, t := range turns {
		messages[i] = Message{
			SessionID: sessionID,
			Role:      t.Role,
			Content:   t.Content,
			CreatedAt: base.Add(time.Duration(i) * time.Microsecond),
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&messages).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to append messages: %w", err)
	}
	return messages, nil
}

// Stats counts rows created in a time window.
type Stats struct {
	Since    time.Time
	Sessions int64
	Messages int64
}

func (s *Store) CountSince(ctx context.Context, since time.Time) (Stats, error) {
	stats := Stats{Since: since}
	db := s.db.WithContext(ctx)
	if err := db.Model(&Session{}).Where("created_at >= ?", since.UTC()).Count(&stats.Sessions).Error; err != nil {
		return stats, fmt.Errorf("failed to count sessions: %w", err)
	}
	if err := db.Model(&Message{}).Where("created_at >= ?", since.UTC()).Count(&stats.Messages).Error; err != nil {
		return stats, fmt.Errorf("failed to count messages: %w", err)
	}
	return stats, nil
}
