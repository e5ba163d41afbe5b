package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sudoku-arena/models"
)

// sessionTTL is how long an issued session token stays valid.
const sessionTTL = 30 * 24 * time.Hour

// Store is the persistence surface the game engine depends on.
type Store interface {
	UpsertUser(externalID, username, avatarURL string) (*models.User, error)
	CreateSession(userID uint) (string, error)
	GetSession(token string) (*models.Session, error)
	GetUser(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	UpdateRatings(winnerID uint, winnerRating int, loserID uint, loserRating int) error
	RecordMatch(match *models.Match) error
	GetLeaderboard(limit int) ([]models.LeaderboardEntry, error)
}

type DBStore struct {
	db *gorm.DB
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) UpsertUser(externalID, username, avatarURL string) (*models.User, error) {
	user := models.User{
		ExternalID: externalID,
		Username:   username,
		AvatarURL:  avatarURL,
		Rating:     DefaultRating,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "avatar_url", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	if err := s.db.Where("external_id = ?", externalID).First(&user).Error; err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	return &user, nil
}

func (s *DBStore) CreateSession(userID uint) (string, error) {
	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if err := s.db.Create(&session).Error; err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return session.Token, nil
}

func (s *DBStore) GetSession(token string) (*models.Session, error) {
	var session models.Session
	err := s.db.Where("token = ? AND expires_at > ?", token, time.Now()).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *DBStore) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *DBStore) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateRatings writes both players' post-game ratings and bumps their
// win/loss counters in one transaction.
func (s *DBStore) UpdateRatings(winnerID uint, winnerRating int, loserID uint, loserRating int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", winnerID).
			Updates(map[string]interface{}{
				"rating": winnerRating,
				"wins":   gorm.Expr("wins + 1"),
			}).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", loserID).
			Updates(map[string]interface{}{
				"rating": loserRating,
				"losses": gorm.Expr("losses + 1"),
			}).Error
	})
}

func (s *DBStore) RecordMatch(match *models.Match) error {
	return s.db.Create(match).Error
}

func (s *DBStore) GetLeaderboard(limit int) ([]models.LeaderboardEntry, error) {
	var users []models.User
	err := s.db.Order("rating DESC").Limit(limit).Find(&users).Error
	if err != nil {
		return nil, err
	}
	entries := make([]models.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, models.LeaderboardEntry{
			Rank:     i + 1,
			Username: u.Username,
			Rating:   u.Rating,
			Wins:     u.Wins,
			Losses:   u.Losses,
		})
	}
	return entries, nil
}
