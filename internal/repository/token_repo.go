package repository

import (
	"context"
	"time"

	"mobileopsconnect/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RefreshTokenRepository persists long-lived session tokens
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*model.RefreshToken, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *refreshTokenRepository) GetByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	var rt model.RefreshToken
	if err := r.db.WithContext(ctx).First(&rt, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *refreshTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&model.RefreshToken{}).Error
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("expires_at < ?", time.Now()).Delete(&model.RefreshToken{}).Error
}

// DeviceTokenRepository manages push-notification device registrations
type DeviceTokenRepository interface {
	Upsert(ctx context.Context, userID uuid.UUID, token string) error
	TokensForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
	TokensForUsers(ctx context.Context, userIDs []uuid.UUID) ([]string, error)
	AllTokens(ctx context.Context) ([]string, error)
	DeleteTokens(ctx context.Context, tokens []string) error
}

type deviceTokenRepository struct {
	db *gorm.DB
}

func NewDeviceTokenRepository(db *gorm.DB) DeviceTokenRepository {
	return &deviceTokenRepository{db: db}
}

func (r *deviceTokenRepository) Upsert(ctx context.Context, userID uuid.UUID, token string) error {
	dt := model.DeviceToken{UserID: userID, Token: token}
	// Re-registering an existing token only bumps its timestamp
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "token"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"updated_at": time.Now()}),
	}).Create(&dt).Error
}

func (r *deviceTokenRepository) TokensForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).Model(&model.DeviceToken{}).
		Where("user_id = ?", userID).
		Pluck("token", &tokens).Error
	return tokens, err
}

func (r *deviceTokenRepository) TokensForUsers(ctx context.Context, userIDs []uuid.UUID) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).Model(&model.DeviceToken{}).
		Where("user_id IN ?", userIDs).
		Distinct().
		Pluck("token", &tokens).Error
	return tokens, err
}

func (r *deviceTokenRepository) AllTokens(ctx context.Context) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).Model(&model.DeviceToken{}).
		Distinct().
		Pluck("token", &tokens).Error
	return tokens, err
}

func (r *deviceTokenRepository) DeleteTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("token IN ?", tokens).Delete(&model.DeviceToken{}).Error
}
