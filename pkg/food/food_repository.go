package food

import (
	"FreshTrack/domain"
	"FreshTrack/entities"
	"FreshTrack/pkg/freshness"
	"FreshTrack/pkg/inventory"
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	FoodRepository interface {
		AddFoodItem(ctx context.Context, foodItem *entities.FoodItem) error
		GetFoodItemByID(ctx context.Context, id string) (*entities.FoodItem, error)
		UpdateFoodItem(ctx context.Context, id string, fields map[string]interface{}) error
		DeleteFoodItem(ctx context.Context, id string) error
		AddNote(ctx context.Context, note *entities.Note) error
		GetFoodItems(ctx context.Context, q inventory.QuerySpec, now time.Time) ([]*entities.FoodItem, int64, error)
		GetFoodItemsByExpiryRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]*entities.FoodItem, error)
		GetInventoryStats(ctx context.Context, userID string, now time.Time) (domain.InventoryStatsResponse, error)
	}

	foodRepository struct {
		db *gorm.DB
	}
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func NewFoodRepository(db *gorm.DB) FoodRepository {
	return &foodRepository{db: db}
}

func (r *foodRepository) AddFoodItem(ctx context.Context, foodItem *entities.FoodItem) error {
	return translateError(r.db.WithContext(ctx).Create(foodItem).Error)
}

func (r *foodRepository) GetFoodItemByID(ctx context.Context, id string) (*entities.FoodItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrFoodItemNotFound
	}

	var foodItem entities.FoodItem
	err := r.withDetails(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&foodItem).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &foodItem, nil
}

// UpdateFoodItem writes only the given columns so concurrent updates to
// different fields of the same item do not overwrite each other.
func (r *foodRepository) UpdateFoodItem(ctx context.Context, id string, fields map[string]interface{}) error {
	if title, ok := fields["title"].(string); ok {
		fields["title_search"] = entities.FoldTitle(title)
	}
	res := r.db.WithContext(ctx).Model(&entities.FoodItem{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrFoodItemNotFound
	}
	return nil
}

func (r *foodRepository) DeleteFoodItem(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("food_item_id = ?", id).Delete(&entities.Note{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&entities.FoodItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrFoodItemNotFound
		}
		return nil
	})
	return translateError(err)
}

func (r *foodRepository) AddNote(ctx context.Context, note *entities.Note) error {
	return translateError(r.db.WithContext(ctx).Create(note).Error)
}

func (r *foodRepository) GetFoodItems(ctx context.Context, q inventory.QuerySpec, now time.Time) ([]*entities.FoodItem, int64, error) {
	var foodItems []*entities.FoodItem
	var count int64

	db := r.db.WithContext(ctx)

	if err := r.filter(db.Model(&entities.FoodItem{}), q, now).Count(&count).Error; err != nil {
		return nil, 0, translateError(err)
	}
	if count == 0 {
		return foodItems, 0, nil
	}

	err := r.withDetails(r.filter(db, q, now)).
		Order("expiry_date asc").
		Order("id asc").
		Offset(q.Offset()).
		Limit(q.PageSize()).
		Find(&foodItems).Error
	if err != nil {
		return nil, 0, translateError(err)
	}

	return foodItems, count, nil
}

func (r *foodRepository) GetFoodItemsByExpiryRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]*entities.FoodItem, error) {
	var foodItems []*entities.FoodItem

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND expiry_date >= ? AND expiry_date < ?", userID, startDate, endDate).
		Order("expiry_date asc").
		Find(&foodItems).Error; err != nil {
		return nil, translateError(err)
	}

	return foodItems, nil
}

func (r *foodRepository) GetInventoryStats(ctx context.Context, userID string, now time.Time) (domain.InventoryStatsResponse, error) {
	var stats domain.InventoryStatsResponse
	soon := nearlyExpiredCutoff(now)

	scoped := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&entities.FoodItem{}).Where("user_id = ?", userID)
	}

	if err := scoped().Count(&stats.TotalItems).Error; err != nil {
		return stats, translateError(err)
	}

	if err := scoped().
		Where("expiry_date < ?", now).
		Count(&stats.ExpiredItems).Error; err != nil {
		return stats, translateError(err)
	}

	if err := scoped().
		Where("expiry_date >= ? AND expiry_date < ?", now, soon).
		Count(&stats.NearlyExpiredItems).Error; err != nil {
		return stats, translateError(err)
	}

	stats.FreshItems = stats.TotalItems - stats.ExpiredItems - stats.NearlyExpiredItems
	return stats, nil
}

func (r *foodRepository) filter(query *gorm.DB, q inventory.QuerySpec, now time.Time) *gorm.DB {
	if q.Search != "" {
		pattern := "%" + likeEscaper.Replace(entities.FoldTitle(q.Search)) + "%"
		query = query.Where(`(title_search LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	if q.Category != "" {
		query = query.Where("category = ?", q.Category.String())
	}

	if q.OwnerID != "" {
		query = query.Where("user_id = ?", q.OwnerID)
	}

	switch q.Expiry {
	case inventory.ExpiryExpired:
		query = query.Where("expiry_date < ?", now)
	case inventory.ExpiryNearlyExpired:
		query = query.Where("expiry_date >= ? AND expiry_date < ?", now, nearlyExpiredCutoff(now))
	}

	return query
}

func (r *foodRepository) withDetails(query *gorm.DB) *gorm.DB {
	return query.
		Preload("User").
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("posted_at asc")
		})
}

// nearlyExpiredCutoff is the first instant that classifies as Fresh.
func nearlyExpiredCutoff(now time.Time) time.Time {
	return freshness.StartOfDay(now).AddDate(0, 0, freshness.NearlyExpiredDays+1)
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrFoodItemNotFound
	case errors.Is(err, domain.ErrFoodItemNotFound):
		return err
	case isTransient(err):
		return fmt.Errorf("%w: %v", domain.ErrTransientUnavailable, err)
	}
	return err
}

func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
