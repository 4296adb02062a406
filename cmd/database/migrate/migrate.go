package migration

import (
	"FreshTrack/entities"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Errorf("Error migrating user database: %v", err)
		return err
	}

	if err := db.AutoMigrate(&entities.FoodItem{}); err != nil {
		log.Errorf("Error migrating food item database: %v", err)
		return err
	}

	if err := db.AutoMigrate(&entities.Note{}); err != nil {
		log.Errorf("Error migrating note database: %v", err)
		return err
	}

	if err := backfillTitleSearch(db); err != nil {
		log.Errorf("Error backfilling food item search titles: %v", err)
		return err
	}

	log.Info("Database migration complete")
	return nil
}

// backfillTitleSearch folds titles of rows written before the title_search column existed.
func backfillTitleSearch(db *gorm.DB) error {
	var items []entities.FoodItem
	return db.Select("id", "title").
		Where("title_search = ? AND title <> ?", "", "").
		FindInBatches(&items, 200, func(tx *gorm.DB, _ int) error {
			for _, item := range items {
				if err := db.Model(&entities.FoodItem{}).
					Where("id = ?", item.ID).
					Update("title_search", entities.FoldTitle(item.Title)).Error; err != nil {
					return err
				}
			}
			return nil
		}).Error
}
