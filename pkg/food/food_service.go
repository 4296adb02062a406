package food

import (
	"FreshTrack/domain"
	"FreshTrack/entities"
	"FreshTrack/internal/metrics"
	"FreshTrack/internal/utils/storage"
	"FreshTrack/pkg/freshness"
	"FreshTrack/pkg/inventory"
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const imageFolder = "food-items"

type (
	FoodService interface {
		CreateFoodItem(ctx context.Context, req domain.CreateFoodItemRequest, userID string) (domain.FoodItemResponse, error)
		UpdateFoodItem(ctx context.Context, id string, req domain.UpdateFoodItemRequest, userID string) (domain.FoodItemResponse, error)
		DeleteFoodItem(ctx context.Context, id string, userID string) error
		GetFoodItems(ctx context.Context, q inventory.QuerySpec) (domain.FoodItemPage, error)
		GetFoodItemByID(ctx context.Context, id string) (domain.FoodItemResponse, error)
		AddNote(ctx context.Context, id string, req domain.AddNoteRequest, userID string) (domain.FoodItemResponse, error)
		UploadFoodImage(ctx context.Context, id string, image *multipart.FileHeader, userID string) (domain.FoodItemResponse, error)
		GetInventoryStats(ctx context.Context, userID string) (domain.InventoryStatsResponse, error)
	}

	// PageCache stores listing pages keyed by QuerySpec.Key.
	PageCache interface {
		Get(ctx context.Context, key string, dest interface{}) (bool, error)
		Set(ctx context.Context, key string, value interface{}) error
		Delete(ctx context.Context, key string) error
		DeletePattern(ctx context.Context, pattern string) error
	}

	foodService struct {
		foodRepository FoodRepository
		s3             storage.AwsS3
		cache          PageCache
		clock          freshness.Clock

		loads singleflight.Group
		// generation is bumped on every mutation; loads that straddle a bump are not cached.
		generation atomic.Uint64
	}
)

func NewFoodService(foodRepository FoodRepository, s3 storage.AwsS3, cache PageCache) FoodService {
	return newFoodService(foodRepository, s3, cache, freshness.SystemClock)
}

func newFoodService(foodRepository FoodRepository, s3 storage.AwsS3, cache PageCache, clock freshness.Clock) *foodService {
	return &foodService{
		foodRepository: foodRepository,
		s3:             s3,
		cache:          cache,
		clock:          clock,
	}
}

func (s *foodService) CreateFoodItem(ctx context.Context, req domain.CreateFoodItemRequest, userID string) (domain.FoodItemResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.FoodItemResponse{}, domain.ErrParseUUID
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.FoodItemResponse{}, domain.ErrEmptyTitle
	}

	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		return domain.FoodItemResponse{}, err
	}

	expiryDate, err := parseExpiryDate(req.ExpiryDate)
	if err != nil {
		return domain.FoodItemResponse{}, err
	}

	foodItem := &entities.FoodItem{
		ID:          uuid.New(),
		UserID:      userUUID,
		Title:       title,
		Category:    category.String(),
		Quantity:    strings.TrimSpace(req.Quantity),
		ExpiryDate:  expiryDate,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}

	if err := s.foodRepository.AddFoodItem(ctx, foodItem); err != nil {
		return domain.FoodItemResponse{}, err
	}
	s.invalidate(ctx, "create")

	return s.GetFoodItemByID(ctx, foodItem.ID.String())
}

func (s *foodService) UpdateFoodItem(ctx context.Context, id string, req domain.UpdateFoodItemRequest, userID string) (domain.FoodItemResponse, error) {
	if _, err := s.ownedFoodItem(ctx, id, userID); err != nil {
		return domain.FoodItemResponse{}, err
	}

	fields := map[string]interface{}{}

	if req.Title != "" {
		title := strings.TrimSpace(req.Title)
		if title == "" {
			return domain.FoodItemResponse{}, domain.ErrEmptyTitle
		}
		fields["title"] = title
	}

	if req.Category != "" {
		category, err := domain.ParseCategory(req.Category)
		if err != nil {
			return domain.FoodItemResponse{}, err
		}
		fields["category"] = category.String()
	}

	if req.Quantity != "" {
		fields["quantity"] = strings.TrimSpace(req.Quantity)
	}

	if req.ExpiryDate != "" {
		expiryDate, err := parseExpiryDate(req.ExpiryDate)
		if err != nil {
			return domain.FoodItemResponse{}, err
		}
		fields["expiry_date"] = expiryDate
	}

	if req.ImageURL != "" {
		fields["image_url"] = req.ImageURL
	}

	if req.Description != nil {
		fields["description"] = *req.Description
	}

	if len(fields) > 0 {
		if err := s.foodRepository.UpdateFoodItem(ctx, id, fields); err != nil {
			return domain.FoodItemResponse{}, err
		}
		s.invalidate(ctx, "update")
	}

	return s.GetFoodItemByID(ctx, id)
}

func (s *foodService) DeleteFoodItem(ctx context.Context, id string, userID string) error {
	foodItem, err := s.ownedFoodItem(ctx, id, userID)
	if err != nil {
		return err
	}

	if foodItem.ImageURL != "" {
		if objectKey := s.s3.GetObjectKeyFromLink(foodItem.ImageURL); objectKey != "" {
			if err := s.s3.DeleteFile(objectKey); err != nil {
				log.Warnf("failed to delete image %s of food item %s: %v", objectKey, id, err)
			}
		}
	}

	if err := s.foodRepository.DeleteFoodItem(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "delete")
	return nil
}

func (s *foodService) GetFoodItems(ctx context.Context, q inventory.QuerySpec) (domain.FoodItemPage, error) {
	if err := q.Validate(); err != nil {
		return domain.FoodItemPage{}, err
	}

	now := s.clock()

	var (
		page domain.FoodItemPage
		err  error
	)
	if q.Cacheable() {
		page, err = s.cachedPage(ctx, q, now)
	} else {
		metrics.CacheResults.WithLabelValues("bypass").Inc()
		page, err = s.loadPage(ctx, q, now)
	}
	if err != nil {
		return domain.FoodItemPage{}, err
	}

	items := make([]domain.FoodItemResponse, len(page.Items))
	for i, item := range page.Items {
		items[i] = withFreshness(item, now)
	}
	page.Items = items
	return page, nil
}

func (s *foodService) GetFoodItemByID(ctx context.Context, id string) (domain.FoodItemResponse, error) {
	foodItem, err := s.foodRepository.GetFoodItemByID(ctx, id)
	if err != nil {
		return domain.FoodItemResponse{}, err
	}
	return withFreshness(toFoodItemResponse(foodItem), s.clock()), nil
}

func (s *foodService) AddNote(ctx context.Context, id string, req domain.AddNoteRequest, userID string) (domain.FoodItemResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return domain.FoodItemResponse{}, domain.ErrEmptyNote
	}

	foodItem, err := s.ownedFoodItem(ctx, id, userID)
	if err != nil {
		return domain.FoodItemResponse{}, err
	}

	note := &entities.Note{
		ID:         uuid.New(),
		FoodItemID: foodItem.ID,
		Text:       text,
		PostedAt:   s.clock(),
	}
	if err := s.foodRepository.AddNote(ctx, note); err != nil {
		return domain.FoodItemResponse{}, err
	}
	s.invalidate(ctx, "add_note")

	return s.GetFoodItemByID(ctx, id)
}

func (s *foodService) UploadFoodImage(ctx context.Context, id string, image *multipart.FileHeader, userID string) (domain.FoodItemResponse, error) {
	foodItem, err := s.ownedFoodItem(ctx, id, userID)
	if err != nil {
		return domain.FoodItemResponse{}, err
	}

	fileName := fmt.Sprintf("food-item-%s", foodItem.ID.String())
	objectKey, err := s.s3.UploadFile(fileName, image, imageFolder, storage.AllowImage...)
	if err != nil {
		return domain.FoodItemResponse{}, err
	}

	// the key carries the sniffed extension, so a new format lands under a new key
	if oldKey := s.s3.GetObjectKeyFromLink(foodItem.ImageURL); oldKey != "" && oldKey != objectKey {
		if err := s.s3.DeleteFile(oldKey); err != nil {
			log.Warnf("failed to delete replaced image %s of food item %s: %v", oldKey, id, err)
		}
	}

	if err := s.foodRepository.UpdateFoodItem(ctx, id, map[string]interface{}{
		"image_url": s.s3.GetPublicLinkKey(objectKey),
	}); err != nil {
		return domain.FoodItemResponse{}, err
	}
	s.invalidate(ctx, "upload_image")

	return s.GetFoodItemByID(ctx, id)
}

func (s *foodService) GetInventoryStats(ctx context.Context, userID string) (domain.InventoryStatsResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return domain.InventoryStatsResponse{}, domain.ErrParseUUID
	}
	return s.foodRepository.GetInventoryStats(ctx, userID, s.clock())
}

// ownedFoodItem loads the item and checks it belongs to userID.
func (s *foodService) ownedFoodItem(ctx context.Context, id, userID string) (*entities.FoodItem, error) {
	foodItem, err := s.foodRepository.GetFoodItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if foodItem.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedAccess
	}
	return foodItem, nil
}

func (s *foodService) cachedPage(ctx context.Context, q inventory.QuerySpec, now time.Time) (domain.FoodItemPage, error) {
	key := q.Key()

	var page domain.FoodItemPage
	found, err := s.cache.Get(ctx, key, &page)
	switch {
	case err != nil:
		metrics.CacheResults.WithLabelValues("error").Inc()
		log.Warnf("listing cache read failed for %s: %v", key, err)
	case found:
		metrics.CacheResults.WithLabelValues("hit").Inc()
		return page, nil
	default:
		metrics.CacheResults.WithLabelValues("miss").Inc()
	}

	// Callers only share a load started after the last acknowledged mutation.
	gen := s.generation.Load()
	v, err, _ := s.loads.Do(fmt.Sprintf("%s@%d", key, gen), func() (interface{}, error) {
		loaded, err := s.loadPage(ctx, q, now)
		if err != nil {
			return nil, err
		}
		s.storePage(ctx, key, gen, loaded)
		return loaded, nil
	})
	if err != nil {
		return domain.FoodItemPage{}, err
	}
	return v.(domain.FoodItemPage), nil
}

// storePage caches a page loaded at generation gen unless a mutation has
// landed since. A mutation racing the write is caught by the second check.
func (s *foodService) storePage(ctx context.Context, key string, gen uint64, page domain.FoodItemPage) {
	if s.generation.Load() != gen {
		return
	}
	if err := s.cache.Set(ctx, key, page); err != nil {
		log.Warnf("listing cache write failed for %s: %v", key, err)
		return
	}
	if s.generation.Load() != gen {
		if err := s.cache.Delete(ctx, key); err != nil {
			log.Warnf("listing cache rollback failed for %s: %v", key, err)
		}
	}
}

func (s *foodService) loadPage(ctx context.Context, q inventory.QuerySpec, now time.Time) (domain.FoodItemPage, error) {
	foodItems, count, err := s.foodRepository.GetFoodItems(ctx, q, now)
	if err != nil {
		return domain.FoodItemPage{}, err
	}

	items := make([]domain.FoodItemResponse, 0, len(foodItems))
	for _, item := range foodItems {
		items = append(items, toFoodItemResponse(item))
	}

	page := inventory.NewPage(items, q, count)
	return domain.FoodItemPage{
		Items:      page.Items,
		Pagination: page.Pagination(),
	}, nil
}

// invalidate drops every cached listing page after a successful mutation.
func (s *foodService) invalidate(ctx context.Context, op string) {
	s.generation.Add(1)
	metrics.Mutations.WithLabelValues(op).Inc()
	if err := s.cache.DeletePattern(ctx, inventory.CacheKeyPrefix+"*"); err != nil {
		log.Errorf("listing cache invalidation after %s failed: %v", op, err)
	}
}

func parseExpiryDate(raw string) (time.Time, error) {
	t, err := freshness.ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func toFoodItemResponse(item *entities.FoodItem) domain.FoodItemResponse {
	notes := make([]domain.NoteResponse, 0, len(item.Notes))
	for _, n := range item.Notes {
		notes = append(notes, domain.NoteResponse{
			ID:         n.ID.String(),
			Text:       n.Text,
			PostedDate: n.PostedAt,
		})
	}

	resp := domain.FoodItemResponse{
		ID:          item.ID.String(),
		Title:       item.Title,
		ImageURL:    item.ImageURL,
		Category:    item.Category,
		Quantity:    item.Quantity,
		ExpiryDate:  item.ExpiryDate.UTC(),
		Description: item.Description,
		AddedDate:   item.CreatedAt,
		OwnerID:     item.UserID.String(),
		Notes:       notes,
	}
	if item.User != nil {
		resp.OwnerEmail = item.User.Email
	}
	return resp
}

func withFreshness(item domain.FoodItemResponse, now time.Time) domain.FoodItemResponse {
	r := freshness.Evaluate(item.ExpiryDate, now)
	metrics.FreshnessClassified.WithLabelValues(string(r.Status)).Inc()
	item.Freshness = &domain.FreshnessResponse{
		Status:       string(r.Status),
		DaysToExpiry: r.DaysToExpiry,
		Label:        r.Label,
		Progress:     r.Progress,
	}
	return item
}

