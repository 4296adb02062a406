package food

import (
	"FreshTrack/domain"
	"FreshTrack/entities"
	"FreshTrack/pkg/freshness"
	"FreshTrack/pkg/inventory"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	hits    int
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return false, m.getErr
	}
	data, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	m.hits++
	return true, json.Unmarshal(data, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = data
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *memoryCache) DeletePattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}
	return nil
}

func (m *memoryCache) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

type fakeS3 struct {
	uploaded []string
	deleted  []string
}

const fakeS3Base = "https://bucket.s3.test/"

// UploadFile takes the extension from the upload's name, standing in for content sniffing.
func (f *fakeS3) UploadFile(fileName string, file *multipart.FileHeader, folder string, _ ...string) (string, error) {
	key := folder + "/" + fileName + path.Ext(file.Filename)
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeS3) DeleteFile(objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func (f *fakeS3) GetPublicLinkKey(objectKey string) string {
	return fakeS3Base + objectKey
}

func (f *fakeS3) GetObjectKeyFromLink(link string) string {
	if !strings.HasPrefix(link, fakeS3Base) {
		return ""
	}
	return strings.TrimPrefix(link, fakeS3Base)
}

type serviceFixture struct {
	svc   *foodService
	cache *memoryCache
	s3    *fakeS3
	alice *entities.User
	bob   *entities.User
}

func newServiceFixture(t *testing.T) serviceFixture {
	t.Helper()
	db := setupTestDB(t)
	f := serviceFixture{
		cache: newMemoryCache(),
		s3:    &fakeS3{},
		alice: createUser(t, db, "alice@example.com"),
		bob:   createUser(t, db, "bob@example.com"),
	}
	f.svc = newFoodService(NewFoodRepository(db), f.s3, f.cache, func() time.Time { return testNow })
	return f
}

func (f serviceFixture) create(t *testing.T, owner *entities.User, title, category, expiry string) domain.FoodItemResponse {
	t.Helper()
	item, err := f.svc.CreateFoodItem(context.Background(), domain.CreateFoodItemRequest{
		Title:      title,
		Category:   category,
		Quantity:   "1",
		ExpiryDate: expiry,
	}, owner.ID.String())
	require.NoError(t, err)
	return item
}

func TestFoodService_CreateNormalizesAndClassifies(t *testing.T) {
	f := newServiceFixture(t)

	item := f.create(t, f.alice, "  Milk ", "dairy", "2024-06-13")

	assert.Equal(t, "Milk", item.Title)
	assert.Equal(t, "Dairy", item.Category)
	assert.Equal(t, f.alice.ID.String(), item.OwnerID)
	assert.Equal(t, "alice@example.com", item.OwnerEmail)
	assert.Equal(t, time.Date(2024, time.June, 13, 0, 0, 0, 0, time.UTC), item.ExpiryDate)
	assert.Empty(t, item.Notes)

	require.NotNil(t, item.Freshness)
	assert.Equal(t, string(freshness.NearlyExpired), item.Freshness.Status)
	assert.Equal(t, 3, item.Freshness.DaysToExpiry)
	require.NotNil(t, item.Freshness.Progress)
	assert.InDelta(t, 90.0, *item.Freshness.Progress, 1e-9)
}

func TestFoodService_CreateRejectsBadInput(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	owner := f.alice.ID.String()

	_, err := f.svc.CreateFoodItem(ctx, domain.CreateFoodItemRequest{Title: "X", Category: "Candy", ExpiryDate: "2024-06-13"}, owner)
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	_, err = f.svc.CreateFoodItem(ctx, domain.CreateFoodItemRequest{Title: "X", Category: "Dairy", ExpiryDate: "13/06/2024"}, owner)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)

	_, err = f.svc.CreateFoodItem(ctx, domain.CreateFoodItemRequest{Title: "  ", Category: "Dairy", ExpiryDate: "2024-06-13"}, owner)
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)

	_, err = f.svc.CreateFoodItem(ctx, domain.CreateFoodItemRequest{Title: "X", Category: "Dairy", ExpiryDate: "2024-06-13"}, "nobody")
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}

func TestFoodService_ListingCacheInvalidatedOnMutation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	f.create(t, f.alice, "Milk", "Dairy", "2024-06-13")
	q, err := inventory.BuildQuery(1, "", "")
	require.NoError(t, err)

	first, err := f.svc.GetFoodItems(ctx, q)
	require.NoError(t, err)
	assert.Len(t, first.Items, 1)
	assert.Equal(t, 1, f.cache.size())

	second, err := f.svc.GetFoodItems(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.hits)
	assert.Equal(t, first.Pagination, second.Pagination)
	require.Len(t, second.Items, 1)
	assert.Equal(t, first.Items[0].ID, second.Items[0].ID)
	require.NotNil(t, second.Items[0].Freshness)
	assert.Equal(t, string(freshness.NearlyExpired), second.Items[0].Freshness.Status)

	bread := f.create(t, f.alice, "Bread", "Bakery", "2024-06-20")
	assert.Zero(t, f.cache.size())

	third, err := f.svc.GetFoodItems(ctx, q)
	require.NoError(t, err)
	assert.Len(t, third.Items, 2)

	_, err = f.svc.UpdateFoodItem(ctx, bread.ID, domain.UpdateFoodItemRequest{Title: "Sourdough"}, f.alice.ID.String())
	require.NoError(t, err)
	fourth, err := f.svc.GetFoodItems(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, "Sourdough", fourth.Items[1].Title)

	require.NoError(t, f.svc.DeleteFoodItem(ctx, bread.ID, f.alice.ID.String()))
	fifth, err := f.svc.GetFoodItems(ctx, q)
	require.NoError(t, err)
	assert.Len(t, fifth.Items, 1)
	assert.Equal(t, int64(1), fifth.Pagination.TotalItems)
}

func TestFoodService_ExpiryFilterBypassesCache(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	f.create(t, f.alice, "Yogurt", "Dairy", "2024-06-08")
	f.create(t, f.alice, "Rice", "Grains", "2024-07-20")

	q, err := inventory.BuildQueryWith(1, 6, "", "", inventory.ExpiryExpired)
	require.NoError(t, err)

	page, err := f.svc.GetFoodItems(ctx, q)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Yogurt", page.Items[0].Title)
	assert.Equal(t, "expired 2 days ago", page.Items[0].Freshness.Label)
	assert.Nil(t, page.Items[0].Freshness.Progress)
	assert.Zero(t, f.cache.size())
}

func TestFoodService_CacheErrorFallsBackToStore(t *testing.T) {
	f := newServiceFixture(t)
	f.create(t, f.alice, "Milk", "Dairy", "2024-06-13")
	f.cache.getErr = errors.New("redis down")

	q, _ := inventory.BuildQuery(1, "", "")
	page, err := f.svc.GetFoodItems(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestFoodService_GetFoodItemsRejectsInvalidSpec(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.GetFoodItems(context.Background(), inventory.QuerySpec{Page: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidPage)
}

func TestFoodService_OwnershipEnforced(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	item := f.create(t, f.alice, "Milk", "Dairy", "2024-06-13")
	bob := f.bob.ID.String()

	_, err := f.svc.UpdateFoodItem(ctx, item.ID, domain.UpdateFoodItemRequest{Title: "Mine now"}, bob)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)

	err = f.svc.DeleteFoodItem(ctx, item.ID, bob)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)

	_, err = f.svc.AddNote(ctx, item.ID, domain.AddNoteRequest{Text: "hi"}, bob)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)

	got, err := f.svc.GetFoodItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milk", got.Title)
	assert.Empty(t, got.Notes)
}

func TestFoodService_NotFound(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	missing := uuid.NewString()

	_, err := f.svc.GetFoodItemByID(ctx, missing)
	assert.ErrorIs(t, err, domain.ErrFoodItemNotFound)

	err = f.svc.DeleteFoodItem(ctx, missing, f.alice.ID.String())
	assert.ErrorIs(t, err, domain.ErrFoodItemNotFound)
}

func TestFoodService_UpdateOnlyWritesGivenFields(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	owner := f.alice.ID.String()

	created, err := f.svc.CreateFoodItem(ctx, domain.CreateFoodItemRequest{
		Title:       "Milk",
		Category:    "Dairy",
		Quantity:    "1 L",
		ExpiryDate:  "2024-06-13",
		Description: "skimmed",
	}, owner)
	require.NoError(t, err)

	updated, err := f.svc.UpdateFoodItem(ctx, created.ID, domain.UpdateFoodItemRequest{ExpiryDate: "2024-07-20"}, owner)
	require.NoError(t, err)
	assert.Equal(t, "Milk", updated.Title)
	assert.Equal(t, "1 L", updated.Quantity)
	assert.Equal(t, "skimmed", updated.Description)
	assert.Equal(t, string(freshness.Fresh), updated.Freshness.Status)

	empty := ""
	updated, err = f.svc.UpdateFoodItem(ctx, created.ID, domain.UpdateFoodItemRequest{Description: &empty, Category: "BEVERAGES"}, owner)
	require.NoError(t, err)
	assert.Empty(t, updated.Description)
	assert.Equal(t, "Beverages", updated.Category)

	_, err = f.svc.UpdateFoodItem(ctx, created.ID, domain.UpdateFoodItemRequest{Title: "   "}, owner)
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
}

func TestFoodService_AddNoteAppends(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	owner := f.alice.ID.String()

	item := f.create(t, f.alice, "Milk", "Dairy", "2024-06-13")

	_, err := f.svc.AddNote(ctx, item.ID, domain.AddNoteRequest{Text: "   "}, owner)
	assert.ErrorIs(t, err, domain.ErrEmptyNote)

	clock := testNow
	f.svc.clock = func() time.Time { clock = clock.Add(time.Minute); return clock }

	_, err = f.svc.AddNote(ctx, item.ID, domain.AddNoteRequest{Text: "opened"}, owner)
	require.NoError(t, err)
	withNotes, err := f.svc.AddNote(ctx, item.ID, domain.AddNoteRequest{Text: "half left"}, owner)
	require.NoError(t, err)

	require.Len(t, withNotes.Notes, 2)
	assert.Equal(t, "opened", withNotes.Notes[0].Text)
	assert.Equal(t, "half left", withNotes.Notes[1].Text)
	assert.True(t, withNotes.Notes[0].PostedDate.Before(withNotes.Notes[1].PostedDate))
}

func TestFoodService_ImageLifecycle(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	owner := f.alice.ID.String()

	item := f.create(t, f.alice, "Milk", "Dairy", "2024-06-13")

	uploaded, err := f.svc.UploadFoodImage(ctx, item.ID, &multipart.FileHeader{Filename: "milk.png"}, owner)
	require.NoError(t, err)
	key := "food-items/food-item-" + item.ID + ".png"
	assert.Equal(t, fakeS3Base+key, uploaded.ImageURL)

	_, err = f.svc.UploadFoodImage(ctx, item.ID, &multipart.FileHeader{Filename: "milk2.png"}, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{key, key}, f.s3.uploaded)
	assert.Empty(t, f.s3.deleted)

	jpegKey := "food-items/food-item-" + item.ID + ".jpg"
	replaced, err := f.svc.UploadFoodImage(ctx, item.ID, &multipart.FileHeader{Filename: "milk.jpg"}, owner)
	require.NoError(t, err)
	assert.Equal(t, fakeS3Base+jpegKey, replaced.ImageURL)
	assert.Equal(t, []string{key}, f.s3.deleted)

	require.NoError(t, f.svc.DeleteFoodItem(ctx, item.ID, owner))
	assert.Equal(t, []string{key, jpegKey}, f.s3.deleted)
}

func TestFoodService_InventoryStats(t *testing.T) {
	f := newServiceFixture(t)

	f.create(t, f.alice, "Yogurt", "Dairy", "2024-06-08")
	f.create(t, f.alice, "Milk", "Dairy", "2024-06-13")
	f.create(t, f.alice, "Rice", "Grains", "2024-07-20")
	f.create(t, f.bob, "Beef", "Meat", "2024-06-01")

	stats, err := f.svc.GetInventoryStats(context.Background(), f.alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.InventoryStatsResponse{
		TotalItems:         3,
		FreshItems:         1,
		NearlyExpiredItems: 1,
		ExpiredItems:       1,
	}, stats)
}

func TestFoodService_ConcurrentListingsShareOneLoad(t *testing.T) {
	f := newServiceFixture(t)
	f.create(t, f.alice, "Milk", "Dairy", "2024-06-13")
	q, _ := inventory.BuildQuery(1, "milk", "")

	var wg sync.WaitGroup
	results := make([]domain.FoodItemPage, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.svc.GetFoodItems(context.Background(), q)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Len(t, results[i].Items, 1)
	}
}

// pausingRepository holds the first listing after its snapshot until released.
type pausingRepository struct {
	FoodRepository
	once     sync.Once
	snapshot chan struct{}
	release  chan struct{}
}

func (r *pausingRepository) GetFoodItems(ctx context.Context, q inventory.QuerySpec, now time.Time) ([]*entities.FoodItem, int64, error) {
	items, count, err := r.FoodRepository.GetFoodItems(ctx, q, now)
	paused := false
	r.once.Do(func() { paused = true })
	if paused {
		close(r.snapshot)
		<-r.release
	}
	return items, count, err
}

func TestFoodService_ListingAfterMutationSkipsInFlightLoad(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")
	repo := &pausingRepository{
		FoodRepository: NewFoodRepository(db),
		snapshot:       make(chan struct{}),
		release:        make(chan struct{}),
	}
	pageCache := newMemoryCache()
	svc := newFoodService(repo, &fakeS3{}, pageCache, func() time.Time { return testNow })
	ctx := context.Background()
	q, _ := inventory.BuildQuery(1, "", "")

	type result struct {
		page domain.FoodItemPage
		err  error
	}
	early := make(chan result, 1)
	go func() {
		page, err := svc.GetFoodItems(ctx, q)
		early <- result{page, err}
	}()
	<-repo.snapshot

	_, err := svc.CreateFoodItem(ctx, domain.CreateFoodItemRequest{
		Title:      "Milk",
		Category:   "Dairy",
		Quantity:   "1",
		ExpiryDate: "2024-06-13",
	}, alice.ID.String())
	require.NoError(t, err)

	late := make(chan result, 1)
	go func() {
		page, err := svc.GetFoodItems(ctx, q)
		late <- result{page, err}
	}()

	select {
	case r := <-late:
		require.NoError(t, r.err)
		assert.Len(t, r.page.Items, 1)
	case <-time.After(5 * time.Second):
		close(repo.release)
		t.Fatal("listing issued after the create waited on the earlier load")
	}

	close(repo.release)
	r := <-early
	require.NoError(t, r.err)
	assert.Empty(t, r.page.Items)

	again, err := svc.GetFoodItems(ctx, q)
	require.NoError(t, err)
	assert.Len(t, again.Items, 1)
}
