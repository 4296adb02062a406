package handlers

import (
	"FreshTrack/domain"
	"FreshTrack/internal/api/presenters"
	"FreshTrack/internal/utils"
	"FreshTrack/pkg/inventory"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "8d3f1c8e-2b7a-4d4e-9a52-6f0c3d1b2a10"

type fakeFoodService struct {
	err       error
	lastQuery inventory.QuerySpec
	created   *domain.CreateFoodItemRequest
}

func (f *fakeFoodService) CreateFoodItem(_ context.Context, req domain.CreateFoodItemRequest, userID string) (domain.FoodItemResponse, error) {
	f.created = &req
	if f.err != nil {
		return domain.FoodItemResponse{}, f.err
	}
	return domain.FoodItemResponse{ID: "item-1", Title: req.Title, OwnerID: userID}, nil
}

func (f *fakeFoodService) UpdateFoodItem(_ context.Context, id string, _ domain.UpdateFoodItemRequest, _ string) (domain.FoodItemResponse, error) {
	return domain.FoodItemResponse{ID: id}, f.err
}

func (f *fakeFoodService) DeleteFoodItem(context.Context, string, string) error {
	return f.err
}

func (f *fakeFoodService) GetFoodItems(_ context.Context, q inventory.QuerySpec) (domain.FoodItemPage, error) {
	f.lastQuery = q
	if f.err != nil {
		return domain.FoodItemPage{}, f.err
	}
	page := inventory.NewPage([]domain.FoodItemResponse{}, q, 0)
	return domain.FoodItemPage{Items: page.Items, Pagination: page.Pagination()}, nil
}

func (f *fakeFoodService) GetFoodItemByID(_ context.Context, id string) (domain.FoodItemResponse, error) {
	return domain.FoodItemResponse{ID: id}, f.err
}

func (f *fakeFoodService) AddNote(_ context.Context, id string, _ domain.AddNoteRequest, _ string) (domain.FoodItemResponse, error) {
	return domain.FoodItemResponse{ID: id}, f.err
}

func (f *fakeFoodService) UploadFoodImage(_ context.Context, id string, _ *multipart.FileHeader, _ string) (domain.FoodItemResponse, error) {
	return domain.FoodItemResponse{ID: id}, f.err
}

func (f *fakeFoodService) GetInventoryStats(context.Context, string) (domain.InventoryStatsResponse, error) {
	return domain.InventoryStatsResponse{TotalItems: 2, FreshItems: 2}, f.err
}

func newFoodTestApp(svc *fakeFoodService) *fiber.App {
	utils.InitValidator()
	h := NewFoodHandler(svc, utils.Validate)

	app := fiber.New()
	auth := func(c *fiber.Ctx) error {
		c.Locals("user_id", testUserID)
		return c.Next()
	}
	app.Get("/foods", h.GetFoodItems)
	app.Get("/foods/mine", auth, h.GetMyFoodItems)
	app.Get("/foods/:id", h.GetFoodItemDetails)
	app.Post("/foods", auth, h.CreateFoodItem)
	app.Delete("/foods/:id", auth, h.DeleteFoodItem)
	app.Patch("/foods/:id/notes", auth, h.AddNote)
	app.Get("/stats", auth, h.GetInventoryStats)
	return app
}

func decode(t *testing.T, resp *http.Response) presenters.Response {
	t.Helper()
	defer resp.Body.Close()
	var body presenters.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestFoodHandler_GetFoodItemsQuery(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		expectedStatus int
		expectedQuery  inventory.QuerySpec
	}{
		{"defaults", "/foods", http.StatusOK, inventory.QuerySpec{Page: 1, Limit: inventory.DefaultPageSize}},
		{"search and category", "/foods?page=2&search=%20milk%20&category=dairy", http.StatusOK,
			inventory.QuerySpec{Page: 2, Limit: inventory.DefaultPageSize, Search: "milk", Category: domain.CategoryDairy}},
		{"limit clamped", "/foods?limit=1000", http.StatusOK, inventory.QuerySpec{Page: 1, Limit: inventory.MaxPageSize}},
		{"bad limit falls back", "/foods?limit=abc", http.StatusOK, inventory.QuerySpec{Page: 1, Limit: inventory.DefaultPageSize}},
		{"expired filter", "/foods?expired=true", http.StatusOK,
			inventory.QuerySpec{Page: 1, Limit: inventory.DefaultPageSize, Expiry: inventory.ExpiryExpired}},
		{"nearly expired filter", "/foods?nearlyExpired=true", http.StatusOK,
			inventory.QuerySpec{Page: 1, Limit: inventory.DefaultPageSize, Expiry: inventory.ExpiryNearlyExpired}},
		{"page zero", "/foods?page=0", http.StatusBadRequest, inventory.QuerySpec{}},
		{"page not a number", "/foods?page=two", http.StatusBadRequest, inventory.QuerySpec{}},
		{"unknown category", "/foods?category=candy", http.StatusBadRequest, inventory.QuerySpec{}},
		{"both expiry filters", "/foods?expired=true&nearlyExpired=true", http.StatusBadRequest, inventory.QuerySpec{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeFoodService{}
			app := newFoodTestApp(svc)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.NoError(t, err)
			body := decode(t, resp)

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, tt.expectedStatus == http.StatusOK, body.Status)
			assert.Equal(t, tt.expectedQuery, svc.lastQuery)
		})
	}
}

func TestFoodHandler_GetMyFoodItemsScopesToCaller(t *testing.T) {
	svc := &fakeFoodService{}
	app := newFoodTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/foods/mine", nil))
	require.NoError(t, err)
	decode(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testUserID, svc.lastQuery.OwnerID)
}

func TestFoodHandler_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err            error
		expectedStatus int
	}{
		{domain.ErrFoodItemNotFound, http.StatusNotFound},
		{domain.ErrUnauthorizedAccess, http.StatusForbidden},
		{domain.ErrEmptyNote, http.StatusBadRequest},
		{fmt.Errorf("%w: bad date", domain.ErrMalformedInput), http.StatusBadRequest},
		{domain.ErrStorageNotConfigured, http.StatusNotImplemented},
		{fmt.Errorf("query: %w", domain.ErrTransientUnavailable), http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			app := newFoodTestApp(&fakeFoodService{err: tt.err})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/foods/some-id", nil))
			require.NoError(t, err)
			body := decode(t, resp)

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.False(t, body.Status)
			assert.Equal(t, domain.MessageFailedGetFoodItem, body.Message)
			assert.Equal(t, tt.err.Error(), body.Error)
			if tt.expectedStatus == http.StatusServiceUnavailable {
				assert.Equal(t, retryAfterSeconds, resp.Header.Get(fiber.HeaderRetryAfter))
			} else {
				assert.Empty(t, resp.Header.Get(fiber.HeaderRetryAfter))
			}
		})
	}
}

func TestFoodHandler_CreateFoodItem(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"valid", `{"food_title":"Milk","category":"dairy","quantity":"1 L","expiry_date":"2024-06-13"}`, http.StatusCreated},
		{"missing title", `{"category":"Dairy","quantity":"1","expiry_date":"2024-06-13"}`, http.StatusBadRequest},
		{"unknown category", `{"food_title":"Milk","category":"candy","quantity":"1","expiry_date":"2024-06-13"}`, http.StatusBadRequest},
		{"not json", `food_title=Milk`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeFoodService{}
			app := newFoodTestApp(svc)

			req := httptest.NewRequest(http.MethodPost, "/foods", strings.NewReader(tt.body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			resp, err := app.Test(req)
			require.NoError(t, err)
			body := decode(t, resp)

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedStatus == http.StatusCreated {
				require.NotNil(t, svc.created)
				assert.Equal(t, "Milk", svc.created.Title)
				assert.Equal(t, domain.MessageSuccessAddFoodItem, body.Message)
			} else {
				assert.Nil(t, svc.created)
			}
		})
	}
}

func TestFoodHandler_AddNoteRequiresText(t *testing.T) {
	app := newFoodTestApp(&fakeFoodService{})

	req := httptest.NewRequest(http.MethodPatch, "/foods/item-1/notes", strings.NewReader(`{"text":""}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	decode(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPatch, "/foods/item-1/notes", strings.NewReader(`{"text":"opened"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	require.NoError(t, err)
	body := decode(t, resp)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, domain.MessageSuccessAddNote, body.Message)
}

func TestFoodHandler_DeleteAndStats(t *testing.T) {
	app := newFoodTestApp(&fakeFoodService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/foods/item-1", nil))
	require.NoError(t, err)
	body := decode(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.MessageSuccessDeleteFoodItem, body.Message)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.NoError(t, err)
	body = decode(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	stats, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), stats["total_items"])
}
