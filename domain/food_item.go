package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessAddFoodItem       = "food item added successfully"
	MessageSuccessUpdateFoodItem    = "food item updated successfully"
	MessageSuccessDeleteFoodItem    = "food item deleted successfully"
	MessageSuccessGetFoodItems      = "food items retrieved successfully"
	MessageSuccessGetFoodItem       = "food item retrieved successfully"
	MessageSuccessAddNote           = "note added successfully"
	MessageSuccessUploadFoodImage   = "food image uploaded successfully"
	MessageSuccessGetInventoryStats = "inventory statistics retrieved successfully"
	MessageSuccessSendReminder      = "expiry reminder processed successfully"

	MessageFailedAddFoodItem       = "failed to add food item"
	MessageFailedUpdateFoodItem    = "failed to update food item"
	MessageFailedDeleteFoodItem    = "failed to delete food item"
	MessageFailedGetFoodItems      = "failed to retrieve food items"
	MessageFailedGetFoodItem       = "failed to retrieve food item"
	MessageFailedAddNote           = "failed to add note"
	MessageFailedUploadFoodImage   = "failed to upload food image"
	MessageFailedGetInventoryStats = "failed to retrieve inventory statistics"
	MessageFailedSendReminder      = "failed to send expiry reminder"

	ErrFoodItemNotFound     = errors.New("food item not found")
	ErrMalformedInput       = errors.New("malformed expiry timestamp")
	ErrInvalidPage          = errors.New("page must be a positive integer")
	ErrEmptyTitle           = errors.New("food title must not be empty")
	ErrEmptyNote            = errors.New("note text must not be empty")
	ErrInvalidImageFormat   = errors.New("invalid image format")
	ErrStorageNotConfigured = errors.New("object storage is not configured")
	ErrUnauthorizedAccess   = errors.New("unauthorized access to food item")
	ErrInvalidExpiryFilter  = errors.New("expired and nearlyExpired filters are mutually exclusive")
	ErrMissingRecipient     = errors.New("no email address to send the reminder to")
)

type (
	CreateFoodItemRequest struct {
		Title       string `json:"food_title" validate:"required"`
		ImageURL    string `json:"food_image" validate:"omitempty,url"`
		Category    string `json:"category" validate:"required,food_category"`
		Quantity    string `json:"quantity" validate:"required"`
		ExpiryDate  string `json:"expiry_date" validate:"required"`
		Description string `json:"description" validate:"omitempty"`
	}

	UpdateFoodItemRequest struct {
		Title       string  `json:"food_title" validate:"omitempty"`
		ImageURL    string  `json:"food_image" validate:"omitempty,url"`
		Category    string  `json:"category" validate:"omitempty,food_category"`
		Quantity    string  `json:"quantity" validate:"omitempty"`
		ExpiryDate  string  `json:"expiry_date" validate:"omitempty"`
		Description *string `json:"description" validate:"omitempty"`
	}

	AddNoteRequest struct {
		Text string `json:"text" validate:"required"`
	}

	NoteResponse struct {
		ID         string    `json:"id"`
		Text       string    `json:"text"`
		PostedDate time.Time `json:"posted_date"`
	}

	FreshnessResponse struct {
		Status       string   `json:"status"`
		DaysToExpiry int      `json:"days_to_expiry"`
		Label        string   `json:"label"`
		Progress     *float64 `json:"progress,omitempty"`
	}

	FoodItemResponse struct {
		ID          string             `json:"id"`
		Title       string             `json:"food_title"`
		ImageURL    string             `json:"food_image,omitempty"`
		Category    string             `json:"category"`
		Quantity    string             `json:"quantity"`
		ExpiryDate  time.Time          `json:"expiry_date"`
		Description string             `json:"description,omitempty"`
		AddedDate   time.Time          `json:"added_date"`
		OwnerID     string             `json:"owner_id"`
		OwnerEmail  string             `json:"owner_email,omitempty"`
		Notes       []NoteResponse     `json:"notes"`
		Freshness   *FreshnessResponse `json:"freshness,omitempty"`
	}

	PaginationResponse struct {
		CurrentPage     int   `json:"current_page"`
		PageSize        int   `json:"page_size"`
		TotalItems      int64 `json:"total_items"`
		TotalPages      int   `json:"total_pages"`
		HasNextPage     bool  `json:"has_next_page"`
		HasPreviousPage bool  `json:"has_previous_page"`
	}

	FoodItemPage struct {
		Items      []FoodItemResponse `json:"items"`
		Pagination PaginationResponse `json:"pagination"`
	}

	InventoryStatsResponse struct {
		TotalItems         int64 `json:"total_items"`
		FreshItems         int64 `json:"fresh_items"`
		NearlyExpiredItems int64 `json:"nearly_expired_items"`
		ExpiredItems       int64 `json:"expired_items"`
	}

	ReminderResponse struct {
		ExpiredItems       int  `json:"expired_items"`
		NearlyExpiredItems int  `json:"nearly_expired_items"`
		Sent               bool `json:"sent"`
	}
)
