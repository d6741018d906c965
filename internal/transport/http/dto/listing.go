package dto

import "adriarent/internal/domain/models"

type CreateListingRequest struct {
	Title       string          `json:"title" validate:"required,min=3,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	CategoryID  string          `json:"categoryId" validate:"required"`
	Price       float64         `json:"price" validate:"gte=0"`
	Currency    string          `json:"currency" validate:"omitempty,oneof=EUR USD RSD"`
	Status      string          `json:"status" validate:"omitempty,oneof=active inactive pending rented exchange gift draft"`
	Images      []models.Image  `json:"images" validate:"dive"`
	Options     []string        `json:"options"`
	Location    models.Location `json:"location"`
}

type UpdateListingRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	CategoryID  *string          `json:"categoryId"`
	Price       *float64         `json:"price" validate:"omitempty,gte=0"`
	Currency    *string          `json:"currency" validate:"omitempty,oneof=EUR USD RSD"`
	Status      *string          `json:"status" validate:"omitempty,oneof=active inactive pending rented exchange gift draft"`
	Images      []models.Image   `json:"images" validate:"dive"`
	Options     []string         `json:"options"`
	Location    *models.Location `json:"location"`
	IsFeatured  *bool            `json:"isFeatured"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive pending rented exchange gift draft"`
	Reason string `json:"reason"`
}

type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Icon  string `json:"icon"`
	Order int    `json:"order"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=100"`
	Icon  *string `json:"icon"`
	Order *int    `json:"order"`
}
