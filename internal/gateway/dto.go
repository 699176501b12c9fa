package gateway

import (
	"time"
)

type userCreate struct {
	Name  string `json:"name" validate:"required,notblank"`
	Email string `json:"email" validate:"required,email"`
}

type userPatch struct {
	Name  *string `json:"name" validate:"omitempty,notblank"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type itemCreate struct {
	Name        string `json:"name" validate:"required,notblank"`
	Description string `json:"description" validate:"required,notblank"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"requestId" validate:"omitempty,gt=0"`
}

type itemPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type commentCreate struct {
	Text string `json:"text" validate:"required,notblank"`
}

type requestCreate struct {
	Description string `json:"description" validate:"required,notblank"`
}

// gte/gt without a parameter compare a time.Time against now.
type bookingCreate struct {
	ItemID int64     `json:"itemId" validate:"required,gt=0"`
	Start  time.Time `json:"start" validate:"required,gte,storable"`
	End    time.Time `json:"end" validate:"required,gt,storable"`
}

type pageQuery struct {
	From int `json:"from" validate:"gte=0"`
	Size int `json:"size" validate:"gte=1"`
}

// FieldError is one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields"`
}
