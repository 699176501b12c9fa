package models

import "time"

// ItemRequest is a posted need for an item.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
	RequestorID int64     `json:"requestorId"`
}

// ItemRequestView carries the items that answer the request, resolved at read time.
type ItemRequestView struct {
	ItemRequest
	Items []Item `json:"items"`
}
