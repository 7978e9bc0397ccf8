package dto

import "time"

// TimestampLayout is used for every timestamp rendered by the API.
const TimestampLayout = time.RFC3339

// MessageDTO is returned by operations whose result is a confirmation only.
type MessageDTO struct {
	Message string `json:"message"`
}
