package models

import "time"

// PhotoOrderItem is the durable record for one photo in the order.
// The id is generated client-side and never changes; Content holds the
// original file bytes.
type PhotoOrderItem struct {
	ID        string
	Name      string
	Format    string
	Quantity  int
	Content   []byte
	CreatedAt time.Time
}

// CustomerProfile holds the three customer form fields. Persisted
// independently of the photo records, last value wins.
type CustomerProfile struct {
	Name  string `json:"customerName"`
	Email string `json:"customerEmail"`
	Phone string `json:"customerPhone"`
}

// OrderLine is one photo's pricing line as it appears in the multipart
// photoMeta parts and in the server's echoed summary.
type OrderLine struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Format    string  `json:"format"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"totalPrice"`
}

// OrderSnapshot is the submission-time materialization of the order.
// Built from the working set immediately before sending, never persisted.
type OrderSnapshot struct {
	Customer   CustomerProfile
	Lines      []OrderLine
	TotalPrice float64

	// Content holds each photo's bytes keyed by id, for the multipart
	// file parts.
	Content map[string][]byte
}
