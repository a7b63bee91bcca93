package models

// CustomerInfo is the customer block echoed back by the upload endpoint.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// OrderConfirmation is the upload endpoint's response body on success.
// TotalPrice is a two-decimal string, as rendered by the server.
type OrderConfirmation struct {
	Success    bool         `json:"success"`
	Customer   CustomerInfo `json:"customer"`
	Photos     []OrderLine  `json:"photos"`
	TotalPrice string       `json:"totalPrice"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
