// model/rental.go
package model

type Rental struct {
	ID           int64 `json:"id"`
	VideoID      int64 `json:"video_id"`
	CustomerID   int64 `json:"customer_id"`
	CheckoutDate Date  `json:"checkout_date"`
	DueDate      Date  `json:"due_date"`
	Returned     bool  `json:"returned"`
}

// CheckOutReq is the body of POST /rentals/:title/check-out. due_date stays a
// string so a missing or malformed value reaches the lifecycle layer, which
// aggregates every due_date complaint instead of failing on the first.
type CheckOutReq struct {
	CustomerID int64  `json:"customer_id" validate:"required,gt=0"`
	DueDate    string `json:"due_date"`
}

type CheckInReq struct {
	CustomerID int64 `json:"customer_id" validate:"required,gt=0"`
}
