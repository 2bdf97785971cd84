package bidhandler

type PlaceBidBody struct {
	UserID int64  `json:"user_id" binding:"required"      example:"42"`
	Amount int64  `json:"amount"  binding:"required,gt=0" example:"10"`
	Text   string `json:"text,omitempty"                  example:"беру!"`
} // @name PlaceBidRequest

type ListBidsQuery struct {
	UserID int64  `form:"user_id" binding:"required"`
	Status string `form:"status"  binding:"omitempty,oneof=overbid active"`
} // @name ListBidsQuery
