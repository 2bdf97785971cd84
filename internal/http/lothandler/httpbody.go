package lothandler

type LotBody struct {
	UserID      int64   `json:"user_id"     binding:"required" example:"42"`
	Description string  `json:"description" binding:"required" example:"третій курс, ФІОТ"`
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
} // @name LotRequest

type DeleteLotBody struct {
	UserID int64 `json:"user_id" binding:"required" example:"1"`
} // @name DeleteLotRequest

type ListLotsQuery struct {
	Search string `form:"search"`
	Sort   string `form:"sort"    binding:"omitempty,oneof=price_asc price_desc created_at_asc created_at_desc"`
	Limit  int    `form:"limit,default=12"  binding:"gte=0,lte=100"`
	Offset int    `form:"offset,default=0"  binding:"gte=0"`
} // @name ListLotsQuery

type LotPage struct {
	Count   int64       `json:"count"`
	Results interface{} `json:"results"`
} // @name LotPage
