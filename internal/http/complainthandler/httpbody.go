package complainthandler

type FileComplaintBody struct {
	UserID int64  `json:"user_id" binding:"required" example:"42"`
	Text   string `json:"text"    binding:"required" example:"образливий опис лоту"`
} // @name FileComplaintRequest

type ListComplaintsQuery struct {
	UserID int64 `form:"user_id" binding:"required"`
} // @name ListComplaintsQuery
