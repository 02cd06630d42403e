package dto

type AuthorResponse struct {
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

type ProjectFilter struct {
	Status string `form:"status"`
	Search string `form:"search"`
	SortBy string `form:"sort_by"` // "newest", "budget"
	Page   int    `form:"page" binding:"min=0"`
	Limit  int    `form:"limit" binding:"min=0,max=50"`
}

// NotificationFilter carries raw query values; the service clamps page and
// page_size into range instead of rejecting them.
type NotificationFilter struct {
	Page       int  `form:"page" binding:"min=0"`
	PageSize   int  `form:"page_size" binding:"min=0"`
	UnreadOnly bool `form:"unread_only"`
}
