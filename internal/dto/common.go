package dto

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Storage   string `json:"storage"`
	Cache     string `json:"cache,omitempty"`
}

// ListResponse wraps a page of results.
type ListResponse struct {
	Items      any   `json:"items"`
	Total      int64 `json:"total"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
}

func NewListResponse(items any, total int64, limit, offset int) ListResponse {
	page, pages := 1, 0
	if limit > 0 {
		page = offset/limit + 1
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return ListResponse{Items: items, Total: total, Limit: limit, Offset: offset, Page: page, TotalPages: pages}
}
