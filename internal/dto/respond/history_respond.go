package respond

// HistoryPageRespond 历史记录分页响应
// 使用位置:
//   - internal/service/tribe/service.go: GetHistory
type HistoryPageRespond struct {
	Entries  []HistoryEntryRespond `json:"entries"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

// HistoryEntryRespond 单条历史记录
type HistoryEntryRespond struct {
	UserId    string `json:"user_id"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	CreatedAt string `json:"created_at"`
}
