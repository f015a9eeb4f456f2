package respond

// MyTribesRespond 用户视角的部落列表响应
// 使用位置:
//   - internal/service/tribe/service.go: ListMyTribes
type MyTribesRespond struct {
	Managed []TribeSummaryRespond `json:"managed"` // 作为所有者或管理者的部落
	Joined  []TribeSummaryRespond `json:"joined"`  // 作为成员加入的部落
}
