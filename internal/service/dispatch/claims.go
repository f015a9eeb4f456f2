// Package dispatch 将平台交互事件路由到具名处理函数
// 本文件实现交互认领表：同请求周期内的处理器先认领交互，调度器只处理无人认领的
package dispatch

import (
	"sync"
	"time"
)

// 认领记录的存活时间，超时视为认领方已放弃
const claimTTL = 3 * time.Minute

// ClaimRegistry 短生命周期的交互认领表
type ClaimRegistry struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

// NewClaimRegistry 创建交互认领表
func NewClaimRegistry() *ClaimRegistry {
	return &ClaimRegistry{entries: make(map[string]time.Time)}
}

// Claim 认领一次交互，返回 false 表示已被他人认领
func (r *ClaimRegistry) Claim(interactionId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweep()
	if _, ok := r.entries[interactionId]; ok {
		return false
	}
	r.entries[interactionId] = time.Now().Add(claimTTL)
	return true
}

// Release 释放认领，认领方处理完毕后调用
func (r *ClaimRegistry) Release(interactionId string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, interactionId)
}

// Claimed 判断交互当前是否已被认领
func (r *ClaimRegistry) Claimed(interactionId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweep()
	_, ok := r.entries[interactionId]
	return ok
}

// sweep 清理过期认领，调用方需持有锁
func (r *ClaimRegistry) sweep() {
	now := time.Now()
	for id, deadline := range r.entries {
		if now.After(deadline) {
			delete(r.entries, id)
		}
	}
}
