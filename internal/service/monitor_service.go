package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/user/movieticket/internal/model"
	"github.com/user/movieticket/internal/utils"
)

const (
	StatusUnknown = "UNKNOWN"
	StatusUp      = "UP"
	StatusDown    = "DOWN"
)

// BackendStatus 最近一次后端健康检查结果
type BackendStatus struct {
	Status    string    `json:"status"`
	Service   string    `json:"service,omitempty"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// HealthMonitor 定时探测后端 /health
type HealthMonitor struct {
	client   *utils.HTTPClient
	interval time.Duration

	mu   sync.RWMutex
	last BackendStatus
}

// NewHealthMonitor 创建健康监控
func NewHealthMonitor(client *utils.HTTPClient, interval time.Duration) *HealthMonitor {
	return &HealthMonitor{
		client:   client,
		interval: interval,
		last:     BackendStatus{Status: StatusUnknown},
	}
}

// Start 启动定时探测，ctx 取消后退出
func (m *HealthMonitor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		// 启动时先探测一次
		m.Check(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Check(ctx)
			}
		}
	}()
}

// Check 立即探测并记录结果
func (m *HealthMonitor) Check(ctx context.Context) BackendStatus {
	var health model.HealthStatus
	err := m.client.GetJSON(ctx, utils.Path("health"), &health)

	status := BackendStatus{CheckedAt: time.Now()}
	switch {
	case err != nil:
		status.Status = StatusDown
		status.Error = utils.ErrorMessage(err)
	case health.Status != StatusUp:
		status.Status = StatusDown
		status.Service = health.Service
		status.Error = "backend reported status " + health.Status
	default:
		status.Status = StatusUp
		status.Service = health.Service
	}

	m.mu.Lock()
	prev := m.last.Status
	m.last = status
	m.mu.Unlock()

	if prev != status.Status {
		if err != nil {
			log.Printf("[HealthMonitor] 后端状态 %s -> %s: %v", prev, status.Status, err)
		} else {
			log.Printf("[HealthMonitor] 后端状态 %s -> %s", prev, status.Status)
		}
	}
	return status
}

// Last 最近一次结果
func (m *HealthMonitor) Last() BackendStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}
