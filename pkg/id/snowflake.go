package id

import (
	"fmt"
	"sync"
	"time"
)

/**
 * @file: snowflake.go
 * @description: 雪花算法 ID 生成器，64 位趋势递增
 */

const (
	// epoch 2024-01-01 00:00:00 UTC, 毫秒
	epoch int64 = 1704067200000

	workerBits   uint8 = 10
	sequenceBits uint8 = 12

	maxWorkerId = -1 ^ (-1 << workerBits)   // 1023
	maxSequence = -1 ^ (-1 << sequenceBits) // 4095

	timeShift   = workerBits + sequenceBits
	workerShift = sequenceBits
)

// Snowflake 雪花 ID 生成器，由调用方持有并注入，避免包级全局状态
type Snowflake struct {
	mu       sync.Mutex
	lastTime int64
	workerId int64
	sequence int64
}

// NewSnowflake creates a generator for the given worker id.
func NewSnowflake(workerId int64) (*Snowflake, error) {
	if workerId < 0 || workerId > maxWorkerId {
		return nil, fmt.Errorf("worker id must be between 0 and %d, got %d", maxWorkerId, workerId)
	}
	return &Snowflake{workerId: workerId}, nil
}

// NextId returns the next id. Ids from one generator are strictly increasing.
func (s *Snowflake) NextId() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()
	if now < s.lastTime {
		// 时钟回拨，等待追上
		now = s.waitUntil(s.lastTime)
	}

	if now == s.lastTime {
		s.sequence = (s.sequence + 1) & maxSequence
		if s.sequence == 0 {
			// 当前毫秒内序列耗尽
			now = s.waitUntil(s.lastTime + 1)
		}
	} else {
		s.sequence = 0
	}

	s.lastTime = now
	return (now-epoch)<<timeShift | s.workerId<<workerShift | s.sequence
}

// NextIdString returns the next id in decimal string form,
// which is what the wire format uses for entity ids.
func (s *Snowflake) NextIdString() string {
	return fmt.Sprintf("%d", s.NextId())
}

func (s *Snowflake) waitUntil(target int64) int64 {
	now := time.Now().UnixMilli()
	for now < target {
		time.Sleep(time.Millisecond)
		now = time.Now().UnixMilli()
	}
	return now
}
