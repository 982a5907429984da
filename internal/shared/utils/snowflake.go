package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// 2026-01-01 00:00:00 UTC，单位毫秒
	snowflakeEpochMilli int64 = 1767225600000

	nodeBits uint8 = 10
	seqBits  uint8 = 12

	maxNodeID int64 = -1 ^ (-1 << nodeBits)
	maxSeq    int64 = -1 ^ (-1 << seqBits)

	nodeShift = seqBits
	timeShift = nodeBits + seqBits
)

// Snowflake 生成新世界的 id：41 位毫秒时间 + 10 位节点 + 12 位序号。
type Snowflake struct {
	mu     sync.Mutex
	nodeID int64
	lastTS int64
	seq    int64
	now    func() int64
}

func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, fmt.Errorf("snowflake node id out of range: %d", nodeID)
	}
	return &Snowflake{nodeID: nodeID, now: func() int64 { return time.Now().UnixMilli() }}, nil
}

func (s *Snowflake) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now()
	if ts < s.lastTS {
		// 时钟回拨时沿用上次时间，保持单调递增。
		ts = s.lastTS
	}
	if ts == s.lastTS {
		s.seq = (s.seq + 1) & maxSeq
		if s.seq == 0 {
			for ts <= s.lastTS {
				ts = s.now()
			}
		}
	} else {
		s.seq = 0
	}

	s.lastTS = ts
	return ((ts - snowflakeEpochMilli) << timeShift) | (s.nodeID << nodeShift) | s.seq
}

// NodeOf 取出 id 中的节点号。
func NodeOf(id int64) int64 {
	return (id >> nodeShift) & maxNodeID
}

var (
	defaultOnce sync.Once
	defaultGen  *Snowflake
	defaultErr  error
)

// DefaultSnowflake 节点号取环境变量 NODE_ID，缺省为 1。
func DefaultSnowflake() (*Snowflake, error) {
	defaultOnce.Do(func() {
		nodeID := int64(1)
		if raw := strings.TrimSpace(os.Getenv("NODE_ID")); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				defaultErr = fmt.Errorf("invalid NODE_ID: %w", err)
				return
			}
			nodeID = parsed
		}
		defaultGen, defaultErr = NewSnowflake(nodeID)
	})
	return defaultGen, defaultErr
}

func NextSnowflakeID() (int64, error) {
	gen, err := DefaultSnowflake()
	if err != nil {
		return 0, err
	}
	if gen == nil {
		return 0, errors.New("snowflake generator is nil")
	}
	return gen.NextID(), nil
}
