package utils

import "testing"

func TestSnowflake_同毫秒序号递增(t *testing.T) {
	s, err := NewSnowflake(7)
	if err != nil {
		t.Fatalf("NewSnowflake err=%v", err)
	}
	s.now = func() int64 { return snowflakeEpochMilli + 1000 }
	a, b := s.NextID(), s.NextID()
	if b != a+1 {
		t.Fatalf("同一毫秒内应递增 a=%d b=%d", a, b)
	}
	if NodeOf(a) != 7 {
		t.Fatalf("节点号错误 got=%d", NodeOf(a))
	}
}

func TestSnowflake_时钟回拨不回退(t *testing.T) {
	s, _ := NewSnowflake(1)
	ts := snowflakeEpochMilli + 5000
	s.now = func() int64 { return ts }
	a := s.NextID()
	ts -= 100
	if b := s.NextID(); b <= a {
		t.Fatalf("回拨后 id 不应变小 a=%d b=%d", a, b)
	}
}

func TestNewSnowflake_节点越界(t *testing.T) {
	if _, err := NewSnowflake(maxNodeID + 1); err == nil {
		t.Fatalf("节点号越界应报错")
	}
}

func TestRandSeq_长度与字符集(t *testing.T) {
	s := RandSeq(16)
	if len(s) != 16 {
		t.Fatalf("长度应为 16，got=%d", len(s))
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			t.Fatalf("非法字符 %q", r)
		}
	}
}
