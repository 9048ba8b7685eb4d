package cache

import (
	"testing"
	"time"
)

func TestGetOrCompute_WithinTTL(t *testing.T) {
	// 注入假时钟，确定性控制过期
	current := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := New(16, time.Hour)
	c.now = func() time.Time { return current }

	calls := 0
	compute := func() (any, error) {
		calls++
		return "value", nil
	}

	v, err := c.GetOrCompute("k", compute)
	if err != nil {
		t.Fatalf("GetOrCompute() error = %v", err)
	}
	if v != "value" {
		t.Errorf("GetOrCompute() = %v, want value", v)
	}

	// TTL 内第二次调用不触发计算
	current = current.Add(30 * time.Minute)
	if _, err := c.GetOrCompute("k", compute); err != nil {
		t.Fatalf("GetOrCompute() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("compute calls = %d, want 1", calls)
	}

	// 过期后重新计算
	current = current.Add(31 * time.Minute)
	if _, err := c.GetOrCompute("k", compute); err != nil {
		t.Fatalf("GetOrCompute() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("compute calls after expiry = %d, want 2", calls)
	}
}

func TestGetOrCompute_ErrorNotCached(t *testing.T) {
	c := New(16, time.Hour)

	calls := 0
	failing := func() (any, error) {
		calls++
		return nil, errFake
	}

	if _, err := c.GetOrCompute("k", failing); err == nil {
		t.Fatal("GetOrCompute() expected error")
	}
	if _, err := c.GetOrCompute("k", failing); err == nil {
		t.Fatal("GetOrCompute() expected error")
	}
	if calls != 2 {
		t.Errorf("compute calls = %d, want 2 (errors must not be cached)", calls)
	}
}

func TestEvictOldest(t *testing.T) {
	current := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := New(2, time.Hour)
	c.now = func() time.Time { return current }

	c.Set("a", 1)
	current = current.Add(time.Second)
	c.Set("b", 2)
	current = current.Add(time.Second)
	c.Set("c", 3) // 容量已满，最早的 a 被淘汰

	if _, ok := c.Get("a"); ok {
		t.Error("Get(a) should miss after eviction")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("Get(b) should hit")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("Get(c) should hit")
	}
	if got := c.Size(); got != 2 {
		t.Errorf("Size() = %d, want 2", got)
	}
}

func TestSet_OverwriteAtCapacityKeepsOthers(t *testing.T) {
	current := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := New(2, time.Hour)
	c.now = func() time.Time { return current }

	c.Set("a", 1)
	current = current.Add(time.Second)
	c.Set("b", 2)
	current = current.Add(time.Second)
	c.Set("a", 10) // 覆盖已有 key，不应淘汰 b

	if v, ok := c.Get("a"); !ok || v != 10 {
		t.Errorf("Get(a) = %v, %v, want 10, true", v, ok)
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("Get(b) should hit, overwrite must not evict it")
	}
	if got := c.Size(); got != 2 {
		t.Errorf("Size() = %d, want 2", got)
	}
}

func TestKey_Deterministic(t *testing.T) {
	k1 := Key("research", "fast", "Acme Corp")
	k2 := Key("research", "fast", "Acme Corp")
	if k1 != k2 {
		t.Errorf("Key() not deterministic: %s != %s", k1, k2)
	}
	if k1 == Key("research", "thorough", "Acme Corp") {
		t.Error("Key() should differ for different parts")
	}
}

// errFake 测试用错误
var errFake = fakeError("compute failed")

type fakeError string

func (e fakeError) Error() string { return string(e) }
