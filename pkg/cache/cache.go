package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Entry 单条缓存记录
type Entry struct {
	Key       string
	Value     any
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Cache 带 TTL 的内存缓存，避免在时间窗口内重复执行昂贵操作。
// 过期条目在下次查询时惰性失效，没有后台清理协程。
// 值在写入后不再修改，因此并发读是安全的。
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	maxSize int
	ttl     time.Duration
	now     func() time.Time // 可注入的时钟，测试控制过期
}

// New 创建缓存，maxSize 为容量上限，ttl 为条目存活时间
func New(maxSize int, ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]*Entry),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

// GetOrCompute 命中时返回已有值，未命中或已过期时执行 compute 并缓存结果。
// compute 返回错误时不缓存。同一 key 的并发未命中可能触发重复计算，
// 结果只是多算一次，不会损坏数据。
func (c *Cache) GetOrCompute(key string, compute func() (any, error)) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := compute()
	if err != nil {
		return nil, err
	}
	c.Set(key, v)
	return v, nil
}

// Get 按 key 读取，过期视为不存在
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Value, true
}

// Set 写入一条缓存。覆盖已有 key 不占用新容量，不触发淘汰
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	now := c.now()
	c.entries[key] = &Entry{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
}

// Size 返回当前条目数，包含尚未被惰性清理的过期条目
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// evictOldest 淘汰创建时间最早的条目，调用方需持有写锁
func (c *Cache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.entries {
		if oldestKey == "" || entry.CreatedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.CreatedAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Key 由若干部分拼出缓存键
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
