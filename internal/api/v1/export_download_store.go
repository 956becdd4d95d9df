package v1

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
)

type exportDownload struct {
	filePath string
	filename string
}

// downloadEntry 缓存项；taken 可能被 go-cache 清理协程并发读取
type downloadEntry struct {
	exportDownload
	taken atomic.Bool
}

// exportDownloadStore 一次性下载令牌
// 过期的令牌由 go-cache 清理，清理时删除对应文件；已取出的文件由下载方删除
type exportDownloadStore struct {
	mu sync.Mutex
	c  *cache.Cache
}

func newExportDownloadStore(cleanupInterval time.Duration) *exportDownloadStore {
	c := cache.New(cache.NoExpiration, cleanupInterval)
	c.OnEvicted(func(_ string, v interface{}) {
		if d, ok := v.(*downloadEntry); ok && !d.taken.Load() {
			_ = os.Remove(d.filePath)
		}
	})
	return &exportDownloadStore{c: c}
}

func (s *exportDownloadStore) put(filePath, filename string, ttl time.Duration) string {
	token := newRandomToken(24)
	s.c.Set(token, &downloadEntry{exportDownload: exportDownload{filePath: filePath, filename: filename}}, ttl)
	return token
}

// take 取出并作废令牌
func (s *exportDownloadStore) take(token string) (exportDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.c.DeleteExpired()
	v, ok := s.c.Get(token)
	if !ok {
		return exportDownload{}, false
	}
	d := v.(*downloadEntry)
	d.taken.Store(true)
	s.c.Delete(token)
	return d.exportDownload, true
}

func (s *exportDownloadStore) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.c.DeleteExpired()
	return s.c.ItemCount()
}

func newRandomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
