package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/bcdtools/internal/options"
	"github.com/erraggy/bcdtools/parser"
)

// documentInput is how a tool receives a compat document.
// Exactly one of File, URL, or Content must be set.
type documentInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a compat data file on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch a compat data document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline compat data (JSON or YAML)"`
}

type cacheEntry struct {
	result    *parser.ParseResult
	touchedAt time.Time
	expiresAt time.Time
}

// documentCache keeps parsed documents for the session. Compat data is large
// and tools are usually called repeatedly against the same file, so a parse
// is reused until the file changes or the entry expires.
//
// Keys: "file:<abs>:<mtime>", "url:<url>", "content:<sha256>".
type documentCache struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var docCache = &documentCache{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

func (c *documentCache) get(key string) *parser.ParseResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil
	}
	e.touchedAt = time.Now()
	return e.result
}

// put stores result, evicting the least recently used entry when full.
func (c *documentCache) put(key string, result *parser.ParseResult, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxSize {
		var lru string
		var lruAt time.Time
		for k, e := range c.entries {
			if lru == "" || e.touchedAt.Before(lruAt) {
				lru, lruAt = k, e.touchedAt
			}
		}
		delete(c.entries, lru)
	}
	c.entries[key] = &cacheEntry{result: result, touchedAt: now, expiresAt: now.Add(ttl)}
}

func (c *documentCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper removes expired entries every interval until ctx is done.
// Only the first concurrent call starts a goroutine.
func (c *documentCache) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

func (c *documentCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

func (c *documentCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey returns the key and TTL for d, or "" when d cannot be cached.
func (d documentInput) cacheKey() (string, time.Duration) {
	switch {
	case d.File != "":
		abs, err := filepath.Abs(d.File)
		if err != nil {
			return "", 0
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", 0
		}
		return fmt.Sprintf("file:%s:%d", abs, info.ModTime().UnixNano()), cfg.CacheFileTTL
	case d.URL != "":
		return "url:" + d.URL, cfg.CacheURLTTL
	case d.Content != "":
		h := sha256.Sum256([]byte(d.Content))
		return "content:" + hex.EncodeToString(h[:]), cfg.CacheContentTTL
	}
	return "", 0
}

// resolve parses the document, consulting the session cache first.
func (d documentInput) resolve() (*parser.ParseResult, error) {
	if err := options.ValidateSingleInputSource(
		"no document provided: set one of file, url, or content",
		"set only one of file, url, or content",
		d.File != "", d.URL != "", d.Content != "",
	); err != nil {
		return nil, err
	}
	if d.Content != "" && int64(len(d.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set BCDTOOLS_MAX_INLINE_SIZE to increase",
			len(d.Content), cfg.MaxInlineSize)
	}

	var key string
	var ttl time.Duration
	if cfg.CacheEnabled {
		key, ttl = d.cacheKey()
		if key != "" {
			if cached := docCache.get(key); cached != nil {
				return cached, nil
			}
		}
	}

	var opts []parser.Option
	switch {
	case d.File != "":
		opts = append(opts, parser.WithFilePath(d.File))
	case d.URL != "":
		opts = append(opts, parser.WithFilePath(d.URL))
		if !cfg.AllowPrivateIPs {
			opts = append(opts, parser.WithHTTPClient(newSafeHTTPClient()))
		}
	default:
		opts = append(opts, parser.WithReader(strings.NewReader(d.Content)))
	}

	result, err := parser.ParseWithOptions(opts...)
	if err != nil {
		return nil, err
	}
	if key != "" {
		docCache.put(key, result, ttl)
	}
	return result, nil
}
