// Package cache provides short-lived filesystem caching for upstream search responses.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/vodhound/vodhound/filesystem"
	"github.com/vodhound/vodhound/where"
)

// TTL bounds how long a cached upstream page stays servable. Collection APIs
// update their listings frequently, so entries go stale fast.
const TTL = 10 * time.Minute

func dir() string {
	path := filepath.Join(where.Cache(), "responses")
	_ = filesystem.API().MkdirAll(path, 0755)
	return path
}

// RawKey hashes arbitrary identifying parts into a cache key.
func RawKey(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hash[:])
}

// Key generates a deterministic SHA-256 identifier for one upstream page.
func Key(siteID, keyword string, page, pageSize int) string {
	sanitized := strings.ToLower(strings.ReplaceAll(keyword, " ", ""))
	return RawKey(siteID, sanitized, fmt.Sprintf("%d", page), fmt.Sprintf("%d", pageSize))
}

// Read retrieves and deserializes a cached object if it exists and has not
// exceeded its TTL.
func Read(key string, target interface{}) bool {
	path := filepath.Join(dir(), key)

	info, err := filesystem.API().Stat(path)
	if err != nil || time.Since(info.ModTime()) > TTL {
		return false
	}

	raw, err := filesystem.API().ReadFile(path)
	if err != nil {
		return false
	}

	return json.Unmarshal(raw, target) == nil
}

// Write persists a serializable object to the cache using an atomic file
// swap so a concurrent Read never observes a partial entry.
func Write(key string, data interface{}) error {
	path := filepath.Join(dir(), key)
	tmp := path + ".tmp"

	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if err = filesystem.API().WriteFile(tmp, raw, 0644); err != nil {
		return err
	}

	return filesystem.API().Rename(tmp, path)
}

// CollectGarbage prunes expired entries. Meant to run in the background at
// process start.
func CollectGarbage() {
	entries, err := filesystem.API().ReadDir(dir())
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if time.Since(entry.ModTime()) > TTL {
			_ = filesystem.API().Remove(filepath.Join(dir(), entry.Name()))
		}
	}
}
