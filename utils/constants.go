package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute

// SettingsCacheKey holds the cached branding singleton.
const SettingsCacheKey = "settings:app"

// SessionEventsChannel is the Redis pub/sub channel relaying session changes between instances.
const SessionEventsChannel = "session:events"
