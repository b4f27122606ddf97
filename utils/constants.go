package utils

import "time"

// AuthCachePrefix is the prefix used for Redis ID token cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for ID token cache entries.
const AuthCacheTTL = 10 * time.Minute

// ScannerCachePrefix prefixes verified gate-scanner key entries.
const ScannerCachePrefix = "scanner:"

const ScannerCacheTTL = 5 * time.Minute
