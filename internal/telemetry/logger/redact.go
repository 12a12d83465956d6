package logger

import (
	"log/slog"
	"strconv"
	"strings"
)

// payloadKeys name attributes that may hold stored user data. They are
// replaced by their size.
var payloadKeys = map[string]bool{
	"value":   true,
	"payload": true,
}

// Sensitive key patterns that should be redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"credential",
	"auth",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive rewrites attributes that must not reach the logs.
func redactSensitive(a slog.Attr) slog.Attr {
	if payloadKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, sizeOf(a.Value))
	}

	if a.Value.Kind() == slog.KindString && IsSensitiveKey(a.Key) && a.Value.String() != "" {
		return slog.String(a.Key, redactedValue)
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// sizeOf describes a payload by its length only.
func sizeOf(v slog.Value) string {
	n := 0
	switch v.Kind() {
	case slog.KindString:
		n = len(v.String())
	case slog.KindAny:
		switch x := v.Any().(type) {
		case []byte:
			n = len(x)
		case string:
			n = len(x)
		default:
			return redactedValue
		}
	default:
		return redactedValue
	}
	return "<" + strconv.Itoa(n) + " bytes>"
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
