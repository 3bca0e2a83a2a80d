package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

const redacted = "[REDACTED]"

// redactingCore scrubs secrets from fields before delegating to the wrapped core.
type redactingCore struct {
	zapcore.Core
}

func (c redactingCore) With(fields []zapcore.Field) zapcore.Core {
	return redactingCore{Core: c.Core.With(redactFields(fields))}
}

func (c redactingCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(e.Level) {
		return ce.AddCore(e, c)
	}
	return ce
}

func (c redactingCore) Write(e zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(e, redactFields(fields))
}

func redactFields(fields []zapcore.Field) []zapcore.Field {
	out := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		if isSecretKey(f.Key) || (f.Type == zapcore.StringType && LooksLikeJWT(f.String)) {
			f = zapcore.Field{Key: f.Key, Type: zapcore.StringType, String: redacted}
		}
		out[i] = f
	}
	return out
}

func isSecretKey(key string) bool {
	key = strings.ToLower(key)
	for _, s := range []string{"token", "authorization", "password", "secret", "apikey", "api_key", "otp"} {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

// LooksLikeJWT reports whether s has the three dot-separated segments of a JWT.
func LooksLikeJWT(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}
