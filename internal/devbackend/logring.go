package devbackend

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logRing guarda las últimas N líneas de log del backend para
// GET /monitor/logs. Es un zapcore.WriteSyncer: se engancha como un core más
// del logger.
type logRing struct {
	mu    sync.Mutex
	lines []string
	next  int
	full  bool
}

func newLogRing(size int) *logRing {
	return &logRing{lines: make([]string, size)}
}

// core escribe "2024-01-02T15:04:05.000Z INFO devbackend mensaje {campos}".
func (r *logRing) core() zapcore.Core {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	})
	return zapcore.NewCore(enc, zapcore.AddSync(r), zap.DebugLevel)
}

func (r *logRing) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if l == "" {
			continue
		}
		r.lines[r.next] = l
		r.next = (r.next + 1) % len(r.lines)
		if r.next == 0 {
			r.full = true
		}
	}
	return len(p), nil
}

// Tail devuelve hasta n líneas, las más viejas primero. level "" o "ALL"
// no filtra; si no, sólo las líneas de ese nivel (INFO, WARN, ERROR...).
func (r *logRing) Tail(level string, n int) []string {
	r.mu.Lock()
	ordered := make([]string, 0, len(r.lines))
	if r.full {
		ordered = append(ordered, r.lines[r.next:]...)
	}
	ordered = append(ordered, r.lines[:r.next]...)
	r.mu.Unlock()

	level = strings.ToUpper(strings.TrimSpace(level))
	if level == "WARNING" {
		level = "WARN" // zap escribe WARN
	}
	out := make([]string, 0, len(ordered))
	for _, l := range ordered {
		if level == "" || level == "ALL" || lineLevel(l) == level {
			out = append(out, l)
		}
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

func lineLevel(line string) string {
	f := strings.SplitN(line, " ", 3)
	if len(f) < 2 {
		return ""
	}
	return f[1]
}
