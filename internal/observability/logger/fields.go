package logger

import (
	"time"

	"go.uber.org/zap"
)

// ───────── HTTP ─────────

func RequestID(v string) zap.Field       { return zap.String("request_id", v) }
func Method(v string) zap.Field          { return zap.String("method", v) }
func Path(v string) zap.Field            { return zap.String("path", v) }
func Status(v int) zap.Field             { return zap.Int("status", v) }
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

// ───────── Consola ─────────

// Page es la sección visible de la consola (dashboard, config, ...).
func Page(v string) zap.Field { return zap.String("page", v) }

// Role identifica el elemento de la tabla de eventos que disparó un handler.
func Role(v string) zap.Field { return zap.String("role", v) }

func Mode(v string) zap.Field { return zap.String("send_mode", v) }

// ───────── Dominio ─────────

func Username(v string) zap.Field     { return zap.String("username", v) }
func TemplateID(v int64) zap.Field    { return zap.Int64("template_id", v) }
func RecordID(v int64) zap.Field      { return zap.Int64("record_id", v) }
func Recipients(v int) zap.Field      { return zap.Int("recipients", v) }
func Component(v string) zap.Field    { return zap.String("component", v) }
func Count(v int) zap.Field           { return zap.Int("count", v) }
func Err(err error) zap.Field         { return zap.Error(err) }
func String(k, v string) zap.Field    { return zap.String(k, v) }
func Int(k string, v int) zap.Field   { return zap.Int(k, v) }
func Bool(k string, v bool) zap.Field { return zap.Bool(k, v) }
