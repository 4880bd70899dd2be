// Package logger expone un logger Zap singleton para el cliente y la consola.
//
// Los logs van siempre a stderr: stdout queda reservado para la salida de los
// comandos (texto o JSON) y para la pantalla de la consola interactiva.
//
// Inicialización (una vez en main.go):
//
//	logger.Init(logger.Config{
//	    Env:   cfg.Log.Env,   // "dev" o "prod"
//	    Level: cfg.Log.Level, // "debug", "info", "warn", "error", "off"
//	})
//	defer logger.Sync()
//
// Con contexto:
//
//	log := logger.From(ctx)
//	log.Warn("request failed", logger.Method(m), logger.Path(p), logger.Err(err))
package logger
