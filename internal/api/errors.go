package api

import (
	"errors"
	"net/http"
)

// Kind clasifica los errores normalizados del cliente.
type Kind string

const (
	KindUnauthorized Kind = "unauthorized" // 401: ya se disparó el redirect al login
	KindBackend      Kind = "backend"      // status >= 400 con (o sin) mensaje del backend
	KindTransport    Kind = "transport"    // no hubo respuesta HTTP
	KindDecode       Kind = "decode"       // 2xx con un cuerpo que no se pudo leer
)

// Mensajes genéricos cuando el backend no manda uno propio.
const (
	msgTransport    = "no se pudo contactar al servidor"
	msgDecode       = "respuesta inválida del servidor"
	msgUnauthorized = "no autenticado"
	msgUnknown      = "error desconocido"
)

// Error es el error normalizado que devuelve toda llamada del cliente.
// Su forma JSON es {"error": "<mensaje>"}.
type Error struct {
	Kind    Kind   `json:"-"`
	Status  int    `json:"-"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// errorBody cubre las dos formas que usa el backend: {"error": ...} y
// {"success": false, "message": ...}.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (b errorBody) text() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Message
}

func backendError(status int, body errorBody) *Error {
	msg := body.text()
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = msgUnknown
	}
	kind := KindBackend
	if status == http.StatusUnauthorized {
		kind = KindUnauthorized
		if body.text() == "" {
			msg = msgUnauthorized
		}
	}
	return &Error{Kind: kind, Status: status, Message: msg}
}

// IsUnauthorized reporta si err es un 401 normalizado.
func IsUnauthorized(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindUnauthorized
}

// MessageOf devuelve el texto apto para mostrar al usuario.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return msgUnknown
}
