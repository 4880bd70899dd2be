package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type smtpForm struct {
	Server   string `json:"smtp_server" validate:"required"`
	Port     int    `json:"smtp_port" validate:"required,min=1,max=65535"`
	Password string `json:"sender_password" validate:"required"`
	Note     string
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	errs := Struct(smtpForm{Port: 70000})
	require.Len(t, errs, 3)
	require.Equal(t, "smtp_server, smtp_port, sender_password", Fields(errs))
	require.Equal(t, "max", errs[1].Rule)
}

func TestStruct_OK(t *testing.T) {
	require.Nil(t, Struct(smtpForm{Server: "smtp.x.com", Port: 587, Password: "p"}))
}
