package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/quicknotify/internal/api"
	"github.com/dropDatabas3/quicknotify/internal/console"
	"github.com/dropDatabas3/quicknotify/internal/validation"
)

func newLoginCmd(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login [usuario] [contraseña]",
		Short: "Inicia sesión y guarda la cookie",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				username = args[0]
			}
			if len(args) > 1 {
				password = args[1]
			}
			if password == "" {
				password = os.Getenv("QUICKNOTIFY_PASSWORD")
			}
			in := api.Credentials{Username: username, Password: password}
			if errs := validation.Struct(in); len(errs) > 0 {
				return fmt.Errorf("faltan campos: %s", validation.Fields(errs))
			}
			a.loggingIn = true
			res, err := a.client.Login(cmd.Context(), in.Username, in.Password)
			a.loggingIn = false
			if err != nil {
				return fmt.Errorf("login fallido: %s", api.MessageOf(err))
			}
			a.sess.SetUsername(res.Username)
			return a.emitMessage(res, console.LevelSuccess, fmt.Sprintf("sesión iniciada como %s", res.Username))
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Usuario")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Contraseña (env QUICKNOTIFY_PASSWORD)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cierra la sesión",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout fallido: %s", api.MessageOf(err))
			}
			if err := a.sess.Clear(); err != nil {
				return err
			}
			a.expired = true
			return a.emitMessage(api.MessageResult{Message: "Logout successful"}, console.LevelSuccess, "sesión cerrada")
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Muestra el usuario de la sesión actual",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.client.CheckAuth(cmd.Context())
			if err != nil {
				return fmt.Errorf("sin sesión: %s", api.MessageOf(err))
			}
			return a.emitMessage(st, console.LevelInfo, fmt.Sprintf("usuario: %s", st.Username))
		},
	}
}

func newPasswdCmd(a *app) *cobra.Command {
	var oldPwd, newPwd, confirm string
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Cambia la contraseña del usuario actual",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := api.PasswordChange{OldPassword: oldPwd, NewPassword: newPwd}
			if errs := validation.Struct(in); len(errs) > 0 {
				return fmt.Errorf("faltan campos: %s", validation.Fields(errs))
			}
			if confirm != "" && confirm != newPwd {
				return fmt.Errorf("las contraseñas no coinciden")
			}
			res, err := a.client.ChangePassword(cmd.Context(), in.OldPassword, in.NewPassword)
			if err != nil {
				return fmt.Errorf("cambio de contraseña fallido: %s", api.MessageOf(err))
			}
			return a.emitMessage(res, console.LevelSuccess, "contraseña actualizada")
		},
	}
	cmd.Flags().StringVar(&oldPwd, "old", "", "Contraseña actual")
	cmd.Flags().StringVar(&newPwd, "new", "", "Contraseña nueva")
	cmd.Flags().StringVar(&confirm, "confirm", "", "Repetir la contraseña nueva")
	return cmd
}
