package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/quicknotify/internal/api"
	"github.com/dropDatabas3/quicknotify/internal/console"
	"github.com/dropDatabas3/quicknotify/internal/validation"
)

// sendOutcome imprime el SendResult; un envío fallido igual trae cuerpo.
func (a *app) sendOutcome(res *api.SendResult, err error) error {
	if err != nil {
		return fmt.Errorf("envío fallido: %s", api.MessageOf(err))
	}
	return a.emitMessage(res, console.LevelSuccess, fmt.Sprintf("%s (registro %d)", res.Message, res.RecordID))
}

func newSendCmd(a *app) *cobra.Command {
	var to, cc, bcc, subject, content, contentFile string
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Envía un correo directo (markdown)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := readContent(content, contentFile)
			if err != nil {
				return err
			}
			msg := api.Message{
				Recipients: validation.ParseEmails(to),
				CC:         validation.ParseEmails(cc),
				BCC:        validation.ParseEmails(bcc),
				Subject:    subject,
				Content:    body,
			}
			if len(msg.Recipients) == 0 {
				return fmt.Errorf("ingresá al menos un destinatario válido")
			}
			if msg.Subject == "" || msg.Content == "" {
				return fmt.Errorf("completá asunto y contenido")
			}
			return a.sendOutcome(a.client.SendEmail(cmd.Context(), msg))
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Destinatarios separados por coma")
	cmd.Flags().StringVar(&cc, "cc", "", "Copia")
	cmd.Flags().StringVar(&bcc, "bcc", "", "Copia oculta")
	cmd.Flags().StringVar(&subject, "subject", "", "Asunto")
	cmd.Flags().StringVar(&content, "content", "", "Cuerpo en markdown")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "Lee el cuerpo de un archivo")
	return cmd
}

func newSendTemplateCmd(a *app) *cobra.Command {
	var to, cc, bcc string
	var vars map[string]string
	cmd := &cobra.Command{
		Use:   "send-template <template-id>",
		Short: "Envía un correo a partir de una plantilla",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			msg := api.TemplateMessage{
				TemplateID: id,
				Recipients: validation.ParseEmails(to),
				CC:         validation.ParseEmails(cc),
				BCC:        validation.ParseEmails(bcc),
				Variables:  map[string]string{},
			}
			if len(msg.Recipients) == 0 {
				return fmt.Errorf("ingresá al menos un destinatario válido")
			}
			tpl, err := a.client.GetTemplate(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("no se pudo leer la plantilla: %s", api.MessageOf(err))
			}
			for _, name := range tpl.Variables {
				v, ok := vars[name]
				if !ok || v == "" {
					return fmt.Errorf("completá la variable %s (--var %s=...)", name, name)
				}
				msg.Variables[name] = v
			}
			return a.sendOutcome(a.client.SendFromTemplate(cmd.Context(), msg))
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Destinatarios separados por coma")
	cmd.Flags().StringVar(&cc, "cc", "", "Copia")
	cmd.Flags().StringVar(&bcc, "bcc", "", "Copia oculta")
	cmd.Flags().StringToStringVar(&vars, "var", nil, "Variables de la plantilla (nombre=valor)")
	return cmd
}
