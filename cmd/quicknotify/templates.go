package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/quicknotify/internal/api"
	"github.com/dropDatabas3/quicknotify/internal/console"
	"github.com/dropDatabas3/quicknotify/internal/validation"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id inválido: %q", s)
	}
	return id, nil
}

// readContent: --content-file gana sobre --content.
func readContent(content, file string) (string, error) {
	if file == "" {
		return content, nil
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func newTemplateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "template", Short: "Plantillas de correo"}

	var page, perPage int
	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "Lista plantillas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.client.ListTemplates(cmd.Context(), page, perPage, search)
			if err != nil {
				return fmt.Errorf("no se pudieron listar las plantillas: %s", api.MessageOf(err))
			}
			return a.emit(out, console.TemplatesOf(out))
		},
	}
	list.Flags().IntVar(&page, "page", 1, "Página")
	list.Flags().IntVar(&perPage, "per-page", api.DefaultTemplatesPerPage, "Plantillas por página")
	list.Flags().StringVar(&search, "search", "", "Filtra por nombre")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Muestra una plantilla",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			tpl, err := a.client.GetTemplate(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("no se pudo leer la plantilla: %s", api.MessageOf(err))
			}
			return a.emit(tpl, console.EditorOf(console.EditorState{Open: true, EditingID: id}, tpl))
		},
	}

	var in api.TemplateInput
	var contentFile string
	create := &cobra.Command{
		Use:   "create",
		Short: "Crea una plantilla",
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := readContent(in.Content, contentFile)
			if err != nil {
				return err
			}
			body := api.TemplateInput{Name: in.Name, Subject: in.Subject, Content: content}
			if errs := validation.Struct(body); len(errs) > 0 {
				return fmt.Errorf("faltan campos: %s", validation.Fields(errs))
			}
			res, err := a.client.CreateTemplate(cmd.Context(), body)
			if err != nil {
				return fmt.Errorf("no se pudo crear la plantilla: %s", api.MessageOf(err))
			}
			return a.emitMessage(res, console.LevelSuccess, fmt.Sprintf("%s (id %d)", res.Message, res.ID))
		},
	}
	templateFlags(create, &in, &contentFile)

	var upd api.TemplateInput
	var updFile string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Actualiza una plantilla; sólo viajan los campos indicados",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			content, err := readContent(upd.Content, updFile)
			if err != nil {
				return err
			}
			body := api.TemplateInput{Name: upd.Name, Subject: upd.Subject, Content: content}
			if body == (api.TemplateInput{}) {
				return fmt.Errorf("nada para actualizar: usá --name, --subject o --content")
			}
			res, err := a.client.UpdateTemplate(cmd.Context(), id, body)
			if err != nil {
				return fmt.Errorf("no se pudo actualizar la plantilla: %s", api.MessageOf(err))
			}
			return a.emitMessage(res, console.LevelSuccess, res.Message)
		},
	}
	templateFlags(update, &upd, &updFile)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Borra una plantilla",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := a.client.DeleteTemplate(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("no se pudo borrar la plantilla: %s", api.MessageOf(err))
			}
			return a.emitMessage(res, console.LevelSuccess, res.Message)
		},
	}

	cmd.AddCommand(list, get, create, update, del)
	return cmd
}

func templateFlags(cmd *cobra.Command, in *api.TemplateInput, file *string) {
	cmd.Flags().StringVar(&in.Name, "name", "", "Nombre único")
	cmd.Flags().StringVar(&in.Subject, "subject", "", "Asunto (admite {{variables}})")
	cmd.Flags().StringVar(&in.Content, "content", "", "Cuerpo en markdown")
	cmd.Flags().StringVar(file, "content-file", "", "Lee el cuerpo de un archivo")
}
