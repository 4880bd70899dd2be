package console

import (
	"context"

	"github.com/dropDatabas3/quicknotify/internal/api"
	"github.com/dropDatabas3/quicknotify/internal/observability/logger"
)

// loaders: una función por página. Cada una hace todos sus fetch, y ante
// cualquier falla loguea, avisa y deja la sección en la vista "sin datos".
func (c *Controller) loaders() map[Page]func(context.Context) {
	return map[Page]func(context.Context){
		PageDashboard: c.loadDashboard,
		PageConfig:    c.loadConfig,
		PageTemplate:  c.loadTemplates,
		PageSender:    c.loadSender,
		PageRecords:   c.loadRecords,
		PageMonitor:   c.loadMonitor,
	}
}

// loaderFailed devuelve false si fue un 401: el hook ya mostró el login y
// no hay sección que vaciar.
func (c *Controller) loaderFailed(p Page, what string, err error) bool {
	if api.IsUnauthorized(err) {
		return false
	}
	c.log.Error("loader falló", logger.Page(string(p)), logger.Err(err))
	c.notify.Notify(LevelError, what+": "+api.MessageOf(err))
	return true
}

func (c *Controller) loadDashboard(ctx context.Context) {
	st, err := c.backend.GetRecordStats(ctx)
	if err != nil {
		if c.loaderFailed(PageDashboard, "no se pudieron cargar las estadísticas", err) {
			c.render.Render(DashboardView{})
		}
		return
	}
	c.render.Render(DashboardOf(st))
}

func (c *Controller) loadConfig(ctx context.Context) {
	cfg, err := c.backend.GetSMTPConfig(ctx)
	if err != nil {
		if c.loaderFailed(PageConfig, "no se pudo cargar la configuración SMTP", err) {
			c.render.Render(ConfigView{})
		}
		return
	}
	c.render.Render(ConfigOf(cfg))
}

func (c *Controller) loadTemplates(ctx context.Context) {
	list, err := c.backend.ListTemplates(ctx, 1, api.DefaultTemplatesPerPage, c.state.TemplateSearch)
	if err != nil {
		if c.loaderFailed(PageTemplate, "no se pudieron cargar las plantillas", err) {
			c.render.Render(TemplatesView{})
		}
		return
	}
	c.render.Render(TemplatesOf(list))
}

// loadSender siempre recarga el selector, aunque el modo sea directo.
func (c *Controller) loadSender(ctx context.Context) {
	if c.reloadSelector(ctx) {
		c.renderSender()
	}
}

func (c *Controller) loadRecords(ctx context.Context) {
	list, err := c.backend.ListRecords(ctx, 1, api.DefaultRecordsPerPage, c.state.RecordsFilter)
	if err != nil {
		if c.loaderFailed(PageRecords, "no se pudieron cargar los registros", err) {
			c.render.Render(RecordsOf(nil, c.state.RecordsFilter))
		}
		return
	}
	c.render.Render(RecordsOf(list, c.state.RecordsFilter))
}

// loadMonitor encadena estado, logs y estadísticas diarias en ese orden; si
// algún paso falla los siguientes no se piden.
func (c *Controller) loadMonitor(ctx context.Context) {
	st, err := c.backend.GetSystemStatus(ctx)
	if err != nil {
		if c.loaderFailed(PageMonitor, "no se pudo cargar el estado del sistema", err) {
			c.render.Render(MonitorView{})
		}
		return
	}
	logs, err := c.backend.GetSystemLogs(ctx, c.opts.LogLevel, c.opts.LogLines)
	if err != nil {
		if c.loaderFailed(PageMonitor, "no se pudieron cargar los logs", err) {
			c.render.Render(MonitorView{})
		}
		return
	}
	daily, err := c.backend.GetDailyStats(ctx, c.opts.DailyDays)
	if err != nil {
		if c.loaderFailed(PageMonitor, "no se pudieron cargar las estadísticas diarias", err) {
			c.render.Render(MonitorView{})
		}
		return
	}
	c.render.Render(MonitorOf(st, logs, daily))
}
