package api

// ───────── Auth ─────────

type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthStatus es la respuesta de GET /auth/check.
type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

type LoginResult struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

type PasswordChange struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// MessageResult cubre las respuestas {"message": ...} (logout, update, delete).
type MessageResult struct {
	Message string `json:"message"`
}

// ───────── SMTP ─────────

// SMTPConfig viaja tal cual hacia/desde el backend. SenderPassword sólo se
// envía (el backend nunca lo devuelve).
type SMTPConfig struct {
	ID             int64     `json:"id,omitempty"`
	Server         string    `json:"smtp_server" validate:"required"`
	Port           int       `json:"smtp_port" validate:"required,min=1,max=65535"`
	SenderEmail    string    `json:"sender_email" validate:"required"`
	SenderPassword string    `json:"sender_password,omitempty" validate:"required"`
	UseTLS         bool      `json:"use_tls"`
	Timeout        int       `json:"timeout,omitempty"`
	RetryTimes     int       `json:"retry_times,omitempty"`
	UpdatedAt      Timestamp `json:"updated_at"`

	// Message viene sólo cuando todavía no hay configuración.
	Message string `json:"message,omitempty"`
}

// Configured reporta si el backend devolvió una configuración real.
func (c SMTPConfig) Configured() bool { return c.Server != "" }

// SMTPTestResult es la respuesta de POST /config/smtp/test.
type SMTPTestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ───────── Templates ─────────

type Template struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content,omitempty"`
	Variables []string  `json:"variables"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
	LastUsed  Timestamp `json:"last_used"`
}

// TemplateInput es el cuerpo de create/update. En update sólo viajan los
// campos no vacíos.
type TemplateInput struct {
	Name    string `json:"name,omitempty" validate:"required"`
	Subject string `json:"subject,omitempty" validate:"required"`
	Content string `json:"content,omitempty" validate:"required"`
}

type TemplateList struct {
	Templates []Template `json:"templates"`
	Total     int        `json:"total"`
	Page      int        `json:"page"`
	PerPage   int        `json:"per_page"`
}

type TemplateCreated struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// ───────── Sender ─────────

// Message es un envío directo.
type Message struct {
	Recipients   []string `json:"recipients"`
	CC           []string `json:"cc"`
	BCC          []string `json:"bcc"`
	Subject      string   `json:"subject"`
	Content      string   `json:"content"`
	TemplateName string   `json:"template_name,omitempty"`
}

// TemplateMessage es un envío a partir de una plantilla; las variables se
// sustituyen del lado del servidor.
type TemplateMessage struct {
	TemplateID int64             `json:"template_id"`
	Recipients []string          `json:"recipients"`
	Variables  map[string]string `json:"variables"`
	CC         []string          `json:"cc"`
	BCC        []string          `json:"bcc"`
}

type SendResult struct {
	Message  string  `json:"message"`
	Success  bool    `json:"success"`
	RecordID int64   `json:"record_id"`
	Duration float64 `json:"duration"`
}

// ───────── Records ─────────

const (
	StatusAll     = "all"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

type Record struct {
	ID           int64     `json:"id"`
	TemplateName string    `json:"template_name,omitempty"`
	Recipients   []string  `json:"recipients"`
	Subject      string    `json:"subject"`
	Status       string    `json:"status"`
	ErrorMsg     string    `json:"error_msg,omitempty"`
	CreatedAt    Timestamp `json:"created_at"`
	SentAt       Timestamp `json:"sent_at"`
	Duration     float64   `json:"duration,omitempty"`
}

type RecordList struct {
	Records []Record `json:"records"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	PerPage int      `json:"per_page"`
}

type Counts struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

type RecordStats struct {
	Today Counts `json:"today"`
	Total Counts `json:"total"`
}

// ───────── Monitor ─────────

type SystemStatus struct {
	Status     string  `json:"status,omitempty"`
	CPUPercent float64 `json:"cpu_percent"`
	Memory     struct {
		Percent float64 `json:"percent"`
		UsedMB  float64 `json:"used_mb,omitempty"`
		TotalMB float64 `json:"total_mb,omitempty"`
	} `json:"memory"`
	Process struct {
		MemoryMB      float64 `json:"memory_mb"`
		UptimeSeconds float64 `json:"uptime_seconds,omitempty"`
	} `json:"process"`
}

type LogList struct {
	Logs []string `json:"logs"`
}

type DailyStat struct {
	Date    string `json:"date"`
	Total   int    `json:"total"`
	Success int    `json:"success"`
	Failed  int    `json:"failed"`
}

type DailyStats struct {
	Days  int         `json:"days"`
	Stats []DailyStat `json:"stats"`
}
