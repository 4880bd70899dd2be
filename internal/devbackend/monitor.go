package devbackend

import (
	"net/http"
	"runtime"
	"time"

	"github.com/dropDatabas3/quicknotify/internal/api"
)

const (
	defaultLogLines = 100
	maxDailyDays    = 90
)

// systemStatus reporta memoria del runtime de Go. No hay medición de CPU.
func (s *Server) systemStatus(w http.ResponseWriter, _ *http.Request) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	var out api.SystemStatus
	out.Status = "ok"
	out.Memory.UsedMB = mb(ms.HeapAlloc)
	out.Memory.TotalMB = mb(ms.Sys)
	if ms.Sys > 0 {
		out.Memory.Percent = float64(ms.HeapAlloc) / float64(ms.Sys) * 100
	}
	out.Process.MemoryMB = mb(ms.Sys)
	out.Process.UptimeSeconds = s.now().Sub(s.started).Seconds()
	writeJSON(w, http.StatusOK, out)
}

func mb(b uint64) float64 { return float64(b) / (1 << 20) }

func (s *Server) systemLogs(w http.ResponseWriter, r *http.Request) {
	level := r.URL.Query().Get("level")
	lines := queryInt(r, "lines", defaultLogLines)
	writeJSON(w, http.StatusOK, api.LogList{Logs: s.logs.Tail(level, lines)})
}

// dailyStats arma una fila por día (UTC), del más viejo al de hoy.
func (s *Server) dailyStats(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", api.DefaultDailyStatsDays)
	if days < 1 {
		days = 1
	}
	if days > maxDailyDays {
		days = maxDailyDays
	}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	out := api.DailyStats{Days: days, Stats: make([]api.DailyStat, 0, days)}
	for i := days - 1; i >= 0; i-- {
		from := today.AddDate(0, 0, -i)
		st := api.DailyStat{Date: from.Format("2006-01-02")}
		st.Total, st.Success, st.Failed = s.store.counts(from, from.AddDate(0, 0, 1))
		out.Stats = append(out.Stats, st)
	}
	writeJSON(w, http.StatusOK, out)
}
