package devbackend

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

type user struct {
	ID       int64
	Username string
	Hash     []byte
}

type smtpSettings struct {
	Server      string
	Port        int
	SenderEmail string
	// contraseña cifrada con secretBox
	Password   string
	UseTLS     bool
	Timeout    int
	RetryTimes int
	UpdatedAt  time.Time
}

type template struct {
	ID        int64
	Name      string
	Subject   string
	Content   string
	Variables []string
	CreatedAt time.Time
	UpdatedAt time.Time
	LastUsed  time.Time
}

type record struct {
	ID           int64
	TemplateName string
	Recipients   []string
	CC           []string
	BCC          []string
	Subject      string
	Content      string
	Status       string
	ErrorMsg     string
	Variables    map[string]string
	CreatedAt    time.Time
	SentAt       time.Time
	Duration     float64
}

// store es la "base de datos" del dev backend: todo en memoria, protegido
// por un único mutex. Las lecturas devuelven copias.
type store struct {
	mu sync.RWMutex

	users     map[string]*user
	smtp      *smtpSettings
	templates map[int64]*template
	records   []*record

	nextUser, nextTemplate, nextRecord int64
}

func newStore() *store {
	return &store{
		users:     map[string]*user{},
		templates: map[int64]*template{},
	}
}

// ───────── Usuarios ─────────

func (s *store) createUser(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; ok {
		return errDuplicate
	}
	s.nextUser++
	s.users[username] = &user{ID: s.nextUser, Username: username, Hash: hash}
	return nil
}

func (s *store) checkPassword(username, password string) bool {
	s.mu.RLock()
	u, ok := s.users[username]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(u.Hash, []byte(password)) == nil
}

func (s *store) setPassword(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return errNotFound
	}
	u.Hash = hash
	return nil
}

// ───────── SMTP ─────────

func (s *store) smtpSettings() (smtpSettings, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.smtp == nil {
		return smtpSettings{}, false
	}
	return *s.smtp, true
}

func (s *store) saveSMTP(cfg smtpSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.smtp = &cfg
}

// ───────── Plantillas ─────────

func (s *store) nameTaken(name string, except int64) bool {
	for _, t := range s.templates {
		if t.Name == name && t.ID != except {
			return true
		}
	}
	return false
}

func (s *store) createTemplate(t template) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTaken(t.Name, 0) {
		return 0, errDuplicate
	}
	s.nextTemplate++
	t.ID = s.nextTemplate
	s.templates[t.ID] = &t
	return t.ID, nil
}

func (s *store) template(id int64) (template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[id]
	if !ok {
		return template{}, errNotFound
	}
	return *t, nil
}

// updateTemplate aplica fn sobre una copia y la guarda si no choca el nombre.
func (s *store) updateTemplate(id int64, fn func(t *template)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.templates[id]
	if !ok {
		return errNotFound
	}
	next := *cur
	fn(&next)
	if s.nameTaken(next.Name, id) {
		return errDuplicate
	}
	s.templates[id] = &next
	return nil
}

func (s *store) deleteTemplate(id int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok {
		return "", errNotFound
	}
	delete(s.templates, id)
	return t.Name, nil
}

// listTemplates filtra por nombre (sin distinguir mayúsculas), ordena por id
// y pagina. Devuelve la página y el total filtrado.
func (s *store) listTemplates(search string, page, perPage int) ([]template, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search = strings.ToLower(search)
	all := make([]template, 0, len(s.templates))
	for _, t := range s.templates {
		if search == "" || strings.Contains(strings.ToLower(t.Name), search) {
			all = append(all, *t)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, page, perPage), len(all)
}

// ───────── Registros ─────────

func (s *store) addRecord(r record) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRecord++
	r.ID = s.nextRecord
	s.records = append(s.records, &r)
	return r.ID
}

func (s *store) record(id int64) (record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return *r, nil
		}
	}
	return record{}, errNotFound
}

func (s *store) updateRecord(id int64, fn func(r *record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			fn(r)
			return nil
		}
	}
	return errNotFound
}

// listRecords devuelve los más nuevos primero. status "" o "all" no filtra.
func (s *store) listRecords(status string, page, perPage int) ([]record, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]record, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		r := s.records[i]
		if status == "" || status == "all" || r.Status == status {
			out = append(out, *r)
		}
	}
	return paginate(out, page, perPage), len(out)
}

// counts cuenta registros creados en [from, to); from cero = desde siempre.
func (s *store) counts(from, to time.Time) (total, success, failed int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if !from.IsZero() && (r.CreatedAt.Before(from) || !r.CreatedAt.Before(to)) {
			continue
		}
		total++
		switch r.Status {
		case "success":
			success++
		case "failed":
			failed++
		}
	}
	return
}

func paginate[T any](all []T, page, perPage int) []T {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	start := (page - 1) * perPage
	if start >= len(all) {
		return []T{}
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
