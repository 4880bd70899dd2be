package console

import (
	"fmt"
	"sort"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification es un aviso transitorio (toast).
type Notification struct {
	Seq     uint64
	Level   Level
	Message string
	At      time.Time
}

// Notifier recibe los avisos que genera el Controller.
type Notifier interface {
	Notify(level Level, msg string)
}

// Notifications guarda los avisos con TTL en un go-cache: vencen solos y
// Active devuelve sólo los vigentes. Cada aviso nuevo se reenvía además al
// sink (el renderer de terminal lo imprime).
type Notifications struct {
	c    *gocache.Cache
	ttl  time.Duration
	sink func(Notification)

	mu  sync.Mutex
	seq uint64
	now func() time.Time
}

// NewNotifications crea el store. ttl <= 0 usa 3s.
func NewNotifications(ttl time.Duration, sink func(Notification)) *Notifications {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	return &Notifications{
		c:    gocache.New(ttl, time.Minute),
		ttl:  ttl,
		sink: sink,
		now:  time.Now,
	}
}

func (n *Notifications) Notify(level Level, msg string) {
	n.mu.Lock()
	n.seq++
	nt := Notification{Seq: n.seq, Level: level, Message: msg, At: n.now()}
	n.mu.Unlock()

	n.c.Set(fmt.Sprintf("%020d", nt.Seq), nt, n.ttl)
	if n.sink != nil {
		n.sink(nt)
	}
}

// Active devuelve los avisos no vencidos, del más viejo al más nuevo.
func (n *Notifications) Active() []Notification {
	items := n.c.Items()
	out := make([]Notification, 0, len(items))
	for _, it := range items {
		if nt, ok := it.Object.(Notification); ok {
			out = append(out, nt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// Last devuelve el aviso vigente más reciente.
func (n *Notifications) Last() (Notification, bool) {
	act := n.Active()
	if len(act) == 0 {
		return Notification{}, false
	}
	return act[len(act)-1], true
}

// Dismiss borra un aviso antes de que venza.
func (n *Notifications) Dismiss(seq uint64) {
	n.c.Delete(fmt.Sprintf("%020d", seq))
}
