package sync

import (
	"encoding/json"
	"log"
	"net"
	"time"
)

// Publisher pushes catalog events to a running api-server's sync socket.
// It dials per event and never fails the caller: a parser run works the
// same whether or not anyone is listening.
type Publisher struct {
	Addr string
}

func NewPublisher(addr string) *Publisher {
	return &Publisher{Addr: addr}
}

func (p *Publisher) FilmCommitted(filmID int64, name string) {
	if p.Addr == "" {
		return
	}

	ev := CatalogEvent{
		Type:   EventFilmCommitted,
		FilmID: filmID,
		Name:   name,
		At:     time.Now().UTC(),
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}

	conn, err := net.DialTimeout("tcp", p.Addr, 2*time.Second)
	if err != nil {
		log.Printf("[sync] publish skipped: %v", err)
		return
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if _, err := conn.Write(append(b, '\n')); err != nil {
		log.Printf("[sync] publish failed: %v", err)
	}
}
