package sync

import (
	"bufio"
	"encoding/json"
	"errors"
	"log"
	"net"
	"sync"
)

// Server accepts TCP connections carrying newline-delimited JSON. Lines
// that parse as a CatalogEvent are rebroadcast to every client; this is
// how the parser binaries feed events into the hub. Anything else is
// consumed and ignored, so plain subscribers can idle on the socket.
type Server struct {
	Addr string
	Hub  *Hub

	mu sync.Mutex
	ln net.Listener
}

func NewServer(addr string, hub *Hub) *Server {
	return &Server{Addr: addr, Hub: hub}
}

func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	log.Printf("[tcp-sync] listening on %s", s.Addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			continue
		}

		s.Hub.Add(conn)
		log.Printf("[tcp-sync] client connected: %s", conn.RemoteAddr())

		go func(c net.Conn) {
			defer func() {
				s.Hub.Remove(c)
				log.Printf("[tcp-sync] client disconnected: %s", c.RemoteAddr())
			}()

			sc := bufio.NewScanner(c)
			for sc.Scan() {
				var ev CatalogEvent
				if err := json.Unmarshal(sc.Bytes(), &ev); err != nil || ev.Type == "" {
					continue
				}
				log.Printf("[tcp-sync] %s film %d", ev.Type, ev.FilmID)
				s.Hub.BroadcastJSON(ev)
			}
		}(conn)
	}
}

func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}
