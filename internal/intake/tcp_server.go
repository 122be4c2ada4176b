package intake

import (
	"bufio"
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/your-username/rfc5424-conformance/internal/websocket"
)

// TCPServer accepts newline-delimited candidate messages and answers each
// line with its verdict, so an emitter under test gets judged live.
type TCPServer struct {
	addr     string
	recorder *Recorder
	wsHub    *websocket.Hub
	listener net.Listener
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewTCPServer creates a new TCP intake server
func NewTCPServer(addr string, recorder *Recorder, wsHub *websocket.Hub) *TCPServer {
	return &TCPServer{
		addr:     addr,
		recorder: recorder,
		wsHub:    wsHub,
		stopChan: make(chan struct{}),
	}
}

// Start starts the TCP server
func (s *TCPServer) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.listener = listener
	log.Info().Str("addr", s.addr).Msg("TCP candidate intake started")

	s.wg.Add(1)
	go s.acceptConnections()

	return nil
}

// acceptConnections accepts incoming TCP connections
func (s *TCPServer) acceptConnections() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopChan:
				return
			default:
				log.Error().Err(err).Msg("Failed to accept TCP connection")
				continue
			}
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// handleConnection handles a single TCP connection
func (s *TCPServer) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	clientAddr := conn.RemoteAddr().String()
	log.Info().Str("client", clientAddr).Msg("New TCP emitter connected")

	// Set read deadline for idle connections
	conn.SetReadDeadline(time.Now().Add(5 * time.Minute))

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 1024*64), 1024*1024) // 64KB buffer, 1MB max

	for scanner.Scan() {
		// Reset read deadline on each message
		conn.SetReadDeadline(time.Now().Add(5 * time.Minute))

		select {
		case <-s.stopChan:
			return
		default:
		}

		line := scanner.Text()
		if len(line) == 0 {
			continue
		}

		verdict := judge(line, clientAddr, s.recorder, s.wsHub)

		// Acknowledge each candidate; failed ones get the full verdict back
		if verdict.Compliant {
			conn.Write([]byte("OK\n"))
			continue
		}
		if payload, err := json.Marshal(verdict); err == nil {
			conn.Write(append(payload, '\n'))
		}
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Str("client", clientAddr).Msg("Error reading from TCP emitter")
	}

	log.Info().Str("client", clientAddr).Msg("TCP emitter disconnected")
}

// Stop gracefully shuts down the TCP server
func (s *TCPServer) Stop() error {
	close(s.stopChan)

	if s.listener != nil {
		s.listener.Close()
	}

	s.wg.Wait()
	return nil
}
