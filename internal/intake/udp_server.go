package intake

import (
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/your-username/rfc5424-conformance/internal/websocket"
)

// UDPServer receives candidate messages as datagrams, one candidate per
// packet, the way syslog emitters usually send them. UDP gives no channel
// to answer on; verdicts flow to the recorder and the stream only.
type UDPServer struct {
	addr     string
	recorder *Recorder
	wsHub    *websocket.Hub
	conn     net.PacketConn
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewUDPServer creates a new UDP intake server
func NewUDPServer(addr string, recorder *Recorder, wsHub *websocket.Hub) *UDPServer {
	return &UDPServer{
		addr:     addr,
		recorder: recorder,
		wsHub:    wsHub,
		stopChan: make(chan struct{}),
	}
}

// Start starts the UDP server
func (s *UDPServer) Start() error {
	conn, err := net.ListenPacket("udp", s.addr)
	if err != nil {
		return err
	}

	s.conn = conn
	log.Info().Str("addr", s.addr).Msg("UDP candidate intake started")

	s.wg.Add(1)
	go s.receiveMessages()

	return nil
}

// receiveMessages receives and validates candidate messages
func (s *UDPServer) receiveMessages() {
	defer s.wg.Done()

	buffer := make([]byte, 65536) // 64KB buffer

	for {
		select {
		case <-s.stopChan:
			return
		default:
		}

		// Set read deadline
		s.conn.SetReadDeadline(time.Now().Add(1 * time.Second))

		n, addr, err := s.conn.ReadFrom(buffer)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			log.Error().Err(err).Msg("Error reading candidate datagram")
			continue
		}

		judge(string(buffer[:n]), addr.String(), s.recorder, s.wsHub)
	}
}

// Stop gracefully shuts down the UDP server
func (s *UDPServer) Stop() error {
	close(s.stopChan)

	if s.conn != nil {
		s.conn.Close()
	}

	s.wg.Wait()
	return nil
}
