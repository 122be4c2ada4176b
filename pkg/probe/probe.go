package probe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds the probe configuration
type Config struct {
	// Endpoint is the harness batch-validation URL
	Endpoint string
	// BatchSize is the number of candidates to batch before shipping
	BatchSize int
	// FlushInterval is how often to ship buffered candidates
	FlushInterval time.Duration
	// MaxRetries is the maximum number of retries for failed sends
	MaxRetries int
	// Source name the verdicts get attributed to
	Source string
	// Token is an optional bearer token for an auth-protected harness
	Token string
	// HTTPTimeout for requests
	HTTPTimeout time.Duration
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Endpoint:      "http://localhost:20002/api/v1/validate/batch",
		BatchSize:     100,
		FlushInterval: 5 * time.Second,
		MaxRetries:    3,
		Source:        "probe",
		HTTPTimeout:   10 * time.Second,
	}
}

// Violation mirrors the harness violation record.
type Violation struct {
	Rule     string `json:"rule"`
	Field    string `json:"field"`
	Severity string `json:"severity"`
	Position int    `json:"position,omitempty"`
	Detail   string `json:"detail"`
}

// Verdict mirrors the harness verdict for one shipped candidate.
type Verdict struct {
	ID         string      `json:"id"`
	Source     string      `json:"source"`
	Line       int         `json:"line,omitempty"`
	Message    string      `json:"message"`
	Compliant  bool        `json:"compliant"`
	Violations []Violation `json:"violations,omitempty"`
	CheckedAt  time.Time   `json:"checked_at"`
}

// Probe buffers candidate messages emitted by the component under test and
// ships them to the harness for judgement. Non-compliant verdicts are
// handed to the OnVerdict callback, so a test suite can fail on them.
type Probe struct {
	config    *Config
	buffer    []string
	bufferMu  sync.Mutex
	client    *http.Client
	stopChan  chan struct{}
	flushChan chan struct{}
	wg        sync.WaitGroup

	// OnVerdict, when set, receives every non-compliant verdict.
	OnVerdict func(Verdict)
}

// New creates a new conformance probe
func New(config *Config) *Probe {
	if config == nil {
		config = DefaultConfig()
	}

	return &Probe{
		config: config,
		buffer: make([]string, 0, config.BatchSize),
		client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
		stopChan:  make(chan struct{}),
		flushChan: make(chan struct{}, 1),
	}
}

// Start starts the probe
func (p *Probe) Start() {
	p.wg.Add(1)
	go p.run()
}

// Stop gracefully stops the probe, shipping what remains in the buffer.
func (p *Probe) Stop() {
	close(p.stopChan)
	p.wg.Wait()
}

// Submit queues one candidate message for validation.
func (p *Probe) Submit(candidate string) {
	p.bufferMu.Lock()
	p.buffer = append(p.buffer, candidate)
	shouldFlush := len(p.buffer) >= p.config.BatchSize
	p.bufferMu.Unlock()

	if shouldFlush {
		select {
		case p.flushChan <- struct{}{}:
		default:
		}
	}
}

// run is the main probe loop
func (p *Probe) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			p.flush()
			return
		case <-ticker.C:
			p.flush()
		case <-p.flushChan:
			p.flush()
		}
	}
}

// flush ships the buffered candidates
func (p *Probe) flush() {
	p.bufferMu.Lock()
	if len(p.buffer) == 0 {
		p.bufferMu.Unlock()
		return
	}

	// Copy and reset buffer
	batch := make([]string, len(p.buffer))
	copy(batch, p.buffer)
	p.buffer = p.buffer[:0]
	p.bufferMu.Unlock()

	// Send with retries
	for i := 0; i < p.config.MaxRetries; i++ {
		if err := p.send(batch); err != nil {
			log.Error().Err(err).Int("attempt", i+1).Msg("Failed to ship candidates")
			if i < p.config.MaxRetries-1 {
				time.Sleep(time.Duration(i+1) * time.Second)
			}
			continue
		}
		return
	}

	log.Error().Int("batch_size", len(batch)).Msg("Failed to ship candidates after all retries")
}

// send ships a batch of candidates and dispatches the verdicts
func (p *Probe) send(batch []string) error {
	request := struct {
		Messages      []string `json:"messages"`
		ExpectedCount int      `json:"expected_count"`
		Source        string   `json:"source"`
	}{
		Messages:      batch,
		ExpectedCount: len(batch),
		Source:        p.config.Source,
	}

	data, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal candidates: %w", err)
	}

	req, err := http.NewRequest("POST", p.config.Endpoint, bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if p.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.config.Token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("harness returned status %d", resp.StatusCode)
	}

	var response struct {
		Verdicts []Verdict `json:"verdicts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode verdicts: %w", err)
	}

	if p.OnVerdict != nil {
		for _, verdict := range response.Verdicts {
			if !verdict.Compliant {
				p.OnVerdict(verdict)
			}
		}
	}

	return nil
}
