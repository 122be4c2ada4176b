package intake

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/your-username/rfc5424-conformance/internal/models"
	"github.com/your-username/rfc5424-conformance/internal/store"
)

// Recorder batches verdicts for efficient writes to the store and keeps
// running totals for the current harness session. The store is optional;
// without one the recorder only counts.
type Recorder struct {
	db            *store.Store
	batchSize     int
	flushInterval time.Duration
	buffer        []models.Verdict
	bufferMu      sync.Mutex
	flushChan     chan struct{}
	stopChan      chan struct{}
	wg            sync.WaitGroup

	statsMu   sync.Mutex
	checked   int64
	compliant int64
}

// Stats is a snapshot of the recorder's session totals.
type Stats struct {
	Checked   int64 `json:"checked"`
	Compliant int64 `json:"compliant"`
}

// NewRecorder creates a new verdict recorder. db may be nil.
func NewRecorder(db *store.Store, batchSize int, flushInterval time.Duration) *Recorder {
	r := &Recorder{
		db:            db,
		batchSize:     batchSize,
		flushInterval: flushInterval,
		buffer:        make([]models.Verdict, 0, batchSize),
		flushChan:     make(chan struct{}, 1),
		stopChan:      make(chan struct{}),
	}

	r.wg.Add(1)
	go r.run()

	return r
}

// Record adds a verdict to the batch and updates session totals.
func (r *Recorder) Record(verdict models.Verdict) {
	r.statsMu.Lock()
	r.checked++
	if verdict.Compliant {
		r.compliant++
	}
	r.statsMu.Unlock()

	if r.db == nil {
		return
	}

	r.bufferMu.Lock()
	r.buffer = append(r.buffer, verdict)
	shouldFlush := len(r.buffer) >= r.batchSize
	r.bufferMu.Unlock()

	if shouldFlush {
		select {
		case r.flushChan <- struct{}{}:
		default:
		}
	}
}

// Stats returns the session totals so far.
func (r *Recorder) Stats() Stats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	return Stats{Checked: r.checked, Compliant: r.compliant}
}

// run is the main processing loop
func (r *Recorder) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			r.flush()
			return
		case <-ticker.C:
			r.flush()
		case <-r.flushChan:
			r.flush()
		}
	}
}

// flush writes the current batch to the store
func (r *Recorder) flush() {
	if r.db == nil {
		return
	}

	r.bufferMu.Lock()
	if len(r.buffer) == 0 {
		r.bufferMu.Unlock()
		return
	}

	// Copy buffer and reset
	batch := make([]models.Verdict, len(r.buffer))
	copy(batch, r.buffer)
	r.buffer = r.buffer[:0]
	r.bufferMu.Unlock()

	// Write batch with retries
	ctx := context.Background()
	maxRetries := 3
	backoff := time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.db.InsertVerdicts(ctx, batch); err != nil {
			log.Error().Err(err).Int("attempt", i+1).Int("batch_size", len(batch)).Msg("Failed to write verdict batch")
			if i < maxRetries-1 {
				time.Sleep(backoff)
				backoff *= 2
			}
			continue
		}
		log.Debug().Int("batch_size", len(batch)).Msg("Wrote verdict batch")
		return
	}

	log.Error().Int("batch_size", len(batch)).Msg("Failed to write verdict batch after all retries")
}

// Stop gracefully shuts down the recorder, flushing what remains.
func (r *Recorder) Stop() {
	close(r.stopChan)
	r.wg.Wait()
}
