package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/rs/zerolog/log"

	"github.com/your-username/rfc5424-conformance/internal/config"
	"github.com/your-username/rfc5424-conformance/internal/models"
	"github.com/your-username/rfc5424-conformance/internal/rfc5424"
)

// Store persists verdicts to ClickHouse so conformance runs can be
// inspected after the fact.
type Store struct {
	conn driver.Conn
}

const verdictsSchema = `
CREATE TABLE IF NOT EXISTS verdicts (
	id String,
	checked_at DateTime64(3),
	source String,
	line Int32,
	message String,
	compliant Bool,
	violations String,
	INDEX idx_source source TYPE bloom_filter GRANULARITY 1,
	INDEX idx_compliant compliant TYPE set(2) GRANULARITY 1
) ENGINE = MergeTree()
PARTITION BY toYYYYMMDD(checked_at)
ORDER BY (source, checked_at)
TTL toDateTime(checked_at) + INTERVAL 30 DAY
SETTINGS index_granularity = 8192
`

func New(cfg config.DatabaseConfig) (*Store, error) {
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	log.Info().Str("addr", addr).Str("database", cfg.Database).Msg("Connecting to ClickHouse")

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout: 5 * time.Second,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open ClickHouse connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach ClickHouse: %w", err)
	}

	if err := conn.Exec(ctx, verdictsSchema); err != nil {
		return nil, fmt.Errorf("failed to create verdicts table: %w", err)
	}

	log.Info().Msg("Connected to ClickHouse, verdict schema ready")
	return &Store{conn: conn}, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) Health(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// InsertVerdicts writes a batch of verdicts in one native-protocol insert.
func (s *Store) InsertVerdicts(ctx context.Context, verdicts []models.Verdict) error {
	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO verdicts")
	if err != nil {
		return fmt.Errorf("failed to prepare verdict batch: %w", err)
	}

	for _, v := range verdicts {
		violations, err := json.Marshal(v.Violations)
		if err != nil {
			return fmt.Errorf("failed to encode violations: %w", err)
		}
		if err := batch.Append(
			v.ID,
			v.CheckedAt,
			v.Source,
			int32(v.Line),
			v.Message,
			v.Compliant,
			string(violations),
		); err != nil {
			return fmt.Errorf("failed to append verdict: %w", err)
		}
	}

	return batch.Send()
}

// RecentVerdicts returns the latest verdicts, newest first. When
// nonCompliantOnly is set only failed candidates are returned.
func (s *Store) RecentVerdicts(ctx context.Context, limit int, nonCompliantOnly bool) ([]models.Verdict, error) {
	query := `
		SELECT id, checked_at, source, line, message, compliant, violations
		FROM verdicts`
	if nonCompliantOnly {
		query += ` WHERE compliant = false`
	}
	query += ` ORDER BY checked_at DESC LIMIT ?`

	rows, err := s.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query verdicts: %w", err)
	}
	defer rows.Close()

	var verdicts []models.Verdict
	for rows.Next() {
		var (
			v          models.Verdict
			line       int32
			violations string
		)
		if err := rows.Scan(&v.ID, &v.CheckedAt, &v.Source, &line, &v.Message, &v.Compliant, &violations); err != nil {
			return nil, fmt.Errorf("failed to scan verdict row: %w", err)
		}
		v.Line = int(line)
		if violations != "" && violations != "null" {
			if err := json.Unmarshal([]byte(violations), &v.Violations); err != nil {
				log.Warn().Err(err).Str("id", v.ID).Msg("Skipping malformed violations payload")
				v.Violations = []rfc5424.Violation{}
			}
		}
		verdicts = append(verdicts, v)
	}

	return verdicts, rows.Err()
}
