package repository

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"

	"github.com/joseph-ayodele/hotel-rates/constants"
	"github.com/joseph-ayodele/hotel-rates/internal/common"
	"github.com/joseph-ayodele/hotel-rates/internal/entity"
	"github.com/joseph-ayodele/hotel-rates/internal/utils"
)

// SupabaseConfig holds the PostgREST endpoint and service key.
type SupabaseConfig struct {
	URL     string
	Key     string
	Table   string // probed by Ping
	Timeout time.Duration
}

// SupabaseSink inserts rows through Supabase's REST API.
type SupabaseSink struct {
	cfg    SupabaseConfig
	client *postgrest.Client
	logger *slog.Logger
}

func NewSupabaseSink(cfg SupabaseConfig, logger *slog.Logger) *SupabaseSink {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Table == "" {
		cfg.Table = constants.DefaultTable
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")

	// a URL that does not parse leaves the client without a transport; execute reports it
	client := postgrest.NewClient(cfg.URL+"/rest/v1", "", nil)
	if client.ClientError == nil {
		client.SetApiKey(cfg.Key).SetAuthToken(cfg.Key)
		client.Transport.Parent = utils.NewTransport(cfg.Timeout)
	}
	return &SupabaseSink{cfg: cfg, client: client, logger: logger}
}

func (s *SupabaseSink) Insert(ctx context.Context, table string, rec entity.HotelRate) error {
	if err := ValidateRecord(rec); err != nil {
		return common.PersistenceError("record failed validation", err)
	}

	start := time.Now()
	err := s.execute(ctx, s.client.From(table).Insert(rec.Columns(), false, "", "minimal", ""))
	if err != nil {
		s.logger.Error("repo.supabase.insert_error",
			"run_id", common.RunIDFromContext(ctx),
			"table", table,
			"error", utils.Truncate(err.Error(), 512),
		)
		return common.PersistenceError("supabase insert into "+table, err)
	}
	s.logger.Info("repo.insert.ok",
		"run_id", common.RunIDFromContext(ctx),
		"table", table,
		"id", rec.ID.String(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Ping reads at most one id from the configured table.
func (s *SupabaseSink) Ping(ctx context.Context) error {
	q := s.client.From(s.cfg.Table).Select("id", "", false).Limit(1, "")
	if err := s.execute(ctx, q); err != nil {
		return common.PersistenceError("supabase ping failed", err)
	}
	return nil
}

// execute runs q bounded by ctx and the configured timeout. The client takes no context,
// so an abandoned request finishes in the background against the transport's own timeouts.
func (s *SupabaseSink) execute(ctx context.Context, q *postgrest.FilterBuilder) error {
	// a bad base URL or an unencodable body is reported here, not by Execute
	if s.client.ClientError != nil {
		return s.client.ClientError
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, _, err := q.Execute()
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
