/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package repo

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "hash/fnv"
    "time"

    "github.com/jackc/pgx/v5"
    "github.com/jackc/pgx/v5/pgxpool"
    "github.com/rs/zerolog"

    "github.com/Ebrudra/studio-sub000/internal/config"
    "github.com/Ebrudra/studio-sub000/internal/domain"
)

type DB struct {
    Pool *pgxpool.Pool
    log  zerolog.Logger
}

func MustOpen(ctx context.Context, cfg config.Config, log zerolog.Logger) *DB {
    pool, err := pgxpool.New(ctx, cfg.DBDSN)
    if err != nil { log.Fatal().Err(err).Msg("db connect failed") }
    ctx2, cancel := context.WithTimeout(ctx, 10*time.Second); defer cancel()
    if err := pool.Ping(ctx2); err != nil { log.Fatal().Err(err).Msg("db ping failed") }
    return &DB{Pool: pool, log: log}
}

func (d *DB) Close() { d.Pool.Close() }

// Repository stores each sprint as one JSONB document. The sprint owns its
// tickets and days exclusively, so whole-document read-merge-write matches
// the consistency model: one row, one writer at a time.
type Repository struct {
    db  *DB
    log zerolog.Logger
}

func NewRepository(d *DB, log zerolog.Logger) *Repository { return &Repository{db: d, log: log} }

func (r *Repository) EnsureSchema(ctx context.Context) error {
    const q = `
        CREATE TABLE IF NOT EXISTS sprints(
            id         text PRIMARY KEY,
            doc        jsonb NOT NULL,
            updated_at timestamptz NOT NULL DEFAULT now()
        );
        CREATE TABLE IF NOT EXISTS reports(
            id         bigserial PRIMARY KEY,
            sprint_id  text NOT NULL REFERENCES sprints(id) ON DELETE CASCADE,
            path       text NOT NULL,
            body       text NOT NULL,
            created_at timestamptz NOT NULL DEFAULT now()
        );`
    _, err := r.db.Pool.Exec(ctx, q)
    return err
}

func (r *Repository) GetSprints(ctx context.Context) ([]domain.Sprint, error) {
    rows, err := r.db.Pool.Query(ctx, `SELECT doc FROM sprints ORDER BY doc->>'startDate'`)
    if err != nil { return nil, err }
    defer rows.Close()
    var out []domain.Sprint
    for rows.Next() {
        var raw []byte
        if err := rows.Scan(&raw); err != nil { return nil, err }
        var sp domain.Sprint
        if err := json.Unmarshal(raw, &sp); err != nil { return nil, err }
        out = append(out, sp)
    }
    return out, rows.Err()
}

func (r *Repository) GetSprint(ctx context.Context, id string) (*domain.Sprint, error) {
    var raw []byte
    err := r.db.Pool.QueryRow(ctx, `SELECT doc FROM sprints WHERE id=$1`, id).Scan(&raw)
    if errors.Is(err, pgx.ErrNoRows) { return nil, fmt.Errorf("sprint %s: %w", id, domain.ErrNotFound) }
    if err != nil { return nil, err }
    var sp domain.Sprint
    if err := json.Unmarshal(raw, &sp); err != nil { return nil, err }
    return &sp, nil
}

func (r *Repository) AddSprint(ctx context.Context, sp domain.Sprint) (*domain.Sprint, error) {
    sp.LastUpdatedAt = time.Now().UTC()
    doc, err := json.Marshal(sp)
    if err != nil { return nil, err }
    _, err = r.db.Pool.Exec(ctx, `INSERT INTO sprints(id, doc, updated_at) VALUES($1,$2,$3)`, sp.ID, doc, sp.LastUpdatedAt)
    if err != nil { return nil, err }
    return &sp, nil
}

func (r *Repository) UpdateSprint(ctx context.Context, sp domain.Sprint) (*domain.Sprint, error) {
    sp.LastUpdatedAt = time.Now().UTC()
    doc, err := json.Marshal(sp)
    if err != nil { return nil, err }
    tag, err := r.db.Pool.Exec(ctx, `UPDATE sprints SET doc=$2, updated_at=$3 WHERE id=$1`, sp.ID, doc, sp.LastUpdatedAt)
    if err != nil { return nil, err }
    if tag.RowsAffected() == 0 { return nil, fmt.Errorf("sprint %s: %w", sp.ID, domain.ErrNotFound) }
    return &sp, nil
}

func (r *Repository) DeleteSprint(ctx context.Context, id string) error {
    tag, err := r.db.Pool.Exec(ctx, `DELETE FROM sprints WHERE id=$1`, id)
    if err != nil { return err }
    if tag.RowsAffected() == 0 { return fmt.Errorf("sprint %s: %w", id, domain.ErrNotFound) }
    return nil
}

// SaveReport stores the narrative text and records its path on the sprint
// document, returning the updated sprint.
func (r *Repository) SaveReport(ctx context.Context, sprintID, text string) (*domain.Sprint, string, error) {
    sp, err := r.GetSprint(ctx, sprintID)
    if err != nil { return nil, "", err }
    path := fmt.Sprintf("reports/%s/%s.md", sprintID, time.Now().UTC().Format("20060102-150405"))
    if _, err := r.db.Pool.Exec(ctx, `INSERT INTO reports(sprint_id, path, body) VALUES($1,$2,$3)`, sprintID, path, text); err != nil {
        return nil, "", err
    }
    sp.ReportFilePaths = append(sp.ReportFilePaths, path)
    sp2, err := r.UpdateSprint(ctx, *sp)
    if err != nil { return nil, "", err }
    return sp2, text, nil
}

type Report struct {
    Path      string    `json:"path"`
    Body      string    `json:"body"`
    CreatedAt time.Time `json:"createdAt"`
}

func (r *Repository) ListReports(ctx context.Context, sprintID string) ([]Report, error) {
    rows, err := r.db.Pool.Query(ctx, `SELECT path, body, created_at FROM reports WHERE sprint_id=$1 ORDER BY created_at DESC`, sprintID)
    if err != nil { return nil, err }
    defer rows.Close()
    var out []Report
    for rows.Next() {
        var rep Report
        if err := rows.Scan(&rep.Path, &rep.Body, &rep.CreatedAt); err != nil { return nil, err }
        out = append(out, rep)
    }
    return out, rows.Err()
}

// LockSprint serializes writers of a single sprint document. The engine
// always read-merges-writes the full ticket list, so two interleaved writers
// would silently drop one side's changes; the advisory lock makes callers
// queue instead.
func (r *Repository) LockSprint(ctx context.Context, id string) error {
    _, err := r.db.Pool.Exec(ctx, `SELECT pg_advisory_lock($1)`, sprintLockKey(id))
    return err
}

func (r *Repository) UnlockSprint(ctx context.Context, id string) error {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, `SELECT pg_advisory_unlock($1)`, sprintLockKey(id)).Scan(&ok)
    if err == nil && !ok { return errors.New("advisory unlock returned false") }
    return err
}

func sprintLockKey(id string) int64 {
    h := fnv.New64a()
    _, _ = h.Write([]byte("sprint:" + id))
    return int64(h.Sum64())
}

// TryAdvisoryLock guards singleton jobs (the report cron) across instances.
func (r *Repository) TryAdvisoryLock(ctx context.Context, key int64) (bool, error) {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, key).Scan(&ok)
    return ok, err
}

func (r *Repository) AdvisoryUnlock(ctx context.Context, key int64) error {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, `SELECT pg_advisory_unlock($1)`, key).Scan(&ok)
    if !ok && err == nil { return errors.New("advisory unlock returned false") }
    return err
}
