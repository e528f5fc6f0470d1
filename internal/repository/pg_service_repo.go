package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/worshipops/rosterd/internal/domain"
)

type pgServiceRepository struct {
	pool *pgxpool.Pool
}

// NewPgServiceRepository returns a ServiceRepository backed by PostgreSQL.
func NewPgServiceRepository(pool *pgxpool.Pool) ServiceRepository {
	return &pgServiceRepository{pool: pool}
}

func (r *pgServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx, `
		INSERT INTO services (id, service_date, practice_date, location, created_at)
		VALUES ($1,$2,$3,$4,$5)`,
		s.ID, s.ServiceDate, s.PracticeDate, s.Location, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}

	if err := insertAssignments(ctx, tx, s.ID, s.Assignments); err != nil {
		return err
	}
	if err := insertSongs(ctx, tx, s.ID, s.Songs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *pgServiceRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, service_date, practice_date, location, created_at
		FROM services WHERE id = $1`, id)

	var s domain.Service
	err := row.Scan(&s.ID, &s.ServiceDate, &s.PracticeDate, &s.Location, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}

	if err := r.loadAssignments(ctx, &s); err != nil {
		return nil, err
	}
	if err := r.loadSongs(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *pgServiceRepository) ListAll(ctx context.Context) ([]*domain.Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, service_date, practice_date, location, created_at
		FROM services ORDER BY service_date NULLS LAST`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var services []*domain.Service
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.ServiceDate, &s.PracticeDate, &s.Location, &s.CreatedAt); err != nil {
			return nil, err
		}
		services = append(services, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, s := range services {
		if err := r.loadAssignments(ctx, s); err != nil {
			return nil, err
		}
		if err := r.loadSongs(ctx, s); err != nil {
			return nil, err
		}
	}
	return services, nil
}

// UpdateAssignments replaces the full assignment set for a service in one
// transaction. Delete-and-reinsert keeps the join tables an exact mirror
// of the snapshot, matching the set semantics the differ relies on.
func (r *pgServiceRepository) UpdateAssignments(ctx context.Context, serviceID string, set domain.AssignmentSet) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM services WHERE id = $1)`, serviceID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check service: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM service_directors WHERE service_id = $1`, serviceID); err != nil {
		return fmt.Errorf("clear directors: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM service_musicians WHERE service_id = $1`, serviceID); err != nil {
		return fmt.Errorf("clear musicians: %w", err)
	}

	if err := insertAssignments(ctx, tx, serviceID, set); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ReplaceSongs swaps the song list in one transaction, same
// delete-and-reinsert discipline as the assignment tables.
func (r *pgServiceRepository) ReplaceSongs(ctx context.Context, serviceID string, songs []domain.Song) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM services WHERE id = $1)`, serviceID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check service: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM service_songs WHERE service_id = $1`, serviceID); err != nil {
		return fmt.Errorf("clear songs: %w", err)
	}
	if err := insertSongs(ctx, tx, serviceID, songs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertAssignments(ctx context.Context, tx pgx.Tx, serviceID string, set domain.AssignmentSet) error {
	for i, directorID := range set.DirectorIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO service_directors (service_id, director_id, position)
			VALUES ($1,$2,$3)`, serviceID, directorID, i,
		); err != nil {
			return fmt.Errorf("insert director assignment: %w", err)
		}
	}
	for i, ma := range set.Musicians {
		if _, err := tx.Exec(ctx, `
			INSERT INTO service_musicians (service_id, musician_id, instrument, position)
			VALUES ($1,$2,$3,$4)`, serviceID, ma.MusicianID, ma.Instrument, i,
		); err != nil {
			return fmt.Errorf("insert musician assignment: %w", err)
		}
	}
	return nil
}

func insertSongs(ctx context.Context, tx pgx.Tx, serviceID string, songs []domain.Song) error {
	for i, song := range songs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO service_songs (service_id, name, artist, tone, youtube_link, position)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			serviceID, song.Name, song.Artist, song.Tone, song.YouTubeLink, i,
		); err != nil {
			return fmt.Errorf("insert song: %w", err)
		}
	}
	return nil
}

// loadAssignments populates s.Assignments in stored order so diffs over
// reloaded snapshots stay deterministic.
func (r *pgServiceRepository) loadAssignments(ctx context.Context, s *domain.Service) error {
	rows, err := r.pool.Query(ctx, `
		SELECT director_id FROM service_directors
		WHERE service_id = $1 ORDER BY position`, s.ID)
	if err != nil {
		return fmt.Errorf("load directors: %w", err)
	}
	defer rows.Close()

	var directorIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		directorIDs = append(directorIDs, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	mrows, err := r.pool.Query(ctx, `
		SELECT musician_id, instrument FROM service_musicians
		WHERE service_id = $1 ORDER BY position`, s.ID)
	if err != nil {
		return fmt.Errorf("load musicians: %w", err)
	}
	defer mrows.Close()

	var musicians []domain.MusicianAssignment
	for mrows.Next() {
		var ma domain.MusicianAssignment
		if err := mrows.Scan(&ma.MusicianID, &ma.Instrument); err != nil {
			return err
		}
		musicians = append(musicians, ma)
	}
	if err := mrows.Err(); err != nil {
		return err
	}

	s.Assignments = domain.NewAssignmentSet(directorIDs, musicians)
	return nil
}

func (r *pgServiceRepository) loadSongs(ctx context.Context, s *domain.Service) error {
	rows, err := r.pool.Query(ctx, `
		SELECT name, artist, tone, youtube_link FROM service_songs
		WHERE service_id = $1 ORDER BY position`, s.ID)
	if err != nil {
		return fmt.Errorf("load songs: %w", err)
	}
	defer rows.Close()

	var songs []domain.Song
	for rows.Next() {
		var song domain.Song
		if err := rows.Scan(&song.Name, &song.Artist, &song.Tone, &song.YouTubeLink); err != nil {
			return err
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.Songs = songs
	return nil
}
