package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/your-org/sentinela/internal/config"
	"github.com/your-org/sentinela/internal/face"
	"github.com/your-org/sentinela/internal/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const personColumns = `id, full_name, nickname, cpf, rg, voter_id,
	address_primary, address_secondary, latitude, longitude,
	mother_name, father_name, warrant_status, warrant_file_url,
	notes, is_confidential, created_by, updated_by, created_at, updated_at`

func scanPerson(row pgx.Row, p *models.Person) error {
	return row.Scan(&p.ID, &p.FullName, &p.Nickname, &p.CPF, &p.RG, &p.VoterID,
		&p.AddressPrimary, &p.AddressSecondary, &p.Latitude, &p.Longitude,
		&p.MotherName, &p.FatherName, &p.WarrantStatus, &p.WarrantFileURL,
		&p.Notes, &p.IsConfidential, &p.CreatedBy, &p.UpdatedBy,
		&p.CreatedAt, &p.UpdatedAt)
}

// --- People ---

func (s *PostgresStore) CreatePerson(ctx context.Context, p *models.Person) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO people (full_name, nickname, cpf, rg, voter_id,
			address_primary, address_secondary, latitude, longitude,
			mother_name, father_name, warrant_status, warrant_file_url,
			notes, is_confidential, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING id, created_at, updated_at`,
		p.FullName, p.Nickname, p.CPF, p.RG, p.VoterID,
		p.AddressPrimary, p.AddressSecondary, p.Latitude, p.Longitude,
		p.MotherName, p.FatherName, p.WarrantStatus, p.WarrantFileURL,
		p.Notes, p.IsConfidential, p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPerson(ctx context.Context, id int64) (*models.Person, error) {
	p := &models.Person{}
	row := s.pool.QueryRow(ctx,
		`SELECT `+personColumns+` FROM people WHERE id = $1`, id)
	if err := scanPerson(row, p); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get person: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) GetPersonByCPF(ctx context.Context, cpf string) (*models.Person, error) {
	p := &models.Person{}
	row := s.pool.QueryRow(ctx,
		`SELECT `+personColumns+` FROM people WHERE cpf = $1`, cpf)
	if err := scanPerson(row, p); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get person by cpf: %w", err)
	}
	return p, nil
}

// ListPersons returns a page of persons matching the filter, newest first,
// along with the unpaginated total.
func (s *PostgresStore) ListPersons(ctx context.Context, filter *Filter, limit, offset int) ([]models.Person, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	where, args := filter.Clause(1)

	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM people `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count persons: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM people %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		personColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	var persons []models.Person
	for rows.Next() {
		var p models.Person
		if err := scanPerson(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("scan person: %w", err)
		}
		persons = append(persons, p)
	}
	return persons, total, nil
}

func (s *PostgresStore) DeletePerson(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM people WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("person not found")
	}
	return nil
}

// --- Media ---

const mediaColumns = `id, person_id, type, url, object_key, label, description, created_at`

func scanMedia(row pgx.Row, m *models.Media) error {
	return row.Scan(&m.ID, &m.PersonID, &m.Type, &m.URL, &m.ObjectKey,
		&m.Label, &m.Description, &m.CreatedAt)
}

func (s *PostgresStore) CreateMedia(ctx context.Context, m *models.Media) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO media (person_id, type, url, object_key, label, description)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`,
		m.PersonID, m.Type, m.URL, m.ObjectKey, m.Label, m.Description,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create media: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetMedia(ctx context.Context, id int64) (*models.Media, error) {
	m := &models.Media{}
	row := s.pool.QueryRow(ctx,
		`SELECT `+mediaColumns+` FROM media WHERE id = $1`, id)
	if err := scanMedia(row, m); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get media: %w", err)
	}
	return m, nil
}

// ListMedia returns a page of media rows joined against the person table so
// confidentiality predicates on person columns apply.
func (s *PostgresStore) ListMedia(ctx context.Context, filter *Filter, limit, offset int) ([]models.Media, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	where, args := filter.Clause(1)
	base := `FROM media m JOIN people p ON p.id = m.person_id ` + where

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) `+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count media: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT m.id, m.person_id, m.type, m.url, m.object_key, m.label, m.description, m.created_at
		 %s ORDER BY m.created_at DESC LIMIT $%d OFFSET $%d`,
		base, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var media []models.Media
	for rows.Next() {
		var m models.Media
		if err := scanMedia(rows, &m); err != nil {
			return nil, 0, fmt.Errorf("scan media: %w", err)
		}
		media = append(media, m)
	}
	return media, total, nil
}

// UpdateMediaEmbedding attaches an extracted embedding to a media row.
// Only the ingest worker writes this column.
func (s *PostgresStore) UpdateMediaEmbedding(ctx context.Context, id int64, embedding []float32) error {
	vec := pgvector.NewVector(embedding)
	tag, err := s.pool.Exec(ctx,
		`UPDATE media SET embedding = $1 WHERE id = $2`, vec, id)
	if err != nil {
		return fmt.Errorf("update media embedding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("media not found")
	}
	return nil
}

func (s *PostgresStore) DeleteMedia(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("media not found")
	}
	return nil
}

// FaceCandidates implements face.CandidateSource: FACE media rows with an
// embedding, joined to their person, restricted by the visibility filter.
func (s *PostgresStore) FaceCandidates(ctx context.Context, vis face.Visibility) ([]face.Candidate, error) {
	filter := NewFilter().
		Eq("m.type", string(models.MediaTypeFace)).
		NotNull("m.embedding")
	if !vis.IncludeConfidential {
		filter.Eq("p.is_confidential", false)
	}

	where, args := filter.Clause(1)
	query := fmt.Sprintf(
		`SELECT m.id, m.url, m.embedding,
			p.id, p.full_name, p.nickname, p.cpf, p.rg, p.voter_id,
			p.address_primary, p.address_secondary, p.latitude, p.longitude,
			p.mother_name, p.father_name, p.warrant_status, p.warrant_file_url,
			p.notes, p.is_confidential, p.created_by, p.updated_by,
			p.created_at, p.updated_at
		 FROM media m JOIN people p ON p.id = m.person_id %s`, where)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query face candidates: %w", err)
	}
	defer rows.Close()

	var candidates []face.Candidate
	for rows.Next() {
		var c face.Candidate
		var vec pgvector.Vector
		p := &c.Person
		err := rows.Scan(&c.MediaID, &c.PhotoURL, &vec,
			&p.ID, &p.FullName, &p.Nickname, &p.CPF, &p.RG, &p.VoterID,
			&p.AddressPrimary, &p.AddressSecondary, &p.Latitude, &p.Longitude,
			&p.MotherName, &p.FatherName, &p.WarrantStatus, &p.WarrantFileURL,
			&p.Notes, &p.IsConfidential, &p.CreatedBy, &p.UpdatedBy,
			&p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan face candidate: %w", err)
		}
		c.Embedding = vec.Slice()
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// --- Audit ---

func (s *PostgresStore) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	if entry.Details == nil {
		entry.Details = json.RawMessage("{}")
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO audit_logs (action, actor, target_entity, details, ip_address)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, timestamp`,
		entry.Action, entry.Actor, entry.TargetEntity, entry.Details, entry.IPAddress,
	).Scan(&entry.ID, &entry.Timestamp)
	if err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAuditLogs(ctx context.Context, limit, offset int) ([]models.AuditLog, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, action, actor, target_entity, details, ip_address, timestamp
		 FROM audit_logs ORDER BY timestamp DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditLog
	for rows.Next() {
		var e models.AuditLog
		if err := rows.Scan(&e.ID, &e.Action, &e.Actor, &e.TargetEntity,
			&e.Details, &e.IPAddress, &e.Timestamp); err != nil {
			return nil, 0, fmt.Errorf("scan audit log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, total, nil
}
