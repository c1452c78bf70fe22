package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/voxarena/voxarena/internal/core"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SQLiteStorage{
		db:   db,
		path: dbPath,
	}, nil
}

// Initialize creates the database schema.
func (s *SQLiteStorage) Initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS debates (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		topic TEXT NOT NULL,
		description TEXT,
		format TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'DRAFT',
		config_json TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS debate_participants (
		id TEXT PRIMARY KEY,
		debate_id TEXT NOT NULL,
		persona_id TEXT NOT NULL,
		role TEXT NOT NULL,
		order_index INTEGER NOT NULL DEFAULT 0,
		display_name TEXT,
		voice_id TEXT,
		meta_json TEXT,
		FOREIGN KEY (debate_id) REFERENCES debates(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS personas (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		nickname TEXT,
		description TEXT,
		avatar_url TEXT,
		age_group TEXT,
		profession TEXT,
		gender_identity TEXT,
		pronouns TEXT,
		temperament TEXT,
		tone TEXT,
		conflict_style TEXT,
		vocabulary_style TEXT,
		debate_approach_json TEXT,
		confidence INTEGER NOT NULL DEFAULT 0,
		verbosity INTEGER NOT NULL DEFAULT 0,
		accent_note TEXT,
		quirks_json TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS taxonomies (
		id TEXT PRIMARY KEY,
		term TEXT NOT NULL,
		slug TEXT NOT NULL,
		category TEXT NOT NULL,
		category_id TEXT,
		description TEXT,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		UNIQUE (category, term)
	);

	CREATE TABLE IF NOT EXISTS taxonomy_categories (
		id TEXT PRIMARY KEY,
		key TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL UNIQUE,
		description TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS persona_taxonomies (
		persona_id TEXT NOT NULL,
		taxonomy_id TEXT NOT NULL,
		PRIMARY KEY (persona_id, taxonomy_id),
		FOREIGN KEY (persona_id) REFERENCES personas(id) ON DELETE CASCADE,
		FOREIGN KEY (taxonomy_id) REFERENCES taxonomies(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_participants_debate_id ON debate_participants(debate_id);
	CREATE INDEX IF NOT EXISTS idx_debates_status ON debates(status);
	CREATE INDEX IF NOT EXISTS idx_debates_created_at ON debates(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_taxonomies_category ON taxonomies(category);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

/* ------------------------------- debates ------------------------------- */

// CreateDebate inserts a debate and its initial roster, if any.
func (s *SQLiteStorage) CreateDebate(d *core.Debate, participants []core.Participant) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO debates (id, title, topic, description, format, status, config_json, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		d.ID,
		d.Title,
		d.Topic,
		nullString(d.Description),
		string(d.Format),
		string(d.Status),
		nullRaw(d.Config),
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert debate: %w", err)
	}

	if err := insertParticipants(tx, d.ID, participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit debate: %w", err)
	}
	return nil
}

// GetDebate retrieves a debate by ID, including its participant roster.
func (s *SQLiteStorage) GetDebate(id string) (*core.Debate, error) {
	query := `
	SELECT id, title, topic, description, format, status, config_json, created_at, updated_at
	FROM debates
	WHERE id = ?
	`

	var d core.Debate
	var description, configJSON sql.NullString
	var format, status string

	err := s.db.QueryRow(query, id).Scan(
		&d.ID,
		&d.Title,
		&d.Topic,
		&description,
		&format,
		&status,
		&configJSON,
		&d.CreatedAt,
		&d.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debate: %w", err)
	}

	d.Description = description.String
	d.Format = core.DebateFormat(format)
	d.Status = core.DebateStatus(status)
	if configJSON.Valid {
		d.Config = json.RawMessage(configJSON.String)
	}

	participants, err := s.getParticipants(id)
	if err != nil {
		return nil, err
	}
	d.Participants = participants

	return &d, nil
}

func (s *SQLiteStorage) getParticipants(debateID string) ([]core.Participant, error) {
	query := `
	SELECT dp.id, dp.debate_id, dp.persona_id, dp.role, dp.order_index,
		   dp.display_name, dp.voice_id, dp.meta_json,
		   COALESCE(p.name, ''), COALESCE(p.nickname, ''), COALESCE(p.avatar_url, '')
	FROM debate_participants dp
	LEFT JOIN personas p ON p.id = dp.persona_id
	WHERE dp.debate_id = ?
	ORDER BY dp.order_index ASC
	`

	rows, err := s.db.Query(query, debateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	participants := make([]core.Participant, 0)
	for rows.Next() {
		var p core.Participant
		var role string
		var displayName, voiceID, metaJSON sql.NullString

		err := rows.Scan(
			&p.ID,
			&p.DebateID,
			&p.PersonaID,
			&role,
			&p.Order,
			&displayName,
			&voiceID,
			&metaJSON,
			&p.PersonaName,
			&p.PersonaNickname,
			&p.PersonaAvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}

		p.Role = core.ParticipantRole(role)
		p.DisplayName = displayName.String
		p.VoiceID = voiceID.String
		if metaJSON.Valid {
			p.Meta = json.RawMessage(metaJSON.String)
		}
		participants = append(participants, p)
	}

	return participants, rows.Err()
}

// ListDebates returns debate summaries, newest first.
func (s *SQLiteStorage) ListDebates(limit, offset int) ([]*core.DebateSummary, error) {
	query := `
	SELECT d.id, d.title, d.topic, d.format, d.status, d.created_at,
		   (SELECT COUNT(*) FROM debate_participants WHERE debate_id = d.id) as participant_count
	FROM debates d
	ORDER BY d.created_at DESC
	LIMIT ? OFFSET ?
	`

	rows, err := s.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list debates: %w", err)
	}
	defer rows.Close()

	var summaries []*core.DebateSummary
	for rows.Next() {
		var summary core.DebateSummary
		var format, status string

		err := rows.Scan(
			&summary.ID,
			&summary.Title,
			&summary.Topic,
			&format,
			&status,
			&summary.CreatedAt,
			&summary.ParticipantCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debate summary: %w", err)
		}

		summary.Format = core.DebateFormat(format)
		summary.Status = core.DebateStatus(status)
		summaries = append(summaries, &summary)
	}

	return summaries, rows.Err()
}

// UpdateDebateFields updates only the supplied scalar columns.
func (s *SQLiteStorage) UpdateDebateFields(id string, update core.DebateUpdate) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now()}

	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Topic != nil {
		sets = append(sets, "topic = ?")
		args = append(args, *update.Topic)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, nullString(*update.Description))
	}
	if update.Format != nil {
		sets = append(sets, "format = ?")
		args = append(args, string(*update.Format))
	}
	if update.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*update.Status))
	}
	if update.Config != nil {
		sets = append(sets, "config_json = ?")
		args = append(args, string(update.Config))
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE debates SET %s WHERE id = ?", strings.Join(sets, ", "))

	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update debate: %w", err)
	}
	return nil
}

// ReplaceParticipants swaps the full roster for a debate in one transaction.
func (s *SQLiteStorage) ReplaceParticipants(debateID string, participants []core.Participant) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM debate_participants WHERE debate_id = ?", debateID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}

	if err := insertParticipants(tx, debateID, participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit participant replacement: %w", err)
	}
	return nil
}

func insertParticipants(tx *sql.Tx, debateID string, participants []core.Participant) error {
	query := `
	INSERT INTO debate_participants (id, debate_id, persona_id, role, order_index, display_name, voice_id, meta_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, p := range participants {
		id := p.ID
		if id == "" {
			id = core.GenerateID()
		}
		_, err := tx.Exec(query,
			id,
			debateID,
			p.PersonaID,
			string(p.Role),
			p.Order,
			nullString(p.DisplayName),
			nullString(p.VoiceID),
			nullRaw(p.Meta),
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}
	return nil
}

// DeleteDebate deletes a debate. Participant rows go first so the parent
// never outlives a dangling roster even without foreign-key enforcement.
func (s *SQLiteStorage) DeleteDebate(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM debate_participants WHERE debate_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete participants: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM debates WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete debate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit debate deletion: %w", err)
	}
	return nil
}

/* ------------------------------- personas ------------------------------- */

// CreatePersona inserts a persona's scalar columns.
func (s *SQLiteStorage) CreatePersona(p *core.Persona) error {
	approachJSON, err := marshalStrings(p.DebateApproach)
	if err != nil {
		return fmt.Errorf("failed to marshal debate approach: %w", err)
	}
	quirksJSON, err := marshalStrings(p.Quirks)
	if err != nil {
		return fmt.Errorf("failed to marshal quirks: %w", err)
	}

	query := `
	INSERT INTO personas (id, name, nickname, description, avatar_url, age_group, profession,
		gender_identity, pronouns, temperament, tone, conflict_style, vocabulary_style,
		debate_approach_json, confidence, verbosity, accent_note, quirks_json, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.Exec(query,
		p.ID, p.Name,
		nullString(p.Nickname), nullString(p.Description), nullString(p.AvatarURL),
		nullString(p.AgeGroup), nullString(p.Profession),
		nullString(p.GenderIdentity), nullString(p.Pronouns),
		nullString(p.Temperament), nullString(p.Tone),
		nullString(p.ConflictStyle), nullString(p.VocabularyStyle),
		approachJSON, p.Confidence, p.Verbosity,
		nullString(p.AccentNote), quirksJSON,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert persona: %w", err)
	}
	return nil
}

// GetPersona retrieves a persona with its linked taxonomy terms.
func (s *SQLiteStorage) GetPersona(id string) (*core.Persona, error) {
	query := `
	SELECT id, name, nickname, description, avatar_url, age_group, profession,
		   gender_identity, pronouns, temperament, tone, conflict_style, vocabulary_style,
		   debate_approach_json, confidence, verbosity, accent_note, quirks_json, created_at, updated_at
	FROM personas
	WHERE id = ?
	`

	var p core.Persona
	var nickname, description, avatarURL, ageGroup, profession sql.NullString
	var genderIdentity, pronouns, temperament, tone, conflictStyle, vocabularyStyle sql.NullString
	var approachJSON, accentNote, quirksJSON sql.NullString

	err := s.db.QueryRow(query, id).Scan(
		&p.ID, &p.Name, &nickname, &description, &avatarURL, &ageGroup, &profession,
		&genderIdentity, &pronouns, &temperament, &tone, &conflictStyle, &vocabularyStyle,
		&approachJSON, &p.Confidence, &p.Verbosity, &accentNote, &quirksJSON,
		&p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get persona: %w", err)
	}

	p.Nickname = nickname.String
	p.Description = description.String
	p.AvatarURL = avatarURL.String
	p.AgeGroup = ageGroup.String
	p.Profession = profession.String
	p.GenderIdentity = genderIdentity.String
	p.Pronouns = pronouns.String
	p.Temperament = temperament.String
	p.Tone = tone.String
	p.ConflictStyle = conflictStyle.String
	p.VocabularyStyle = vocabularyStyle.String
	p.AccentNote = accentNote.String

	if approachJSON.Valid {
		if err := json.Unmarshal([]byte(approachJSON.String), &p.DebateApproach); err != nil {
			return nil, fmt.Errorf("failed to unmarshal debate approach: %w", err)
		}
	}
	if quirksJSON.Valid {
		if err := json.Unmarshal([]byte(quirksJSON.String), &p.Quirks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal quirks: %w", err)
		}
	}

	terms, err := s.getPersonaTerms(id)
	if err != nil {
		return nil, err
	}
	p.Taxonomies = terms

	return &p, nil
}

func (s *SQLiteStorage) getPersonaTerms(personaID string) ([]core.Term, error) {
	query := `
	SELECT t.id, t.term, t.slug, t.category, COALESCE(t.category_id, ''),
		   COALESCE(t.description, ''), t.is_active, t.created_at
	FROM persona_taxonomies pt
	JOIN taxonomies t ON t.id = pt.taxonomy_id
	WHERE pt.persona_id = ?
	ORDER BY t.category ASC, t.term ASC
	`

	rows, err := s.db.Query(query, personaID)
	if err != nil {
		return nil, fmt.Errorf("failed to get persona taxonomies: %w", err)
	}
	defer rows.Close()

	var terms []core.Term
	for rows.Next() {
		var t core.Term
		if err := rows.Scan(&t.ID, &t.Term, &t.Slug, &t.Category, &t.CategoryID,
			&t.Description, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan persona taxonomy: %w", err)
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// ListPersonas returns persona summaries, newest first.
func (s *SQLiteStorage) ListPersonas() ([]*core.PersonaSummary, error) {
	query := `
	SELECT id, name, COALESCE(nickname, ''), COALESCE(description, ''), COALESCE(avatar_url, ''), created_at
	FROM personas
	ORDER BY created_at DESC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list personas: %w", err)
	}
	defer rows.Close()

	var summaries []*core.PersonaSummary
	for rows.Next() {
		var summary core.PersonaSummary
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Nickname,
			&summary.Description, &summary.AvatarURL, &summary.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan persona summary: %w", err)
		}
		summaries = append(summaries, &summary)
	}
	return summaries, rows.Err()
}

// UpdatePersona writes all scalar columns of an existing persona.
func (s *SQLiteStorage) UpdatePersona(p *core.Persona) error {
	approachJSON, err := marshalStrings(p.DebateApproach)
	if err != nil {
		return fmt.Errorf("failed to marshal debate approach: %w", err)
	}
	quirksJSON, err := marshalStrings(p.Quirks)
	if err != nil {
		return fmt.Errorf("failed to marshal quirks: %w", err)
	}

	p.UpdatedAt = time.Now()

	query := `
	UPDATE personas
	SET name = ?, nickname = ?, description = ?, avatar_url = ?, age_group = ?, profession = ?,
		gender_identity = ?, pronouns = ?, temperament = ?, tone = ?, conflict_style = ?,
		vocabulary_style = ?, debate_approach_json = ?, confidence = ?, verbosity = ?,
		accent_note = ?, quirks_json = ?, updated_at = ?
	WHERE id = ?
	`

	_, err = s.db.Exec(query,
		p.Name,
		nullString(p.Nickname), nullString(p.Description), nullString(p.AvatarURL),
		nullString(p.AgeGroup), nullString(p.Profession),
		nullString(p.GenderIdentity), nullString(p.Pronouns),
		nullString(p.Temperament), nullString(p.Tone),
		nullString(p.ConflictStyle), nullString(p.VocabularyStyle),
		approachJSON, p.Confidence, p.Verbosity,
		nullString(p.AccentNote), quirksJSON,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update persona: %w", err)
	}
	return nil
}

// SetPersonaTaxonomies replaces the persona's taxonomy link set.
func (s *SQLiteStorage) SetPersonaTaxonomies(personaID string, taxonomyIDs []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM persona_taxonomies WHERE persona_id = ?", personaID); err != nil {
		return fmt.Errorf("failed to clear persona taxonomies: %w", err)
	}

	for _, taxonomyID := range taxonomyIDs {
		_, err := tx.Exec(
			"INSERT OR IGNORE INTO persona_taxonomies (persona_id, taxonomy_id) VALUES (?, ?)",
			personaID, taxonomyID,
		)
		if err != nil {
			return fmt.Errorf("failed to link taxonomy: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit taxonomy links: %w", err)
	}
	return nil
}

// SetPersonaAvatar stores the persona's avatar URL.
func (s *SQLiteStorage) SetPersonaAvatar(personaID, url string) error {
	_, err := s.db.Exec("UPDATE personas SET avatar_url = ?, updated_at = ? WHERE id = ?",
		url, time.Now(), personaID)
	if err != nil {
		return fmt.Errorf("failed to set persona avatar: %w", err)
	}
	return nil
}

// DeletePersona deletes a persona and its taxonomy links.
func (s *SQLiteStorage) DeletePersona(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM persona_taxonomies WHERE persona_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete persona taxonomies: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM personas WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete persona: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit persona deletion: %w", err)
	}
	return nil
}

/* ------------------------------- taxonomy ------------------------------- */

// CreateTerm inserts a taxonomy term. A duplicate (category, term) pair is
// reported as a ConflictError.
func (s *SQLiteStorage) CreateTerm(t *core.Term) error {
	query := `
	INSERT INTO taxonomies (id, term, slug, category, category_id, description, is_active, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		t.ID, t.Term, t.Slug, t.Category,
		nullString(t.CategoryID), nullString(t.Description),
		t.IsActive, t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &core.ConflictError{Message: "This term already exists in the selected category."}
		}
		return fmt.Errorf("failed to insert term: %w", err)
	}
	return nil
}

// GetTerm retrieves a taxonomy term by ID.
func (s *SQLiteStorage) GetTerm(id string) (*core.Term, error) {
	query := `
	SELECT id, term, slug, category, COALESCE(category_id, ''), COALESCE(description, ''), is_active, created_at
	FROM taxonomies
	WHERE id = ?
	`

	var t core.Term
	err := s.db.QueryRow(query, id).Scan(
		&t.ID, &t.Term, &t.Slug, &t.Category, &t.CategoryID, &t.Description, &t.IsActive, &t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get term: %w", err)
	}
	return &t, nil
}

// UpdateTerm writes all columns of an existing term.
func (s *SQLiteStorage) UpdateTerm(t *core.Term) error {
	query := `
	UPDATE taxonomies
	SET term = ?, slug = ?, category = ?, category_id = ?, description = ?, is_active = ?
	WHERE id = ?
	`

	_, err := s.db.Exec(query,
		t.Term, t.Slug, t.Category,
		nullString(t.CategoryID), nullString(t.Description),
		t.IsActive, t.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &core.ConflictError{Message: "A term with this name already exists in the selected category."}
		}
		return fmt.Errorf("failed to update term: %w", err)
	}
	return nil
}

// DeleteTerm deletes a taxonomy term and its persona links.
func (s *SQLiteStorage) DeleteTerm(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM persona_taxonomies WHERE taxonomy_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete term links: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM taxonomies WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete term: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit term deletion: %w", err)
	}
	return nil
}

// ListTerms returns terms matching the filter plus the unpaged total.
func (s *SQLiteStorage) ListTerms(filter core.TermFilter) ([]*core.Term, int, error) {
	var conds []string
	var args []any

	var or []string
	if filter.CategoryID != "" {
		or = append(or, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	for _, c := range filter.Category {
		or = append(or, "category = ?")
		args = append(args, c)
	}
	if len(or) > 0 {
		conds = append(conds, "("+strings.Join(or, " OR ")+")")
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM taxonomies %s", where)
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count terms: %w", err)
	}

	query := fmt.Sprintf(`
	SELECT id, term, slug, category, COALESCE(category_id, ''), COALESCE(description, ''), is_active, created_at
	FROM taxonomies %s
	ORDER BY category ASC, term ASC
	`, where)

	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list terms: %w", err)
	}
	defer rows.Close()

	var terms []*core.Term
	for rows.Next() {
		var t core.Term
		if err := rows.Scan(&t.ID, &t.Term, &t.Slug, &t.Category, &t.CategoryID,
			&t.Description, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan term: %w", err)
		}
		terms = append(terms, &t)
	}
	return terms, total, rows.Err()
}

// CreateCategory inserts a taxonomy category.
func (s *SQLiteStorage) CreateCategory(c *core.Category) error {
	query := `
	INSERT INTO taxonomy_categories (id, key, full_name, description, created_at)
	VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query, c.ID, c.Key, c.FullName, nullString(c.Description), c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return &core.ConflictError{Message: "A category with this key or full name already exists"}
		}
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// GetCategory retrieves a category by ID.
func (s *SQLiteStorage) GetCategory(id string) (*core.Category, error) {
	return s.queryCategory("SELECT id, key, full_name, COALESCE(description, ''), created_at FROM taxonomy_categories WHERE id = ?", id)
}

// FindCategory resolves a category by key first, then full name, both
// case-insensitive. Returns (nil, nil) when neither matches.
func (s *SQLiteStorage) FindCategory(keyOrName string) (*core.Category, error) {
	value := strings.TrimSpace(keyOrName)
	if value == "" {
		return nil, nil
	}

	c, err := s.queryCategory("SELECT id, key, full_name, COALESCE(description, ''), created_at FROM taxonomy_categories WHERE key = ? COLLATE NOCASE", value)
	if err != nil || c != nil {
		return c, err
	}
	return s.queryCategory("SELECT id, key, full_name, COALESCE(description, ''), created_at FROM taxonomy_categories WHERE full_name = ? COLLATE NOCASE", value)
}

func (s *SQLiteStorage) queryCategory(query string, arg any) (*core.Category, error) {
	var c core.Category
	err := s.db.QueryRow(query, arg).Scan(&c.ID, &c.Key, &c.FullName, &c.Description, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

// ListCategories returns categories ordered by full name, each with a count
// of terms stored under its id or canonical key, plus the unpaged total.
func (s *SQLiteStorage) ListCategories(limit, offset int) ([]*core.Category, int, error) {
	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM taxonomy_categories").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	query := `
	SELECT c.id, c.key, c.full_name, COALESCE(c.description, ''), c.created_at,
		   (SELECT COUNT(*) FROM taxonomies t WHERE t.category_id = c.id OR t.category = c.key) as term_usage
	FROM taxonomy_categories c
	ORDER BY c.full_name ASC
	LIMIT ? OFFSET ?
	`

	rows, err := s.db.Query(query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Key, &c.FullName, &c.Description, &c.CreatedAt, &c.TermUsage); err != nil {
			return nil, 0, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, total, rows.Err()
}

// UpdateCategory writes all columns of an existing category.
func (s *SQLiteStorage) UpdateCategory(c *core.Category) error {
	query := "UPDATE taxonomy_categories SET key = ?, full_name = ?, description = ? WHERE id = ?"

	_, err := s.db.Exec(query, c.Key, c.FullName, nullString(c.Description), c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return &core.ConflictError{Message: "A category with this key or full name already exists"}
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category. Terms stored under its id or legacy key
// are deleted first.
func (s *SQLiteStorage) DeleteCategory(id string) error {
	cat, err := s.GetCategory(id)
	if err != nil {
		return err
	}
	if cat == nil {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM persona_taxonomies WHERE taxonomy_id IN
		(SELECT id FROM taxonomies WHERE category_id = ? OR category = ?)`, id, cat.Key); err != nil {
		return fmt.Errorf("failed to delete category term links: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM taxonomies WHERE category_id = ? OR category = ?", id, cat.Key); err != nil {
		return fmt.Errorf("failed to delete category terms: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM taxonomy_categories WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit category deletion: %w", err)
	}
	return nil
}

/* ------------------------------- helpers ------------------------------- */

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullRaw(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func marshalStrings(values []string) (any, error) {
	if len(values) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "voxarena.db"
	}
	return filepath.Join(home, ".voxarena", "voxarena.db")
}
