// internal/profiles/store.go
package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"disc-workers/internal/common/config"
	apperrors "disc-workers/internal/common/errors"
	"disc-workers/internal/common/logger"
	"disc-workers/internal/disc"
	"disc-workers/internal/models"
)

// timeLayout is fixed width so stored timestamps sort lexically in both dialects.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var errMissingOwner = errors.New("owner id is required")

var migrations = map[string][]string{
	config.DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS disc_profiles (
			id              TEXT PRIMARY KEY,
			user_id         TEXT NOT NULL,
			d_score         INTEGER NOT NULL,
			i_score         INTEGER NOT NULL,
			s_score         INTEGER NOT NULL,
			c_score         INTEGER NOT NULL,
			primary_style   TEXT NOT NULL,
			secondary_style TEXT NOT NULL,
			insights        JSONB NOT NULL,
			recommendations JSONB NOT NULL,
			completed_at    TEXT NOT NULL,
			created_at      TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_disc_profiles_user ON disc_profiles (user_id, completed_at DESC)`,
	},
	config.DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS disc_profiles (
			id              TEXT PRIMARY KEY,
			user_id         TEXT NOT NULL,
			d_score         INTEGER NOT NULL,
			i_score         INTEGER NOT NULL,
			s_score         INTEGER NOT NULL,
			c_score         INTEGER NOT NULL,
			primary_style   TEXT NOT NULL,
			secondary_style TEXT NOT NULL,
			insights        TEXT NOT NULL,
			recommendations TEXT NOT NULL,
			completed_at    TEXT NOT NULL,
			created_at      TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_disc_profiles_user ON disc_profiles (user_id, completed_at DESC)`,
	},
}

// $N placeholders work for both drivers: modernc.org/sqlite binds $N by ordinal.
const (
	insertProfileSQL  = `INSERT INTO disc_profiles (id, user_id, d_score, i_score, s_score, c_score, primary_style, secondary_style, insights, recommendations, completed_at, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) ON CONFLICT (id) DO NOTHING`
	selectProfilesSQL = `SELECT id, user_id, d_score, i_score, s_score, c_score, primary_style, secondary_style, insights, recommendations, completed_at, created_at FROM disc_profiles WHERE user_id = $1 ORDER BY completed_at DESC, created_at DESC`
	countProfilesSQL  = `SELECT COUNT(*) FROM disc_profiles WHERE user_id = $1`
	selectProfileSQL  = `SELECT id, user_id, d_score, i_score, s_score, c_score, primary_style, secondary_style, insights, recommendations, completed_at, created_at FROM disc_profiles WHERE id = $1`
)

// SQLStore implements models.ProfileRepository over database/sql.
type SQLStore struct {
	db     *sql.DB
	driver string
	now    func() time.Time
	logger logger.Logger
}

type StoreOption func(*SQLStore)

func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *SQLStore) { s.now = now }
}

func WithStoreLogger(log logger.Logger) StoreOption {
	return func(s *SQLStore) { s.logger = log }
}

func NewSQLStore(db *sql.DB, driver string, opts ...StoreOption) (*SQLStore, error) {
	if _, ok := migrations[driver]; !ok {
		return nil, fmt.Errorf("unsupported profile store driver %q", driver)
	}
	s := &SQLStore{
		db:     db,
		driver: driver,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Migrate creates the profile table and index if they do not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range migrations[s.driver] {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("profile store migration failed: %w", err)
		}
	}
	return nil
}

// SaveProfile stores profile under ownerID. Saving the same profile id again
// for the same owner returns the stored record without a second row; saving it
// for a different owner is rejected.
func (s *SQLStore) SaveProfile(ctx context.Context, profile *disc.Profile, ownerID string) (*models.ProfileRecord, error) {
	if profile == nil {
		return nil, apperrors.NewInputValidationError("profile is required")
	}
	if ownerID == "" {
		return nil, apperrors.NewInputValidationError(errMissingOwner.Error())
	}

	saved := *profile
	if saved.ID == "" {
		saved.ID = uuid.New().String()
	}
	if saved.CompletedAt.IsZero() {
		saved.CompletedAt = s.now()
	}
	record := models.NewProfileRecord(&saved, ownerID, s.now())

	insights, err := json.Marshal(nonNilInsights(record.Insights))
	if err != nil {
		return nil, apperrors.NewProfileSaveFailedError(err)
	}
	recommendations, err := json.Marshal(nonNilStrings(record.Recommendations))
	if err != nil {
		return nil, apperrors.NewProfileSaveFailedError(err)
	}

	result, err := s.db.ExecContext(ctx, insertProfileSQL,
		record.ID,
		record.UserID,
		record.Scores.D,
		record.Scores.I,
		record.Scores.S,
		record.Scores.C,
		string(record.PrimaryStyle),
		string(record.SecondaryStyle),
		string(insights),
		string(recommendations),
		record.CompletedAt.UTC().Format(timeLayout),
		record.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, apperrors.NewQueryTimeoutError(string(models.QueryTypeSaveProfile))
		}
		return nil, apperrors.NewProfileSaveFailedError(err)
	}
	if inserted, err := result.RowsAffected(); err == nil && inserted == 0 {
		return s.existingRecord(ctx, record.ID, ownerID)
	}

	s.logger.Debug("profile saved", map[string]interface{}{
		"profileId": record.ID,
		"userId":    ownerID,
	})
	return record, nil
}

// existingRecord resolves an insert that hit an already stored profile id.
func (s *SQLStore) existingRecord(ctx context.Context, profileID, ownerID string) (*models.ProfileRecord, error) {
	stored, err := scanRecord(s.db.QueryRowContext(ctx, selectProfileSQL, profileID))
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, apperrors.NewQueryTimeoutError(string(models.QueryTypeSaveProfile))
		}
		return nil, apperrors.NewProfileSaveFailedError(err)
	}
	if stored.UserID != ownerID {
		s.logger.Warn("profile id already stored for another user", map[string]interface{}{
			"profileId": profileID,
			"userId":    ownerID,
		})
		return nil, apperrors.NewInputValidationError(fmt.Sprintf("profile %s is already stored for another user", profileID))
	}

	s.logger.Debug("profile already saved", map[string]interface{}{
		"profileId": profileID,
		"userId":    ownerID,
	})
	return stored, nil
}

func (s *SQLStore) GetUserProfiles(ctx context.Context, ownerID string, limit int) ([]*disc.Profile, error) {
	records, err := s.userRecords(ctx, ownerID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*disc.Profile, 0, len(records))
	for _, r := range records {
		out = append(out, r.Profile())
	}
	return out, nil
}

func (s *SQLStore) userRecords(ctx context.Context, ownerID string, limit int) ([]*models.ProfileRecord, error) {
	query := selectProfilesSQL
	args := []interface{}{ownerID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.queryError(ctx, models.QueryTypeUserProfiles, err)
	}
	defer rows.Close()

	var records []*models.ProfileRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, apperrors.NewProfileQueryFailedError(string(models.QueryTypeUserProfiles), err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, s.queryError(ctx, models.QueryTypeUserProfiles, err)
	}
	return records, nil
}

func (s *SQLStore) CountUserProfiles(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, countProfilesSQL, ownerID).Scan(&count)
	if err != nil {
		return 0, s.queryError(ctx, models.QueryTypeCountProfiles, err)
	}
	return count, nil
}

func (s *SQLStore) queryError(ctx context.Context, qt models.QueryType, err error) error {
	if isTimeout(ctx, err) {
		return apperrors.NewQueryTimeoutError(string(qt))
	}
	return apperrors.NewProfileQueryFailedError(string(qt), err)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*models.ProfileRecord, error) {
	var (
		r                      models.ProfileRecord
		primary, secondary     string
		insights, recs         []byte
		completedAt, createdAt string
	)
	if err := row.Scan(
		&r.ID, &r.UserID,
		&r.Scores.D, &r.Scores.I, &r.Scores.S, &r.Scores.C,
		&primary, &secondary,
		&insights, &recs,
		&completedAt, &createdAt,
	); err != nil {
		return nil, err
	}

	var err error
	if r.PrimaryStyle, err = disc.ParseTrait(primary); err != nil {
		return nil, err
	}
	if r.SecondaryStyle, err = disc.ParseTrait(secondary); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(insights, &r.Insights); err != nil {
		return nil, fmt.Errorf("decode insights: %w", err)
	}
	if err := json.Unmarshal(recs, &r.Recommendations); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	if r.CompletedAt, err = time.Parse(timeLayout, completedAt); err != nil {
		return nil, fmt.Errorf("decode completed_at: %w", err)
	}
	if r.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("decode created_at: %w", err)
	}
	return &r, nil
}

func isTimeout(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}

func nonNilInsights(in []disc.Insight) []disc.Insight {
	if in == nil {
		return []disc.Insight{}
	}
	return in
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
