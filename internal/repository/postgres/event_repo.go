package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventrsvp/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository returns a domain.EventRepository backed by Postgres.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// storeErr tags a database failure with domain.ErrStoreUnavailable while
// keeping the underlying cause in the message.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
}

const eventColumns = `id, name, description, location, time, owner_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var descNull sql.NullString
	if err := row.Scan(&e.ID, &e.Name, &descNull, &e.Location, &e.Time, &e.OwnerID); err != nil {
		return nil, err
	}
	if descNull.Valid {
		e.Description = &descNull.String
	}
	return e, nil
}

func scanRSVP(row rowScanner) (*domain.RSVP, error) {
	r := &domain.RSVP{}
	var respNull sql.NullString
	if err := row.Scan(&r.ID, &r.EventID, &r.UserID, &respNull); err != nil {
		return nil, err
	}
	if respNull.Valid {
		resp := domain.RSVPResponse(respNull.String)
		r.Response = &resp
	}
	return r, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// loadRSVPs fetches the active RSVP rows for the given event ids, grouped
// by event id.
func loadRSVPs(ctx context.Context, q querier, eventIDs []string) (map[string][]*domain.RSVP, error) {
	byEvent := make(map[string][]*domain.RSVP, len(eventIDs))
	if len(eventIDs) == 0 {
		return byEvent, nil
	}
	query := `
		SELECT id, event_id, user_id, response
		FROM rsvps
		WHERE event_id = ANY($1) AND deleted_at IS NULL
		ORDER BY created_at ASC
	`
	rows, err := q.QueryContext(ctx, query, pq.Array(eventIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		r, err := scanRSVP(rows)
		if err != nil {
			return nil, err
		}
		byEvent[r.EventID] = append(byEvent[r.EventID], r)
	}
	return byEvent, rows.Err()
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE id = $1 AND deleted_at IS NULL
	`, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeErr("get event", err)
	}
	rsvps, err := loadRSVPs(ctx, r.DB, []string{e.ID})
	if err != nil {
		return nil, storeErr("load rsvps", err)
	}
	e.RSVPs = rsvps[e.ID]
	if e.RSVPs == nil {
		e.RSVPs = []*domain.RSVP{}
	}
	return e, nil
}

func (r *eventRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`, eventColumns)
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, storeErr("list events by owner", err)
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	ids := make([]string, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, storeErr("scan event", err)
		}
		e.RSVPs = []*domain.RSVP{}
		events = append(events, e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list events by owner", err)
	}

	byEvent, err := loadRSVPs(ctx, r.DB, ids)
	if err != nil {
		return nil, storeErr("load rsvps", err)
	}
	for _, e := range events {
		if rs := byEvent[e.ID]; rs != nil {
			e.RSVPs = rs
		}
	}
	return events, nil
}

func (r *eventRepository) ListInvited(ctx context.Context, userID string) ([]*domain.EventSummary, error) {
	// Events where the user holds an active RSVP, excluding their own.
	query := fmt.Sprintf(`
		SELECT %s
		FROM events e
		WHERE e.deleted_at IS NULL
		  AND e.owner_id <> $1
		  AND EXISTS (
			SELECT 1 FROM rsvps r
			WHERE r.event_id = e.id AND r.user_id = $1 AND r.deleted_at IS NULL
		  )
		ORDER BY e.created_at DESC
	`, prefixColumns("e", eventColumns))
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, storeErr("list invited events", err)
	}
	defer rows.Close()

	invited := make([]*domain.EventSummary, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, storeErr("scan event", err)
		}
		invited = append(invited, e.Summary())
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list invited events", err)
	}
	return invited, nil
}

// prefixColumns qualifies each column in a comma-separated list with the
// given table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}

func (r *eventRepository) CreateWithInvitees(ctx context.Context, event *domain.Event, invitees []string) (*domain.Event, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr("begin tx", err)
	}
	defer tx.Rollback()

	insertEvent := `
		INSERT INTO events (id, name, description, location, time, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	var desc sql.NullString
	if event.Description != nil {
		desc = sql.NullString{String: *event.Description, Valid: true}
	}
	if _, err := tx.ExecContext(ctx, insertEvent, event.ID, event.Name, desc, event.Location, event.Time, event.OwnerID); err != nil {
		return nil, storeErr("insert event", err)
	}

	insertRSVP := `
		INSERT INTO rsvps (event_id, user_id, response, created_at, updated_at)
		VALUES ($1, $2, NULL, NOW(), NOW())
		RETURNING id
	`
	event.RSVPs = make([]*domain.RSVP, 0, len(invitees))
	for _, userID := range invitees {
		rsvp := &domain.RSVP{EventID: event.ID, UserID: userID}
		if err := tx.QueryRowContext(ctx, insertRSVP, event.ID, userID).Scan(&rsvp.ID); err != nil {
			return nil, storeErr("insert rsvp", err)
		}
		event.RSVPs = append(event.RSVPs, rsvp)
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr("commit create", err)
	}
	return event, nil
}

func (r *eventRepository) Update(ctx context.Context, id string, fields domain.UpdateEventFields, addInvitees, removeRSVPIDs []string) (*domain.Event, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr("begin tx", err)
	}
	defer tx.Rollback()

	if len(removeRSVPIDs) > 0 {
		removeRSVPs := `
			UPDATE rsvps SET deleted_at = NOW(), updated_at = NOW()
			WHERE event_id = $1 AND id = ANY($2) AND deleted_at IS NULL
		`
		if _, err := tx.ExecContext(ctx, removeRSVPs, id, pq.Array(removeRSVPIDs)); err != nil {
			return nil, storeErr("remove rsvps", err)
		}
	}

	insertRSVP := `
		INSERT INTO rsvps (event_id, user_id, response, created_at, updated_at)
		VALUES ($1, $2, NULL, NOW(), NOW())
	`
	for _, userID := range addInvitees {
		if _, err := tx.ExecContext(ctx, insertRSVP, id, userID); err != nil {
			return nil, storeErr("insert rsvp", err)
		}
	}

	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	if fields.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", n))
		args = append(args, *fields.Name)
		n++
	}
	if fields.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *fields.Description)
		n++
	}
	if fields.Location != nil {
		setClauses = append(setClauses, fmt.Sprintf("location = $%d", n))
		args = append(args, *fields.Location)
		n++
	}
	if fields.Time != nil {
		setClauses = append(setClauses, fmt.Sprintf("time = $%d", n))
		args = append(args, *fields.Time)
		n++
	}
	args = append(args, id)
	updateEvent := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d AND deleted_at IS NULL
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)

	e, err := scanEvent(tx.QueryRowContext(ctx, updateEvent, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeErr("update event", err)
	}

	rsvps, err := loadRSVPs(ctx, tx, []string{id})
	if err != nil {
		return nil, storeErr("load rsvps", err)
	}
	e.RSVPs = rsvps[id]
	if e.RSVPs == nil {
		e.RSVPs = []*domain.RSVP{}
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr("commit update", err)
	}
	return e, nil
}

func (r *eventRepository) SoftDelete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin tx", err)
	}
	defer tx.Rollback()

	deleteEvent := `
		UPDATE events SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := tx.ExecContext(ctx, deleteEvent, id)
	if err != nil {
		return storeErr("soft delete event", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}

	// Cascade: active RSVP rows under a deleted event are never visible.
	deleteRSVPs := `
		UPDATE rsvps SET deleted_at = NOW(), updated_at = NOW()
		WHERE event_id = $1 AND deleted_at IS NULL
	`
	if _, err := tx.ExecContext(ctx, deleteRSVPs, id); err != nil {
		return storeErr("soft delete rsvps", err)
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit delete", err)
	}
	return nil
}

func (r *eventRepository) SetRSVPResponse(ctx context.Context, rsvpID string, response domain.RSVPResponse) error {
	query := `
		UPDATE rsvps SET response = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.DB.ExecContext(ctx, query, string(response), rsvpID)
	if err != nil {
		return storeErr("set rsvp response", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
