package database

import (
	"fmt"
	"strings"
	"time"
)

// AppendEventParams carries one analytics event to be appended to the log.
// Events are append-only: there is no update or single-row delete path.
type AppendEventParams struct {
	InvitationID *int64
	EventType    string
	EventData    *string
	IPAddress    string
	UserAgent    string
	Referrer     *string
}

// AppendEvent appends an event with a server-assigned timestamp.
func (db *DB) AppendEvent(p AppendEventParams) (int64, error) {
	result, err := db.Exec(
		`INSERT INTO analytics (invitation_id, event_type, event_data, ip_address, user_agent, referrer)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.InvitationID, p.EventType, p.EventData, p.IPAddress, p.UserAgent, p.Referrer,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append analytics event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

// tzModifier converts a location into a SQLite datetime() modifier shifting
// UTC timestamps into that zone for day bucketing. The offset is the zone's
// offset right now, so rows straddling a DST switch may bucket an hour off.
func tzModifier(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	_, offsetSeconds := time.Now().In(loc).Zone()
	return fmt.Sprintf("%+d minutes", offsetSeconds/60)
}

// TopInvitation is a dashboard top-N row.
type TopInvitation struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Lastname  string `json:"lastname"`
	Slug      string `json:"slug"`
	ViewCount int64  `json:"view_count"`
}

// DayCount buckets events by calendar date.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// ConfirmationDayCount buckets confirmation-change events by date and action.
type ConfirmationDayCount struct {
	Date   string `json:"date"`
	Action string `json:"action"`
	Count  int64  `json:"count"`
}

// ConfirmationEvent is a confirmation-change log row with the slug and
// action lifted out of the JSON payload.
type ConfirmationEvent struct {
	ID        int64   `json:"id"`
	Timestamp string  `json:"timestamp"`
	IPAddress *string `json:"ip_address"`
	UserAgent *string `json:"user_agent"`
	Slug      *string `json:"slug"`
	Action    *string `json:"action"`
}

// DashboardData aggregates everything the analytics dashboard renders. All
// counts are computed from the log; nothing here is a stored counter.
type DashboardData struct {
	TotalViews          int64                   `json:"totalViews"`
	ViewsLast7Days      int64                   `json:"viewsLast7Days"`
	ViewsLast30Days     int64                   `json:"viewsLast30Days"`
	RecentViews         []*ActivityEntry        `json:"recentViews"`
	RecentRSVPEvents    []*ActivityEntry        `json:"recentRsvpEvents"`
	TopInvitations      []*TopInvitation        `json:"topInvitations"`
	ViewsByDay          []*DayCount             `json:"viewsByDay"`
	ConfirmationEvents  []*ConfirmationEvent    `json:"confirmationEvents"`
	RecentConfirmations []*ConfirmationDayCount `json:"recentConfirmations"`
}

func (db *DB) countEvents(where string, args ...any) (int64, error) {
	var count int64
	err := db.QueryRow(`SELECT COUNT(*) FROM analytics WHERE `+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count analytics events: %w", err)
	}
	return count, nil
}

const activitySelect = `
	SELECT
		a.id, a.timestamp, a.ip_address, a.user_agent, a.event_type, a.event_data,
		i.name, i.lastname, i.slug, i.secondary_name, i.secondary_lastname
	FROM analytics a
	LEFT JOIN invitations i ON a.invitation_id = i.id`

func (db *DB) queryActivity(query string, args ...any) ([]*ActivityEntry, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	entries := []*ActivityEntry{}
	for rows.Next() {
		e := &ActivityEntry{}
		err := rows.Scan(
			&e.ID, &e.Timestamp, &e.IPAddress, &e.UserAgent, &e.EventType, &e.EventData,
			&e.Name, &e.Lastname, &e.Slug, &e.SecondaryName, &e.SecondaryLastname,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activity: %w", err)
	}
	return entries, nil
}

// Dashboard runs the full aggregate set for the analytics dashboard. Day
// buckets are shifted into loc before grouping.
func (db *DB) Dashboard(loc *time.Location) (*DashboardData, error) {
	data := &DashboardData{}
	mod := tzModifier(loc)

	var err error
	if data.TotalViews, err = db.countEvents(`event_type = 'view'`); err != nil {
		return nil, err
	}
	if data.ViewsLast7Days, err = db.countEvents(`event_type = 'view' AND timestamp >= datetime('now', '-7 days')`); err != nil {
		return nil, err
	}
	if data.ViewsLast30Days, err = db.countEvents(`event_type = 'view' AND timestamp >= datetime('now', '-30 days')`); err != nil {
		return nil, err
	}

	if data.RecentViews, err = db.queryActivity(activitySelect + `
		WHERE a.event_type = 'view'
		ORDER BY a.timestamp DESC, a.id DESC
		LIMIT 10`); err != nil {
		return nil, err
	}

	if data.RecentRSVPEvents, err = db.queryActivity(activitySelect + `
		WHERE a.event_type IN ('rsvp_button_click', 'rsvp_action_success', 'rsvp_action_error', 'rsvp_action_exception')
		ORDER BY a.timestamp DESC, a.id DESC
		LIMIT 10`); err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT i.id, i.name, i.lastname, i.slug, COUNT(a.id) AS view_count
		FROM invitations i
		LEFT JOIN analytics a ON i.id = a.invitation_id AND a.event_type = 'view'
		WHERE i.is_active = 1
		GROUP BY i.id, i.name, i.lastname, i.slug
		ORDER BY view_count DESC, i.created_at DESC
		LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("failed to query top invitations: %w", err)
	}
	defer rows.Close()
	data.TopInvitations = []*TopInvitation{}
	for rows.Next() {
		t := &TopInvitation{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Lastname, &t.Slug, &t.ViewCount); err != nil {
			return nil, fmt.Errorf("failed to scan top invitation: %w", err)
		}
		data.TopInvitations = append(data.TopInvitations, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read top invitations: %w", err)
	}

	if data.ViewsByDay, err = db.viewsByDay(mod); err != nil {
		return nil, err
	}
	if data.ConfirmationEvents, err = db.confirmationEvents(10); err != nil {
		return nil, err
	}
	if data.RecentConfirmations, err = db.confirmationsByDay(mod); err != nil {
		return nil, err
	}

	return data, nil
}

func (db *DB) viewsByDay(mod string) ([]*DayCount, error) {
	rows, err := db.Query(`
		SELECT DATE(datetime(a.timestamp, ?)) AS date, COUNT(*) AS count
		FROM analytics a
		WHERE a.event_type = 'view'
		AND a.timestamp >= datetime('now', '-7 days')
		GROUP BY DATE(datetime(a.timestamp, ?))
		ORDER BY date DESC`, mod, mod)
	if err != nil {
		return nil, fmt.Errorf("failed to query views by day: %w", err)
	}
	defer rows.Close()

	buckets := []*DayCount{}
	for rows.Next() {
		d := &DayCount{}
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, fmt.Errorf("failed to scan day bucket: %w", err)
		}
		buckets = append(buckets, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read day buckets: %w", err)
	}
	return buckets, nil
}

func (db *DB) confirmationEvents(limit int) ([]*ConfirmationEvent, error) {
	rows, err := db.Query(`
		SELECT
			ae.id, ae.timestamp, ae.ip_address, ae.user_agent,
			json_extract(ae.event_data, '$.slug') AS slug,
			json_extract(ae.event_data, '$.action') AS action
		FROM analytics ae
		WHERE ae.event_type = 'invitation_confirmation_change'
		ORDER BY ae.timestamp DESC, ae.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query confirmation events: %w", err)
	}
	defer rows.Close()

	events := []*ConfirmationEvent{}
	for rows.Next() {
		e := &ConfirmationEvent{}
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.IPAddress, &e.UserAgent, &e.Slug, &e.Action); err != nil {
			return nil, fmt.Errorf("failed to scan confirmation event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read confirmation events: %w", err)
	}
	return events, nil
}

func (db *DB) confirmationsByDay(mod string) ([]*ConfirmationDayCount, error) {
	rows, err := db.Query(`
		SELECT
			DATE(datetime(ae.timestamp, ?)) AS date,
			json_extract(ae.event_data, '$.action') AS action,
			COUNT(*) AS count
		FROM analytics ae
		WHERE ae.event_type = 'invitation_confirmation_change'
		AND ae.timestamp >= datetime('now', '-7 days')
		GROUP BY DATE(datetime(ae.timestamp, ?)), json_extract(ae.event_data, '$.action')
		ORDER BY date DESC`, mod, mod)
	if err != nil {
		return nil, fmt.Errorf("failed to query confirmations by day: %w", err)
	}
	defer rows.Close()

	buckets := []*ConfirmationDayCount{}
	for rows.Next() {
		c := &ConfirmationDayCount{}
		if err := rows.Scan(&c.Date, &c.Action, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan confirmation bucket: %w", err)
		}
		buckets = append(buckets, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read confirmation buckets: %w", err)
	}
	return buckets, nil
}

// StatsTotals and StatsRecent mirror the dashboard stat cards.
type StatsTotals struct {
	Invitations  int64 `json:"invitations"`
	RSVPs        int64 `json:"rsvps"`
	Views        int64 `json:"views"`
	PendingRSVPs int64 `json:"pending_rsvps"`
}

type StatsRecent struct {
	ViewsLast7Days int64 `json:"views_last_7_days"`
	RSVPsLast7Days int64 `json:"rsvps_last_7_days"`
}

type Stats struct {
	Totals         StatsTotals      `json:"totals"`
	Recent         StatsRecent      `json:"recent"`
	TopInvitations []*TopInvitation `json:"top_invitations"`
}

// DashboardStats computes the headline counters: active invitations,
// confirmations, distinct invitations viewed, and 7-day movement.
func (db *DB) DashboardStats() (*Stats, error) {
	stats := &Stats{}

	queries := []struct {
		dst   *int64
		query string
	}{
		{&stats.Totals.Invitations, `SELECT COUNT(*) FROM invitations WHERE is_active = 1`},
		{&stats.Totals.RSVPs, `SELECT COUNT(*) FROM invitations WHERE is_active = 1 AND is_confirmed = 1`},
		{&stats.Totals.Views, `SELECT COUNT(DISTINCT invitation_id) FROM analytics WHERE event_type = 'view'`},
		{&stats.Totals.PendingRSVPs, `SELECT COUNT(*) FROM invitations WHERE is_active = 1 AND is_confirmed = 0`},
		{&stats.Recent.ViewsLast7Days, `SELECT COUNT(DISTINCT invitation_id) FROM analytics WHERE event_type = 'view' AND timestamp >= datetime('now', '-7 days')`},
		{&stats.Recent.RSVPsLast7Days, `SELECT COUNT(*) FROM invitations WHERE is_confirmed = 1 AND updated_at >= datetime('now', '-7 days')`},
	}
	for _, q := range queries {
		if err := db.QueryRow(q.query).Scan(q.dst); err != nil {
			return nil, fmt.Errorf("failed to query stats: %w", err)
		}
	}

	rows, err := db.Query(`
		SELECT i.id, i.name, i.lastname, i.slug, COUNT(a.id) AS view_count
		FROM invitations i
		LEFT JOIN analytics a ON i.id = a.invitation_id AND a.event_type = 'view'
		WHERE i.is_active = 1
		GROUP BY i.id, i.name, i.lastname, i.slug
		ORDER BY view_count DESC
		LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("failed to query top invitations: %w", err)
	}
	defer rows.Close()

	stats.TopInvitations = []*TopInvitation{}
	for rows.Next() {
		t := &TopInvitation{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Lastname, &t.Slug, &t.ViewCount); err != nil {
			return nil, fmt.Errorf("failed to scan top invitation: %w", err)
		}
		stats.TopInvitations = append(stats.TopInvitations, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read top invitations: %w", err)
	}

	return stats, nil
}

// ActivityFilter narrows the recent-activity feed.
type ActivityFilter struct {
	EventType string
	Slug      string
	Limit     int
	Offset    int
}

// RecentActivity returns a filtered page of the activity feed plus the total
// matching row count.
func (db *DB) RecentActivity(f ActivityFilter) ([]*ActivityEntry, int64, error) {
	where := `a.event_type IN ('` + strings.Join(activityEventTypes, `', '`) + `')`
	args := []any{}

	if f.EventType != "" {
		where += ` AND a.event_type = ?`
		args = append(args, f.EventType)
	}
	if f.Slug != "" {
		where += ` AND i.slug = ?`
		args = append(args, f.Slug)
	}

	var total int64
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM analytics a
		LEFT JOIN invitations i ON a.invitation_id = i.id
		WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count activity: %w", err)
	}

	query := activitySelect + `
		WHERE ` + where + `
		ORDER BY a.timestamp DESC, a.id DESC
		LIMIT ? OFFSET ?`
	entries, err := db.queryActivity(query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// Top-invitation list states.
const (
	StateViewed    = "viewed"
	StateNotViewed = "not_viewed"
	StateConfirmed = "confirmed"
	StatePending   = "pending"
)

// TopInvitationsByViews returns active invitations ordered by derived view
// count, optionally narrowed to a state: viewed/not_viewed filter on the
// derived count, confirmed/pending on the RSVP flag.
func (db *DB) TopInvitationsByViews(state string, limit, offset int) ([]*Invitation, int64, error) {
	where := `i.is_active = 1`
	having := ``
	switch state {
	case StateConfirmed:
		where += ` AND i.is_confirmed = 1`
	case StatePending:
		where += ` AND i.is_confirmed = 0`
	case StateViewed:
		having = `HAVING COUNT(a.id) > 0`
	case StateNotViewed:
		having = `HAVING COUNT(a.id) = 0`
	case "":
	default:
		return nil, 0, fmt.Errorf("unknown state filter %q", state)
	}

	base := `
		FROM invitations i
		LEFT JOIN analytics a ON i.id = a.invitation_id AND a.event_type = 'view'
		WHERE ` + where + `
		GROUP BY i.id ` + having

	var total int64
	err := db.QueryRow(`SELECT COUNT(*) FROM (SELECT i.id ` + base + `)`).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count top invitations: %w", err)
	}

	rows, err := db.Query(`
		SELECT
			i.id, i.slug, i.name, i.lastname, i.secondary_name, i.secondary_lastname,
			i.number_of_passes, i.is_confirmed, i.is_active, i.created_at, i.updated_at,
			COALESCE(COUNT(a.id), 0) AS view_count `+base+`
		ORDER BY view_count DESC, i.created_at DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query top invitations: %w", err)
	}
	defer rows.Close()

	invitations := []*Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read top invitations: %w", err)
	}

	return invitations, total, nil
}

// FilterInvite is one slug choice in the activity filter dropdown.
type FilterInvite struct {
	Slug              string  `json:"slug"`
	Name              string  `json:"name"`
	Lastname          string  `json:"lastname"`
	SecondaryName     *string `json:"secondary_name"`
	SecondaryLastname *string `json:"secondary_lastname"`
}

// FilterOptions lists the event types and invitation slugs that actually
// appear in the activity feed.
type FilterOptions struct {
	EventTypes []string        `json:"eventTypes"`
	Invites    []*FilterInvite `json:"invites"`
}

func (db *DB) ActivityFilterOptions() (*FilterOptions, error) {
	in := `('` + strings.Join(activityEventTypes, `', '`) + `')`

	opts := &FilterOptions{EventTypes: []string{}, Invites: []*FilterInvite{}}

	rows, err := db.Query(`
		SELECT DISTINCT event_type FROM analytics
		WHERE event_type IN ` + in + `
		ORDER BY event_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to query event types: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var et string
		if err := rows.Scan(&et); err != nil {
			return nil, fmt.Errorf("failed to scan event type: %w", err)
		}
		opts.EventTypes = append(opts.EventTypes, et)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event types: %w", err)
	}

	inviteRows, err := db.Query(`
		SELECT DISTINCT i.slug, i.name, i.lastname, i.secondary_name, i.secondary_lastname
		FROM analytics a
		LEFT JOIN invitations i ON a.invitation_id = i.id
		WHERE a.event_type IN ` + in + ` AND i.slug IS NOT NULL
		ORDER BY i.name, i.lastname`)
	if err != nil {
		return nil, fmt.Errorf("failed to query filter invites: %w", err)
	}
	defer inviteRows.Close()
	for inviteRows.Next() {
		fi := &FilterInvite{}
		if err := inviteRows.Scan(&fi.Slug, &fi.Name, &fi.Lastname, &fi.SecondaryName, &fi.SecondaryLastname); err != nil {
			return nil, fmt.Errorf("failed to scan filter invite: %w", err)
		}
		opts.Invites = append(opts.Invites, fi)
	}
	if err := inviteRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read filter invites: %w", err)
	}

	return opts, nil
}
