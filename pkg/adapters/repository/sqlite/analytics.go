package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/orchis-hq/orchis/pkg/core/domain"
)

func (r *SQLiteRepository) UpsertDailyStat(ctx context.Context, stat *domain.DailyStat) error {
	categories, err := jsonText(stat.Categories)
	if err != nil {
		return err
	}
	sentiments, err := jsonText(stat.Sentiments)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO daily_stats (user_id, date, total_sessions, total_messages, categories, sentiments)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			total_sessions = excluded.total_sessions,
			total_messages = excluded.total_messages,
			categories = excluded.categories,
			sentiments = excluded.sentiments`,
		stat.UserID, stat.Date, stat.TotalSessions, stat.TotalMessages, categories, sentiments)
	return err
}

func (r *SQLiteRepository) CreateSession(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, anonymous_user_id, started_at, timezone, device, referrer,
			time_on_page_before_chat, session_duration, scroll_depth, is_return_visitor, message_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.AnonymousUserID, formatTime(s.StartedAt), s.Timezone, s.Device, s.Referrer,
		s.TimeOnPageBeforeChat, s.SessionDuration, s.ScrollDepth, s.IsReturnVisitor, s.MessageCount)
	return mapConstraintError(err)
}

func (r *SQLiteRepository) CreateConversation(ctx context.Context, c *domain.Conversation) error {
	var responseTime any
	if c.ResponseTimeSeconds != nil {
		responseTime = *c.ResponseTimeSeconds
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO conversations (id, user_id, created_at, category, sentiment, urgency, topic, resolved,
			response_time_seconds, last_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, formatTime(c.CreatedAt), c.Category, c.Sentiment, c.Urgency, c.Topic, c.Resolved,
		responseTime, c.LastMessage)
	return mapConstraintError(err)
}

func (r *SQLiteRepository) ListDailyStats(ctx context.Context, userID, fromDate string) ([]domain.DailyStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, date, total_sessions, total_messages, categories, sentiments
		FROM daily_stats WHERE user_id = ? AND date >= ? ORDER BY date ASC`, userID, fromDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []domain.DailyStat{}
	for rows.Next() {
		var s domain.DailyStat
		var categoriesJSON, sentimentsJSON []byte
		if err := rows.Scan(&s.UserID, &s.Date, &s.TotalSessions, &s.TotalMessages, &categoriesJSON, &sentimentsJSON); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(categoriesJSON, &s.Categories)
		_ = json.Unmarshal(sentimentsJSON, &s.Sentiments)
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *SQLiteRepository) ListSessions(ctx context.Context, userID string, since time.Time) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, anonymous_user_id, started_at, timezone, device, referrer,
			time_on_page_before_chat, session_duration, scroll_depth, is_return_visitor, message_count
		FROM sessions WHERE user_id = ? AND started_at >= ? ORDER BY started_at DESC`, userID, formatTime(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []domain.Session{}
	for rows.Next() {
		var s domain.Session
		var anonID, tz, device, referrer *string
		if err := rows.Scan(&s.ID, &s.UserID, &anonID, timeValue{&s.StartedAt}, &tz, &device, &referrer,
			&s.TimeOnPageBeforeChat, &s.SessionDuration, &s.ScrollDepth, &s.IsReturnVisitor, &s.MessageCount); err != nil {
			return nil, err
		}
		s.AnonymousUserID, s.Timezone, s.Device, s.Referrer = deref(anonID), deref(tz), deref(device), deref(referrer)
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *SQLiteRepository) ListConversations(ctx context.Context, userID string, since time.Time) ([]domain.Conversation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, created_at, category, sentiment, urgency, topic, resolved, response_time_seconds, last_message
		FROM conversations WHERE user_id = ? AND created_at >= ? ORDER BY created_at DESC`, userID, formatTime(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	convs := []domain.Conversation{}
	for rows.Next() {
		var c domain.Conversation
		var category, sentiment, urgency, topic, lastMessage *string
		var responseTime sql.NullFloat64
		if err := rows.Scan(&c.ID, &c.UserID, timeValue{&c.CreatedAt}, &category, &sentiment, &urgency, &topic,
			&c.Resolved, &responseTime, &lastMessage); err != nil {
			return nil, err
		}
		c.Category, c.Sentiment, c.Urgency, c.Topic = deref(category), deref(sentiment), deref(urgency), deref(topic)
		c.LastMessage = deref(lastMessage)
		if responseTime.Valid {
			v := responseTime.Float64
			c.ResponseTimeSeconds = &v
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}
