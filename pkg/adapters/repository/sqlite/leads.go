package sqlite

import (
	"context"

	"github.com/orchis-hq/orchis/pkg/core/domain"
)

func (r *SQLiteRepository) CreateContact(ctx context.Context, msg *domain.ContactMessage) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (id, name, email, subject, message, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.Name, msg.Email, msg.Subject, msg.Message, formatTime(msg.CreatedAt))
	return mapConstraintError(err)
}

func (r *SQLiteRepository) ListContacts(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, subject, message, created_at FROM contacts ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []domain.ContactMessage{}
	for rows.Next() {
		var m domain.ContactMessage
		var name, subject, message *string
		if err := rows.Scan(&m.ID, &name, &m.Email, &subject, &message, timeValue{&m.CreatedAt}); err != nil {
			return nil, err
		}
		m.Name, m.Subject, m.Message = deref(name), deref(subject), deref(message)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *SQLiteRepository) CreateWaitlistSignup(ctx context.Context, signup *domain.WaitlistSignup) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO waitlist (email, source, created_at) VALUES (?, ?, ?)`,
		signup.Email, signup.Source, formatTime(signup.CreatedAt))
	return mapConstraintError(err)
}

func (r *SQLiteRepository) ListWaitlist(ctx context.Context, limit, offset int) ([]domain.WaitlistSignup, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT email, source, created_at FROM waitlist ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	signups := []domain.WaitlistSignup{}
	for rows.Next() {
		var s domain.WaitlistSignup
		var source *string
		if err := rows.Scan(&s.Email, &source, timeValue{&s.CreatedAt}); err != nil {
			return nil, err
		}
		s.Source = deref(source)
		signups = append(signups, s)
	}
	return signups, rows.Err()
}

// --- Search term counters ---

func (r *SQLiteRepository) IncrementTerm(ctx context.Context, term string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO search_terms (term, count, updated_at) VALUES (?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(term) DO UPDATE SET count = count + 1, updated_at = CURRENT_TIMESTAMP`, term)
	return err
}

func (r *SQLiteRepository) TopTerms(ctx context.Context, limit int) ([]domain.SearchTerm, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT term, count FROM search_terms ORDER BY count DESC, term ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	terms := []domain.SearchTerm{}
	for rows.Next() {
		var t domain.SearchTerm
		if err := rows.Scan(&t.Term, &t.Count); err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}
