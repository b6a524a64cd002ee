package sqlite

import (
	"context"
	"fmt"

	"github.com/matisarralde/paseos-de-blanca/pkg/core/model"
)

// GetFamily retrieves the household roster in its stable order
func (s *Store) GetFamily(ctx context.Context) ([]model.Person, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, avatar_color, status, invite_token, counts_on_leaderboard
		FROM family_member
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query family: %w", err)
	}
	defer rows.Close()

	var family []model.Person
	for rows.Next() {
		var p model.Person
		var status string
		var inviteToken *string
		if err := rows.Scan(&p.ID, &p.Name, &p.AvatarColor, &status, &inviteToken, &p.CountsOnLeaderboard); err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		p.Status = model.PersonStatus(status)
		if inviteToken != nil {
			p.InviteToken = *inviteToken
		}
		family = append(family, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating family members: %w", err)
	}

	return family, nil
}

// SaveFamily replaces the roster in a single transaction
func (s *Store) SaveFamily(ctx context.Context, family []model.Person) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM family_member`); err != nil {
		return fmt.Errorf("failed to clear family: %w", err)
	}

	for i, p := range family {
		var inviteToken *string
		if p.InviteToken != "" {
			inviteToken = &p.InviteToken
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO family_member (id, name, avatar_color, status, invite_token, counts_on_leaderboard, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, p.ID, p.Name, p.AvatarColor, string(p.Status), inviteToken, p.CountsOnLeaderboard, i)
		if err != nil {
			return fmt.Errorf("failed to insert family member %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
