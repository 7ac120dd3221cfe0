package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/radiocomunidad/radio-community/internal/models"
)

// CreateProposal сохраняет новое предложение и возвращает его ID.
func (s *Storage) CreateProposal(ctx context.Context, p models.Proposal) (int64, error) {
	const op = "storage.CreateProposal"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO proposals (title, description, created_by, status, target_amount, category)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		p.Title, p.Description, p.CreatedBy, p.Status, p.TargetAmountCents, p.Category).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListProposals возвращает предложения, новые первыми, с пагинацией.
func (s *Storage) ListProposals(ctx context.Context, limit, offset int) ([]*models.Proposal, error) {
	const op = "storage.ListProposals"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, created_by, status, votes_for, votes_against,
			      target_amount, current_amount, category, created_at, updated_at, voting_ends_at
			  FROM proposals
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetProposal возвращает предложение по ID.
func (s *Storage) GetProposal(ctx context.Context, id int64) (*models.Proposal, error) {
	const op = "storage.GetProposal"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, created_by, status, votes_for, votes_against,
			      target_amount, current_amount, category, created_at, updated_at, voting_ends_at
			  FROM proposals
			  WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)
	p, err := scanProposal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProposal(row rowScanner) (*models.Proposal, error) {
	p := &models.Proposal{}
	var targetAmount sql.NullInt64
	var category sql.NullString
	var votingEndsAt sql.NullTime
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.CreatedBy, &p.Status,
		&p.VotesFor, &p.VotesAgainst, &targetAmount, &p.CurrentAmountCents,
		&category, &p.CreatedAt, &p.UpdatedAt, &votingEndsAt); err != nil {
		return nil, err
	}
	if targetAmount.Valid {
		p.TargetAmountCents = &targetAmount.Int64
	}
	if category.Valid {
		p.Category = category.String
	}
	if votingEndsAt.Valid {
		p.VotingEndsAt = &votingEndsAt.Time
	}
	return p, nil
}

// CreateVote сохраняет голос участника. Повторный голос по тому же
// предложению нарушает уникальное ограничение и возвращает ErrUniqueViolation.
func (s *Storage) CreateVote(ctx context.Context, vote models.Vote) (int64, error) {
	const op = "storage.CreateVote"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO votes (proposal_id, user_id, vote_type)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query, vote.ProposalID, vote.UserID, vote.VoteType).Scan(&newID)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return 0, fmt.Errorf("%s: %w", op, mapped)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// AddVoteToCounters увеличивает счётчик голосов "за" или "против".
func (s *Storage) AddVoteToCounters(ctx context.Context, proposalID int64, voteType string) error {
	const op = "storage.AddVoteToCounters"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	column := "votes_for"
	if voteType == models.VoteAgainst {
		column = "votes_against"
	}
	query := fmt.Sprintf(`UPDATE proposals
			  SET %s = %s + 1, updated_at = NOW()
			  WHERE id = $1`, column, column)
	_, err := s.DB.ExecContext(ctx, query, proposalID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateContribution сохраняет дополнительный взнос в предложение.
func (s *Storage) CreateContribution(ctx context.Context, c models.Contribution) (int64, error) {
	const op = "storage.CreateContribution"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO contributions (proposal_id, user_id, amount, payment_method, payment_id, status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		c.ProposalID, c.UserID, c.AmountCents, c.PaymentMethod, c.PaymentID, c.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// AddToCurrentAmount увеличивает собранную сумму предложения.
func (s *Storage) AddToCurrentAmount(ctx context.Context, proposalID, amountCents int64) error {
	const op = "storage.AddToCurrentAmount"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE proposals
			  SET current_amount = current_amount + $1, updated_at = NOW()
			  WHERE id = $2`
	_, err := s.DB.ExecContext(ctx, query, amountCents, proposalID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateComment сохраняет комментарий к предложению.
func (s *Storage) CreateComment(ctx context.Context, c models.ProposalComment) (int64, error) {
	const op = "storage.CreateComment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO proposal_comments (proposal_id, user_id, comment)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query, c.ProposalID, c.UserID, c.Comment).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListComments возвращает комментарии предложения вместе с именами авторов.
func (s *Storage) ListComments(ctx context.Context, proposalID int64) ([]*models.ProposalComment, error) {
	const op = "storage.ListComments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.id, c.proposal_id, c.user_id, u.name, c.comment, c.created_at
			  FROM proposal_comments c
			  JOIN users u ON u.id = c.user_id
			  WHERE c.proposal_id = $1
			  ORDER BY c.created_at ASC`
	rows, err := s.DB.QueryContext(ctx, query, proposalID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ProposalComment
	for rows.Next() {
		var c models.ProposalComment
		if err := rows.Scan(&c.ID, &c.ProposalID, &c.UserID, &c.UserName,
			&c.Comment, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
