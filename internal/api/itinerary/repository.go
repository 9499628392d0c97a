package itinerary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/citywalk/go-walk-suggestions/internal/types"
)

var _ Repository = (*PostgresRepository)(nil)

// Repository persists generation interactions for later analysis.
// Persistence is best effort; the pipeline runs the same without it.
type Repository interface {
	SaveInteraction(ctx context.Context, interaction types.GenerationInteraction) (uuid.UUID, error)
	RecentInteractions(ctx context.Context, userID string, limit int) ([]types.GenerationInteraction, error)
}

// PGXPool is the slice of the pgx pool the repository actually uses.
type PGXPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	logger *slog.Logger
	pgpool PGXPool
}

func NewPostgresRepository(pgxPool PGXPool, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		pgpool: pgxPool,
	}
}

func (r *PostgresRepository) SaveInteraction(ctx context.Context, interaction types.GenerationInteraction) (uuid.UUID, error) {
	ctx, span := otel.Tracer("ItineraryRepository").Start(ctx, "SaveInteraction")
	defer span.End()

	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx, `
        INSERT INTO generation_interactions (user_id, interests, time_hours, response_text, success, latency_ms)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`,
		interaction.UserID,
		interaction.Interests,
		interaction.TimeHours,
		interaction.ResponseText,
		interaction.Success,
		interaction.LatencyMs,
	).Scan(&id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to insert interaction")
		return uuid.Nil, fmt.Errorf("failed to save generation interaction: %w", err)
	}
	span.SetStatus(codes.Ok, "Interaction saved")
	return id, nil
}

func (r *PostgresRepository) RecentInteractions(ctx context.Context, userID string, limit int) ([]types.GenerationInteraction, error) {
	ctx, span := otel.Tracer("ItineraryRepository").Start(ctx, "RecentInteractions")
	defer span.End()

	rows, err := r.pgpool.Query(ctx, `
        SELECT id, user_id, interests, time_hours, response_text, success, latency_ms, created_at
        FROM generation_interactions
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2`, userID, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to query interactions")
		return nil, fmt.Errorf("failed to query generation interactions: %w", err)
	}
	defer rows.Close()

	var interactions []types.GenerationInteraction
	for rows.Next() {
		var it types.GenerationInteraction
		if err := rows.Scan(&it.ID, &it.UserID, &it.Interests, &it.TimeHours,
			&it.ResponseText, &it.Success, &it.LatencyMs, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan generation interaction: %w", err)
		}
		interactions = append(interactions, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read generation interactions: %w", err)
	}
	span.SetStatus(codes.Ok, "Interactions fetched")
	return interactions, nil
}
