package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/training-manager/backend/internal/domain"
)

// getTrainingSnapshot 在创建分配的事务内读取培训的时点快照，
// 培训不存在时返回 sql.ErrNoRows。
func (r *Repository) getTrainingSnapshot(ctx context.Context, tx *sql.Tx, trainingID int64) (*domain.TrainingSnapshot, error) {
	query := `
		SELECT t.topic, t.start_at, t.end_at, tr.name, v.name
		FROM trainings t
		LEFT JOIN trainers tr ON t.trainer_id = tr.id
		LEFT JOIN venues v ON t.venue_id = v.id
		WHERE t.id = $1
	`

	snapshot := &domain.TrainingSnapshot{
		ID: trainingID,
	}

	dst := []any{&snapshot.Topic, &snapshot.StartAt, &snapshot.EndAt, &snapshot.TrainerName, &snapshot.VenueName}
	if err := tx.QueryRowContext(ctx, query, trainingID).Scan(dst...); err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (r *Repository) CreateTrainer(trainer *domain.Trainer) error {
	query := `
		INSERT INTO trainers (name) VALUES ($1) RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, trainer.Name).Scan(&trainer.ID); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateVenue(venue *domain.Venue) error {
	query := `
		INSERT INTO venues (name) VALUES ($1) RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, venue.Name).Scan(&venue.ID); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateTraining(training *domain.Training) error {
	query := `
		INSERT INTO trainings (topic, start_at, end_at, trainer_id, venue_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{training.Topic, training.StartAt, training.EndAt, training.TrainerID, training.VenueID}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&training.ID, &training.CreatedAt); err != nil {
		return err
	}

	return nil
}
