package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glucoguide/glucoguide/internal/risk"
)

const assessmentSchema = `
CREATE TABLE IF NOT EXISTS risk_assessments (
	id           BIGSERIAL PRIMARY KEY,
	user_id      TEXT NOT NULL,
	pregnancies  DOUBLE PRECISION NOT NULL,
	glucose      DOUBLE PRECISION NOT NULL,
	blood_pressure DOUBLE PRECISION NOT NULL,
	skin_thickness DOUBLE PRECISION NOT NULL,
	insulin      DOUBLE PRECISION NOT NULL,
	bmi          DOUBLE PRECISION NOT NULL,
	pedigree     DOUBLE PRECISION NOT NULL,
	age          DOUBLE PRECISION NOT NULL,
	probability  DOUBLE PRECISION NOT NULL,
	prediction   INT NOT NULL,
	risk_level   TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Archive is an append-only postgres record of every assessment. The
// in-memory stores stay authoritative; the archive is never read back.
type Archive struct {
	pool *pgxpool.Pool
}

// OpenArchive connects the pool, verifies it with a ping, and ensures the
// archive table exists.
func OpenArchive(ctx context.Context, url string) (*Archive, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if _, err := pool.Exec(ctx, assessmentSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Archive{pool: pool}, nil
}

// Ping checks the pool for the readiness endpoint.
func (a *Archive) Ping(ctx context.Context) error {
	return a.pool.Ping(ctx)
}

// SaveAssessment appends one assessment row.
func (a *Archive) SaveAssessment(ctx context.Context, userID string, rec risk.ClinicalRecord, res risk.Result) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO risk_assessments
			(user_id, pregnancies, glucose, blood_pressure, skin_thickness,
			 insulin, bmi, pedigree, age, probability, prediction, risk_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		userID, rec.Pregnancies, rec.Glucose, rec.BloodPressure, rec.SkinThickness,
		rec.Insulin, rec.BMI, rec.DiabetesPedigreeFunction, rec.Age,
		res.Probability, res.Prediction, res.Tier)
	return err
}

// Close releases the pool.
func (a *Archive) Close() {
	a.pool.Close()
}
