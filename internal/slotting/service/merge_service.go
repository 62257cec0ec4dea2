package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/CedricGauzargues/Slottix/internal/warehouse"
	"go.uber.org/zap"
)

// mergeJob is one queued location-master reconciliation.
type mergeJob struct {
	filename string
	rows     []warehouse.Row
	done     chan error
}

// MergeService reconciles location imports into the master table in the
// background. Jobs run one at a time on a single worker: the pending
// history line is matched back by filename, so two concurrent merges of
// the same file must never overlap.
type MergeService struct {
	master  EmplacementStore
	history HistoryStore
	logger  *zap.Logger

	jobs chan mergeJob
	wg   sync.WaitGroup
}

func NewMergeService(master EmplacementStore, history HistoryStore, logger *zap.Logger) *MergeService {
	return &MergeService{
		master:  master,
		history: history,
		logger:  logger,
		jobs:    make(chan mergeJob, 16),
	}
}

// Start launches the worker. ctx only bounds the worker's lifetime; each
// job runs on its own context so an in-flight merge is not cut off by
// shutdown mid-statement.
func (s *MergeService) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case job, ok := <-s.jobs:
				if !ok {
					return
				}
				s.run(job)
			case <-ctx.Done():
				// Drain what is already queued before leaving.
				for {
					select {
					case job, ok := <-s.jobs:
						if !ok {
							return
						}
						s.run(job)
					default:
						return
					}
				}
			}
		}
	}()
}

// Stop closes the queue and waits for the worker to finish the jobs
// already accepted.
func (s *MergeService) Stop() {
	close(s.jobs)
	s.wg.Wait()
}

// Enqueue hands a cleaned import to the worker. The returned channel
// receives the outcome once; callers that do not care can discard it.
func (s *MergeService) Enqueue(filename string, rows []warehouse.Row) <-chan error {
	done := make(chan error, 1)
	s.jobs <- mergeJob{filename: filename, rows: rows, done: done}
	return done
}

func (s *MergeService) run(job mergeJob) {
	ctx := context.Background()
	err := s.reconcile(ctx, job.rows, job.filename)
	if err != nil {
		s.logger.Error("location merge failed",
			zap.String("fichier", job.filename), zap.Error(err))
		if herr := s.history.MarkError(ctx, job.filename, err.Error()); herr != nil {
			s.logger.Error("history update failed",
				zap.String("fichier", job.filename), zap.Error(herr))
		}
	}
	job.done <- err
}

func (s *MergeService) reconcile(ctx context.Context, rows []warehouse.Row, filename string) error {
	rows = cleanLocations(rows)
	rows = dedupLocations(rows)
	nbLignes := int64(len(rows))

	if err := s.master.StageBatch(ctx, rows); err != nil {
		return fmt.Errorf("stage: %w", err)
	}
	// The staging table never outlives the job, whatever the merge did.
	defer func() {
		if err := s.master.DiscardStage(ctx); err != nil {
			s.logger.Warn("staging table cleanup failed", zap.Error(err))
		}
	}()

	if err := s.master.MergeStaged(ctx); err != nil {
		return fmt.Errorf("merge: %w", err)
	}

	if err := s.history.MarkSuccess(ctx, filename, nbLignes); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	s.logger.Info("location merge done",
		zap.String("fichier", filename), zap.Int64("lignes", nbLignes))
	return nil
}

// cleanLocations drops rows without a zone, which cannot key into the
// master.
func cleanLocations(rows []warehouse.Row) []warehouse.Row {
	out := make([]warehouse.Row, 0, len(rows))
	for _, row := range rows {
		zone, _ := row["Zone"].(string)
		if strings.TrimSpace(zone) == "" {
			continue
		}
		out = append(out, row)
	}
	return out
}

// dedupLocations keeps the last occurrence of each location key, matching
// how a corrected line later in the file is meant to supersede an earlier
// one.
func dedupLocations(rows []warehouse.Row) []warehouse.Row {
	type slot struct {
		idx int
	}
	seen := make(map[string]slot, len(rows))
	out := make([]warehouse.Row, 0, len(rows))
	for _, row := range rows {
		key := fmt.Sprintf("%v|%v|%v|%v",
			row["Zone"], row["Allee"], row["Deplacement"], row["Niveau"])
		if s, ok := seen[key]; ok {
			out[s.idx] = row
			continue
		}
		seen[key] = slot{idx: len(out)}
		out = append(out, row)
	}
	return out
}
