package core

import (
	"context"
	"sync"
	"time"

	"github.com/aureonone/seo-audit/pkg/interfaces"
	"github.com/aureonone/seo-audit/pkg/models"
)

const DefaultBatchWorkers = 4

// AuditorFunc adapts a function to interfaces.Auditor.
type AuditorFunc func(ctx context.Context, url string) (*models.AuditResult, error)

func (f AuditorFunc) Audit(ctx context.Context, url string) (*models.AuditResult, error) {
	return f(ctx, url)
}

// BatchOutcome is the result of auditing one URL of a batch. Exactly one of
// Result and Err is set.
type BatchOutcome struct {
	URL    string
	Result *models.AuditResult
	Err    error
}

// BatchAuditor audits several URLs with a bounded pool of workers.
type BatchAuditor struct {
	auditor interfaces.Auditor
	workers int
	logger  interfaces.Logger
}

func NewBatchAuditor(auditor interfaces.Auditor, workers int, logger interfaces.Logger) *BatchAuditor {
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}
	return &BatchAuditor{
		auditor: auditor,
		workers: workers,
		logger:  logger,
	}
}

// AuditAll returns one outcome per URL, in input order. Once ctx is done no
// further URLs are started; those report ctx.Err().
func (b *BatchAuditor) AuditAll(ctx context.Context, urls []string) []BatchOutcome {
	outcomes := make([]BatchOutcome, len(urls))
	if len(urls) == 0 {
		return outcomes
	}

	start := time.Now()
	workers := min(b.workers, len(urls))
	b.logger.Info("Starting batch audit", "url_count", len(urls), "workers", workers)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for idx := range jobs {
				b.logger.Debug("Worker auditing URL", "worker_id", id, "url", urls[idx])
				result, err := b.auditor.Audit(ctx, urls[idx])
				outcomes[idx] = BatchOutcome{URL: urls[idx], Result: result, Err: err}
			}
		}(i)
	}

	submitted := 0
submit:
	for ; submitted < len(urls); submitted++ {
		select {
		case jobs <- submitted:
		case <-ctx.Done():
			b.logger.Warn("Batch audit cancelled", "pending", len(urls)-submitted)
			break submit
		}
	}
	close(jobs)
	wg.Wait()

	for i := submitted; i < len(urls); i++ {
		outcomes[i] = BatchOutcome{URL: urls[i], Err: ctx.Err()}
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	b.logger.Info("Batch audit completed",
		"url_count", len(urls),
		"failed", failed,
		"duration", time.Since(start),
	)

	return outcomes
}
