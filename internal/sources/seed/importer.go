package seed

import (
	"context"
	"errors"

	"github.com/MrSnakeDoc/bugtrack/internal/bugs"
	"github.com/MrSnakeDoc/bugtrack/internal/domain"
	"github.com/MrSnakeDoc/bugtrack/internal/logger"
)

// Importer loads a seed file and inserts its bugs through the regular
// create contract. It runs once at startup, before the server accepts
// traffic, and only seeds an empty collection so restarts never duplicate
// records.
type Importer struct {
	loader *Loader
	svc    *bugs.Service
	store  bugs.Store
	logger logger.Logger
}

// NewImporter creates a seed importer for the given file.
func NewImporter(filePath string, svc *bugs.Service, store bugs.Store, log logger.Logger) *Importer {
	return &Importer{
		loader: NewLoader(filePath),
		svc:    svc,
		store:  store,
		logger: log,
	}
}

// Import seeds the store. Entries failing validation are logged and
// skipped; only I/O failures abort the import.
func (im *Importer) Import(ctx context.Context) error {
	total, err := im.store.Count(ctx, domain.Filter{})
	if err != nil {
		return err
	}
	if total > 0 {
		im.logger.Info("store not empty, skipping seed import",
			logger.Int64("existing", total))
		return nil
	}

	file, err := im.loader.Load()
	if err != nil {
		return err
	}
	if len(file.Bugs) == 0 {
		im.logger.Warn("seed file contains no bugs")
		return nil
	}

	imported, skipped := 0, 0
	for i := range file.Bugs {
		payload := file.Bugs[i].payload()
		if _, err := im.svc.Create(ctx, payload); err != nil {
			var validationErr *domain.ValidationError
			if errors.As(err, &validationErr) {
				skipped++
				im.logger.Warn("skipping invalid seed entry",
					logger.Int("index", i),
					logger.String("reason", validationErr.Error()))
				continue
			}
			return err
		}
		imported++
	}

	im.logger.Info("seed import finished",
		logger.Int("imported", imported),
		logger.Int("skipped", skipped))
	return nil
}

// payload maps a seed entry to a create payload. Empty optional fields are
// left absent so the contract's defaults apply.
func (e *Entry) payload() *domain.BugPayload {
	p := &domain.BugPayload{
		Title:       &e.Title,
		Description: &e.Description,
		Reporter:    &e.Reporter,
	}
	if e.Status != "" {
		p.Status = &e.Status
	}
	if e.Priority != "" {
		p.Priority = &e.Priority
	}
	if e.Assignee != "" {
		p.Assignee = &e.Assignee
	}
	if len(e.Tags) > 0 {
		tags := e.Tags
		p.Tags = &tags
	}
	if e.StepsToReproduce != "" {
		p.StepsToReproduce = &e.StepsToReproduce
	}
	if e.Environment != "" {
		p.Environment = &e.Environment
	}
	return p
}
