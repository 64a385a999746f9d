package dish

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"menushot/internal/llm"
	"menushot/internal/storage"

	"github.com/google/uuid"
)

// ImageStore moves a generated image out of the dish record and returns
// the URL to keep instead.
type ImageStore interface {
	PutDataURI(ctx context.Context, key string, dataURI string) (string, error)
}

type Options struct {
	// ClearImageOnFailure drops a previously generated image when a later
	// generation for the same dish fails. Off by default: the stale image
	// stays attached to the errored dish.
	ClearImageOnFailure bool
}

type Service struct {
	repo    Repository
	gateway llm.Gateway
	images  ImageStore
	worker  *Worker
	opts    Options
}

// NewService wires the orchestrator. images may be nil, in which case the
// gateway's data URIs are kept as-is.
func NewService(
	repo Repository,
	gateway llm.Gateway,
	images ImageStore,
	worker *Worker,
	opts Options,
) *Service {
	return &Service{
		repo:    repo,
		gateway: gateway,
		images:  images,
		worker:  worker,
		opts:    opts,
	}
}

// --------------------------------------------------
// Sessions
// --------------------------------------------------
func (s *Service) CreateSession(ctx context.Context) (string, error) {
	return s.repo.CreateSession(ctx)
}

func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	return s.repo.DeleteSession(ctx, sessionID)
}

func (s *Service) Dishes(ctx context.Context, sessionID string) ([]Dish, error) {
	return s.repo.ListDishes(ctx, sessionID)
}

func (s *Service) Dish(ctx context.Context, sessionID, dishID string) (Dish, error) {
	return s.repo.GetDish(ctx, sessionID, dishID)
}

// Parsing reports whether a menu parse is in flight for the session.
func (s *Service) Parsing(ctx context.Context, sessionID string) (bool, error) {
	return s.repo.IsParsing(ctx, sessionID)
}

// --------------------------------------------------
// Menu text -> pending dishes
// --------------------------------------------------

// ParseMenu turns menu text into a fresh dish list, all pending. Blank text
// is a no-op and returns (nil, nil). On failure the previous list is kept
// and the error matches llm.ErrParse.
func (s *Service) ParseMenu(ctx context.Context, sessionID string, text string) ([]Dish, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	if err := s.repo.BeginParsing(ctx, sessionID); err != nil {
		return nil, err
	}
	defer func() {
		_ = s.repo.EndParsing(context.WithoutCancel(ctx), sessionID)
	}()

	parsed, err := s.gateway.ParseMenuText(ctx, text)
	if err != nil {
		if !llm.IsParseError(err) {
			err = &llm.ParseError{Err: err}
		}
		log.Printf("MENU_PARSE_FAILED session=%s err=%v", sessionID, err)
		return nil, fmt.Errorf("parse menu: %w", err)
	}

	dishes := make([]Dish, 0, len(parsed.Dishes))
	for _, p := range parsed.Dishes {
		dishes = append(dishes, Dish{
			ID:          uuid.New().String(),
			Name:        p.Name,
			Description: p.Description,
			Status:      StatusPending,
		})
	}

	if err := s.repo.ReplaceDishes(ctx, sessionID, dishes); err != nil {
		return nil, err
	}

	log.Printf("MENU_PARSED session=%s dishes=%d", sessionID, len(dishes))
	return dishes, nil
}

// --------------------------------------------------
// Batch generation
// --------------------------------------------------

// GenerateAll marks every pending or errored dish as generating in one
// write, then queues them in list order. Completed and generating dishes
// are left alone. The returned batch can be waited on. When the shared
// queue runs out of room the batch is still returned, the dishes that did
// not fit are marked error, and the error matches ErrQueueFull.
func (s *Service) GenerateAll(ctx context.Context, sessionID string, style llm.Style) (*Batch, error) {
	selected, err := s.repo.UpdateDishes(ctx, sessionID, func(d *Dish) bool {
		if !d.Status.IsEligible() {
			return false
		}
		d.Status = StatusGenerating
		return true
	})
	if err != nil {
		return nil, err
	}

	log.Printf("GENERATE_ALL session=%s style=%s dishes=%d", sessionID, style, len(selected))
	return s.enqueue(ctx, sessionID, selected, style)
}

// RegenerateOne re-runs generation for a single dish whatever its status.
// An unknown dish id is a no-op and yields an empty batch. A full queue is
// handled as in GenerateAll.
func (s *Service) RegenerateOne(ctx context.Context, sessionID, dishID string, style llm.Style) (*Batch, error) {
	selected, err := s.repo.UpdateDishes(ctx, sessionID, func(d *Dish) bool {
		if d.ID != dishID {
			return false
		}
		d.Status = StatusGenerating
		return true
	})
	if err != nil {
		return nil, err
	}

	return s.enqueue(ctx, sessionID, selected, style)
}

func (s *Service) enqueue(ctx context.Context, sessionID string, dishes []Dish, style llm.Style) (*Batch, error) {
	ids := make([]string, 0, len(dishes))
	for _, d := range dishes {
		ids = append(ids, d.ID)
	}
	batch := newBatch(ids)

	for i, d := range dishes {
		job := Job{SessionID: sessionID, DishID: d.ID, Style: style, batch: batch}
		if err := s.worker.Enqueue(ctx, job); err != nil {
			// Nothing will pick these up; do not leave them stuck in generating.
			log.Printf("GENERATION_ENQUEUE_FAILED session=%s remaining=%d err=%v", sessionID, len(dishes)-i, err)
			for _, rest := range dishes[i:] {
				s.markFailed(context.WithoutCancel(ctx), sessionID, rest.ID)
				batch.done()
			}
			return batch, fmt.Errorf("queued %d of %d dishes: %w", i, len(dishes), err)
		}
	}

	return batch, nil
}

// --------------------------------------------------
// Worker side: one dish at a time
// --------------------------------------------------

// ProcessJob is the worker handler. It must only be called from Worker.Run.
func (s *Service) ProcessJob(ctx context.Context, job Job) {
	defer job.finish()

	d, err := s.repo.GetDish(ctx, job.SessionID, job.DishID)
	if err != nil {
		// Session reset or menu re-parsed while the job was queued.
		log.Printf("GENERATION_SKIPPED session=%s dish=%s reason=%v", job.SessionID, job.DishID, err)
		return
	}

	imageURL, err := s.photograph(ctx, job.SessionID, d, job.Style)
	if err != nil {
		log.Printf("GENERATION_FAILED session=%s dish=%s name=%q err=%v", job.SessionID, d.ID, d.Name, err)
		s.markFailed(ctx, job.SessionID, d.ID)
		return
	}

	_, err = s.repo.UpdateDish(ctx, job.SessionID, d.ID, func(d *Dish) {
		d.ImageURL = imageURL
		d.Status = StatusCompleted
	})
	if err != nil {
		log.Printf("GENERATION_DISCARDED session=%s dish=%s reason=%v", job.SessionID, d.ID, err)
		return
	}

	log.Printf("GENERATION_DONE session=%s dish=%s name=%q", job.SessionID, d.ID, d.Name)
}

func (s *Service) photograph(ctx context.Context, sessionID string, d Dish, style llm.Style) (string, error) {
	dataURI, err := s.gateway.SynthesizeImage(ctx, d.Name, d.Description, style)
	if err != nil {
		return "", err
	}
	if dataURI == "" {
		return "", &llm.GenerationError{Dish: d.Name, Err: errors.New("empty image reference")}
	}

	if s.images == nil {
		return dataURI, nil
	}

	url, err := s.images.PutDataURI(ctx, storage.DishImageKey(sessionID, d.ID), dataURI)
	if err != nil {
		return "", &llm.GenerationError{Dish: d.Name, Err: err}
	}
	return url, nil
}

func (s *Service) markFailed(ctx context.Context, sessionID, dishID string) {
	_, err := s.repo.UpdateDish(ctx, sessionID, dishID, func(d *Dish) {
		d.Status = StatusError
		if s.opts.ClearImageOnFailure {
			d.ImageURL = ""
		}
	})
	if err != nil && !IsNotFound(err) {
		log.Printf("GENERATION_STATUS_WRITE_FAILED session=%s dish=%s err=%v", sessionID, dishID, err)
	}
}
