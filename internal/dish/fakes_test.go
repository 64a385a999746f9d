package dish

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"menushot/internal/llm"
)

// fakeGateway stands in for Gemini. Synthesis can be gated so tests can
// observe the intermediate generating state.
type fakeGateway struct {
	mu sync.Mutex

	parsed       *llm.ParsedMenu
	parseErr     error
	parseCalls   int
	parseGate    chan struct{}
	parseStarted chan struct{}

	failFor     map[string]bool
	synthCalls  []string
	synthStyles []llm.Style
	inFlight    int
	maxInFlight int
	imageSeq    int

	gate    chan struct{}
	started chan string
}

func newFakeGateway(names ...string) *fakeGateway {
	menu := &llm.ParsedMenu{}
	for _, n := range names {
		menu.Dishes = append(menu.Dishes, llm.ParsedDish{Name: n, Description: n + " description"})
	}
	return &fakeGateway{
		parsed:       menu,
		failFor:      make(map[string]bool),
		started:      make(chan string, 64),
		parseStarted: make(chan struct{}, 8),
	}
}

func (f *fakeGateway) ParseMenuText(ctx context.Context, text string) (*llm.ParsedMenu, error) {
	select {
	case f.parseStarted <- struct{}{}:
	default:
	}
	if f.parseGate != nil {
		<-f.parseGate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.parseCalls++
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return f.parsed, nil
}

func (f *fakeGateway) SynthesizeImage(ctx context.Context, dishName, description string, style llm.Style) (string, error) {
	f.mu.Lock()
	f.synthCalls = append(f.synthCalls, dishName)
	f.synthStyles = append(f.synthStyles, style)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	gate := f.gate
	f.mu.Unlock()

	f.started <- dishName
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--

	if f.failFor[dishName] {
		return "", &llm.GenerationError{Dish: dishName, Err: errors.New("no image was generated")}
	}
	f.imageSeq++
	return fmt.Sprintf("data:image/png;base64,aW1n%d", f.imageSeq), nil
}

func (f *fakeGateway) setFail(name string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failFor[name] = fail
}

func (f *fakeGateway) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.synthCalls...)
}

type fakeImageStore struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (s *fakeImageStore) PutDataURI(ctx context.Context, key string, dataURI string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.keys = append(s.keys, key)
	return "https://cdn.example/" + key + ".png", nil
}

type testEnv struct {
	service   *Service
	repo      *InMemoryRepository
	gateway   *fakeGateway
	sessionID string
}

func newTestEnv(t *testing.T, gw *fakeGateway, images ImageStore, opts Options) *testEnv {
	t.Helper()

	repo := NewInMemoryRepository()
	worker := NewWorker(16)
	svc := NewService(repo, gw, images, worker, opts)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = worker.Run(ctx, svc.ProcessJob) }()

	sid, err := repo.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	return &testEnv{service: svc, repo: repo, gateway: gw, sessionID: sid}
}

func (e *testEnv) parse(t *testing.T, text string) []Dish {
	t.Helper()
	dishes, err := e.service.ParseMenu(context.Background(), e.sessionID, text)
	if err != nil {
		t.Fatalf("parse menu: %v", err)
	}
	return dishes
}

func (e *testEnv) dishes(t *testing.T) []Dish {
	t.Helper()
	dishes, err := e.service.Dishes(context.Background(), e.sessionID)
	if err != nil {
		t.Fatalf("list dishes: %v", err)
	}
	return dishes
}

func (e *testEnv) setStatus(t *testing.T, dishID string, status Status, image string) {
	t.Helper()
	_, err := e.repo.UpdateDish(context.Background(), e.sessionID, dishID, func(d *Dish) {
		d.Status = status
		d.ImageURL = image
	})
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
}

func waitBatch(t *testing.T, b *Batch) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.Wait(ctx); err != nil {
		t.Fatalf("batch did not finish: %v", err)
	}
}

func waitStarted(t *testing.T, gw *fakeGateway) string {
	t.Helper()
	select {
	case name := <-gw.started:
		return name
	case <-time.After(5 * time.Second):
		t.Fatal("synthesis never started")
		return ""
	}
}
