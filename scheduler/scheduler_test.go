package scheduler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shinysc/statcan-tables-api/statcan/entities"
)

// mockDataStore implements interfaces.DataStore for scheduler tests
type mockDataStore struct {
	mu          sync.Mutex
	cubes       []entities.Cube
	cubesMap    map[int]entities.Cube
	codeSets    *entities.CodeSets
	lastUpdated time.Time
	updating    bool
	updateCalls int
}

func (m *mockDataStore) GetCubes() []entities.Cube {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cubes
}

func (m *mockDataStore) GetCubesMap() map[int]entities.Cube {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cubesMap
}

func (m *mockDataStore) GetCodeSets() *entities.CodeSets {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codeSets
}

func (m *mockDataStore) CachedMetadata(productID int) (*entities.CubeMetadata, bool) {
	return nil, false
}

func (m *mockDataStore) GetLastUpdated() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastUpdated
}

func (m *mockDataStore) IsUpdating() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updating
}

func (m *mockDataStore) GetServerStartTime() time.Time { return time.Time{} }

func (m *mockDataStore) StoreMetadata(productID int, md *entities.CubeMetadata) {}

func (m *mockDataStore) UpdateData(cubes []entities.Cube, cubesMap map[int]entities.Cube, codeSets *entities.CodeSets) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cubes = cubes
	m.cubesMap = cubesMap
	if codeSets != nil {
		m.codeSets = codeSets
	}
	m.lastUpdated = time.Now()
	m.updateCalls++
}

func (m *mockDataStore) BeginUpdate() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updating {
		return false
	}
	m.updating = true
	return true
}

func (m *mockDataStore) EndUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updating = false
}

// mockClient implements interfaces.MetadataClient for scheduler tests
type mockClient struct {
	cubes        []entities.Cube
	cubesErr     error
	codeSets     *entities.CodeSets
	codeSetsErr  error
	allCubeCalls int
}

func (m *mockClient) CubeMetadata(ctx context.Context, productID int) (*entities.CubeMetadata, error) {
	return nil, fmt.Errorf("not used in scheduler tests")
}

func (m *mockClient) AllCubes(ctx context.Context) ([]entities.Cube, error) {
	m.allCubeCalls++
	return m.cubes, m.cubesErr
}

func (m *mockClient) CodeSets(ctx context.Context) (*entities.CodeSets, error) {
	return m.codeSets, m.codeSetsErr
}

func testCubes() []entities.Cube {
	return []entities.Cube{
		{ProductID: 34100292, CubeTitleEn: "Investment in building construction"},
		{ProductID: 18100004, CubeTitleEn: "Consumer Price Index"},
	}
}

func TestRefreshUpdatesStore(t *testing.T) {
	store := &mockDataStore{}
	client := &mockClient{
		cubes:    testCubes(),
		codeSets: &entities.CodeSets{Subject: []entities.SubjectCode{{SubjectCode: "18"}}},
	}

	s := NewRefreshScheduler(store, client)
	if err := s.refresh(); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if len(store.GetCubes()) != 2 {
		t.Errorf("cubes = %d, want 2", len(store.GetCubes()))
	}
	if _, ok := store.GetCubesMap()[34100292]; !ok {
		t.Error("cubesMap should contain 34100292")
	}
	if store.GetCodeSets() == nil {
		t.Error("code sets should be stored")
	}
	if store.GetLastUpdated().IsZero() {
		t.Error("lastUpdated should be set")
	}
	if store.IsUpdating() {
		t.Error("update flag should be cleared after refresh")
	}
}

func TestRefreshFailsOnCubeListError(t *testing.T) {
	store := &mockDataStore{}
	client := &mockClient{cubesErr: fmt.Errorf("wds down")}

	s := NewRefreshScheduler(store, client)
	if err := s.refresh(); err == nil {
		t.Error("refresh should fail when the cube list fetch fails")
	}
	if store.updateCalls != 0 {
		t.Error("store should not be updated on failure")
	}
	if store.IsUpdating() {
		t.Error("update flag should be cleared after a failed refresh")
	}
}

func TestRefreshRejectsEmptyCubeList(t *testing.T) {
	store := &mockDataStore{}
	client := &mockClient{cubes: []entities.Cube{}}

	s := NewRefreshScheduler(store, client)
	if err := s.refresh(); err == nil {
		t.Error("refresh should fail on an empty cube list")
	}
	if store.updateCalls != 0 {
		t.Error("store should not be updated with an empty list")
	}
}

func TestRefreshKeepsCodeSetsOnFetchFailure(t *testing.T) {
	previous := &entities.CodeSets{Subject: []entities.SubjectCode{{SubjectCode: "34"}}}
	store := &mockDataStore{codeSets: previous}
	client := &mockClient{
		cubes:       testCubes(),
		codeSetsErr: fmt.Errorf("code sets unavailable"),
	}

	s := NewRefreshScheduler(store, client)
	if err := s.refresh(); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if store.GetCodeSets() != previous {
		t.Error("previous code sets should survive a failed code-set fetch")
	}
	if len(store.GetCubes()) != 2 {
		t.Error("cube list should still be refreshed")
	}
}

func TestRefreshSkipsWhenUpdateInProgress(t *testing.T) {
	store := &mockDataStore{updating: true}
	client := &mockClient{cubes: testCubes()}

	s := NewRefreshScheduler(store, client)
	if err := s.refresh(); err != nil {
		t.Fatalf("refresh should skip quietly: %v", err)
	}
	if client.allCubeCalls != 0 {
		t.Error("skipped refresh should not hit the WDS")
	}
}

func TestStartAndStop(t *testing.T) {
	store := &mockDataStore{}
	client := &mockClient{
		cubes:    testCubes(),
		codeSets: &entities.CodeSets{},
	}

	s := NewRefreshScheduler(store, client)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	if store.updateCalls != 1 {
		t.Errorf("initial load should update the store once, got %d", store.updateCalls)
	}
}

func TestStartFailsWhenInitialLoadFails(t *testing.T) {
	store := &mockDataStore{}
	client := &mockClient{cubesErr: fmt.Errorf("wds down")}

	s := NewRefreshScheduler(store, client)
	if err := s.Start(); err == nil {
		s.Stop()
		t.Error("Start should fail when the initial load fails")
	}
}
