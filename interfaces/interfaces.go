// Package interfaces defines core abstractions for the StatCan tables API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/shinysc/statcan-tables-api/statcan/entities"
)

// DataStore defines the contract for data storage operations.
// It provides thread-safe access to the cubes list, code sets and cached
// cube metadata, with atomic swaps for zero-downtime refreshes.
type DataStore interface {
	// Data retrieval methods
	GetCubes() []entities.Cube
	GetCubesMap() map[int]entities.Cube
	GetCodeSets() *entities.CodeSets
	CachedMetadata(productID int) (*entities.CubeMetadata, bool)
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time

	// Data update methods
	StoreMetadata(productID int, md *entities.CubeMetadata)
	UpdateData(cubes []entities.Cube, cubesMap map[int]entities.Cube, codeSets *entities.CodeSets)
	BeginUpdate() bool
	EndUpdate()
}

// MetadataClient defines the contract for talking to the StatCan Web Data
// Service.
type MetadataClient interface {
	CubeMetadata(ctx context.Context, productID int) (*entities.CubeMetadata, error)
	AllCubes(ctx context.Context) ([]entities.Cube, error)
	CodeSets(ctx context.Context) (*entities.CodeSets, error)
}

// Scheduler defines the contract for job scheduling and health monitoring.
// It manages automated cube-list refreshes and staleness checks.
type Scheduler interface {
	Start() error
	Stop()
}

// HTTPHandler defines the contract for HTTP request handlers.
type HTTPHandler interface {
	// ServeHTTP implements the http.Handler interface
	ServeHTTP(w http.ResponseWriter, r *http.Request)

	// Specific endpoint handlers
	ServePagedTables(w http.ResponseWriter, r *http.Request)
	DescribeTable(w http.ResponseWriter, r *http.Request)
	BuildTableURL(w http.ResponseWriter, r *http.Request)
	BuildFilteredTableURL(w http.ResponseWriter, r *http.Request)
	SearchTables(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current system health status
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// CalculateNextUpdate returns the next scheduled refresh time
	CalculateNextUpdate() time.Time
}

// InputValidator defines the contract for validating caller input.
type InputValidator interface {
	// ValidateInput validates user-supplied search strings
	ValidateInput(input string) error

	// ValidateProductID validates a productId path parameter
	ValidateProductID(input string) (int, error)

	// ValidateDate validates a YYYY-MM-DD date parameter; empty is allowed
	ValidateDate(input string) error
}
