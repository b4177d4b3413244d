package interfaces

import "stock-analyzer/src/models"

// -----------------------------------------------------------------------------
// IDatasetStore defines the contract for dataset storage operations.
//
// Datasets are named, immutable price-series inputs. Analysis results are
// never persisted; they live only behind in-memory handles.
// -----------------------------------------------------------------------------

type IDatasetStore interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// SaveDataset stores a named price series, replacing any previous
	// series of the same name.
	SaveDataset(name string, prices []float64) error

	// -----------------------------------------------------------------------------

	// LoadDataset returns the stored series, or an error if absent.
	LoadDataset(name string) (models.MDataset, error)

	// -----------------------------------------------------------------------------

	// ListDatasets returns the stored dataset summaries.
	ListDatasets() ([]models.MDatasetInfo, error)

	// -----------------------------------------------------------------------------

	// DeleteDataset removes a stored series. No-op if absent.
	DeleteDataset(name string) error

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
