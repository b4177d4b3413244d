package interfaces

import "stock-analyzer/src/models"

// -----------------------------------------------------------------------------
// IDataExchanger defines the contract for the serving boundary.
// -----------------------------------------------------------------------------

type IDataExchanger interface {

	// Start runs the server (blocking).
	Start() error

	// Stop shuts the server down.
	Stop() error

	// UpdateLatestReport replaces the cached report served to new clients.
	UpdateLatestReport(report *models.MAnalysisReport)

	// Broadcast pushes a completed report to all connected clients.
	Broadcast(report *models.MAnalysisReport)
}
