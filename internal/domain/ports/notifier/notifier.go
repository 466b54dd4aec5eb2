package notifier

import "tender-analysis-service/internal/domain/model"

// AnalysisNotifier delivers live pipeline events to connected clients.
// Delivery is best effort: implementations must never block the caller
// and must drop subscribers they cannot write to.
type AnalysisNotifier interface {
	// SendQueueUpdate tells one owner where their job sits in the queue.
	SendQueueUpdate(ownerID int64, position, total int)

	// SendAnalysisUpdate reports job status and progress. Updates go to
	// every connected subscriber, not just the job's owner.
	SendAnalysisUpdate(analysisID int64, status model.AnalysisStatus, progress *int, errMsg string)
}
