package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to manage background import processing.
// Example usage:
//
//	scheduler := NewScheduler(configCache, dumpParser, saleRepo)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewImportSourceTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
