package background

import (
	"context"
	"log"
	"sync"
	"time"

	"gridstock/internal/analytics"
	"gridstock/internal/jobs"
	"gridstock/internal/repositories"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// JobScheduler manages the periodic maintenance jobs
type JobScheduler struct {
	scheduler     gocron.Scheduler
	analyticsSvc  *analytics.AnalyticsService
	reconcilerSvc *jobs.UsageReconcilerService
	alertSvc      *jobs.CapacityAlertService
	layoutRepo    repositories.LayoutRepository
	jobHandles    map[string]gocron.Job
	mu            sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(analyticsSvc *analytics.AnalyticsService, reconcilerSvc *jobs.UsageReconcilerService,
	alertSvc *jobs.CapacityAlertService, layoutRepo repositories.LayoutRepository) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:     scheduler,
		analyticsSvc:  analyticsSvc,
		reconcilerSvc: reconcilerSvc,
		alertSvc:      alertSvc,
		layoutRepo:    layoutRepo,
		jobHandles:    make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Summary refresh job - every 5 minutes
	summaryJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.refreshLayoutSummaries, context.Background()),
		gocron.WithName("layout-summary-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create summary refresh job: %v", err)
	} else {
		js.jobHandles["summary-refresh"] = summaryJob
	}

	// Usage reconciliation job - every hour
	reconcileJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.reconcilerSvc.ScheduledReconciliation, context.Background()),
		gocron.WithName("usage-reconciliation"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create usage reconciliation job: %v", err)
	} else {
		js.jobHandles["usage-reconciliation"] = reconcileJob
	}

	// Capacity alerts job - every 30 minutes
	alertsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.alertSvc.ScheduledCapacityCheck, context.Background()),
		gocron.WithName("capacity-alerts"),
	)
	if err != nil {
		log.Printf("Failed to create capacity alerts job: %v", err)
	} else {
		js.jobHandles["capacity-alerts"] = alertsJob
	}

	log.Printf("Registered %d background jobs", len(js.jobHandles))
}

// refreshLayoutSummaries rebuilds the cached summary for every layout
func (js *JobScheduler) refreshLayoutSummaries(ctx context.Context) error {
	log.Printf("Starting layout summary refresh")

	layouts, err := js.layoutRepo.List(ctx, 1000, 0)
	if err != nil {
		log.Printf("Failed to get layouts for summary refresh: %v", err)
		return err
	}

	// Process layouts in parallel with concurrency control
	semaphore := make(chan struct{}, 5)
	var wg sync.WaitGroup

	for _, layout := range layouts {
		wg.Add(1)
		go func(layoutID uuid.UUID) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := js.analyticsSvc.RefreshLayoutSummary(ctx, layoutID); err != nil {
				log.Printf("Failed to refresh summary for layout %s: %v", layoutID.String(), err)
			}
		}(layout.ID)
	}

	wg.Wait()
	log.Printf("Completed summary refresh for %d layouts", len(layouts))
	return nil
}

// AddJob adds a custom job to the scheduler
func (js *JobScheduler) AddJob(name string, interval time.Duration, taskFn interface{}, params ...interface{}) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(taskFn, params...),
		gocron.WithName(name),
	)
	if err != nil {
		return err
	}

	js.jobHandles[name] = job
	log.Printf("Added custom job: %s", name)
	return nil
}

// RemoveJob removes a job from the scheduler
func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobHandles[name]; exists {
		err := js.scheduler.RemoveJob(job.ID())
		delete(js.jobHandles, name)
		return err
	}

	return nil
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	status := make(map[string]interface{})
	status["total_jobs"] = len(js.jobHandles)
	names := make([]string, 0, len(js.jobHandles))
	for name := range js.jobHandles {
		names = append(names, name)
	}
	status["jobs"] = names

	return status
}
