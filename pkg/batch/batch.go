package batch

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"FotaClientv2/internal/config"
	"FotaClientv2/internal/logging"
	"FotaClientv2/pkg/fusapi"
)

func NewWorker(id int, client *fusapi.Client, inputQueue chan ResolveJob, outputQueue chan ResolveOutcome, wg *sync.WaitGroup) *ResolveWorker {
	return &ResolveWorker{
		Id:          id,
		Client:      client,
		InputQueue:  inputQueue,
		OutputQueue: outputQueue,
		wg:          wg,
	}
}

func (worker *ResolveWorker) Start(ctx context.Context) {
	logging.GlobalLogger.Debug("Started resolve worker " + strconv.Itoa(worker.Id))

	worker.wg.Add(1)
	go func() {
		defer worker.wg.Done()
		for job := range worker.InputQueue {
			info, err := worker.Client.GetLatestVersion(ctx, job.Model, job.Region)
			if err != nil {
				logging.GlobalLogger.Warn("Worker " + strconv.Itoa(worker.Id) + ": Failed to resolve " + job.Model + "/" + job.Region + ": " + err.Error())
				worker.OutputQueue <- ResolveOutcome{Job: job, Succeeded: false, Err: err}
				continue
			}
			logging.GlobalLogger.Debug("Worker " + strconv.Itoa(worker.Id) + ": Resolved " + job.Model + "/" + job.Region)
			worker.OutputQueue <- ResolveOutcome{Job: job, Info: info, Succeeded: true}
		}
	}()
}

func NewResolver(ctx context.Context, buffSize int) *Resolver {
	logging.GlobalLogger.Info("Initializing batch resolver with " + strconv.Itoa(config.Config.ConcurrentResolves) + " concurrent resolves")

	threadCount := config.Config.ConcurrentResolves
	inputQueue := make(chan ResolveJob, buffSize)
	outputQueue := make(chan ResolveOutcome, buffSize)
	workers := make([]*ResolveWorker, threadCount)

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: threadCount * 2,
		MaxConnsPerHost:     threadCount * 2,
		IdleConnTimeout:     90 * time.Second,
	}

	client := fusapi.NewClient()
	client.HTTPClient = &http.Client{
		Transport: transport,
		Timeout:   time.Duration(config.Config.ManifestTimeoutSeconds) * time.Second,
	}

	wg := &sync.WaitGroup{}

	for i := 0; i < threadCount; i++ {
		workers[i] = NewWorker(i, client, inputQueue, outputQueue, wg)
		workers[i].Start(ctx)
	}

	return &Resolver{
		ThreadCount: threadCount,
		Client:      client,
		InputQueue:  inputQueue,
		OutputQueue: outputQueue,
		Workers:     workers,
		wg:          wg,
	}
}

func (r *Resolver) Stop() {
	close(r.InputQueue)
	r.wg.Wait()
	close(r.OutputQueue)
}

// ResolveAll pushes every job through the pool and collects one outcome
// per job. Outcomes arrive in completion order, not submission order.
func (r *Resolver) ResolveAll(jobs []ResolveJob) []ResolveOutcome {
	go func() {
		for _, job := range jobs {
			r.InputQueue <- job
		}
	}()

	outcomes := make([]ResolveOutcome, 0, len(jobs))
	for range jobs {
		outcomes = append(outcomes, <-r.OutputQueue)
	}
	return outcomes
}
