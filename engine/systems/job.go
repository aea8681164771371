package systems

import (
	"fmt"
	"sync"
)

// JobTask is work that never touches the graphics context. Its result is
// handed back to the thread that collects it.
type JobTask struct {
	Name string
	Run  func() (interface{}, error)
}

type JobResult struct {
	Name  string
	Value interface{}
	Err   error
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	results    chan JobResult
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
		results:    make(chan JobResult, channelSize),
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				value, err := job.Run()
				js.results <- JobResult{Name: job.Name, Value: value, Err: err}
			}
		}()
	}
}

// Shutdown stops the workers once the queued jobs are done. Results not
// collected by then are dropped.
func (js *JobSystem) Shutdown() error {
	js.closeOnce.Do(func() {
		close(js.jobQueue)
		go func() {
			for range js.results {
			}
		}()
		js.wg.Wait()
		close(js.results)
	})
	return nil
}

// Submit queues the job, blocking while the queue is full.
func (js *JobSystem) Submit(jt JobTask) {
	js.jobQueue <- jt
}

// RunAll runs every task on the workers and returns the results in the
// order of tasks. Only one RunAll may be in flight at a time.
func (js *JobSystem) RunAll(tasks []JobTask) []JobResult {
	index := make(map[string][]int, len(tasks))
	for i, t := range tasks {
		index[t.Name] = append(index[t.Name], i)
	}

	go func() {
		for _, t := range tasks {
			js.Submit(t)
		}
	}()

	out := make([]JobResult, len(tasks))
	for range tasks {
		r := <-js.results
		slots := index[r.Name]
		out[slots[0]] = r
		index[r.Name] = slots[1:]
	}
	return out
}
