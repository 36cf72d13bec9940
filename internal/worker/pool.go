// Package worker runs the optional startup enrichment pass: it decodes
// mp3 streaming references and refines each track's energy trait from
// the measured signal level. The pool drains fully before the server
// starts serving, so the catalog is still effectively immutable.
package worker

import (
	"sync"

	"github.com/rs/zerolog"
)

// Job names one track's preview to analyze.
type Job struct {
	Title string
	URL   string
}

// Apply receives the measured energy for a track, in [0,1].
type Apply func(title string, energy float64)

// Pool manages the analysis workers.
type Pool struct {
	jobs  chan Job
	apply Apply
	log   zerolog.Logger
	wg    sync.WaitGroup
}

// NewPool creates a pool with the given queue size.
func NewPool(apply Apply, queueSize int, log zerolog.Logger) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{
		jobs:  make(chan Job, queueSize),
		apply: apply,
		log:   log.With().Str("component", "analyzer").Logger(),
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop closes the queue and waits for the workers to drain it.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Submit queues a job without blocking; a full queue drops the job.
func (p *Pool) Submit(job Job) {
	select {
	case p.jobs <- job:
	default:
		p.log.Warn().Str("title", job.Title).Msg("analysis queue full, dropping job")
	}
}

func (p *Pool) processJob(job Job) {
	if job.URL == "" {
		return
	}
	energy, err := AnalyzePreviewFunc(job.URL)
	if err != nil {
		p.log.Warn().Err(err).Str("title", job.Title).Msg("preview analysis failed")
		return
	}
	p.apply(job.Title, energy)
	p.log.Debug().Str("title", job.Title).Float64("energy", energy).Msg("preview analyzed")
}
