package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"duospace/contract"
	"duospace/errors"
)

// Supervisor owns a cancelable context and runs each worker in its own
// goroutine. A panicking or failing worker is restarted after a short
// delay; one worker's crash must never take down the poll loops keeping
// the client in sync.
type Supervisor struct {
	Cancel          context.CancelFunc
	wg              *sync.WaitGroup
	log             *slog.Logger
	workers         []contract.Worker
	restartInterval time.Duration
}

func NewSupervisor(log *slog.Logger, restartInterval time.Duration) *Supervisor {
	return &Supervisor{
		wg:              &sync.WaitGroup{},
		log:             log,
		restartInterval: restartInterval,
	}
}

func (s *Supervisor) Add(worker ...contract.Worker) contract.ISupervisor {
	s.workers = append(s.workers, worker...)
	return s
}

// Run starts every registered worker under a child context and blocks
// until all of them have finished. Canceling the parent context, or
// calling Stop, winds everything down.
func (s *Supervisor) Run(ctx context.Context) {
	supervisedCtx, cancel := context.WithCancel(ctx)
	s.Cancel = cancel
	defer s.Cancel()

	for _, worker := range s.workers {
		s.Start(supervisedCtx, worker)
	}
	s.wg.Wait()
}

// Start runs one worker under supervision. A panic inside Run is
// recovered and treated as a crash; crashes restart after the restart
// interval, clean termination never restarts.
func (s *Supervisor) Start(ctx context.Context, worker contract.Worker) {
	s.wg.Add(1)
	workerName := contract.GetWorkerName(worker)

	go func() {
		defer s.wg.Done()

		for {
			if ctx.Err() != nil {
				s.log.Info(fmt.Sprintf("stopping: %s", workerName))
				return
			}

			err := func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = errors.ErrWorkerPanic
					}
				}()
				return worker.Run(ctx)
			}()

			if err == nil {
				s.log.Info("worker finished", "name", workerName)
				return
			}
			if ctx.Err() != nil {
				s.log.Info("worker stopped (context canceled)", "name", workerName)
				return
			}

			s.log.Warn("worker crashed, restarting", "name", workerName, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.restartInterval):
			}
		}
	}()
}

func (s *Supervisor) Stop() {
	if s.Cancel != nil {
		s.Cancel()
	}
}
