package contract

import (
	"context"
	"reflect"
)

// Worker doesn't protect itself. It runs until its context is canceled
// or it fails; the Supervisor owns restarts and panic recovery.
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// for logging and supervision, so workers don't have to name themselves.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
