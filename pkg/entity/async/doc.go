// Package async runs entity operations as tasks.
//
// Every operation starts on its own goroutine and returns a *Task. The
// caller continues and collects the outcome with Wait:
//
//	f, err := async.OpenFile("report.pdf").Wait(ctx)
//	if err != nil {
//	    return err
//	}
//	_, err = f.CopyNew("/backup/report.pdf").Wait(ctx)
//	if _, ok := entity.AsConflict(err); ok {
//	    _, err = async.Recover(err).Wait(ctx)
//	}
//
// Tasks run the same engine as package entity, so both forms produce the
// same trees and the same *entity.ConflictError values. A started task runs
// to completion; cancelling the context passed to Wait only stops waiting.
// A Runner created WithLimit queues excess tasks, which can be cancelled
// while still pending.
package async
