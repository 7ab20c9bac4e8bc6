package classifier

import (
	"context"
	"runtime"
	"sync"
)

// ClassifyBatch classifies texts concurrently with multiplicative
// scoring. Predictions come back in input order. workers <= 0 means one
// worker per CPU. Cancelling the context stops dispatch and returns
// ctx.Err(); already started messages still finish.
func (m *Model) ClassifyBatch(ctx context.Context, texts []string, workers int) ([]Prediction, error) {
	return m.classifyBatch(ctx, texts, workers, false)
}

// ClassifyBatchLog is ClassifyBatch with log-domain scoring.
func (m *Model) ClassifyBatchLog(ctx context.Context, texts []string, workers int) ([]Prediction, error) {
	return m.classifyBatch(ctx, texts, workers, true)
}

func (m *Model) classifyBatch(ctx context.Context, texts []string, workers int, logSpace bool) ([]Prediction, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(texts) {
		workers = len(texts)
	}

	type job struct {
		index int
		text  string
	}

	jobChan := make(chan job, workers)
	results := make([]Prediction, len(texts))

	// Each index is written by exactly one worker, so the slice needs
	// no locking.
	var workerWG sync.WaitGroup
	for i := 0; i < workers; i++ {
		workerWG.Add(1)
		go func() {
			defer workerWG.Done()
			for j := range jobChan {
				results[j.index] = m.score(Tokenize(j.text), logSpace)
			}
		}()
	}

	var dispatchErr error
dispatch:
	for i, text := range texts {
		select {
		case <-ctx.Done():
			dispatchErr = ctx.Err()
			break dispatch
		case jobChan <- job{index: i, text: text}:
		}
	}
	close(jobChan)
	workerWG.Wait()

	if dispatchErr != nil {
		return nil, dispatchErr
	}
	return results, nil
}
