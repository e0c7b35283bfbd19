package engine

import "errors"

// errTaskMissing indicates a task was evicted between GetOrCreate's
// initial lookup and the singleflight-guarded refresh call running.
var errTaskMissing = errors.New("engine: task missing at refresh time")
