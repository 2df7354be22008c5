package tempo

import "github.com/xraph/tempo/job"

// Handle is an opaque, non-owning reference to a submitted job, used solely
// to request its cancellation. The handle indirects through a stable key
// into the store's index, so the job's lifetime is governed by the store
// alone: once the job has executed or been swept, the handle is stale and
// Cancel becomes a no-op. The zero Handle is stale.
type Handle struct {
	key uint64
	j   *job.Job
}

// Job returns the submitted job's immutable description, or nil for the
// zero Handle. The returned value reflects submission time; it says nothing
// about whether the job has since run or been canceled.
func (h Handle) Job() *job.Job { return h.j }
