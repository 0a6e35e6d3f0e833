package pypi

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/pypeek/pypeek/pkg/store"
)

// DownloadResult is the outcome for one package of a batch download.
// Exactly one of Stored, Skipped, or a non-nil Err applies.
type DownloadResult struct {
	Name    string `json:"name"`
	Stored  bool   `json:"stored"`
	Skipped bool   `json:"skipped"` // already present in the store
	Err     error  `json:"-"`
}

// DownloadReport is the outcome of a batch download: a job ID plus one
// result per requested package. Failures are reported per item; they never
// abort the batch and are never silently dropped.
type DownloadReport struct {
	JobID   string           `json:"job_id"`
	Results []DownloadResult `json:"results"`
}

// Stored returns the number of packages fetched and stored.
func (r *DownloadReport) Stored() int { return r.count(func(x DownloadResult) bool { return x.Stored }) }

// Skipped returns the number of packages already present.
func (r *DownloadReport) Skipped() int {
	return r.count(func(x DownloadResult) bool { return x.Skipped })
}

// Failed returns the number of packages that errored.
func (r *DownloadReport) Failed() int {
	return r.count(func(x DownloadResult) bool { return x.Err != nil })
}

func (r *DownloadReport) count(pred func(DownloadResult) bool) int {
	n := 0
	for _, x := range r.Results {
		if pred(x) {
			n++
		}
	}
	return n
}

// DownloadOptions configures a batch download.
type DownloadOptions struct {
	// Refresh re-fetches and overwrites packages already in the store.
	Refresh bool
	// Progress, if set, is called after each package with its position,
	// the total, and the result.
	Progress func(i, n int, res DownloadResult)
}

// DownloadInfos fetches the raw info document for each named package and
// writes it into st, skipping names already stored unless Refresh is set.
// The batch runs to completion regardless of individual failures; the
// caller inspects the report and decides whether to log, retry, or abort.
//
// Only context cancellation stops the batch early, returning the partial
// report alongside ctx.Err().
func DownloadInfos(ctx context.Context, c *Client, st store.Store, names []string, opts DownloadOptions) (*DownloadReport, error) {
	report := &DownloadReport{JobID: uuid.NewString()}

	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := download(ctx, c, st, name, opts.Refresh)
		report.Results = append(report.Results, res)
		if opts.Progress != nil {
			opts.Progress(i+1, len(names), res)
		}
	}
	return report, nil
}

func download(ctx context.Context, c *Client, st store.Store, name string, refresh bool) DownloadResult {
	res := DownloadResult{Name: name}

	if !refresh {
		if ok, err := st.Has(ctx, name); err != nil {
			res.Err = err
			return res
		} else if ok {
			res.Skipped = true
			return res
		}
	}

	doc, err := c.FetchRawInfo(ctx, name, refresh)
	if err != nil {
		res.Err = err
		return res
	}
	data, err := json.Marshal(doc)
	if err != nil {
		res.Err = err
		return res
	}
	if err := st.Set(ctx, name, data); err != nil {
		res.Err = err
		return res
	}
	res.Stored = true
	return res
}
