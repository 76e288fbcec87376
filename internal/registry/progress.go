package registry

// LoadResult summarizes a Load replay.
type LoadResult struct {
	Bundles int  // bundles reconstructed
	Assets  int  // assets reconstructed
	Skipped int  // records rejected by validation
	Partial bool // replay stopped early because the context was done
}

// Progress receives notifications during Load. Calls happen synchronously
// on the loading goroutine. Indices are 1-based.
type Progress interface {
	BundleLoading(i, n int)
	AssetLoading(i, n int)
	LoadCompleted(result LoadResult)
}

// ProgressFuncs adapts plain functions to Progress. Nil fields are skipped.
type ProgressFuncs struct {
	Bundle    func(i, n int)
	Asset     func(i, n int)
	Completed func(result LoadResult)
}

func (p ProgressFuncs) BundleLoading(i, n int) {
	if p.Bundle != nil {
		p.Bundle(i, n)
	}
}

func (p ProgressFuncs) AssetLoading(i, n int) {
	if p.Asset != nil {
		p.Asset(i, n)
	}
}

func (p ProgressFuncs) LoadCompleted(result LoadResult) {
	if p.Completed != nil {
		p.Completed(result)
	}
}
