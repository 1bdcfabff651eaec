package models

// PushResult summarizes one upsert batch against the storage sink.
type PushResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
}

// Add folds another batch result into this one.
func (r *PushResult) Add(other PushResult) {
	r.Created += other.Created
	r.Updated += other.Updated
	r.Errors += other.Errors
}

// SourceStats counts raw and valid events for one source run.
type SourceStats struct {
	Source string `json:"source"`
	Raw    int    `json:"raw"`
	Valid  int    `json:"valid"`
}
