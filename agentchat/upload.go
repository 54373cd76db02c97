// Copyright (c) StackSpot. All rights reserved.

package agentchat

// UploadedFileRef is the handle for a successfully uploaded file. It is held
// only long enough to be embedded in the next inference request; deleting the
// remote object is never the uploader's responsibility.
type UploadedFileRef struct {
	// ID is the platform-issued file handle.
	ID string
	// Path is the original local path, for caller correlation.
	Path string
}

// UploadFailure attributes a failed upload to its original path.
type UploadFailure struct {
	Path string
	Err  error
}

// UploadResult reports the outcome of a batch upload. A failed file never
// aborts uploads that already completed; every failure is reported here,
// attributed to its path.
type UploadResult struct {
	Refs     []UploadedFileRef
	Failures []UploadFailure
}

// FileIDs returns the handles of all successful uploads, in completion order.
func (r *UploadResult) FileIDs() []string {
	ids := make([]string, 0, len(r.Refs))
	for _, ref := range r.Refs {
		ids = append(ids, ref.ID)
	}
	return ids
}

// AllFailed reports whether no file in the batch succeeded.
func (r *UploadResult) AllFailed() bool {
	return len(r.Refs) == 0 && len(r.Failures) > 0
}
