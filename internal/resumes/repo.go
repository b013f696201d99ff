package resumes

import "context"

// Repo caches parse results keyed by file name and content fingerprint, so
// rescanning an unchanged folder skips extraction and AI calls.
type Repo interface {
	Get(ctx context.Context, fileName, fingerprint string) (Resume, error)
	Put(ctx context.Context, fileName, fingerprint string, resume Resume) error
	Delete(ctx context.Context, fileName string) error
}
