// Package file stores project templates, base manifests and generated
// artifacts behind a small slash-path keyed Storage interface.
//
// Two backends are provided:
//
//   - LocalStorage confines every path to a base directory and writes files
//     atomically through a temporary sibling.
//   - S3Storage reads and writes objects in an S3 bucket (or an S3-compatible
//     service via Endpoint and ForcePathStyle) using aws-sdk-go-v2, with an
//     optional key prefix.
//
// Paths are always relative to the storage root. A leading slash is ignored
// and any ".." segment is rejected with ErrInvalidPath. Reads are bounded by
// DefaultMaxReadSize unless overridden.
//
//	store, err := file.NewS3Storage(ctx, file.S3Config{Bucket: "forge", Region: "eu-central-1"})
//	if err != nil {
//		return err
//	}
//	data, err := store.Read(ctx, "templates/backend/package.json")
//	if errors.Is(err, file.ErrFileNotFound) {
//		// no base manifest for this target
//	}
//
// SDK errors are mapped onto package sentinels (ErrFileNotFound,
// ErrAccessDenied, ErrServiceUnavailable and so on) so callers never need to
// inspect smithy error codes.
package file
