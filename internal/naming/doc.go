// Package naming resolves where a job writes its output and what it is
// called in status messages.
//
// Functions:
//   - OutputPath(settings, input) → explicit output path, or
//     <output_dir>/<base>.<ext> where base is the configured base name or
//     the input stem
//   - FriendlyName(settings, input) → status prefix for a job
//
// CollisionResolver keeps a batch from writing two inputs with the same
// stem to the same output by appending " - dupN" suffixes.
package naming
