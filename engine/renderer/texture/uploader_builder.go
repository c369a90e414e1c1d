package texture

import "log"

// UploaderBuilderOption is a functional option used to configure an Uploader during construction.
type UploaderBuilderOption func(*uploader)

// WithLabel sets the debug label given to every texture created by the uploader.
//
// Parameters:
//   - label: the texture label
//
// Returns:
//   - UploaderBuilderOption: a function that applies the label option to an uploader
func WithLabel(label string) UploaderBuilderOption {
	return func(u *uploader) {
		u.label = label
	}
}

// WithLogger sets the logger that receives upload progress. A nil logger discards progress output.
//
// Parameters:
//   - logger: the destination logger
//
// Returns:
//   - UploaderBuilderOption: a function that applies the logger option to an uploader
func WithLogger(logger *log.Logger) UploaderBuilderOption {
	return func(u *uploader) {
		u.logger = logger
	}
}
