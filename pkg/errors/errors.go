package errors

// Error message constants for the jig application
const (
	// File processing errors
	ErrMsgFailedToReadFile    = "failed to read file"
	ErrMsgFailedToScanFile    = "failed to scan file"
	ErrMsgFailedToWriteFile   = "failed to write file"
	ErrMsgNotASourceFile      = "not a recognized source file (see extensions in jig.yml)"
	ErrMsgFilesFailedToGroup  = "%d files failed to process"
	ErrMsgFilesNeedRegrouping = "%d files have ungrouped imports"

	// Path and configuration errors
	ErrMsgFailedToCheckPath  = "failed to check path"
	ErrMsgFailedToFindFiles  = "failed to find source files in directory"
	ErrMsgFailedToLoadConfig = "failed to load configuration"

	// Info/warning messages
	InfoMsgNoFilesFound    = "No source files found in: %s"
	InfoMsgWouldRewrite    = "Would rewrite %s"
	InfoMsgRewrote         = "Rewrote %s"
	InfoMsgErrorProcessing = "Error processing %s: %v"
	InfoMsgCheckedCount    = "Checked %d files"
	InfoMsgChangedCount    = ", %d changed"
	InfoMsgErrorCount      = ", %d errors"
	InfoMsgWatching        = "Watching for changes... (Press Ctrl+C to exit)"
	WarnMsgCacheDisabled   = "Warning: cache unavailable, scanning every file: %v"
)
