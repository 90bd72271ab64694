package main

// Exit codes used by all commands.
const (
	ExitSuccess       = 0 // Success
	ExitError         = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError   = 2 // Configuration error (bad language, invalid paths)
	ExitDataError     = 3 // Data error (malformed embeddings store, missing corpus)
	ExitModelNotFound = 4 // Embedding endpoint or model not available
)
