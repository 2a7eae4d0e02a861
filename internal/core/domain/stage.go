package domain

// Acquisition stages, attached as "stage" metadata to acquisition errors.
const (
	StageDownload  = "download"
	StageSignature = "signature"
	StageExtract   = "extract"
	StageCommit    = "commit"

	// StageCache covers inspecting the cache and creating staging directories.
	StageCache = "cache"
)
