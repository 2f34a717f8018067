package model

// ToolName identifies a registered data-retrieval tool
type ToolName string

// ErrorKind classifies the failure of a single tool execution
type ErrorKind string

const (
	ErrorKindNone          ErrorKind = ""
	ErrorKindDataRetrieval ErrorKind = "data_retrieval"
	ErrorKindTimeout       ErrorKind = "timeout"
)
