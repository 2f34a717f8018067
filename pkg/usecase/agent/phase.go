package agent

// phase tracks how far an invocation progressed, for logging and failure
// reporting
type phase string

const (
	phaseReceived          phase = "received"
	phaseToolsSelected     phase = "tools_selected"
	phaseDataRetrieved     phase = "data_retrieved"
	phaseContextEnhanced   phase = "context_enhanced"
	phaseCompletionInvoked phase = "completion_invoked"
	phaseResponded         phase = "responded"
)
