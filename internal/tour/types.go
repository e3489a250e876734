package tour

// Steps is the ordered list of onboarding tour step ids the dashboard walks
// a first-time user through. Step content lives in the client; the server
// only sequences ids so every device resumes at the same place.
var Steps = []string{
	"welcome",
	"starred-feed",
	"create-radar",
	"radar-picker",
	"releases-feed",
}

// ProgressResponseData is the tour progress the API returns.
type ProgressResponseData struct {
	StepIndex  int32  `json:"step_index"`
	StepID     string `json:"step_id"`
	TotalSteps int    `json:"total_steps"`
	Completed  bool   `json:"completed"`
}
