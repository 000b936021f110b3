package provisioning

import "fmt"

// Stage is the position of a run in the provisioning state machine:
//
//	START → IDENTITY_PROVISIONED → ANALYTICS_PROVISIONED → ROLE_PROVISIONED → RULE_PROVISIONED
//
// Any failure moves the run to FAILED. Both RULE_PROVISIONED and FAILED are terminal.
type Stage int

const (
	StageStart Stage = iota
	StageIdentityProvisioned
	StageAnalyticsProvisioned
	StageRoleProvisioned
	StageRuleProvisioned
	StageFailed
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageStart:
		return "START"
	case StageIdentityProvisioned:
		return "IDENTITY_PROVISIONED"
	case StageAnalyticsProvisioned:
		return "ANALYTICS_PROVISIONED"
	case StageRoleProvisioned:
		return "ROLE_PROVISIONED"
	case StageRuleProvisioned:
		return "RULE_PROVISIONED"
	case StageFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s Stage) Terminal() bool {
	return s == StageRuleProvisioned || s == StageFailed
}

// IdentityResult is produced by the identity phase.
type IdentityResult struct {
	ThingName      string
	ThingARN       string
	CertificateID  string
	CertificateARN string
	PolicyName     string
	CertsDir       string
}

// AnalyticsResult is produced by the analytics phase.
type AnalyticsResult struct {
	ChannelName   string
	ChannelARN    string
	DatastoreName string
	DatastoreARN  string
	PipelineName  string
	PipelineARN   string
	DatasetName   string
	DatasetARN    string
}

// RoleResult is produced by the execution role phase. ChannelName and
// ChannelResource record the single channel the role may write to.
type RoleResult struct {
	RoleName        string
	RoleID          string
	RoleARN         string
	PolicyARN       string
	ChannelName     string
	ChannelResource string
}

// RuleResult is produced by the routing rule phase.
type RuleResult struct {
	RuleName    string
	RuleARN     string
	ChannelName string
	RoleARN     string
}

// Failure records the phase and step that moved a run to FAILED.
type Failure struct {
	Phase string
	Step  string
	Cause error
}

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	Stage   Stage
	Failure *Failure

	Identity  *IdentityResult
	Analytics *AnalyticsResult
	Role      *RoleResult
	Rule      *RuleResult

	// DataEndpoint is the device-facing MQTT endpoint, looked up after success.
	DataEndpoint string
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{Stage: StageStart}
}

// Advance moves the run to next. Stages only move forward one step at a time.
func (s *State) Advance(next Stage) error {
	if s.Stage.Terminal() {
		return fmt.Errorf("cannot advance from terminal stage %s", s.Stage)
	}
	if next != s.Stage+1 {
		return fmt.Errorf("invalid stage transition %s → %s", s.Stage, next)
	}
	s.Stage = next
	return nil
}

// Fail moves the run to FAILED.
func (s *State) Fail(phase string, err error) {
	step := ""
	if se, ok := asStepError(err); ok {
		step = se.Step
	}
	s.Stage = StageFailed
	s.Failure = &Failure{Phase: phase, Step: step, Cause: err}
}
