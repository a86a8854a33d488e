package domain

import "time"

// Step is the position of the guided interview.
type Step string

const (
	StepIdle          Step = "IDLE"
	StepAskingSector  Step = "ASKING_SECTOR"
	StepAskingRegion  Step = "ASKING_REGION"
	StepAskingRevenue Step = "ASKING_REVENUE"
	StepAskingTeam    Step = "ASKING_TEAM"
)

type ConversationState struct {
	Step Step `json:"step"`
}

// Idle is the resting conversation state.
func Idle() ConversationState { return ConversationState{Step: StepIdle} }

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatMessage struct {
	ID                string             `json:"id"`
	Role              Role               `json:"role"`
	Content           string             `json:"content"`
	GroundingMetadata *GroundingMetadata `json:"groundingMetadata,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
}

type GroundingMetadata struct {
	GroundingChunks []GroundingChunk `json:"groundingChunks,omitempty"`
}

type GroundingChunk struct {
	Web *WebSource `json:"web,omitempty"`
}

type WebSource struct {
	URI    string `json:"uri"`
	Title  string `json:"title"`
	Domain string `json:"domain,omitempty"`
}

// UnreachableReply is shown whenever the AI gateway cannot be used.
const UnreachableReply = "I couldn't reach the AI server. Please check your connection."

// GatewayMode selects the gateway behaviour for a request.
type GatewayMode string

const (
	ModeChat     GatewayMode = ""
	ModeGutCheck GatewayMode = "gut_check"
)

// GatewayContext is the valuation snapshot sent alongside a gateway request.
type GatewayContext struct {
	Sector          Sector           `json:"sector"`
	Region          Region           `json:"region"`
	VCInputs        *VCMethodInputs  `json:"vcInputs,omitempty"`
	ScorecardInputs *ScorecardInputs `json:"scorecardInputs,omitempty"`
}

type GatewayRequest struct {
	Message string         `json:"message"`
	Context GatewayContext `json:"context"`
	Mode    GatewayMode    `json:"mode,omitempty"`
}

type GatewayAnswer struct {
	Text              string             `json:"text"`
	GroundingMetadata *GroundingMetadata `json:"groundingMetadata,omitempty"`
}
