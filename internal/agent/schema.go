package agent

import "github.com/google/generative-ai-go/genai"

// ToolSchema pairs a tool name with the declaration forced onto the model.
// The registry below is pure data; nothing mutates it at runtime. The
// provider schema cannot express additionalProperties, so unknown fields are
// rejected by the boundary parsers instead (see intent.go, decision.go).
type ToolSchema struct {
	Name        string
	Description string
	Declaration *genai.FunctionDeclaration
}

const (
	extractIntentToolName    = "extract_intent"
	decideNextActionToolName = "decide_next_action"
)

var intentGroupValues = []string{
	string(IntentGroupScheduling),
	string(IntentGroupBilling),
	string(IntentGroupClinical),
	string(IntentGroupTestResults),
	string(IntentGroupGeneral),
}

var decisionTypeValues = []string{
	string(DecisionAskMissing),
	string(DecisionBlockPrice),
	string(DecisionHandoff),
	string(DecisionProceed),
}

// ExtractIntentTool is the step-1 contract: classify the message and pull
// structured slots out of it.
var ExtractIntentTool = &ToolSchema{
	Name:        extractIntentToolName,
	Description: "Classify the patient's message intent and extract structured slots.",
	Declaration: &genai.FunctionDeclaration{
		Name:        extractIntentToolName,
		Description: "Classify the patient's message intent and extract structured slots.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"intent_group": {
					Type:        genai.TypeString,
					Enum:        intentGroupValues,
					Description: "Closed category for the message intent.",
				},
				"intent": {
					Type:        genai.TypeString,
					Description: "Short free-form label for the specific intent.",
				},
				"slots": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"patient_name":   {Type: genai.TypeString, Description: "Patient's stated name."},
						"phone":          {Type: genai.TypeString, Description: "Callback phone number if given."},
						"preferred_date": {Type: genai.TypeString, Description: "Requested appointment date."},
						"preferred_time": {Type: genai.TypeString, Description: "Requested appointment time."},
						"procedure":      {Type: genai.TypeString, Description: "Procedure or service mentioned."},
						"symptom":        {Type: genai.TypeString, Description: "Clinical symptom described."},
						"billing_item":   {Type: genai.TypeString, Description: "Invoice, charge, or price subject."},
						"test_type":      {Type: genai.TypeString, Description: "Lab or test the patient asks about."},
					},
				},
				"missing_fields": {
					Type:        genai.TypeArray,
					Items:       &genai.Schema{Type: genai.TypeString},
					Description: "Slot names the message did not provide.",
				},
				"confidence": {
					Type:        genai.TypeNumber,
					Description: "Extraction confidence between 0 and 1.",
				},
			},
			Required: []string{"intent_group", "intent", "confidence"},
		},
	},
}

// DecideNextActionTool is the step-2 contract: given the extracted intent and
// clinic rules, choose the reply and side-effect actions.
var DecideNextActionTool = &ToolSchema{
	Name:        decideNextActionToolName,
	Description: "Decide the reply to send and the backend actions to take.",
	Declaration: &genai.FunctionDeclaration{
		Name:        decideNextActionToolName,
		Description: "Decide the reply to send and the backend actions to take.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"decision_type": {
					Type:        genai.TypeString,
					Enum:        decisionTypeValues,
					Description: "Kind of decision taken.",
				},
				"message": {
					Type:        genai.TypeString,
					Description: "Short user-facing reply text.",
				},
				"actions": {
					Type:        genai.TypeArray,
					Description: "Ordered side-effect descriptors for the caller to execute.",
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"type": {Type: genai.TypeString, Description: "Action identifier."},
							"payload": {
								Type:        genai.TypeObject,
								Description: "Optional action arguments.",
								Properties: map[string]*genai.Schema{
									"service": {Type: genai.TypeString, Description: "Service or procedure involved."},
									"date":    {Type: genai.TypeString, Description: "Date the action relates to."},
									"time":    {Type: genai.TypeString, Description: "Time the action relates to."},
									"reason":  {Type: genai.TypeString, Description: "Why the action is needed."},
									"note":    {Type: genai.TypeString, Description: "Free-form note for staff."},
								},
							},
						},
						Required: []string{"type"},
					},
				},
				"confidence": {
					Type:        genai.TypeNumber,
					Description: "Decision confidence between 0 and 1.",
				},
			},
			Required: []string{"decision_type", "message"},
		},
	},
}
