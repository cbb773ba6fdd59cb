package agent

// priceBlockedMessage is the canned reply when price disclosure is blocked
// for the tenant.
const priceBlockedMessage = "I'm not able to share pricing over chat, but our team would be happy to go over costs with you directly. Would you like someone from the clinic to reach out?"

// ApplyPolicy runs deterministic backend overrides on the model's decision.
// It is authoritative: prompt-level compliance is requested during the decide
// step, but this guard runs unconditionally afterward because prompt-only
// compliance cannot be trusted for business-critical policy. Idempotent.
//
// Returns the (possibly replaced) decision and whether an override fired.
func ApplyPolicy(intent *ExtractedIntent, rules *ClinicRules, decision *Decision) (*Decision, bool) {
	if intent == nil || rules == nil || decision == nil {
		return decision, false
	}

	if intent.IntentGroup == IntentGroupBilling && !rules.AllowPrices {
		blocked := &Decision{
			DecisionType: DecisionBlockPrice,
			Message:      priceBlockedMessage,
			Actions:      []Action{},
			Confidence:   1,
		}
		overrode := decision.DecisionType != DecisionBlockPrice ||
			decision.Message != priceBlockedMessage ||
			decision.Confidence != 1
		return blocked, overrode
	}

	return decision, false
}
