package chat

import "strings"

// Intent classifies what the diner is doing in a turn.
type Intent string

const (
	// IntentOrderConfirmation: the user's message itself asks to order.
	IntentOrderConfirmation Intent = "order_confirmation"
	// IntentOrderInquiry: the assistant's reply is soliciting an order
	// confirmation.
	IntentOrderInquiry Intent = "order_inquiry"
	// IntentMenuInquiry: everything else.
	IntentMenuInquiry Intent = "menu_inquiry"
)

// ruleSource selects which side of the exchange a rule scans.
type ruleSource int

const (
	fromUser ruleSource = iota
	fromAssistant
)

// intentRule matches when any of its tokens appears as a substring of
// the lower-cased source text. Token order within a rule is irrelevant.
type intentRule struct {
	intent Intent
	source ruleSource
	tokens []string
}

// intentRules is evaluated top to bottom; the first matching rule wins.
// Rule precedence is part of the contract: an order token in the user
// message always beats a solicitation phrase in the reply.
var intentRules = []intentRule{
	{
		intent: IntentOrderConfirmation,
		source: fromUser,
		tokens: []string{
			"yes", "yeah", "sure", "ok", "okay", "add it", "ill take it",
			"i want", "give me", "order", "get me", "نعم", "طيب", "أريد",
		},
	},
	{
		intent: IntentOrderInquiry,
		source: fromAssistant,
		tokens: []string{"add", "order", "would you like", "want me to"},
	},
}

// ClassifyIntent derives the turn's intent from the raw user message
// and the generated reply.
func ClassifyIntent(userMessage, aiReply string) Intent {
	message := strings.ToLower(userMessage)
	reply := strings.ToLower(aiReply)

	for _, rule := range intentRules {
		text := message
		if rule.source == fromAssistant {
			text = reply
		}
		for _, token := range rule.tokens {
			if strings.Contains(text, token) {
				return rule.intent
			}
		}
	}
	return IntentMenuInquiry
}
