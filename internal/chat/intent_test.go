package chat

import "testing"

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		name    string
		message string
		reply   string
		want    Intent
	}{
		{
			name:    "affirmation token in message",
			message: "Yes, add it to my order",
			reply:   "Great choice!",
			want:    IntentOrderConfirmation,
		},
		{
			name: "user affirmation beats assistant solicitation",
			// Both sides match; rule 1 must win before rule 2 is evaluated.
			message: "yes please, but would you like fries?",
			reply:   "Would you like me to add fries to your order?",
			want:    IntentOrderConfirmation,
		},
		{
			name:    "assistant solicits confirmation",
			message: "how hot is the curry?",
			reply:   "It's quite mild. Would you like to try it?",
			want:    IntentOrderInquiry,
		},
		{
			name:    "plain menu question",
			message: "what desserts do you have?",
			reply:   "We have chocolate cake and tiramisu.",
			want:    IntentMenuInquiry,
		},
		{
			name:    "arabic affirmation",
			message: "نعم من فضلك",
			reply:   "ممتاز",
			want:    IntentOrderConfirmation,
		},
		{
			name:    "i want phrasing",
			message: "I want the lamb tagine",
			reply:   "Lovely pick.",
			want:    IntentOrderConfirmation,
		},
		{
			name:    "token match is case-insensitive",
			message: "SURE, why not",
			reply:   "Done.",
			want:    IntentOrderConfirmation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyIntent(tt.message, tt.reply); got != tt.want {
				t.Errorf("ClassifyIntent(%q, %q) = %q, want %q", tt.message, tt.reply, got, tt.want)
			}
		})
	}
}

func TestIntentRulePrecedenceOrder(t *testing.T) {
	// The rule list itself is the contract: user-confirmation first,
	// assistant-solicitation second.
	if len(intentRules) != 2 {
		t.Fatalf("intentRules has %d rules, want 2", len(intentRules))
	}
	if intentRules[0].intent != IntentOrderConfirmation || intentRules[0].source != fromUser {
		t.Error("first rule must classify user affirmations as order_confirmation")
	}
	if intentRules[1].intent != IntentOrderInquiry || intentRules[1].source != fromAssistant {
		t.Error("second rule must classify assistant solicitations as order_inquiry")
	}
}
