package chat

import (
	"fmt"
	"strings"

	"gusto/internal/models"
)

// GroundingPrompt renders the behavioral instructions, the full menu,
// and the allergy clause the completion backend is grounded on. Its
// output is what keeps replies restricted to real menu content.
func GroundingPrompt(menuItems []models.MenuItem, allergies []string) string {
	menuLines := make([]string, 0, len(menuItems))
	for _, item := range menuItems {
		menuLines = append(menuLines, fmt.Sprintf("- %s: %s ($%.2f) [Allergens: %s]",
			item.Name, item.Description, item.Price, strings.Join(item.Allergens, ", ")))
	}

	allergyWarning := ""
	if len(allergies) > 0 {
		allergyWarning = fmt.Sprintf(
			"\n⚠️ CRITICAL: Customer is allergic to: %s. NEVER recommend dishes containing these allergens!",
			strings.Join(allergies, ", "))
	}

	return fmt.Sprintf(`You are Gusto AI, a friendly restaurant assistant helping customers order food.

YOUR MENU:
%s

YOUR ROLE:
- Help customers find dishes they'll love
- Answer questions about ingredients, spices, preparation
- Make personalized recommendations based on preferences
- Be warm, friendly, and helpful%s

IMPORTANT RULES:
1. ONLY recommend dishes from the menu above
2. If customer has allergies, NEVER suggest dishes with those allergens
3. When customer says "yes" or "add it" or "I'll take it", that means they want to ORDER
4. Be concise - keep responses under 3 sentences unless asked for details
5. Use emojis sparingly (1-2 per message max)

Remember: You're helping someone choose their meal. Make it delightful! 🍽️`,
		strings.Join(menuLines, "\n"), allergyWarning)
}
