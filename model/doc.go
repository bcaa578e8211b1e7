// Package model maps model identifiers onto provider clients.
//
// Selection is a pure prefix rule: "gemini-" identifiers go to the Google
// Gemini API, "gpt-" identifiers go to an OpenAI-compatible endpoint, and
// everything else is replaced by [DefaultModel] on the OpenAI side.
//
//	sel, err := model.NewSelector(endpoint, apiKey)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	h, err := sel.Select(ctx, "gemini-2.0-flash")
//	// h.Family == model.FamilyGoogle, h.Provider implements ai.ChatProvider
//
// Tests inject their own providers with [WithFactory].
package model
