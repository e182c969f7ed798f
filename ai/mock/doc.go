// Package mock provides test double implementations of AI service interfaces.
//
// MockEmbedder returns deterministic unit vectors derived from a hash of the
// input text, so identical passages and queries land on identical points.
// MockResponder returns a canned reply and records every prompt it sees.
//
//	responder := mock.NewMockResponder("Alcoa reported ...")
//	provider := mock.NewMockProviderWithServices(nil, responder)
//	reply, _ := provider.Responder().Respond(ctx, prompt)
//	count := responder.CallCount()
package mock
