// Package analyticord provides a Go client for the Analyticord bot analytics API.
//
// A Client counts events in memory and submits the accumulated counts on a
// fixed schedule. It also exposes the API endpoints directly: login, event
// submission, data retrieval and bot lookups.
//
// # Quick Start
//
//	client, err := analyticord.NewClient("bot-token",
//	    analyticord.WithEvents("guildJoin", "guildLeave"),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := client.Start(ctx); err != nil {
//	    return err // login failed, nothing will be sent
//	}
//	defer client.Stop(context.Background())
//
//	// From a message handler
//	client.IncrementMessages()
//	// From a guild join handler
//	_ = client.Increment("guildJoin")
//
// Or build the client from the ANALYTICORD_* environment variables:
//
//	client, err := analyticord.NewClientFromEnv()
//
// # Error Handling
//
// Non-success responses are returned as *APIError, classified into one of
// the ErrorKind values the server documents. Unknown error names map to
// KindGeneric.
//
//	if analyticord.IsKind(err, analyticord.KindRateLimit) {
//	    // back off
//	}
//
//	var apiErr *analyticord.APIError
//	if errors.As(err, &apiErr) {
//	    log.Printf("%s: %s", apiErr.Name, apiErr.Description)
//	}
//
// Endpoints that need a user token fail with a *ConfigError wrapping
// ErrUserTokenRequired before any request is made.
//
// # Background Errors
//
// Failures of the periodic flush are logged. To observe them as well:
//
//	client, err := analyticord.NewClient(token, analyticord.WithOnError(func(err error) {
//	    log.Printf("analyticord flush failed: %v", err)
//	}))
package analyticord
