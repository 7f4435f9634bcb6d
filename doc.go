// Package emailnator provides a Go client for Emailnator, a disposable email
// web service.
//
// The client behaves like a browser session: [New] loads the homepage,
// collects the XSRF-TOKEN cookie and sends it back in the X-XSRF-TOKEN header
// of every API call. Cookies set by the service are kept in the client's
// cookie jar for the lifetime of the session.
//
// Basic usage:
//
//	client, err := emailnator.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Generate a temporary address
//	emails, err := client.CreateEmails(ctx, []emailnator.EmailKind{emailnator.Domain}, 1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// List its inbox
//	inbox, err := client.FetchInbox(ctx, emails[0])
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, m := range inbox.Delivered() {
//	    body, _ := client.ReadMessage(ctx, emails[0], m.ID)
//	    fmt.Println(m.Subject, len(body))
//	}
//
// # Rate Limiting
//
// The service throttles aggressively. Throttling is reported as
// [ErrRateLimited], both when no XSRF cookie is issued by [New] and when a
// call is answered with 429 Too Many Requests. The client never retries;
// wrap calls in [Retry] or your own backoff loop.
package emailnator
